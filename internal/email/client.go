// Package email sends transactional messages through a remote HTTP email API
// with bounded retry on transient failure.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ddc-crew/tournament-planner/internal/domain"
)

// ErrExhausted is returned when every retry of a transient failure has been
// spent. It wraps the last underlying attempt error.
var ErrExhausted = errors.New("email delivery retries exhausted")

// Message is one outbound notification, immutable once built.
type Message struct {
	Recipient domain.UserEmail
	Subject   string
	HTMLBody  string
	TextBody  string
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// statusError is a non-2xx response from the email API. Codes below 500 are
// permanent; retrying them cannot help.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("email api responded with status %d", e.code)
}

// Client talks to the email-sending API. Duplicate delivery on a
// false-negative transient failure is an accepted risk; sends are not
// idempotent.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	serverToken string
	sender      domain.UserEmail
	sendRetries uint64
	retryDelay  time.Duration
}

func NewClient(baseURL, serverToken string, sender domain.UserEmail, timeout time.Duration, sendRetries int, retryDelay time.Duration) *Client {
	if sendRetries < 0 {
		sendRetries = 0
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		serverToken: serverToken,
		sender:      sender,
		sendRetries: uint64(sendRetries),
		retryDelay:  retryDelay,
	}
}

// Send delivers msg. Transient failures (connection errors, timeouts, 5xx)
// are retried up to the configured count with a fixed delay between attempts;
// 4xx responses fail immediately. When retries run out the returned error
// matches ErrExhausted and carries the last cause.
func (c *Client) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(sendEmailRequest{
		From:     c.sender.String(),
		To:       msg.Recipient.String(),
		Subject:  msg.Subject,
		HTMLBody: msg.HTMLBody,
		TextBody: msg.TextBody,
	})
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}

	backoff := retry.WithMaxRetries(c.sendRetries, retry.NewConstant(c.retryDelay))

	var lastTransient error
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptErr := c.attempt(ctx, payload)
		if attemptErr == nil {
			return nil
		}
		if isTransient(attemptErr) {
			lastTransient = attemptErr
			return retry.RetryableError(attemptErr)
		}
		return attemptErr
	})
	if err == nil {
		return nil
	}
	if lastTransient != nil && errors.Is(err, lastTransient) {
		return fmt.Errorf("%w: %w", ErrExhausted, lastTransient)
	}
	return fmt.Errorf("send email: %w", err)
}

func (c *Client) attempt(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &statusError{code: resp.StatusCode}
}

// isTransient classifies attempt failures: 5xx and transport-level errors
// (connection reset, timeout) are worth retrying, 4xx are not.
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	return true
}
