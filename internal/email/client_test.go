package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddc-crew/tournament-planner/internal/domain"
)

const testRetryDelay = 10 * time.Millisecond

func testMessage(t *testing.T) Message {
	t.Helper()
	recipient, err := domain.ParseUserEmail("player@example.com")
	require.NoError(t, err)
	return Message{
		Recipient: recipient,
		Subject:   "Tournament update",
		HTMLBody:  "<p>See the schedule.</p>",
		TextBody:  "See the schedule.",
	}
}

func newTestClient(t *testing.T, baseURL string, retries int) *Client {
	t.Helper()
	sender, err := domain.ParseUserEmail("noreply@example.com")
	require.NoError(t, err)
	return NewClient(baseURL, "secret-token", sender, time.Second, retries, testRetryDelay)
}

func TestSendPostsExpectedPayload(t *testing.T) {
	var got map[string]string
	var token string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/email", r.URL.Path)
		token = r.Header.Get("X-Server-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	require.NoError(t, client.Send(context.Background(), testMessage(t)))

	assert.Equal(t, "secret-token", token)
	assert.Equal(t, map[string]string{
		"From":     "noreply@example.com",
		"To":       "player@example.com",
		"Subject":  "Tournament update",
		"HtmlBody": "<p>See the schedule.</p>",
		"TextBody": "See the schedule.",
	}, got)
}

func TestSendExhaustsRetriesOnPersistentServerErrors(t *testing.T) {
	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	const retries = 2
	client := newTestClient(t, server.URL, retries)
	start := time.Now()
	err := client.Send(context.Background(), testMessage(t))

	require.ErrorIs(t, err, ErrExhausted)
	assert.EqualValues(t, retries+1, attempts.Load(), "one initial attempt plus the configured retries")
	assert.GreaterOrEqual(t, time.Since(start), time.Duration(retries)*testRetryDelay)
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 5)
	err := client.Send(context.Background(), testMessage(t))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.EqualValues(t, 1, attempts.Load(), "4xx must fail on the first attempt")
}

func TestSendRecoversAfterTransientFailure(t *testing.T) {
	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)
	err := client.Send(context.Background(), testMessage(t))

	require.NoError(t, err)
	assert.EqualValues(t, 2, attempts.Load())
}

func TestSendTreatsConnectionErrorsAsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	client := newTestClient(t, server.URL, 1)
	err := client.Send(context.Background(), testMessage(t))

	assert.ErrorIs(t, err, ErrExhausted)
}
