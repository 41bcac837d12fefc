package auth

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ddc-crew/tournament-planner/internal/credentials"
	"github.com/ddc-crew/tournament-planner/internal/domain"
	"github.com/ddc-crew/tournament-planner/internal/email"
)

const (
	minNewPasswordLength = 12
	maxNewPasswordLength = 128
)

// ChangePassword re-proves possession of the current password, then replaces
// the stored hash in a single update. All validation happens before the one
// mutating step, so any failure leaves the record untouched.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword, newPasswordCheck string) error {
	if newPassword != newPasswordCheck {
		return ErrPasswordMismatch
	}
	if n := utf8.RuneCountInString(newPassword); n < minNewPasswordLength || n > maxNewPasswordLength {
		return ErrWeakPassword
	}

	rec, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up account for password change: %w", err)
	}
	username, err := domain.ParseUserName(rec.Username)
	if err != nil {
		return fmt.Errorf("stored username failed validation: %w", err)
	}

	if _, err := s.Authenticate(ctx, username, currentPassword); err != nil {
		return err
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}
	if err := s.store.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return fmt.Errorf("persist new password hash: %w", err)
	}

	s.notifyPasswordChanged(ctx, rec)
	return nil
}

// notifyPasswordChanged emails the account, when it has an address on file.
// The change is already committed, so delivery failure is logged, not
// propagated.
func (s *Service) notifyPasswordChanged(ctx context.Context, rec *credentials.Record) {
	if s.notifier == nil || rec.Email == nil {
		return
	}

	recipient, err := domain.ParseUserEmail(*rec.Email)
	if err != nil {
		s.logger.Warn("stored account email failed validation", "user_id", rec.UserID.String())
		return
	}

	msg := email.Message{
		Recipient: recipient,
		Subject:   "Your password has been changed",
		HTMLBody: "<p>The password for your tournament-planner account was just changed.</p>" +
			"<p>If this was not you, contact the organizers immediately.</p>",
		TextBody: "The password for your tournament-planner account was just changed.\n" +
			"If this was not you, contact the organizers immediately.",
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Error("password change notification failed",
			"user_id", rec.UserID.String(),
			"error", err.Error(),
		)
	}
}
