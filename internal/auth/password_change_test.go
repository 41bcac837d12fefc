package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	currentPassword = "the old password 123"
	newPassword     = "a brand new password"
)

func TestChangePasswordSuccess(t *testing.T) {
	store := newFakeStore()
	rec := seedUser(t, store, "alice", currentPassword, nil)
	svc := newTestService(store, nil)

	err := svc.ChangePassword(context.Background(), rec.UserID, currentPassword, newPassword, newPassword)
	require.NoError(t, err)

	require.Contains(t, store.updates, rec.UserID)
	hasher := testHasher()
	assert.NoError(t, hasher.Verify(newPassword, rec.PasswordHash), "new password must verify")
	assert.Error(t, hasher.Verify(currentPassword, rec.PasswordHash), "old password must no longer verify")
}

func TestChangePasswordMismatchedConfirmation(t *testing.T) {
	store := newFakeStore()
	rec := seedUser(t, store, "alice", currentPassword, nil)
	svc := newTestService(store, nil)

	err := svc.ChangePassword(context.Background(), rec.UserID, currentPassword, newPassword, newPassword+"x")

	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Empty(t, store.updates, "failed validation must not mutate the stored hash")
}

func TestChangePasswordLengthPolicy(t *testing.T) {
	store := newFakeStore()
	rec := seedUser(t, store, "alice", currentPassword, nil)
	svc := newTestService(store, nil)

	for name, candidate := range map[string]string{
		"too short": strings.Repeat("a", 11),
		"too long":  strings.Repeat("a", 129),
	} {
		t.Run(name, func(t *testing.T) {
			err := svc.ChangePassword(context.Background(), rec.UserID, currentPassword, candidate, candidate)

			assert.ErrorIs(t, err, ErrWeakPassword)
		})
	}

	assert.Empty(t, store.updates)
}

func TestChangePasswordWrongCurrentPassword(t *testing.T) {
	store := newFakeStore()
	rec := seedUser(t, store, "alice", currentPassword, nil)
	svc := newTestService(store, nil)

	err := svc.ChangePassword(context.Background(), rec.UserID, "not the current password", newPassword, newPassword)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, store.updates)
}

func TestChangePasswordUnknownUserIsUnexpected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	err := svc.ChangePassword(context.Background(), uuid.New(), currentPassword, newPassword, newPassword)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordSendsNotification(t *testing.T) {
	store := newFakeStore()
	addr := "alice@example.com"
	rec := seedUser(t, store, "alice", currentPassword, &addr)
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	err := svc.ChangePassword(context.Background(), rec.UserID, currentPassword, newPassword, newPassword)
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, addr, notifier.sent[0].Recipient.String())
	assert.Equal(t, "Your password has been changed", notifier.sent[0].Subject)
	assert.NotEmpty(t, notifier.sent[0].TextBody)
}

func TestChangePasswordNotificationFailureDoesNotRollBack(t *testing.T) {
	store := newFakeStore()
	addr := "alice@example.com"
	rec := seedUser(t, store, "alice", currentPassword, &addr)
	notifier := &fakeNotifier{sendErr: errors.New("email api down")}
	svc := newTestService(store, notifier)

	err := svc.ChangePassword(context.Background(), rec.UserID, currentPassword, newPassword, newPassword)

	require.NoError(t, err, "delivery failure must not fail the committed change")
	assert.Contains(t, store.updates, rec.UserID)
}

func TestChangePasswordSkipsNotificationWithoutEmail(t *testing.T) {
	store := newFakeStore()
	rec := seedUser(t, store, "alice", currentPassword, nil)
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	err := svc.ChangePassword(context.Background(), rec.UserID, currentPassword, newPassword, newPassword)

	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}
