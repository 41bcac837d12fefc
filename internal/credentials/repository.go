// Package credentials is the persistence adapter for credential records:
// the (user_id, username, password_hash) rows the authentication core reads
// and, in exactly one place, overwrites.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/ddc-crew/tournament-planner/internal/database"
)

var ErrNotFound = errors.New("credential record not found")

// Record is a single persisted credential row. Email is optional and only
// used for account notifications.
type Record struct {
	UserID       uuid.UUID
	Username     string
	PasswordHash string
	Email        *string
}

// Repository reads and writes credential records through Bun.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// GetByUsername returns the credential record for username, or ErrNotFound.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Record, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get credentials by username: %w", err)
	}

	return mapDBUserToRecord(dbUser), nil
}

// GetByID returns the credential record for a user id, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("user_id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get credentials by id: %w", err)
	}

	return mapDBUserToRecord(dbUser), nil
}

// UpdatePasswordHash overwrites the stored hash for a user in a single
// UPDATE. It is the only mutation the authentication core performs.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, newHash string) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("password_hash = ?", newHash).
		Set("updated_at = NOW()").
		Where("user_id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password hash rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Create inserts a credential record. Account provisioning happens outside
// the authentication core; this exists for seeding and tests.
func (r *Repository) Create(ctx context.Context, rec *Record) error {
	dbUser := &database.User{
		ID:           rec.UserID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		Email:        rec.Email,
	}

	if _, err := r.db.NewInsert().Model(dbUser).Exec(ctx); err != nil {
		return fmt.Errorf("create credential record: %w", err)
	}
	return nil
}

func mapDBUserToRecord(dbu *database.User) *Record {
	return &Record{
		UserID:       dbu.ID,
		Username:     dbu.Username,
		PasswordHash: dbu.PasswordHash,
		Email:        dbu.Email,
	}
}
