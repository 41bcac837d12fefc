package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User mirrors the users table. password_hash is a self-describing PHC
// string, never a raw password. email is optional: accounts without one
// simply receive no notifications.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"user_id,pk,type:uuid"`
	Username     string    `bun:"username,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Email        *string   `bun:"email"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:now()"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:now()"`
}
