package domain

import (
	"net/mail"
)

const maxEmailLength = 254

// UserEmail is a validated email address. Construct with ParseUserEmail.
type UserEmail struct {
	value string
}

// ParseUserEmail validates untrusted input as an email address. Display-name
// forms ("Alice <alice@example.com>") are rejected, only the bare address is
// accepted.
func ParseUserEmail(raw string) (UserEmail, error) {
	if raw == "" || len(raw) > maxEmailLength {
		return UserEmail{}, &ValidationError{Kind: InvalidEmail, Value: raw}
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return UserEmail{}, &ValidationError{Kind: InvalidEmail, Value: raw}
	}
	return UserEmail{value: raw}, nil
}

func (e UserEmail) String() string {
	return e.value
}
