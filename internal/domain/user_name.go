package domain

import (
	"strings"
	"unicode/utf8"
)

const maxNameLength = 256

// Characters that would let a name leak into SQL fragments or markup when
// rendered. Names containing any of them are rejected outright.
const forbiddenNameChars = `/()"<>\{}`

// UserName is a validated display/login name. Construct with ParseUserName.
type UserName struct {
	value string
}

// ParseUserName validates untrusted input as a user name: non-empty after
// trimming, at most 256 characters, none of them forbidden.
func ParseUserName(raw string) (UserName, error) {
	if strings.TrimSpace(raw) == "" {
		return UserName{}, &ValidationError{Kind: InvalidName, Value: raw}
	}
	if utf8.RuneCountInString(raw) > maxNameLength {
		return UserName{}, &ValidationError{Kind: InvalidName, Value: raw}
	}
	if strings.ContainsAny(raw, forbiddenNameChars) {
		return UserName{}, &ValidationError{Kind: InvalidName, Value: raw}
	}
	return UserName{value: raw}, nil
}

func (n UserName) String() string {
	return n.value
}
