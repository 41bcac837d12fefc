package domain

import (
	"math/rand"
	"unicode"
	"unicode/utf8"
)

const tokenLength = 25

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// UserToken is a 25-character case-sensitive alphanumeric identifier handed
// out to tournament participants. A zero value is not valid; construct one
// with GenerateUserToken or ParseUserToken.
type UserToken struct {
	value string
}

// GenerateUserToken returns a random token. The randomness is not
// security-sensitive, tokens only need to be unique in practice.
func GenerateUserToken() UserToken {
	buf := make([]byte, tokenLength)
	for i := range buf {
		buf[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	return UserToken{value: string(buf)}
}

// ParseUserToken validates untrusted input as a user token.
func ParseUserToken(raw string) (UserToken, error) {
	if utf8.RuneCountInString(raw) != tokenLength {
		return UserToken{}, &ValidationError{Kind: InvalidToken, Value: raw}
	}
	for _, r := range raw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return UserToken{}, &ValidationError{Kind: InvalidToken, Value: raw}
		}
	}
	return UserToken{value: raw}, nil
}

func (t UserToken) String() string {
	return t.value
}
