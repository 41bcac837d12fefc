package domain

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUserTokenIsValid(t *testing.T) {
	for i := 0; i < 100; i++ {
		token := GenerateUserToken()

		require.Len(t, token.String(), 25)
		for _, r := range token.String() {
			assert.True(t, unicode.IsLetter(r) || unicode.IsDigit(r), "unexpected char %q", r)
		}
	}
}

func TestParseUserTokenRoundTrip(t *testing.T) {
	raw := GenerateUserToken().String()

	token, err := ParseUserToken(raw)

	require.NoError(t, err)
	assert.Equal(t, raw, token.String())
}

func TestParseUserTokenRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"too short", strings.Repeat("a", 24)},
		{"too long", strings.Repeat("a", 26)},
		{"whitespace", "aaaaaaaaaaaa aaaaaaaaaaaa"},
		{"punctuation", "aaaaaaaaaaaa-aaaaaaaaaaaa"},
		{"sql-ish", "'; DROP TABLE users; --aa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserToken(tt.raw)

			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, InvalidToken, verr.Kind)
			assert.Equal(t, tt.raw, verr.Value)
		})
	}
}

func TestParseUserTokenAcceptsUnicodeAlphanumerics(t *testing.T) {
	raw := strings.Repeat("а", 25) // cyrillic letters are still letters

	_, err := ParseUserToken(raw)

	assert.NoError(t, err)
}
