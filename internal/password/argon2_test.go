package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig keeps the memory cost low so the suite stays fast.
func testConfig() Config {
	return Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashThenVerify(t *testing.T) {
	hasher := NewHasher(testConfig())

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"), "unexpected PHC prefix: %s", hash)
	assert.NoError(t, hasher.Verify("correct horse battery staple", hash))
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	hasher := NewHasher(testConfig())

	hash, err := hasher.Hash("the right password")
	require.NoError(t, err)

	assert.ErrorIs(t, hasher.Verify("the wrong password", hash), ErrMismatch)
}

func TestVerifyRejectsMalformedHashWithSameError(t *testing.T) {
	hasher := NewHasher(testConfig())

	for _, encoded := range []string{
		"",
		"not a hash at all",
		"$argon2i$v=19$m=8192,t=1,p=1$c29tZXNhbHQ$c29tZWhhc2g",
		"$argon2id$v=18$m=8192,t=1,p=1$c29tZXNhbHQ$c29tZWhhc2g",
		"$argon2id$v=19$m=8192,t=1$c29tZXNhbHQ$c29tZWhhc2g",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$c29tZWhhc2g",
		"$argon2id$v=19$m=8192,t=1,p=1$c29tZXNhbHQ$",
		// parameters that parse but lie outside Argon2's legal range
		"$argon2id$v=19$m=8192,t=0,p=1$c29tZXNhbHQ$c29tZWhhc2g",
		"$argon2id$v=19$m=8192,t=1,p=0$c29tZXNhbHQ$c29tZWhhc2g",
		"$argon2id$v=19$m=4,t=1,p=1$c29tZXNhbHQ$c29tZWhhc2g",
	} {
		assert.NotPanics(t, func() {
			assert.ErrorIs(t, hasher.Verify("whatever", encoded), ErrMismatch, "hash: %q", encoded)
		}, "hash: %q", encoded)
	}
}

func TestHashIsSaltedPerCall(t *testing.T) {
	hasher := NewHasher(testConfig())

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, hasher.Verify("same password", first))
	assert.NoError(t, hasher.Verify("same password", second))
}

func TestVerifyHonorsEmbeddedParameters(t *testing.T) {
	// A hash produced with different work parameters than the hasher's own
	// must still verify, the parameters travel with the hash.
	old := NewHasher(Config{Memory: 16 * 1024, Time: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	hash, err := old.Hash("migrating password")
	require.NoError(t, err)

	current := NewHasher(testConfig())
	assert.NoError(t, current.Verify("migrating password", hash))
}
