package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestTokenRoundTrip(t *testing.T) {
	tok, err := SignToken(testSecret, "id-1", "a@b.c", time.Now().Add(time.Hour))
	require.NoError(t, err)

	id, email, err := ParseToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
	assert.Equal(t, "a@b.c", email)
}

func TestParseTokenRejects(t *testing.T) {
	expired, err := SignToken(testSecret, "id-1", "a@b.c", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	good, err := SignToken(testSecret, "id-1", "a@b.c", time.Now().Add(time.Hour))
	require.NoError(t, err)

	cases := map[string]struct {
		secret []byte
		token  string
	}{
		"expired":      {testSecret, expired},
		"wrong secret": {[]byte("another-secret"), good},
		"garbage":      {testSecret, "not.a.token"},
		"empty":        {testSecret, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseToken(tc.secret, tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
	assert.False(t, CheckPassword("", "correct horse"))
}
