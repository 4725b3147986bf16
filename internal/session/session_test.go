package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundTrip(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	sess := Session{
		Email:        "ana@school.edu",
		Name:         "Ana",
		Picture:      "https://example.com/p.png",
		AccessToken:  "ya29.access",
		RefreshToken: "1//refresh",
		ExpiresAt:    expiry,
	}

	token, err := Issue(sess, "classgate", "secret", time.Hour)
	require.NoError(t, err)

	got, err := Parse(token, "secret", "classgate")
	require.NoError(t, err)
	assert.Equal(t, sess.Email, got.Email)
	assert.Equal(t, sess.Name, got.Name)
	assert.Equal(t, sess.AccessToken, got.AccessToken)
	assert.Equal(t, sess.RefreshToken, got.RefreshToken)
	assert.True(t, got.ExpiresAt.Equal(expiry))
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, err := Issue(Session{Email: "a@b.c"}, "classgate", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, "other-secret", "classgate")
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	token, err := Issue(Session{Email: "a@b.c"}, "someone-else", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, "secret", "classgate")
	assert.Error(t, err)
}

func TestParseRejectsExpiredCookie(t *testing.T) {
	token, err := Issue(Session{Email: "a@b.c"}, "classgate", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, "secret", "classgate")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, Session{}.TokenExpired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.TokenExpired(now))
	assert.True(t, Session{ExpiresAt: now.Add(-time.Minute)}.TokenExpired(now))
}
