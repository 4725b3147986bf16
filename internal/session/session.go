package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Session is the authenticated user's identity plus the Google OAuth
// tokens copied from the sign-in exchange. It lives only inside the
// signed cookie, never in server-side storage.
type Session struct {
	Email        string
	Name         string
	Picture      string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Token converts the session's Google credentials to an oauth2 token.
func (s Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Expiry:       s.ExpiresAt,
		TokenType:    "Bearer",
	}
}

// TokenExpired reports whether the Google access token has lapsed.
func (s Session) TokenExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Claims represents the session cookie payload.
type Claims struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenExpiry  int64  `json:"token_expiry"`
	jwt.RegisteredClaims
}

// Issue signs a session cookie value valid for ttl.
func Issue(sess Session, issuer, key string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:        sess.Email,
		Name:         sess.Name,
		Picture:      sess.Picture,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sess.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if !sess.ExpiresAt.IsZero() {
		claims.TokenExpiry = sess.ExpiresAt.Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
}

// Parse validates a session cookie value and returns the session.
func Parse(tokenStr, key, issuer string) (Session, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(key), nil
	})
	if err != nil {
		return Session{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Session{}, errors.New("invalid session token")
	}
	if issuer != "" && claims.Issuer != issuer {
		return Session{}, errors.New("issuer mismatch")
	}
	sess := Session{
		Email:        claims.Email,
		Name:         claims.Name,
		Picture:      claims.Picture,
		AccessToken:  claims.AccessToken,
		RefreshToken: claims.RefreshToken,
	}
	if claims.TokenExpiry > 0 {
		sess.ExpiresAt = time.Unix(claims.TokenExpiry, 0)
	}
	return sess, nil
}
