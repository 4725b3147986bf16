package session

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// CookieName is the session cookie.
const CookieName = "classgate_session"

const contextKey = "session"

// ActivityRecorder marks session emails as recently active.
type ActivityRecorder interface {
	MarkActive(ctx context.Context, email string) error
}

// Manager issues, loads and refreshes session cookies.
type Manager struct {
	OAuth    *oauth2.Config
	Secret   string
	Issuer   string
	TTL      time.Duration
	Activity ActivityRecorder
}

// NewManager creates a session manager.
func NewManager(oauth *oauth2.Config, secret, issuer string, ttl time.Duration, activity ActivityRecorder) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{OAuth: oauth, Secret: secret, Issuer: issuer, TTL: ttl, Activity: activity}
}

// Load parses the session cookie when present and exposes the session
// on the request context. Expired Google access tokens are refreshed
// through the refresh token and the cookie is reissued.
func (m *Manager) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(CookieName)
		if err != nil || value == "" {
			c.Next()
			return
		}
		sess, err := Parse(value, m.Secret, m.Issuer)
		if err != nil {
			c.Next()
			return
		}

		if sess.TokenExpired(time.Now()) && sess.RefreshToken != "" && m.OAuth != nil {
			if refreshed, ok := m.refresh(c.Request.Context(), sess); ok {
				sess = refreshed
				m.SetCookie(c, sess)
			}
		}

		c.Set(contextKey, sess)
		if m.Activity != nil && sess.Email != "" {
			if err := m.Activity.MarkActive(c.Request.Context(), sess.Email); err != nil {
				log.Printf("session: mark active failed: %v", err)
			}
		}
		c.Next()
	}
}

func (m *Manager) refresh(ctx context.Context, sess Session) (Session, bool) {
	tok, err := m.OAuth.TokenSource(ctx, sess.Token()).Token()
	if err != nil {
		log.Printf("session: token refresh failed for %s: %v", sess.Email, err)
		return sess, false
	}
	sess.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		sess.RefreshToken = tok.RefreshToken
	}
	sess.ExpiresAt = tok.Expiry
	return sess, true
}

// Require rejects requests without a valid session.
func Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := FromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// FromContext returns the session loaded for this request, if any.
func FromContext(c *gin.Context) (Session, bool) {
	val, ok := c.Get(contextKey)
	if !ok {
		return Session{}, false
	}
	sess, ok := val.(Session)
	return sess, ok && sess.AccessToken != ""
}

// SetCookie signs the session and writes the cookie. The cookie is
// https-only in release mode; it carries Google tokens.
func (m *Manager) SetCookie(c *gin.Context, sess Session) {
	value, err := Issue(sess, m.Issuer, m.Secret, m.TTL)
	if err != nil {
		log.Printf("session: issue failed: %v", err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, int(m.TTL.Seconds()), "/", "", secureCookies(), true)
}

// ClearCookie removes the session cookie.
func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", secureCookies(), true)
}

func secureCookies() bool {
	return gin.Mode() == gin.ReleaseMode
}
