package session

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const stateCookie = "classgate_oauth_state"

// UserinfoEndpoint overrides the Google userinfo base URL in tests.
var UserinfoEndpoint = ""

// Login starts the Google authorization-code flow.
func (m *Manager) Login(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	url := m.OAuth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	c.Redirect(http.StatusFound, url)
}

// Callback finishes the flow: verifies state, exchanges the code,
// copies tokens and profile fields into the session cookie.
func (m *Manager) Callback(c *gin.Context) {
	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	ctx := c.Request.Context()
	tok, err := m.OAuth.Exchange(ctx, code)
	if err != nil {
		log.Printf("session: code exchange failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "sign-in failed"})
		return
	}

	sess := Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}

	opts := []option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(tok))}
	if UserinfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(UserinfoEndpoint))
	}
	svc, err := googleoauth.NewService(ctx, opts...)
	if err != nil {
		log.Printf("session: userinfo client failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "sign-in failed"})
		return
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil || info.Email == "" {
		// A session without an email is useless: every page and the
		// identity cache key off it. Fail the sign-in instead.
		log.Printf("session: userinfo fetch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "sign-in failed"})
		return
	}
	sess.Email = info.Email
	sess.Name = info.Name
	sess.Picture = info.Picture

	m.SetCookie(c, sess)
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie.
func (m *Manager) Logout(c *gin.Context) {
	m.ClearCookie(c)
	c.Redirect(http.StatusFound, "/")
}
