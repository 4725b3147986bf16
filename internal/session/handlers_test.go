package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func callbackRouter(tokenURL string) *gin.Engine {
	oauth := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
	}
	mgr := NewManager(oauth, "test-secret", "classgate", time.Hour, nil)
	r := gin.New()
	r.GET("/oauth/callback", mgr.Callback)
	return r
}

func callbackRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/oauth/callback?state=st-1&code=auth-code", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "st-1"})
	return req
}

func TestCallbackIssuesSessionFromProfile(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"ya29.x","token_type":"Bearer","expires_in":3600,"refresh_token":"1//r"}`))
	}))
	defer tokenSrv.Close()

	userinfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/userinfo"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"ana@school.edu","name":"Ana","picture":"https://example.com/p.png"}`))
	}))
	defer userinfoSrv.Close()

	UserinfoEndpoint = userinfoSrv.URL
	defer func() { UserinfoEndpoint = "" }()

	w := httptest.NewRecorder()
	callbackRouter(tokenSrv.URL).ServeHTTP(w, callbackRequest())

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	value := sessionCookieValue(t, w.Result())
	require.NotEmpty(t, value)
	sess, err := Parse(value, "test-secret", "classgate")
	require.NoError(t, err)
	assert.Equal(t, "ana@school.edu", sess.Email)
	assert.Equal(t, "ya29.x", sess.AccessToken)
	assert.Equal(t, "1//r", sess.RefreshToken)
}

func TestCallbackRejectsMissingProfile(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"ya29.x","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	userinfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer userinfoSrv.Close()

	UserinfoEndpoint = userinfoSrv.URL
	defer func() { UserinfoEndpoint = "" }()

	w := httptest.NewRecorder()
	callbackRouter(tokenSrv.URL).ServeHTTP(w, callbackRequest())

	// No half-populated session: the sign-in fails and no cookie is set.
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "sign-in failed")
	assert.Empty(t, sessionCookieValue(t, w.Result()))
}

func TestCallbackRejectsBlankEmail(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"ya29.x","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	userinfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Ana"}`))
	}))
	defer userinfoSrv.Close()

	UserinfoEndpoint = userinfoSrv.URL
	defer func() { UserinfoEndpoint = "" }()

	w := httptest.NewRecorder()
	callbackRouter(tokenSrv.URL).ServeHTTP(w, callbackRequest())

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, sessionCookieValue(t, w.Result()))
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/oauth/callback?state=wrong&code=auth-code", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "st-1"})
	callbackRouter("http://token.invalid").ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "state mismatch")
}
