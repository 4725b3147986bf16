package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classgate/internal/backend"
	"classgate/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeIdentity struct {
	ids    map[string]int
	unread int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{ids: make(map[string]int)}
}

func (f *fakeIdentity) SetUserID(_ context.Context, email string, id int) error {
	f.ids[email] = id
	return nil
}

func (f *fakeIdentity) Unread(_ context.Context, _ string) int {
	return f.unread
}

// newRouter wires the gateway routes the way the server does, with the
// real cookie middleware so auth behavior is exercised end to end.
func newRouter(gw *Gateway) *gin.Engine {
	mgr := session.NewManager(nil, "test-secret", "classgate", time.Hour, nil)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(mgr.Load())
	api := r.Group("/api")
	api.POST("/role", gw.Role)
	authed := api.Group("", session.Require())
	authed.GET("/classroom/courses", gw.Courses)
	authed.GET("/calendar/events", gw.Events)
	authed.GET("/notifications/unread", gw.Unread)
	return r
}

func sessionCookie(t *testing.T, email string) *http.Cookie {
	t.Helper()
	token, err := session.Issue(session.Session{
		Email:       email,
		AccessToken: "ya29.test",
		ExpiresAt:   time.Now().Add(time.Hour),
	}, "classgate", "test-secret", time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func TestCoursesWithoutSession(t *testing.T) {
	var upstreamCalls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&upstreamCalls, 1)
		_, _ = w.Write([]byte(`{"courses":[]}`))
	}))
	defer upstream.Close()

	gw := New(nil, newFakeIdentity())
	gw.ClassroomEndpoint = upstream.URL

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/classroom/courses", nil)
	newRouter(gw).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
	assert.Equal(t, int32(0), atomic.LoadInt32(&upstreamCalls))
}

func TestCoursesMethodNotAllowed(t *testing.T) {
	gw := New(nil, newFakeIdentity())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/classroom/courses", nil)
	newRouter(gw).ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCoursesPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/courses")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"courses":[{"id":"c1","name":"Math"}]}`))
	}))
	defer upstream.Close()

	gw := New(nil, newFakeIdentity())
	gw.ClassroomEndpoint = upstream.URL

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/classroom/courses", nil)
	req.AddCookie(sessionCookie(t, "ana@school.edu"))
	newRouter(gw).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Math")
}

func TestCoursesUpstreamErrorMirrored(t *testing.T) {
	body := `{"error":{"code":403,"message":"insufficient scopes"}}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(body))
	}))
	defer upstream.Close()

	gw := New(nil, newFakeIdentity())
	gw.ClassroomEndpoint = upstream.URL

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/classroom/courses", nil)
	req.AddCookie(sessionCookie(t, "ana@school.edu"))
	newRouter(gw).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient scopes")
}

func TestEventsWindow(t *testing.T) {
	var gotQuery map[string][]string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/calendars/primary/events") {
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"kind":"calendar#events","items":[{"id":"e1","summary":"Exam"}]}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	gw := New(nil, newFakeIdentity())
	gw.CalendarEndpoint = upstream.URL
	gw.Now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/events", nil)
	req.AddCookie(sessionCookie(t, "ana@school.edu"))
	newRouter(gw).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Exam")

	require.NotNil(t, gotQuery)
	q := func(k string) string {
		if v := gotQuery[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	assert.Equal(t, "2026-03-01T12:00:00Z", q("timeMin"))
	assert.Equal(t, "2026-03-08T12:00:00Z", q("timeMax"))
	assert.Equal(t, "true", q("singleEvents"))
	assert.Equal(t, "startTime", q("orderBy"))
}

func TestRoleMissingEmail(t *testing.T) {
	gw := New(nil, newFakeIdentity())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/role", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(gw).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email is required")
}

func TestRoleBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"User not found"}`))
	}))
	defer srv.Close()

	gw := New(backend.New(srv.URL), newFakeIdentity())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/role", strings.NewReader(`{"email":"ghost@school.edu"}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(gw).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to resolve role")
}

func TestRoleResolvedAndCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/resolve", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":4,"email":"ana@school.edu","role":"teacher"}`))
	}))
	defer srv.Close()

	identity := newFakeIdentity()
	gw := New(backend.New(srv.URL), identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/role", strings.NewReader(`{"email":"ana@school.edu"}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(gw).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"teacher"`)
	assert.Equal(t, 4, identity.ids["ana@school.edu"])
}

func TestUnreadCount(t *testing.T) {
	identity := newFakeIdentity()
	identity.unread = 7

	gw := New(nil, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications/unread", nil)
	req.AddCookie(sessionCookie(t, "ana@school.edu"))
	newRouter(gw).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":7}`, w.Body.String())
}
