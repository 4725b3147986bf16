// Package web serves the school pages: sign-in, dashboard, courses,
// students, assignments and the notifications center.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"classgate/internal/backend"
	"classgate/internal/gateway"
	"classgate/internal/session"
)

//go:embed templates/*
var templatesFS embed.FS

// Identity is the resolved-id and badge cache pages read from.
type Identity interface {
	UserID(ctx context.Context, email string) (int, bool)
	SetUserID(ctx context.Context, email string, id int) error
	Unread(ctx context.Context, email string) int
}

// Server renders the pages and handles their form posts.
type Server struct {
	templates *template.Template
	backend   *backend.Client
	gateway   *gateway.Gateway
	identity  Identity
}

// NewServer parses the embedded templates and wires the dependencies.
func NewServer(b *backend.Client, gw *gateway.Gateway, identity Identity) (*Server, error) {
	funcMap := template.FuncMap{
		"fmtTime": func(t backend.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 15:04")
		},
		"fmtTimePtr": func(t *backend.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 15:04")
		},
		"inputTimePtr": func(t *backend.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02T15:04")
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{templates: tmpl, backend: b, gateway: gw, identity: identity}, nil
}

// Routes registers the page routes.
func (s *Server) Routes(r *gin.Engine) {
	r.GET("/", s.handleHome)
	r.GET("/dashboard", s.handleDashboard)

	r.GET("/courses", s.handleCourses)
	r.POST("/courses", s.handleCourseCreate)
	r.POST("/courses/:id/update", s.handleCourseUpdate)
	r.POST("/courses/:id/delete", s.handleCourseDelete)

	r.GET("/students", s.handleStudents)
	r.POST("/students/enroll", s.handleEnroll)
	r.POST("/students/unenroll/:id", s.handleUnenroll)

	r.GET("/assignments", s.handleAssignments)
	r.POST("/assignments", s.handleAssignmentCreate)
	r.POST("/assignments/:id/update", s.handleAssignmentUpdate)
	r.POST("/assignments/:id/delete", s.handleAssignmentDelete)

	r.GET("/notifications", s.handleNotifications)
	r.POST("/notifications/:id/read", s.handleNotificationRead)
	r.POST("/notifications/:id/delete", s.handleNotificationDelete)
}

func (s *Server) render(c *gin.Context, name string, data gin.H) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		log.Printf("web: template %s: %v", name, err)
		c.String(http.StatusInternalServerError, "template error")
	}
}

// renderUnauth is the fallback for pages visited without a session.
func (s *Server) renderUnauth(c *gin.Context) {
	s.render(c, "unauth", gin.H{"Title": "Not signed in"})
}

// pageData seeds the fields every page template expects.
func (s *Server) pageData(c *gin.Context, title string, sess session.Session) gin.H {
	return gin.H{
		"Title":   title,
		"Session": sess,
		"Unread":  s.identity.Unread(c.Request.Context(), sess.Email),
		"Error":   c.Query("err"),
	}
}

// redirectErr sends the browser back to a page with a display error.
func redirectErr(c *gin.Context, path, msg string) {
	c.Redirect(http.StatusSeeOther, path+"?err="+url.QueryEscape(msg))
}

func (s *Server) handleHome(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		s.render(c, "signin", gin.H{"Title": "Sign in"})
		return
	}

	// Resolve the backend identity on every visit; the page still
	// works when the backend is down.
	role := ""
	if user, err := s.backend.Users.Resolve(c.Request.Context(), sess.Email); err != nil {
		log.Printf("web: role resolution failed: %v", err)
	} else {
		role = user.Role
		if err := s.identity.SetUserID(c.Request.Context(), sess.Email, user.ID); err != nil {
			log.Printf("web: cache user id failed: %v", err)
		}
	}

	data := s.pageData(c, "Home", sess)
	data["Role"] = role
	s.render(c, "home", data)
}

func (s *Server) handleDashboard(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		s.renderUnauth(c)
		return
	}
	ctx := c.Request.Context()

	data := s.pageData(c, "Dashboard", sess)

	role := ""
	if user, err := s.backend.Users.Resolve(ctx, sess.Email); err == nil {
		role = user.Role
		if err := s.identity.SetUserID(ctx, sess.Email, user.ID); err != nil {
			log.Printf("web: cache user id failed: %v", err)
		}
	}
	data["Role"] = role

	if resp, err := s.gateway.ClassroomCourses(ctx, sess.AccessToken); err != nil {
		data["CoursesError"] = backend.Normalize(err)
	} else {
		data["Courses"] = resp.Courses
	}

	s.render(c, "dashboard", data)
}

// cachedUserID returns the backend id resolved for the session email.
func (s *Server) cachedUserID(c *gin.Context, sess session.Session) (int, bool) {
	return s.identity.UserID(c.Request.Context(), sess.Email)
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
