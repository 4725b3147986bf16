package gateway

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"classgate/internal/backend"
	"classgate/internal/metrics"
	"classgate/internal/session"
)

// calendarWindow is the fixed lookahead for the events route.
const calendarWindow = 7 * 24 * time.Hour

// Identity is the resolved-id and badge cache the gateway writes to.
type Identity interface {
	SetUserID(ctx context.Context, email string, id int) error
	Unread(ctx context.Context, email string) int
}

// Gateway holds the pass-through routes between the browser and the
// backend service plus Google's Classroom and Calendar APIs.
type Gateway struct {
	Backend  *backend.Client
	Identity Identity

	// Endpoint overrides for tests; empty means Google's defaults.
	ClassroomEndpoint string
	CalendarEndpoint  string

	Now func() time.Time
}

// New creates a gateway.
func New(b *backend.Client, identity Identity) *Gateway {
	return &Gateway{Backend: b, Identity: identity, Now: time.Now}
}

// ClassroomCourses lists the user's Google Classroom courses.
func (g *Gateway) ClassroomCourses(ctx context.Context, accessToken string) (*classroom.ListCoursesResponse, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	if g.ClassroomEndpoint != "" {
		opts = append(opts, option.WithEndpoint(g.ClassroomEndpoint))
	}
	svc, err := classroom.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return svc.Courses.List().Context(ctx).Do()
}

// CalendarEvents lists primary-calendar events in the next seven days,
// with recurring events expanded and ascending start-time order.
func (g *Gateway) CalendarEvents(ctx context.Context, accessToken string) (*calendar.Events, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	if g.CalendarEndpoint != "" {
		opts = append(opts, option.WithEndpoint(g.CalendarEndpoint))
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	now := g.Now().UTC()
	return svc.Events.List("primary").
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(calendarWindow).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
}

// Courses handles GET /api/classroom/courses.
func (g *Gateway) Courses(c *gin.Context) {
	sess, _ := session.FromContext(c)
	resp, err := g.ClassroomCourses(c.Request.Context(), sess.AccessToken)
	if err != nil {
		g.upstreamError(c, "classroom_courses", err, "failed to fetch courses")
		return
	}
	metrics.GatewayRequests.WithLabelValues("classroom_courses", "200").Inc()
	c.JSON(http.StatusOK, resp)
}

// Events handles GET /api/calendar/events.
func (g *Gateway) Events(c *gin.Context) {
	sess, _ := session.FromContext(c)
	resp, err := g.CalendarEvents(c.Request.Context(), sess.AccessToken)
	if err != nil {
		g.upstreamError(c, "calendar_events", err, "failed to fetch calendar events")
		return
	}
	metrics.GatewayRequests.WithLabelValues("calendar_events", "200").Inc()
	c.JSON(http.StatusOK, resp)
}

// Role handles POST /api/role. It needs no session, only an email, and
// flattens backend failures to a 500 per the route's contract.
func (g *Gateway) Role(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	user, err := g.Backend.Users.Resolve(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("gateway: role resolution failed: %v", err)
		metrics.GatewayRequests.WithLabelValues("role", "500").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve role"})
		return
	}

	if g.Identity != nil {
		if err := g.Identity.SetUserID(c.Request.Context(), req.Email, user.ID); err != nil {
			log.Printf("gateway: cache user id failed: %v", err)
		}
	}
	metrics.GatewayRequests.WithLabelValues("role", "200").Inc()
	c.JSON(http.StatusOK, user)
}

// Unread handles GET /api/notifications/unread from the badge poll.
func (g *Gateway) Unread(c *gin.Context) {
	sess, _ := session.FromContext(c)
	count := 0
	if g.Identity != nil {
		count = g.Identity.Unread(c.Request.Context(), sess.Email)
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// upstreamError mirrors the upstream status and body when the failure
// came from Google, and collapses everything else to a fixed 500.
func (g *Gateway) upstreamError(c *gin.Context, route string, err error, fallback string) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code > 0 {
		metrics.GatewayRequests.WithLabelValues(route, strconv.Itoa(apiErr.Code)).Inc()
		if apiErr.Body != "" {
			c.Data(apiErr.Code, "application/json", []byte(apiErr.Body))
			return
		}
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	log.Printf("gateway: %s failed: %v", route, err)
	metrics.GatewayRequests.WithLabelValues(route, "500").Inc()
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
