package web

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/calendar/v3"

	"classgate/internal/backend"
	"classgate/internal/session"
)

// upcomingWindowHours is the lookahead for due-soon alerts on the
// notifications center.
const upcomingWindowHours = 72

// section pairs one collection with its own error so a failing
// upstream never blanks the other sections.
type section struct {
	Notifications []backend.Notification
	Announcements []backend.Announcement
	Events        []*calendar.Event
	Error         string
}

func (s *Server) handleNotifications(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		s.renderUnauth(c)
		return
	}
	ctx := c.Request.Context()

	data := s.pageData(c, "Notifications", sess)

	userID, resolved := s.cachedUserID(c, sess)
	data["Resolved"] = resolved
	if !resolved {
		// The id appears after the first dashboard/home visit; until
		// then there is nothing user-scoped to fetch.
		s.render(c, "notifications", data)
		return
	}
	data["UserID"] = userID
	data["UpcomingHours"] = upcomingWindowHours

	var (
		wg            sync.WaitGroup
		notifs        section
		upcoming      section
		overdue       section
		announcements section
		events        section
	)
	wg.Add(5)
	go func() {
		defer wg.Done()
		list, err := s.backend.Notifications.GetAll(ctx, backend.Params{"user_id": userID})
		if err != nil {
			notifs.Error = backend.Normalize(err)
			return
		}
		notifs.Notifications = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.backend.Notifications.UpcomingAlerts(ctx, userID, upcomingWindowHours)
		if err != nil {
			upcoming.Error = backend.Normalize(err)
			return
		}
		upcoming.Notifications = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.backend.Notifications.OverdueAlerts(ctx, userID)
		if err != nil {
			overdue.Error = backend.Normalize(err)
			return
		}
		overdue.Notifications = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.backend.Announcements.GetAll(ctx, backend.Params{"is_active": true})
		if err != nil {
			announcements.Error = backend.Normalize(err)
			return
		}
		announcements.Announcements = list
	}()
	go func() {
		defer wg.Done()
		resp, err := s.gateway.CalendarEvents(ctx, sess.AccessToken)
		if err != nil {
			events.Error = backend.Normalize(err)
			return
		}
		events.Events = resp.Items
	}()
	wg.Wait()

	data["Notifications"] = notifs
	data["Upcoming"] = upcoming
	data["Overdue"] = overdue
	data["Announcements"] = announcements
	data["Events"] = events
	s.render(c, "notifications", data)
}

func (s *Server) handleNotificationRead(c *gin.Context) {
	if _, ok := session.FromContext(c); !ok {
		s.renderUnauth(c)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectErr(c, "/notifications", "invalid notification id")
		return
	}
	isRead := c.PostForm("is_read") == "true"
	if _, err := s.backend.Notifications.MarkRead(c.Request.Context(), id, isRead); err != nil {
		redirectErr(c, "/notifications", backend.Normalize(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/notifications")
}

func (s *Server) handleNotificationDelete(c *gin.Context) {
	if _, ok := session.FromContext(c); !ok {
		s.renderUnauth(c)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectErr(c, "/notifications", "invalid notification id")
		return
	}
	if _, err := s.backend.Notifications.Delete(c.Request.Context(), id); err != nil {
		redirectErr(c, "/notifications", backend.Normalize(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/notifications")
}
