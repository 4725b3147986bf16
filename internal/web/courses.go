package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classgate/internal/backend"
	"classgate/internal/session"
)

func (s *Server) handleCourses(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		s.renderUnauth(c)
		return
	}

	data := s.pageData(c, "Courses", sess)
	courses, err := s.backend.Courses.GetAll(c.Request.Context(), nil)
	if err != nil {
		data["Error"] = backend.Normalize(err)
	} else {
		data["Courses"] = courses
	}
	if id, ok := s.cachedUserID(c, sess); ok {
		data["UserID"] = id
	}
	s.render(c, "courses", data)
}

func (s *Server) handleCourseCreate(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		s.renderUnauth(c)
		return
	}

	teacherID, err := strconv.Atoi(c.PostForm("teacher_id"))
	if err != nil {
		// Fall back to the cached backend id; without either the
		// create must fail before any network call.
		cached, ok := s.cachedUserID(c, sess)
		if !ok {
			redirectErr(c, "/courses", "teacher id is required and no backend id has been resolved yet")
			return
		}
		teacherID = cached
	}

	payload := backend.CourseCreate{
		Name:        c.PostForm("name"),
		Description: optString(c.PostForm("description")),
		TeacherID:   teacherID,
	}
	if _, err := s.backend.Courses.Create(c.Request.Context(), payload); err != nil {
		redirectErr(c, "/courses", backend.Normalize(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/courses")
}

func (s *Server) handleCourseUpdate(c *gin.Context) {
	if _, ok := session.FromContext(c); !ok {
		s.renderUnauth(c)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectErr(c, "/courses", "invalid course id")
		return
	}

	payload := backend.CourseUpdate{
		Name:        optString(c.PostForm("name")),
		Description: optString(c.PostForm("description")),
	}
	if tid, err := strconv.Atoi(c.PostForm("teacher_id")); err == nil {
		payload.TeacherID = &tid
	}
	if _, err := s.backend.Courses.Update(c.Request.Context(), id, payload); err != nil {
		redirectErr(c, "/courses", backend.Normalize(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/courses")
}

func (s *Server) handleCourseDelete(c *gin.Context) {
	if _, ok := session.FromContext(c); !ok {
		s.renderUnauth(c)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectErr(c, "/courses", "invalid course id")
		return
	}
	if _, err := s.backend.Courses.Delete(c.Request.Context(), id); err != nil {
		redirectErr(c, "/courses", backend.Normalize(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/courses")
}
