package web

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"classgate/internal/backend"
	"classgate/internal/session"
)

func (s *Server) handleStudents(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		s.renderUnauth(c)
		return
	}
	ctx := c.Request.Context()

	var (
		wg          sync.WaitGroup
		courses     []backend.Course
		enrollments []backend.Enrollment
		coursesErr  error
		enrollsErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		courses, coursesErr = s.backend.Courses.GetAll(ctx, nil)
	}()
	go func() {
		defer wg.Done()
		enrollments, enrollsErr = s.backend.Enrollments.GetAll(ctx, nil)
	}()
	wg.Wait()

	data := s.pageData(c, "Students", sess)
	if coursesErr != nil {
		data["Error"] = backend.Normalize(coursesErr)
	} else if enrollsErr != nil {
		data["Error"] = backend.Normalize(enrollsErr)
	}
	data["Courses"] = courses
	data["Enrollments"] = enrollments
	if id, ok := s.cachedUserID(c, sess); ok {
		data["UserID"] = id
	}
	s.render(c, "students", data)
}

func (s *Server) handleEnroll(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		s.renderUnauth(c)
		return
	}

	studentID, err := strconv.Atoi(c.PostForm("student_id"))
	if err != nil {
		cached, ok := s.cachedUserID(c, sess)
		if !ok {
			redirectErr(c, "/students", "student id is required and no backend id has been resolved yet")
			return
		}
		studentID = cached
	}
	courseID, err := strconv.Atoi(c.PostForm("course_id"))
	if err != nil {
		redirectErr(c, "/students", "select a valid course")
		return
	}

	payload := backend.EnrollmentCreate{StudentID: studentID, CourseID: courseID}
	if _, err := s.backend.Enrollments.Enroll(c.Request.Context(), payload); err != nil {
		redirectErr(c, "/students", backend.Normalize(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/students")
}

func (s *Server) handleUnenroll(c *gin.Context) {
	if _, ok := session.FromContext(c); !ok {
		s.renderUnauth(c)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectErr(c, "/students", "invalid enrollment id")
		return
	}
	if _, err := s.backend.Enrollments.Unenroll(c.Request.Context(), id); err != nil {
		redirectErr(c, "/students", backend.Normalize(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/students")
}
