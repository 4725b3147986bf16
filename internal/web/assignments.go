package web

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"classgate/internal/backend"
	"classgate/internal/session"
)

type assignmentView struct {
	backend.Assignment
	SubmissionCount int
}

type courseAssignments struct {
	Course      backend.Course
	Assignments []assignmentView
}

func (s *Server) handleAssignments(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		s.renderUnauth(c)
		return
	}
	ctx := c.Request.Context()

	var (
		wg             sync.WaitGroup
		courses        []backend.Course
		assignments    []backend.Assignment
		submissions    []backend.Submission
		coursesErr     error
		assignmentsErr error
		submissionsErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		courses, coursesErr = s.backend.Courses.GetAll(ctx, nil)
	}()
	go func() {
		defer wg.Done()
		assignments, assignmentsErr = s.backend.Assignments.GetAll(ctx, nil)
	}()
	go func() {
		defer wg.Done()
		submissions, submissionsErr = s.backend.Submissions.GetAll(ctx, nil)
	}()
	wg.Wait()

	data := s.pageData(c, "Assignments", sess)
	for _, err := range []error{coursesErr, assignmentsErr, submissionsErr} {
		if err != nil {
			data["Error"] = backend.Normalize(err)
			break
		}
	}

	// Group assignments under their course with submission counts.
	subsByAssignment := make(map[int]int, len(submissions))
	for _, sub := range submissions {
		subsByAssignment[sub.Assignment.ID]++
	}
	grouped := make([]courseAssignments, 0, len(courses))
	for _, course := range courses {
		group := courseAssignments{Course: course}
		for _, a := range assignments {
			if a.Course.ID != course.ID {
				continue
			}
			group.Assignments = append(group.Assignments, assignmentView{
				Assignment:      a,
				SubmissionCount: subsByAssignment[a.ID],
			})
		}
		grouped = append(grouped, group)
	}
	data["Groups"] = grouped
	data["Courses"] = courses

	s.render(c, "assignments", data)
}

// assignmentForm reads the shared create/update form fields. Empty
// optional fields become null on the wire.
func assignmentForm(c *gin.Context) (title string, description, dueDate *string, maxScore *float64) {
	title = c.PostForm("title")
	description = optString(c.PostForm("description"))
	dueDate = optString(c.PostForm("due_date"))
	if raw := c.PostForm("max_score"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			maxScore = &v
		}
	}
	return title, description, dueDate, maxScore
}

func (s *Server) handleAssignmentCreate(c *gin.Context) {
	if _, ok := session.FromContext(c); !ok {
		s.renderUnauth(c)
		return
	}

	courseID, err := strconv.Atoi(c.PostForm("course_id"))
	if err != nil {
		redirectErr(c, "/assignments", "select a valid course")
		return
	}

	title, description, dueDate, maxScore := assignmentForm(c)
	payload := backend.AssignmentCreate{
		Title:       title,
		Description: description,
		CourseID:    courseID,
		DueDate:     dueDate,
		MaxScore:    maxScore,
	}
	if _, err := s.backend.Assignments.Create(c.Request.Context(), payload); err != nil {
		redirectErr(c, "/assignments", backend.Normalize(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/assignments")
}

func (s *Server) handleAssignmentUpdate(c *gin.Context) {
	if _, ok := session.FromContext(c); !ok {
		s.renderUnauth(c)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectErr(c, "/assignments", "invalid assignment id")
		return
	}

	title, description, dueDate, maxScore := assignmentForm(c)
	payload := backend.AssignmentUpdate{
		Title:       optString(title),
		Description: description,
		DueDate:     dueDate,
		MaxScore:    maxScore,
	}
	if _, err := s.backend.Assignments.Update(c.Request.Context(), id, payload); err != nil {
		redirectErr(c, "/assignments", backend.Normalize(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/assignments")
}

func (s *Server) handleAssignmentDelete(c *gin.Context) {
	if _, ok := session.FromContext(c); !ok {
		s.renderUnauth(c)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectErr(c, "/assignments", "invalid assignment id")
		return
	}
	if _, err := s.backend.Assignments.Delete(c.Request.Context(), id); err != nil {
		redirectErr(c, "/assignments", backend.Normalize(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/assignments")
}
