package backend

import (
	"context"
	"fmt"
	"net/http"
)

// CourseService wraps the /courses resource.
type CourseService struct {
	client *Client
}

// CourseCreate is the payload for creating a course.
type CourseCreate struct {
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	TeacherID      int     `json:"teacher_id"`
	GoogleCourseID *string `json:"google_course_id,omitempty"`
}

// CourseUpdate carries only the fields being changed.
type CourseUpdate struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	TeacherID      *int    `json:"teacher_id,omitempty"`
	GoogleCourseID *string `json:"google_course_id,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// GetAll lists courses with optional filters (teacher_id, is_active, skip, limit).
func (s *CourseService) GetAll(ctx context.Context, params Params) ([]Course, error) {
	var out []Course
	if err := s.client.get(ctx, "/courses", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one course.
func (s *CourseService) GetByID(ctx context.Context, id int) (*Course, error) {
	var out Course
	if err := s.client.get(ctx, fmt.Sprintf("/courses/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds a course.
func (s *CourseService) Create(ctx context.Context, payload CourseCreate) (*Course, error) {
	var out Course
	if err := s.client.do(ctx, http.MethodPost, "/courses", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies a course.
func (s *CourseService) Update(ctx context.Context, id int, payload CourseUpdate) (*Course, error) {
	var out Course
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/courses/%d", id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deactivates a course (soft delete on the backend).
func (s *CourseService) Delete(ctx context.Context, id int) (*Ack, error) {
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/courses/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
