package backend

import (
	"context"
	"fmt"
	"net/http"
)

// EnrollmentService wraps the /enrollments resource.
type EnrollmentService struct {
	client *Client
}

// EnrollmentCreate is the payload for enrolling a student in a course.
type EnrollmentCreate struct {
	StudentID int `json:"student_id"`
	CourseID  int `json:"course_id"`
}

// GetAll lists enrollments with optional filters (student_id, course_id).
func (s *EnrollmentService) GetAll(ctx context.Context, params Params) ([]Enrollment, error) {
	var out []Enrollment
	if err := s.client.get(ctx, "/enrollments", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one enrollment.
func (s *EnrollmentService) GetByID(ctx context.Context, id int) (*Enrollment, error) {
	var out Enrollment
	if err := s.client.get(ctx, fmt.Sprintf("/enrollments/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Enroll adds a student to a course.
func (s *EnrollmentService) Enroll(ctx context.Context, payload EnrollmentCreate) (*Enrollment, error) {
	var out Enrollment
	if err := s.client.do(ctx, http.MethodPost, "/enrollments", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unenroll removes an enrollment.
func (s *EnrollmentService) Unenroll(ctx context.Context, id int) (*Ack, error) {
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/enrollments/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
