package backend

import (
	"context"
	"fmt"
	"net/http"
)

// SubmissionService wraps the /assignments/submissions resource.
type SubmissionService struct {
	client *Client
}

// SubmissionCreate is the payload for turning in work.
type SubmissionCreate struct {
	AssignmentID int     `json:"assignment_id"`
	StudentID    int     `json:"student_id"`
	Content      *string `json:"content,omitempty"`
}

// SubmissionUpdate carries grading fields.
type SubmissionUpdate struct {
	Content  *string  `json:"content,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Feedback *string  `json:"feedback,omitempty"`
}

// GetAll lists submissions. Params are sanitized before sending: empty
// values are dropped and numeric-looking strings become integers,
// because the backend is strict about numeric filter types.
func (s *SubmissionService) GetAll(ctx context.Context, params Params) ([]Submission, error) {
	var out []Submission
	if err := s.client.get(ctx, "/assignments/submissions", params.Sanitize(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one submission.
func (s *SubmissionService) GetByID(ctx context.Context, id int) (*Submission, error) {
	var out Submission
	if err := s.client.get(ctx, fmt.Sprintf("/assignments/submissions/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create turns in a submission.
func (s *SubmissionService) Create(ctx context.Context, payload SubmissionCreate) (*Submission, error) {
	var out Submission
	if err := s.client.do(ctx, http.MethodPost, "/assignments/submissions", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies a submission, typically for grading.
func (s *SubmissionService) Update(ctx context.Context, id int, payload SubmissionUpdate) (*Submission, error) {
	var out Submission
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/assignments/submissions/%d", id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a submission.
func (s *SubmissionService) Delete(ctx context.Context, id int) (*Ack, error) {
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/assignments/submissions/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
