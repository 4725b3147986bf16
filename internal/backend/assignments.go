package backend

import (
	"context"
	"fmt"
	"net/http"
)

// AssignmentService wraps the /assignments resource.
type AssignmentService struct {
	client *Client
}

// AssignmentCreate is the payload for creating an assignment. DueDate
// is passed through verbatim; the backend parses it.
type AssignmentCreate struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	CourseID    int      `json:"course_id"`
	DueDate     *string  `json:"due_date"`
	MaxScore    *float64 `json:"max_score"`
}

// AssignmentUpdate carries only the fields being changed.
type AssignmentUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	DueDate     *string  `json:"due_date"`
	MaxScore    *float64 `json:"max_score"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// GetAll lists assignments with optional filters (course_id, is_active).
func (s *AssignmentService) GetAll(ctx context.Context, params Params) ([]Assignment, error) {
	var out []Assignment
	if err := s.client.get(ctx, "/assignments", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one assignment.
func (s *AssignmentService) GetByID(ctx context.Context, id int) (*Assignment, error) {
	var out Assignment
	if err := s.client.get(ctx, fmt.Sprintf("/assignments/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds an assignment.
func (s *AssignmentService) Create(ctx context.Context, payload AssignmentCreate) (*Assignment, error) {
	var out Assignment
	if err := s.client.do(ctx, http.MethodPost, "/assignments", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies an assignment.
func (s *AssignmentService) Update(ctx context.Context, id int, payload AssignmentUpdate) (*Assignment, error) {
	var out Assignment
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/assignments/%d", id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deactivates an assignment (soft delete on the backend).
func (s *AssignmentService) Delete(ctx context.Context, id int) (*Ack, error) {
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/assignments/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
