package backend

import (
	"context"
	"fmt"
	"net/http"
)

// AnnouncementService wraps the /announcements resource.
type AnnouncementService struct {
	client *Client
}

// AnnouncementCreate is the payload for publishing an announcement.
type AnnouncementCreate struct {
	Title   string  `json:"title"`
	Content *string `json:"content,omitempty"`
	StartAt *string `json:"start_at,omitempty"`
	EndAt   *string `json:"end_at,omitempty"`
}

// AnnouncementUpdate carries only the fields being changed.
type AnnouncementUpdate struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	StartAt  *string `json:"start_at,omitempty"`
	EndAt    *string `json:"end_at,omitempty"`
}

// GetAll lists announcements with optional filters (is_active).
func (s *AnnouncementService) GetAll(ctx context.Context, params Params) ([]Announcement, error) {
	var out []Announcement
	if err := s.client.get(ctx, "/announcements", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one announcement.
func (s *AnnouncementService) GetByID(ctx context.Context, id int) (*Announcement, error) {
	var out Announcement
	if err := s.client.get(ctx, fmt.Sprintf("/announcements/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create publishes an announcement.
func (s *AnnouncementService) Create(ctx context.Context, payload AnnouncementCreate) (*Announcement, error) {
	var out Announcement
	if err := s.client.do(ctx, http.MethodPost, "/announcements", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies an announcement.
func (s *AnnouncementService) Update(ctx context.Context, id int, payload AnnouncementUpdate) (*Announcement, error) {
	var out Announcement
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/announcements/%d", id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Deactivate retires an announcement; the backend keeps the record.
func (s *AnnouncementService) Deactivate(ctx context.Context, id int) (*Ack, error) {
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/announcements/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
