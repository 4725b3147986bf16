package backend

import (
	"context"
	"fmt"
	"net/http"
)

// NotificationService wraps the /notifications resource, including the
// derived alert endpoints.
type NotificationService struct {
	client *Client
}

// NotificationCreate is the payload for creating a notification.
type NotificationCreate struct {
	UserID   int     `json:"user_id"`
	Title    string  `json:"title"`
	Content  *string `json:"content,omitempty"`
	Category string  `json:"category,omitempty"`
	DueDate  *string `json:"due_date,omitempty"`
}

// NotificationUpdate carries only the fields being changed.
type NotificationUpdate struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
	IsRead   *bool   `json:"is_read,omitempty"`
	DueDate  *string `json:"due_date,omitempty"`
}

type markReadRequest struct {
	IsRead bool `json:"is_read"`
}

// GetAll lists notifications with optional filters (user_id, is_read, category).
func (s *NotificationService) GetAll(ctx context.Context, params Params) ([]Notification, error) {
	var out []Notification
	if err := s.client.get(ctx, "/notifications", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one notification.
func (s *NotificationService) GetByID(ctx context.Context, id int) (*Notification, error) {
	var out Notification
	if err := s.client.get(ctx, fmt.Sprintf("/notifications/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds a notification for a user.
func (s *NotificationService) Create(ctx context.Context, payload NotificationCreate) (*Notification, error) {
	var out Notification
	if err := s.client.do(ctx, http.MethodPost, "/notifications", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies a notification.
func (s *NotificationService) Update(ctx context.Context, id int, payload NotificationUpdate) (*Notification, error) {
	var out Notification
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/notifications/%d", id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkRead flips the read flag on a notification.
func (s *NotificationService) MarkRead(ctx context.Context, id int, isRead bool) (*Notification, error) {
	var out Notification
	if err := s.client.do(ctx, http.MethodPatch, fmt.Sprintf("/notifications/%d/read", id), nil, markReadRequest{IsRead: isRead}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id int) (*Ack, error) {
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/notifications/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpcomingAlerts lists derived due-soon alerts within the given window.
func (s *NotificationService) UpcomingAlerts(ctx context.Context, userID, withinHours int) ([]Notification, error) {
	var out []Notification
	params := Params{"user_id": userID, "within_hours": withinHours}
	if err := s.client.get(ctx, "/notifications/alerts/upcoming", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OverdueAlerts lists derived overdue alerts.
func (s *NotificationService) OverdueAlerts(ctx context.Context, userID int) ([]Notification, error) {
	var out []Notification
	if err := s.client.get(ctx, "/notifications/alerts/overdue", Params{"user_id": userID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID int) (int, error) {
	notifs, err := s.GetAll(ctx, Params{"user_id": userID, "is_read": false})
	if err != nil {
		return 0, err
	}
	return len(notifs), nil
}
