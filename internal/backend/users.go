package backend

import (
	"context"
	"net/http"
)

// UserService wraps the /users resource.
type UserService struct {
	client *Client
}

type resolveRequest struct {
	Email string `json:"email"`
}

// Resolve maps an email to its backend user record, creating the user
// and assigning a role on first sight.
func (s *UserService) Resolve(ctx context.Context, email string) (*User, error) {
	var out User
	if err := s.client.do(ctx, http.MethodPost, "/users/resolve", nil, resolveRequest{Email: email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches or creates the user record for an email.
func (s *UserService) Me(ctx context.Context, email string) (*User, error) {
	var out User
	if err := s.client.get(ctx, "/users/me", Params{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
