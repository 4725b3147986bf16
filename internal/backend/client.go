package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"classgate/internal/metrics"
)

// Client calls the school backend REST service.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	Courses       *CourseService
	Enrollments   *EnrollmentService
	Assignments   *AssignmentService
	Submissions   *SubmissionService
	Notifications *NotificationService
	Announcements *AnnouncementService
	Users         *UserService
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
	c.Courses = &CourseService{client: c}
	c.Enrollments = &EnrollmentService{client: c}
	c.Assignments = &AssignmentService{client: c}
	c.Submissions = &SubmissionService{client: c}
	c.Notifications = &NotificationService{client: c}
	c.Announcements = &AnnouncementService{client: c}
	c.Users = &UserService{client: c}
	return c
}

func (c *Client) get(ctx context.Context, path string, params Params, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, params Params, body, out any) error {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Values().Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("backend: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	metrics.BackendLatency.WithLabelValues(method, resourceLabel(path)).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		return newError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", method, path, err)
	}
	return nil
}

// resourceLabel keeps metric cardinality bounded to the first path segment.
func resourceLabel(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i > 0 {
		return path[:i]
	}
	return path
}
