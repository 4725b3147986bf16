package backend

import (
	"fmt"
	"time"
)

// Time wraps time.Time to accept the backend's naive ISO timestamps,
// which come without a zone offset, alongside RFC 3339.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// UnmarshalJSON parses a quoted timestamp or null.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp %q", s)
	}
	s = s[1 : len(s)-1]
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON writes RFC 3339 or null for the zero time.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// User is a backend account with its resolved role.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Course is a backend course with display counts.
type Course struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	GoogleCourseID  string `json:"google_course_id"`
	TeacherID       int    `json:"teacher_id"`
	Teacher         User   `json:"teacher"`
	IsActive        bool   `json:"is_active"`
	EnrollmentCount int    `json:"enrollment_count"`
	AssignmentCount int    `json:"assignment_count"`
	CreatedAt       Time   `json:"created_at"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	ID         int    `json:"id"`
	StudentID  int    `json:"student_id"`
	CourseID   int    `json:"course_id"`
	EnrolledAt Time   `json:"enrolled_at"`
	Student    User   `json:"student"`
	Course     Course `json:"course"`
}

// Assignment is a course task with optional due date and max score.
type Assignment struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CourseID    int      `json:"course_id"`
	DueDate     *Time    `json:"due_date"`
	MaxScore    *float64 `json:"max_score"`
	IsActive    bool     `json:"is_active"`
	CreatedAt   Time     `json:"created_at"`
	Course      Course   `json:"course"`
}

// Submission is a student's turned-in work for an assignment.
type Submission struct {
	ID           int        `json:"id"`
	AssignmentID int        `json:"assignment_id"`
	StudentID    int        `json:"student_id"`
	Content      string     `json:"content"`
	Score        *float64   `json:"score"`
	Feedback     string     `json:"feedback"`
	SubmittedAt  Time       `json:"submitted_at"`
	Assignment   Assignment `json:"assignment"`
	Student      User       `json:"student"`
}

// Notification is a stored per-user notification. Derived alerts
// (upcoming/overdue) reuse the same shape but are never persisted.
type Notification struct {
	ID                  int    `json:"id"`
	UserID              int    `json:"user_id"`
	Title               string `json:"title"`
	Content             string `json:"content"`
	Category            string `json:"category"`
	IsRead              bool   `json:"is_read"`
	RelatedAssignmentID *int   `json:"related_assignment_id"`
	DueDate             *Time  `json:"due_date"`
	CreatedAt           Time   `json:"created_at"`
}

// Announcement is a site-wide notice; deletion deactivates it.
type Announcement struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsActive  bool   `json:"is_active"`
	StartAt   *Time  `json:"start_at"`
	EndAt     *Time  `json:"end_at"`
	CreatedAt Time   `json:"created_at"`
}

// Ack is the backend's acknowledgement body for deletes.
type Ack struct {
	Message string `json:"message"`
}
