package enrollment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tailcraft/avialearn/core"
)

// Statuses
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Enrollment struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	CourseID    string    `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"` // percent
	StartedAt   time.Time `json:"started_at"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewEnrollment contains information needed to enroll a student in a course.
type NewEnrollment struct {
	StudentID   int    `json:"student_id" validate:"required,min=1"`
	CourseID    string `json:"course_id" validate:"required"`
	CourseTitle string `json:"course_title" validate:"required"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	ne.CourseID = core.CleanString(ne.CourseID)
	ne.CourseTitle = core.CleanString(ne.CourseTitle)
	return validate.Struct(ne)
}

// UpdateEnrollment defines what information may be provided to modify an existing Enrollment.
type UpdateEnrollment struct {
	CourseTitle string `json:"course_title"`
	Progress    *int   `json:"progress" validate:"omitempty,min=0,max=100"`
}

func (ue *UpdateEnrollment) Validate(validate *validator.Validate, orig Enrollment) error {
	title := core.CleanString(ue.CourseTitle)
	if title != "" {
		ue.CourseTitle = title
	} else {
		ue.CourseTitle = orig.CourseTitle
	}
	return validate.Struct(ue)
}

type QueryFilter struct {
	Search    string `query:"search"`
	StudentID int    `query:"student_id"`
	CourseID  string `query:"course_id"`
	Status    string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.StudentID == 0 && qf.CourseID == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CourseID = core.CleanString(qf.CourseID)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}
