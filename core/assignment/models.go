package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tailcraft/avialearn/core"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusClosed    = "closed"
)

type Assignment struct {
	ID          int       `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MaxPoints   int       `json:"max_points"`
	DueAt       time.Time `json:"due_at"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	CourseID    string    `json:"course_id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	MaxPoints   int       `json:"max_points" validate:"omitempty,min=1"`
	DueAt       time.Time `json:"due_at"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.CourseID = core.CleanString(na.CourseID)
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}

// UpdateAssignment defines what information may be provided to modify an existing Assignment.
type UpdateAssignment struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MaxPoints   int       `json:"max_points" validate:"omitempty,min=1"`
	DueAt       time.Time `json:"due_at"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate, orig Assignment) error {
	title := core.CleanString(ua.Title)
	if title != "" {
		ua.Title = title
	} else {
		ua.Title = orig.Title
	}
	ua.Description = core.CleanString(ua.Description)
	return validate.Struct(ua)
}

type QueryFilter struct {
	Search   string `query:"search"`
	CourseID string `query:"course_id"`
	Status   string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.CourseID == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CourseID = core.CleanString(qf.CourseID)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

type Stats struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Published int `json:"published"`
	Closed    int `json:"closed"`
}
