package quiz

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tailcraft/avialearn/core"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type Quiz struct {
	ID           int         `json:"id"`
	CourseID     string      `json:"course_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Duration     int         `json:"duration"` // minutes
	PassingScore int         `json:"passing_score"`
	TotalPoints  int         `json:"total_points"`
	Status       string      `json:"status"`
	Questions    []*Question `json:"questions"`
	CreatedAt    time.Time   `json:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at"` // UTC
}

// NewQuiz contains information needed to create a new Quiz.
type NewQuiz struct {
	CourseID     string      `json:"course_id" validate:"required"`
	Title        string      `json:"title" validate:"required"`
	Description  string      `json:"description"`
	Duration     int         `json:"duration" validate:"omitempty,min=1"`
	PassingScore int         `json:"passing_score" validate:"omitempty,min=0,max=100"`
	Questions    []*Question `json:"questions" validate:"required,min=1"`
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.CourseID = core.CleanString(nq.CourseID)
	nq.Title = core.CleanString(nq.Title)
	nq.Description = core.CleanString(nq.Description)

	if err := validate.Struct(nq); err != nil {
		return err
	}
	for _, q := range nq.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TotalPoints sums the question points.
func (nq *NewQuiz) TotalPoints() int {
	var total int
	for _, q := range nq.Questions {
		total += q.Points
	}
	return total
}

// UpdateQuiz defines what information may be provided to modify an existing Quiz.
// Zero-value fields are left untouched.
type UpdateQuiz struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Duration     int         `json:"duration" validate:"omitempty,min=1"`
	PassingScore int         `json:"passing_score" validate:"omitempty,min=0,max=100"`
	Questions    []*Question `json:"questions" validate:"omitempty,min=1"`
}

func (uq *UpdateQuiz) Validate(validate *validator.Validate, orig Quiz) error {
	title := core.CleanString(uq.Title)
	if title != "" {
		uq.Title = title
	} else {
		uq.Title = orig.Title
	}
	uq.Description = core.CleanString(uq.Description)

	if err := validate.Struct(uq); err != nil {
		return err
	}
	for _, q := range uq.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
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
	Published int `json:"published"`
	Draft     int `json:"draft"`
}
