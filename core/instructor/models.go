package instructor

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tailcraft/avialearn/core"
)

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Instructor ratings
const (
	RatingCFI  = "cfi"
	RatingCFII = "cfii"
	RatingMEI  = "mei"
)

type Instructor struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Ratings   []string  `json:"ratings"`
	Bio       string    `json:"bio"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewInstructor contains information needed to create a new Instructor.
type NewInstructor struct {
	Name    string   `json:"name" validate:"required"`
	Email   string   `json:"email" validate:"required,email"`
	Phone   string   `json:"phone"`
	Ratings []string `json:"ratings" validate:"omitempty,dive,oneof=cfi cfii mei"`
	Bio     string   `json:"bio"`
}

func (ni *NewInstructor) Validate(validate *validator.Validate, svc *Service) error {
	ni.Name = core.CleanString(ni.Name)
	ni.Email = core.CleanString(ni.Email, true /* lower */)
	ni.Phone = core.CleanString(ni.Phone)
	ni.Bio = core.CleanString(ni.Bio)

	if err := validate.Struct(ni); err != nil {
		return err
	}
	return svc.checkUniqueness(ni.Email)
}

// UpdateInstructor defines what information may be provided to modify an existing Instructor.
type UpdateInstructor struct {
	Name    string   `json:"name"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Phone   string   `json:"phone"`
	Ratings []string `json:"ratings" validate:"omitempty,dive,oneof=cfi cfii mei"`
	Bio     string   `json:"bio"`
}

func (ui *UpdateInstructor) Validate(validate *validator.Validate, orig Instructor, svc *Service) error {
	name := core.CleanString(ui.Name)
	if name != "" {
		ui.Name = name
	} else {
		ui.Name = orig.Name
	}

	email := core.CleanString(ui.Email, true /* lower */)
	if email != "" {
		ui.Email = email
	} else {
		ui.Email = orig.Email
	}
	ui.Phone = core.CleanString(ui.Phone)
	ui.Bio = core.CleanString(ui.Bio)

	if err := validate.Struct(ui); err != nil {
		return err
	}
	return svc.checkUniqueness(ui.Email, orig)
}

type QueryFilter struct {
	Search string `query:"search"`
	Status string `query:"status"`
	Rating string `query:"rating"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.Rating == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Rating = core.CleanString(qf.Rating, true /* lower */)
}

type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}
