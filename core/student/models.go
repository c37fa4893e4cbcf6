package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tailcraft/avialearn/core"
)

// Statuses
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// License goals
const (
	LicensePPL  = "ppl"
	LicenseCPL  = "cpl"
	LicenseATPL = "atpl"
	LicenseIR   = "ir"
)

var Statuses = []string{StatusPending, StatusActive, StatusSuspended}

type Student struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	LicenseGoal string    `json:"license_goal"`
	FlightHours float64   `json:"flight_hours"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone"`
	LicenseGoal string  `json:"license_goal" validate:"omitempty,oneof=ppl cpl atpl ir"`
	FlightHours float64 `json:"flight_hours" validate:"omitempty,min=0"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Email)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name        string  `json:"name"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Phone       string  `json:"phone"`
	LicenseGoal string  `json:"license_goal" validate:"omitempty,oneof=ppl cpl atpl ir"`
	FlightHours float64 `json:"flight_hours" validate:"omitempty,min=0"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate, orig Student, svc *Service) error {
	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}

	email := core.CleanString(us.Email, true /* lower */)
	if email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}
	us.Phone = core.CleanString(us.Phone)

	if err := validate.Struct(us); err != nil {
		return err
	}
	return svc.checkUniqueness(us.Email, orig)
}

type QueryFilter struct {
	Search      string `query:"search"`
	Status      string `query:"status"`
	LicenseGoal string `query:"license_goal"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.LicenseGoal == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.LicenseGoal = core.CleanString(qf.LicenseGoal, true /* lower */)
}

type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Suspended int `json:"suspended"`
}
