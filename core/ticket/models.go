package ticket

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tailcraft/avialearn/core"
)

// Statuses
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Categories
const (
	CategoryTechnical = "technical"
	CategoryBilling   = "billing"
	CategoryCourse    = "course"
	CategoryOther     = "other"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Reply struct {
	ID        int       `json:"id"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type Ticket struct {
	ID             int       `json:"id"`
	Subject        string    `json:"subject"`
	Message        string    `json:"message"`
	RequesterName  string    `json:"requester_name"`
	RequesterEmail string    `json:"requester_email"`
	Category       string    `json:"category"`
	Priority       string    `json:"priority"`
	Status         string    `json:"status"`
	Replies        []Reply   `json:"replies"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

// NewTicket contains information needed to open a new support Ticket.
type NewTicket struct {
	Subject        string `json:"subject" validate:"required"`
	Message        string `json:"message" validate:"required"`
	RequesterName  string `json:"requester_name" validate:"required"`
	RequesterEmail string `json:"requester_email" validate:"required,email"`
	Category       string `json:"category" validate:"omitempty,oneof=technical billing course other"`
	Priority       string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

func (nt *NewTicket) Validate(validate *validator.Validate) error {
	nt.Subject = core.CleanString(nt.Subject)
	nt.Message = core.CleanString(nt.Message)
	nt.RequesterName = core.CleanString(nt.RequesterName)
	nt.RequesterEmail = core.CleanString(nt.RequesterEmail, true /* lower */)
	nt.Category = core.CleanString(nt.Category, true /* lower */)
	nt.Priority = core.CleanString(nt.Priority, true /* lower */)
	return validate.Struct(nt)
}

// NewReply is an admin reply posted on an existing ticket.
type NewReply struct {
	Author  string `json:"author" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (nr *NewReply) Validate(validate *validator.Validate) error {
	nr.Author = core.CleanString(nr.Author)
	nr.Message = core.CleanString(nr.Message)
	return validate.Struct(nr)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	Priority string `query:"priority"`
	Status   string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Category == "" && qf.Priority == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Category = core.CleanString(qf.Category, true /* lower */)
	qf.Priority = core.CleanString(qf.Priority, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

type Stats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
}
