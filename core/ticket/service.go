package ticket

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/tailcraft/avialearn/core"
)

var (
	// errors
	ErrNotFound      = errors.New("ticket not found")
	ErrInvalidStatus = errors.New("unknown ticket status")
)

var statuses = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

type (
	Repository interface {
		CreateTicket(tkt Ticket) (Ticket, error)
		GetTicketByID(id int) (Ticket, error)
		// FilterTickets applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Subject, Message or RequesterName.
		FilterTickets(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Ticket, int, error)
		UpdateTicket(tkt Ticket, status, priority *string) (Ticket, error)
		AddTicketReply(id int, reply Reply) (Ticket, error)
		DeleteTicketsByID(ids ...int) error
		TicketStats() (Stats, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) Create(nt NewTicket) (Ticket, error) {
	now := time.Now().UTC()
	if nt.Category == "" {
		nt.Category = CategoryOther
	}
	if nt.Priority == "" {
		nt.Priority = PriorityMedium
	}
	tkt := Ticket{
		Subject:        nt.Subject,
		Message:        nt.Message,
		RequesterName:  nt.RequesterName,
		RequesterEmail: nt.RequesterEmail,
		Category:       nt.Category,
		Priority:       nt.Priority,
		Status:         StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateTicket(tkt)
}

func (svc *Service) GetByID(id int) (Ticket, error) {
	return svc.repo.GetTicketByID(id)
}

func (svc *Service) Query(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Ticket, int, error) {
	return svc.repo.FilterTickets(filter, ordering, page)
}

func (svc *Service) Stats() (Stats, error) {
	return svc.repo.TicketStats()
}

// Reply appends an admin reply, marks the ticket in progress if it was open,
// and emails the requester.
func (svc *Service) Reply(id int, nr NewReply) (Ticket, error) {
	tkt, err := svc.repo.GetTicketByID(id)
	if err != nil {
		return Ticket{}, err
	}

	reply := Reply{Author: nr.Author, Message: nr.Message, CreatedAt: time.Now().UTC()}
	tkt, err = svc.repo.AddTicketReply(id, reply)
	if err != nil {
		return Ticket{}, err
	}
	if tkt.Status == StatusOpen {
		status := StatusInProgress
		if tkt, err = svc.repo.UpdateTicket(Ticket{ID: id, UpdatedAt: time.Now().UTC()}, &status, nil); err != nil {
			return Ticket{}, err
		}
	}

	svc.notifyRequester(tkt, fmt.Sprintf("Re: %s", tkt.Subject), nr.Message)
	return tkt, nil
}

func (svc *Service) SetStatus(id int, status string) (Ticket, error) {
	status = core.CleanString(status, true /* lower */)
	var known bool
	for _, s := range statuses {
		if s == status {
			known = true
			break
		}
	}
	if !known {
		return Ticket{}, core.NewValidationError(ErrInvalidStatus,
			core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()})
	}

	tkt, err := svc.repo.UpdateTicket(Ticket{ID: id, UpdatedAt: time.Now().UTC()}, &status, nil)
	if err != nil {
		return Ticket{}, err
	}
	if status == StatusResolved {
		svc.notifyRequester(tkt, fmt.Sprintf("Resolved: %s", tkt.Subject),
			"Your support request has been resolved. Reply to reopen it.")
	}
	return tkt, nil
}

func (svc *Service) SetPriority(id int, priority string) (Ticket, error) {
	priority = core.CleanString(priority, true /* lower */)
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
	default:
		return Ticket{}, core.NewValidationError(errors.New("unknown ticket priority"),
			core.FieldError{Field: "priority", Error: "unknown ticket priority"})
	}
	return svc.repo.UpdateTicket(Ticket{ID: id, UpdatedAt: time.Now().UTC()}, nil, &priority)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteTicketsByID(ids...)
}

func (svc *Service) notifyRequester(tkt Ticket, subject, body string) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:          []mail.Address{{Name: tkt.RequesterName, Address: tkt.RequesterEmail}},
		Subject:     subject,
		TextContent: body,
	})
}
