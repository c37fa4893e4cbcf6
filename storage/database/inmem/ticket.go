package inmemdb

import (
	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/ticket"
)

type ticketRepository struct {
	db *ticketTable
}

func NewTicketRepository(db *DB) ticket.Repository {
	return &ticketRepository{db: db.tickets}
}

func copyTicket(tkt ticket.Ticket) ticket.Ticket {
	cp := tkt
	cp.Replies = make([]ticket.Reply, len(tkt.Replies))
	copy(cp.Replies, tkt.Replies)
	return cp
}

func (repo *ticketRepository) query() []ticket.Ticket {
	tickets := make([]ticket.Ticket, 0, len(repo.db.table))
	for _, tkt := range repo.db.table {
		tickets = append(tickets, copyTicket(*tkt))
	}
	return tickets
}

func (repo *ticketRepository) CreateTicket(tkt ticket.Ticket) (ticket.Ticket, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	tkt.ID = repo.db.pk
	stored := copyTicket(tkt)
	repo.db.table[tkt.ID] = &stored
	return tkt, nil
}

func (repo *ticketRepository) GetTicketByID(id int) (ticket.Ticket, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tkt, ok := repo.db.table[id]; ok {
		return copyTicket(*tkt), nil
	}
	return ticket.Ticket{}, ticket.ErrNotFound
}

func (repo *ticketRepository) FilterTickets(
	filter ticket.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]ticket.Ticket, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]ticket.Ticket, 0)
	for _, tkt := range repo.query() {
		if filter.Search != "" &&
			!(containsFold(tkt.Subject, filter.Search) ||
				containsFold(tkt.Message, filter.Search) ||
				containsFold(tkt.RequesterName, filter.Search)) {
			continue
		}
		if filter.Category != "" && tkt.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && tkt.Priority != filter.Priority {
			continue
		}
		if filter.Status != "" && tkt.Status != filter.Status {
			continue
		}
		matches = append(matches, tkt)
	}

	orderBy(matches, ordering, func(field string) func(a, b ticket.Ticket) bool {
		switch field {
		case "subject":
			return func(a, b ticket.Ticket) bool { return a.Subject < b.Subject }
		case "priority":
			return func(a, b ticket.Ticket) bool { return a.Priority < b.Priority }
		case "created_at":
			return func(a, b ticket.Ticket) bool { return a.CreatedAt.Before(b.CreatedAt) }
		}
		return nil
	}, func(a, b ticket.Ticket) bool { return a.CreatedAt.After(b.CreatedAt) })

	paged, total := paginate(matches, page)
	return paged, total, nil
}

func (repo *ticketRepository) UpdateTicket(tkt ticket.Ticket, status, priority *string) (ticket.Ticket, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.table[tkt.ID]
	if !ok {
		return ticket.Ticket{}, ticket.ErrNotFound
	}
	if status != nil {
		orig.Status = *status
	}
	if priority != nil {
		orig.Priority = *priority
	}
	orig.UpdatedAt = tkt.UpdatedAt

	repo.db.table[tkt.ID] = orig
	return copyTicket(*orig), nil
}

func (repo *ticketRepository) AddTicketReply(id int, reply ticket.Reply) (ticket.Ticket, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[id]
	if !ok {
		return ticket.Ticket{}, ticket.ErrNotFound
	}
	repo.db.replyPK++
	reply.ID = repo.db.replyPK
	orig.Replies = append(orig.Replies, reply)
	orig.UpdatedAt = reply.CreatedAt
	return copyTicket(*orig), nil
}

func (repo *ticketRepository) DeleteTicketsByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *ticketRepository) TicketStats() (ticket.Stats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats ticket.Stats
	for _, tkt := range repo.db.table {
		stats.Total++
		switch tkt.Status {
		case ticket.StatusOpen:
			stats.Open++
		case ticket.StatusInProgress:
			stats.InProgress++
		case ticket.StatusResolved:
			stats.Resolved++
		case ticket.StatusClosed:
			stats.Closed++
		}
	}
	return stats, nil
}
