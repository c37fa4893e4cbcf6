package sqlxrepos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/ticket"
)

type ticketRow struct {
	ID             int       `db:"id"`
	Subject        string    `db:"subject"`
	Message        string    `db:"message"`
	RequesterName  string    `db:"requester_name"`
	RequesterEmail string    `db:"requester_email"`
	Category       string    `db:"category"`
	Priority       string    `db:"priority"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type replyRow struct {
	ID        int       `db:"id"`
	TicketID  int       `db:"ticket_id"`
	Author    string    `db:"author"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

func (r ticketRow) toEntity(replies []ticket.Reply) ticket.Ticket {
	return ticket.Ticket{
		ID:             r.ID,
		Subject:        r.Subject,
		Message:        r.Message,
		RequesterName:  r.RequesterName,
		RequesterEmail: r.RequesterEmail,
		Category:       r.Category,
		Priority:       r.Priority,
		Status:         r.Status,
		Replies:        replies,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

var ticketOrderFields = map[string]bool{
	"subject": true, "priority": true, "created_at": true, "updated_at": true,
}

type ticketRepository struct {
	db *sqlx.DB
}

func NewTicketRepository(db *sqlx.DB) ticket.Repository {
	return &ticketRepository{db: db}
}

func (repo *ticketRepository) repliesFor(ids ...int) (map[int][]ticket.Reply, error) {
	replies := make(map[int][]ticket.Reply, len(ids))
	if len(ids) == 0 {
		return replies, nil
	}

	q, args, err := sqlx.In("SELECT * FROM ticket_replies WHERE ticket_id IN (?) ORDER BY created_at", ids)
	if err != nil {
		return nil, errors.Wrap(err, "building replies query")
	}
	var rows []replyRow
	if err = repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting ticket replies")
	}

	for _, row := range rows {
		replies[row.TicketID] = append(replies[row.TicketID], ticket.Reply{
			ID:        row.ID,
			Author:    row.Author,
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		})
	}
	return replies, nil
}

func (repo *ticketRepository) CreateTicket(tkt ticket.Ticket) (ticket.Ticket, error) {
	q := `INSERT INTO tickets (subject, message, requester_name, requester_email, category, priority, status, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := repo.db.Get(&tkt.ID, q,
		tkt.Subject, tkt.Message, tkt.RequesterName, tkt.RequesterEmail,
		tkt.Category, tkt.Priority, tkt.Status, tkt.CreatedAt, tkt.UpdatedAt)
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "inserting ticket")
	}
	return tkt, nil
}

func (repo *ticketRepository) GetTicketByID(id int) (ticket.Ticket, error) {
	var row ticketRow
	err := repo.db.Get(&row, "SELECT * FROM tickets WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return ticket.Ticket{}, ticket.ErrNotFound
	}
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "getting ticket")
	}

	replies, err := repo.repliesFor(id)
	if err != nil {
		return ticket.Ticket{}, err
	}
	return row.toEntity(replies[id]), nil
}

func (repo *ticketRepository) FilterTickets(
	filter ticket.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]ticket.Ticket, int, error) {
	args := argList{}
	var conds []string
	if filter.Search != "" {
		p := args.add("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(subject ILIKE %s OR message ILIKE %s OR requester_name ILIKE %s)", p, p, p))
	}
	if filter.Category != "" {
		conds = append(conds, fmt.Sprintf("category = %s", args.add(filter.Category)))
	}
	if filter.Priority != "" {
		conds = append(conds, fmt.Sprintf("priority = %s", args.add(filter.Priority)))
	}
	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("status = %s", args.add(filter.Status)))
	}
	where := whereClause(conds)

	var total int
	if err := repo.db.Get(&total, "SELECT COUNT(*) FROM tickets "+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting tickets")
	}

	q := fmt.Sprintf("SELECT * FROM tickets %s %s %s",
		where, orderClause(ordering, ticketOrderFields, "created_at DESC"), limitOffset(&args, page))
	var rows []ticketRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering tickets")
	}

	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	replies, err := repo.repliesFor(ids...)
	if err != nil {
		return nil, 0, err
	}

	tickets := make([]ticket.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, row.toEntity(replies[row.ID]))
	}
	return tickets, total, nil
}

func (repo *ticketRepository) UpdateTicket(tkt ticket.Ticket, status, priority *string) (ticket.Ticket, error) {
	// only save set fields
	args := argList{}
	sets := []string{fmt.Sprintf("updated_at = %s", args.add(tkt.UpdatedAt))}
	if tkt.Subject != "" {
		sets = append(sets, fmt.Sprintf("subject = %s", args.add(tkt.Subject)))
	}
	if tkt.Message != "" {
		sets = append(sets, fmt.Sprintf("message = %s", args.add(tkt.Message)))
	}
	if tkt.Category != "" {
		sets = append(sets, fmt.Sprintf("category = %s", args.add(tkt.Category)))
	}
	if status != nil {
		sets = append(sets, fmt.Sprintf("status = %s", args.add(*status)))
	}
	if priority != nil {
		sets = append(sets, fmt.Sprintf("priority = %s", args.add(*priority)))
	}

	q := fmt.Sprintf("UPDATE tickets SET %s WHERE id = %s RETURNING *",
		joinSets(sets), args.add(tkt.ID))
	var row ticketRow
	err := repo.db.Get(&row, q, args...)
	if err == sql.ErrNoRows {
		return ticket.Ticket{}, ticket.ErrNotFound
	}
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "updating ticket")
	}

	replies, err := repo.repliesFor(row.ID)
	if err != nil {
		return ticket.Ticket{}, err
	}
	return row.toEntity(replies[row.ID]), nil
}

func (repo *ticketRepository) AddTicketReply(id int, reply ticket.Reply) (ticket.Ticket, error) {
	q := `INSERT INTO ticket_replies (ticket_id, author, message, created_at)
	      VALUES ($1, $2, $3, $4) RETURNING id`
	err := repo.db.Get(&reply.ID, q, id, reply.Author, reply.Message, reply.CreatedAt)
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "inserting ticket reply")
	}
	return repo.GetTicketByID(id)
}

func (repo *ticketRepository) DeleteTicketsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM tickets WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting tickets")
	}
	return nil
}

func (repo *ticketRepository) TicketStats() (ticket.Stats, error) {
	rows, err := repo.db.Queryx("SELECT status, COUNT(*) FROM tickets GROUP BY status")
	if err != nil {
		return ticket.Stats{}, errors.Wrap(err, "querying ticket stats")
	}
	defer func() { _ = rows.Close() }()

	var stats ticket.Stats
	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return ticket.Stats{}, errors.Wrap(err, "scanning ticket stats")
		}
		stats.Total += count
		switch status {
		case ticket.StatusOpen:
			stats.Open = count
		case ticket.StatusInProgress:
			stats.InProgress = count
		case ticket.StatusResolved:
			stats.Resolved = count
		case ticket.StatusClosed:
			stats.Closed = count
		}
	}
	return stats, errors.Wrap(rows.Err(), "reading ticket stats")
}
