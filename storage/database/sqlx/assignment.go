package sqlxrepos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/assignment"
)

type assignmentRow struct {
	ID          int         `db:"id"`
	CourseID    string      `db:"course_id"`
	Title       string      `db:"title"`
	Description null.String `db:"description"`
	MaxPoints   int         `db:"max_points"`
	DueAt       null.Time   `db:"due_at"`
	Status      string      `db:"status"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r assignmentRow) toEntity() assignment.Assignment {
	return assignment.Assignment{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Title:       r.Title,
		Description: r.Description.String,
		MaxPoints:   r.MaxPoints,
		DueAt:       r.DueAt.Time,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

var assignmentOrderFields = map[string]bool{
	"title": true, "due_at": true, "max_points": true, "created_at": true,
}

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	q := `INSERT INTO assignments (course_id, title, description, max_points, due_at, status, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := repo.db.Get(&asg.ID, q,
		asg.CourseID, asg.Title, null.NewString(asg.Description, asg.Description != ""),
		asg.MaxPoints, null.NewTime(asg.DueAt, !asg.DueAt.IsZero()),
		asg.Status, asg.CreatedAt, asg.UpdatedAt)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(id int) (assignment.Assignment, error) {
	var row assignmentRow
	err := repo.db.Get(&row, "SELECT * FROM assignments WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return row.toEntity(), nil
}

func (repo *assignmentRepository) FilterAssignments(
	filter assignment.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]assignment.Assignment, int, error) {
	args := argList{}
	var conds []string
	if filter.Search != "" {
		p := args.add("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}
	if filter.CourseID != "" {
		conds = append(conds, fmt.Sprintf("course_id = %s", args.add(filter.CourseID)))
	}
	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("status = %s", args.add(filter.Status)))
	}
	where := whereClause(conds)

	var total int
	if err := repo.db.Get(&total, "SELECT COUNT(*) FROM assignments "+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting assignments")
	}

	q := fmt.Sprintf("SELECT * FROM assignments %s %s %s",
		where, orderClause(ordering, assignmentOrderFields, "created_at DESC"), limitOffset(&args, page))
	var rows []assignmentRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering assignments")
	}

	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toEntity())
	}
	return assignments, total, nil
}

func (repo *assignmentRepository) UpdateAssignment(asg assignment.Assignment, status *string) (assignment.Assignment, error) {
	// only save set fields
	args := argList{}
	sets := []string{fmt.Sprintf("updated_at = %s", args.add(asg.UpdatedAt))}
	if asg.Title != "" {
		sets = append(sets, fmt.Sprintf("title = %s", args.add(asg.Title)))
	}
	if asg.Description != "" {
		sets = append(sets, fmt.Sprintf("description = %s", args.add(asg.Description)))
	}
	if asg.MaxPoints != 0 {
		sets = append(sets, fmt.Sprintf("max_points = %s", args.add(asg.MaxPoints)))
	}
	if !asg.DueAt.IsZero() {
		sets = append(sets, fmt.Sprintf("due_at = %s", args.add(asg.DueAt)))
	}
	if status != nil {
		sets = append(sets, fmt.Sprintf("status = %s", args.add(*status)))
	}

	q := fmt.Sprintf("UPDATE assignments SET %s WHERE id = %s RETURNING *",
		joinSets(sets), args.add(asg.ID))
	var row assignmentRow
	err := repo.db.Get(&row, q, args...)
	if err == sql.ErrNoRows {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return row.toEntity(), nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM assignments WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting assignments")
	}
	return nil
}

func (repo *assignmentRepository) AssignmentStats() (assignment.Stats, error) {
	rows, err := repo.db.Queryx("SELECT status, COUNT(*) FROM assignments GROUP BY status")
	if err != nil {
		return assignment.Stats{}, errors.Wrap(err, "querying assignment stats")
	}
	defer func() { _ = rows.Close() }()

	var stats assignment.Stats
	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return assignment.Stats{}, errors.Wrap(err, "scanning assignment stats")
		}
		stats.Total += count
		switch status {
		case assignment.StatusDraft:
			stats.Draft = count
		case assignment.StatusPublished:
			stats.Published = count
		case assignment.StatusClosed:
			stats.Closed = count
		}
	}
	return stats, errors.Wrap(rows.Err(), "reading assignment stats")
}
