package sqlxrepos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/enrollment"
)

type enrollmentRow struct {
	ID          int       `db:"id"`
	StudentID   int       `db:"student_id"`
	CourseID    string    `db:"course_id"`
	CourseTitle string    `db:"course_title"`
	Status      string    `db:"status"`
	Progress    int       `db:"progress"`
	StartedAt   null.Time `db:"started_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r enrollmentRow) toEntity() enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:          r.ID,
		StudentID:   r.StudentID,
		CourseID:    r.CourseID,
		CourseTitle: r.CourseTitle,
		Status:      r.Status,
		Progress:    r.Progress,
		StartedAt:   r.StartedAt.Time,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

var enrollmentOrderFields = map[string]bool{
	"course_title": true, "progress": true, "started_at": true, "created_at": true,
}

type enrollmentRepository struct {
	db *sqlx.DB
}

func NewEnrollmentRepository(db *sqlx.DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	q := `INSERT INTO enrollments (student_id, course_id, course_title, status, progress, started_at, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := repo.db.Get(&enr.ID, q,
		enr.StudentID, enr.CourseID, enr.CourseTitle, enr.Status, enr.Progress,
		null.NewTime(enr.StartedAt, !enr.StartedAt.IsZero()), enr.CreatedAt, enr.UpdatedAt)
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(id int) (enrollment.Enrollment, error) {
	var row enrollmentRow
	err := repo.db.Get(&row, "SELECT * FROM enrollments WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "getting enrollment")
	}
	return row.toEntity(), nil
}

func (repo *enrollmentRepository) FilterEnrollments(
	filter enrollment.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]enrollment.Enrollment, int, error) {
	args := argList{}
	var conds []string
	if filter.Search != "" {
		conds = append(conds, fmt.Sprintf("course_title ILIKE %s", args.add("%"+filter.Search+"%")))
	}
	if filter.StudentID != 0 {
		conds = append(conds, fmt.Sprintf("student_id = %s", args.add(filter.StudentID)))
	}
	if filter.CourseID != "" {
		conds = append(conds, fmt.Sprintf("course_id = %s", args.add(filter.CourseID)))
	}
	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("status = %s", args.add(filter.Status)))
	}
	where := whereClause(conds)

	var total int
	if err := repo.db.Get(&total, "SELECT COUNT(*) FROM enrollments "+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting enrollments")
	}

	q := fmt.Sprintf("SELECT * FROM enrollments %s %s %s",
		where, orderClause(ordering, enrollmentOrderFields, "created_at DESC"), limitOffset(&args, page))
	var rows []enrollmentRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering enrollments")
	}

	enrollments := make([]enrollment.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.toEntity())
	}
	return enrollments, total, nil
}

func (repo *enrollmentRepository) UpdateEnrollment(enr enrollment.Enrollment, status *string, progress *int) (enrollment.Enrollment, error) {
	// only save set fields
	args := argList{}
	sets := []string{fmt.Sprintf("updated_at = %s", args.add(enr.UpdatedAt))}
	if enr.CourseTitle != "" {
		sets = append(sets, fmt.Sprintf("course_title = %s", args.add(enr.CourseTitle)))
	}
	if !enr.StartedAt.IsZero() {
		sets = append(sets, fmt.Sprintf("started_at = %s", args.add(enr.StartedAt)))
	}
	if status != nil {
		sets = append(sets, fmt.Sprintf("status = %s", args.add(*status)))
	}
	if progress != nil {
		sets = append(sets, fmt.Sprintf("progress = %s", args.add(*progress)))
	}

	q := fmt.Sprintf("UPDATE enrollments SET %s WHERE id = %s RETURNING *",
		joinSets(sets), args.add(enr.ID))
	var row enrollmentRow
	err := repo.db.Get(&row, q, args...)
	if err == sql.ErrNoRows {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	return row.toEntity(), nil
}

func (repo *enrollmentRepository) DeleteEnrollmentsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM enrollments WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	return nil
}

func (repo *enrollmentRepository) EnrollmentStats() (enrollment.Stats, error) {
	rows, err := repo.db.Queryx("SELECT status, COUNT(*) FROM enrollments GROUP BY status")
	if err != nil {
		return enrollment.Stats{}, errors.Wrap(err, "querying enrollment stats")
	}
	defer func() { _ = rows.Close() }()

	var stats enrollment.Stats
	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return enrollment.Stats{}, errors.Wrap(err, "scanning enrollment stats")
		}
		stats.Total += count
		switch status {
		case enrollment.StatusPending:
			stats.Pending = count
		case enrollment.StatusActive:
			stats.Active = count
		case enrollment.StatusCompleted:
			stats.Completed = count
		case enrollment.StatusCancelled:
			stats.Cancelled = count
		}
	}
	return stats, errors.Wrap(rows.Err(), "reading enrollment stats")
}
