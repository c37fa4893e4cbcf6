package sqlxrepos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/student"
)

type studentRow struct {
	ID          int         `db:"id"`
	Name        string      `db:"name"`
	Email       string      `db:"email"`
	Phone       null.String `db:"phone"`
	LicenseGoal null.String `db:"license_goal"`
	FlightHours float64     `db:"flight_hours"`
	Status      string      `db:"status"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r studentRow) toEntity() student.Student {
	return student.Student{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone.String,
		LicenseGoal: r.LicenseGoal.String,
		FlightHours: r.FlightHours,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

var studentOrderFields = map[string]bool{
	"name": true, "email": true, "flight_hours": true, "created_at": true,
}

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckStudentEmailUniqueness(email string, excluded ...student.Student) error {
	args := argList{}
	q := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM students WHERE email = %s", args.add(email))
	for _, ex := range excluded {
		q += fmt.Sprintf(" AND id <> %s", args.add(ex.ID))
	}
	q += ")"

	var exists bool
	if err := repo.db.Get(&exists, q, args...); err != nil {
		return errors.Wrap(err, "checking student email")
	}
	if exists {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	q := `INSERT INTO students (name, email, phone, license_goal, flight_hours, status, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := repo.db.Get(&std.ID, q,
		std.Name, std.Email, null.NewString(std.Phone, std.Phone != ""),
		null.NewString(std.LicenseGoal, std.LicenseGoal != ""),
		std.FlightHours, std.Status, std.CreatedAt, std.UpdatedAt)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByID(id int) (student.Student, error) {
	var row studentRow
	err := repo.db.Get(&row, "SELECT * FROM students WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.toEntity(), nil
}

func (repo *studentRepository) FilterStudents(
	filter student.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]student.Student, int, error) {
	args := argList{}
	var conds []string
	if filter.Search != "" {
		p := args.add("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR email ILIKE %s)", p, p))
	}
	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("status = %s", args.add(filter.Status)))
	}
	if filter.LicenseGoal != "" {
		conds = append(conds, fmt.Sprintf("license_goal = %s", args.add(filter.LicenseGoal)))
	}
	where := whereClause(conds)

	var total int
	if err := repo.db.Get(&total, "SELECT COUNT(*) FROM students "+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting students")
	}

	q := fmt.Sprintf("SELECT * FROM students %s %s %s",
		where, orderClause(ordering, studentOrderFields, "created_at DESC"), limitOffset(&args, page))
	var rows []studentRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering students")
	}

	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toEntity())
	}
	return students, total, nil
}

func (repo *studentRepository) UpdateStudent(std student.Student, status *string) (student.Student, error) {
	// only save set fields
	args := argList{}
	sets := []string{fmt.Sprintf("updated_at = %s", args.add(std.UpdatedAt))}
	if std.Name != "" {
		sets = append(sets, fmt.Sprintf("name = %s", args.add(std.Name)))
	}
	if std.Email != "" {
		sets = append(sets, fmt.Sprintf("email = %s", args.add(std.Email)))
	}
	if std.Phone != "" {
		sets = append(sets, fmt.Sprintf("phone = %s", args.add(std.Phone)))
	}
	if std.LicenseGoal != "" {
		sets = append(sets, fmt.Sprintf("license_goal = %s", args.add(std.LicenseGoal)))
	}
	if std.FlightHours != 0 {
		sets = append(sets, fmt.Sprintf("flight_hours = %s", args.add(std.FlightHours)))
	}
	if status != nil {
		sets = append(sets, fmt.Sprintf("status = %s", args.add(*status)))
	}

	q := fmt.Sprintf("UPDATE students SET %s WHERE id = %s RETURNING *",
		joinSets(sets), args.add(std.ID))
	var row studentRow
	err := repo.db.Get(&row, q, args...)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return row.toEntity(), nil
}

func (repo *studentRepository) DeleteStudentsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM students WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

func (repo *studentRepository) StudentStats() (student.Stats, error) {
	rows, err := repo.db.Queryx("SELECT status, COUNT(*) FROM students GROUP BY status")
	if err != nil {
		return student.Stats{}, errors.Wrap(err, "querying student stats")
	}
	defer func() { _ = rows.Close() }()

	var stats student.Stats
	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return student.Stats{}, errors.Wrap(err, "scanning student stats")
		}
		stats.Total += count
		switch status {
		case student.StatusPending:
			stats.Pending = count
		case student.StatusActive:
			stats.Active = count
		case student.StatusSuspended:
			stats.Suspended = count
		}
	}
	return stats, errors.Wrap(rows.Err(), "reading student stats")
}
