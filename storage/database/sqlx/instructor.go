package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/instructor"
)

type instructorRow struct {
	ID        int             `db:"id"`
	Name      string          `db:"name"`
	Email     string          `db:"email"`
	Phone     null.String     `db:"phone"`
	Ratings   json.RawMessage `db:"ratings"`
	Bio       null.String     `db:"bio"`
	Status    string          `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (r instructorRow) toEntity() (instructor.Instructor, error) {
	ins := instructor.Instructor{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone.String,
		Bio:       r.Bio.String,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if err := json.Unmarshal(r.Ratings, &ins.Ratings); err != nil {
		return instructor.Instructor{}, errors.Wrap(err, "decoding instructor ratings")
	}
	return ins, nil
}

var instructorOrderFields = map[string]bool{
	"name": true, "email": true, "created_at": true,
}

type instructorRepository struct {
	db *sqlx.DB
}

func NewInstructorRepository(db *sqlx.DB) instructor.Repository {
	return &instructorRepository{db: db}
}

func (repo *instructorRepository) CheckInstructorEmailUniqueness(email string, excluded ...instructor.Instructor) error {
	args := argList{}
	q := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM instructors WHERE email = %s", args.add(email))
	for _, ex := range excluded {
		q += fmt.Sprintf(" AND id <> %s", args.add(ex.ID))
	}
	q += ")"

	var exists bool
	if err := repo.db.Get(&exists, q, args...); err != nil {
		return errors.Wrap(err, "checking instructor email")
	}
	if exists {
		return instructor.ErrEmailExists
	}
	return nil
}

func (repo *instructorRepository) CreateInstructor(ins instructor.Instructor) (instructor.Instructor, error) {
	ratings, err := json.Marshal(ins.Ratings)
	if err != nil {
		return instructor.Instructor{}, errors.Wrap(err, "encoding instructor ratings")
	}

	q := `INSERT INTO instructors (name, email, phone, ratings, bio, status, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err = repo.db.Get(&ins.ID, q,
		ins.Name, ins.Email, null.NewString(ins.Phone, ins.Phone != ""),
		ratings, null.NewString(ins.Bio, ins.Bio != ""),
		ins.Status, ins.CreatedAt, ins.UpdatedAt)
	if err != nil {
		return instructor.Instructor{}, errors.Wrap(err, "inserting instructor")
	}
	return ins, nil
}

func (repo *instructorRepository) GetInstructorByID(id int) (instructor.Instructor, error) {
	var row instructorRow
	err := repo.db.Get(&row, "SELECT * FROM instructors WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return instructor.Instructor{}, instructor.ErrNotFound
	}
	if err != nil {
		return instructor.Instructor{}, errors.Wrap(err, "getting instructor")
	}
	return row.toEntity()
}

func (repo *instructorRepository) FilterInstructors(
	filter instructor.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]instructor.Instructor, int, error) {
	args := argList{}
	var conds []string
	if filter.Search != "" {
		p := args.add("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR email ILIKE %s)", p, p))
	}
	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("status = %s", args.add(filter.Status)))
	}
	if filter.Rating != "" {
		conds = append(conds, fmt.Sprintf("ratings ? %s", args.add(filter.Rating)))
	}
	where := whereClause(conds)

	var total int
	if err := repo.db.Get(&total, "SELECT COUNT(*) FROM instructors "+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting instructors")
	}

	q := fmt.Sprintf("SELECT * FROM instructors %s %s %s",
		where, orderClause(ordering, instructorOrderFields, "created_at DESC"), limitOffset(&args, page))
	var rows []instructorRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering instructors")
	}

	instructors := make([]instructor.Instructor, 0, len(rows))
	for _, row := range rows {
		ins, err := row.toEntity()
		if err != nil {
			return nil, 0, err
		}
		instructors = append(instructors, ins)
	}
	return instructors, total, nil
}

func (repo *instructorRepository) UpdateInstructor(ins instructor.Instructor, status *string) (instructor.Instructor, error) {
	// only save set fields
	args := argList{}
	sets := []string{fmt.Sprintf("updated_at = %s", args.add(ins.UpdatedAt))}
	if ins.Name != "" {
		sets = append(sets, fmt.Sprintf("name = %s", args.add(ins.Name)))
	}
	if ins.Email != "" {
		sets = append(sets, fmt.Sprintf("email = %s", args.add(ins.Email)))
	}
	if ins.Phone != "" {
		sets = append(sets, fmt.Sprintf("phone = %s", args.add(ins.Phone)))
	}
	if ins.Bio != "" {
		sets = append(sets, fmt.Sprintf("bio = %s", args.add(ins.Bio)))
	}
	if ins.Ratings != nil {
		ratings, err := json.Marshal(ins.Ratings)
		if err != nil {
			return instructor.Instructor{}, errors.Wrap(err, "encoding instructor ratings")
		}
		sets = append(sets, fmt.Sprintf("ratings = %s", args.add(ratings)))
	}
	if status != nil {
		sets = append(sets, fmt.Sprintf("status = %s", args.add(*status)))
	}

	q := fmt.Sprintf("UPDATE instructors SET %s WHERE id = %s RETURNING *",
		joinSets(sets), args.add(ins.ID))
	var row instructorRow
	err := repo.db.Get(&row, q, args...)
	if err == sql.ErrNoRows {
		return instructor.Instructor{}, instructor.ErrNotFound
	}
	if err != nil {
		return instructor.Instructor{}, errors.Wrap(err, "updating instructor")
	}
	return row.toEntity()
}

func (repo *instructorRepository) DeleteInstructorsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM instructors WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting instructors")
	}
	return nil
}

func (repo *instructorRepository) InstructorStats() (instructor.Stats, error) {
	rows, err := repo.db.Queryx("SELECT status, COUNT(*) FROM instructors GROUP BY status")
	if err != nil {
		return instructor.Stats{}, errors.Wrap(err, "querying instructor stats")
	}
	defer func() { _ = rows.Close() }()

	var stats instructor.Stats
	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return instructor.Stats{}, errors.Wrap(err, "scanning instructor stats")
		}
		stats.Total += count
		switch status {
		case instructor.StatusActive:
			stats.Active = count
		case instructor.StatusInactive:
			stats.Inactive = count
		}
	}
	return stats, errors.Wrap(rows.Err(), "reading instructor stats")
}
