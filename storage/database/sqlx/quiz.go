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
	"github.com/tailcraft/avialearn/core/quiz"
)

type quizRow struct {
	ID           int             `db:"id"`
	CourseID     string          `db:"course_id"`
	Title        string          `db:"title"`
	Description  null.String     `db:"description"`
	Duration     int             `db:"duration"`
	PassingScore int             `db:"passing_score"`
	TotalPoints  int             `db:"total_points"`
	Status       string          `db:"status"`
	Questions    json.RawMessage `db:"questions"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r quizRow) toEntity() (quiz.Quiz, error) {
	qz := quiz.Quiz{
		ID:           r.ID,
		CourseID:     r.CourseID,
		Title:        r.Title,
		Description:  r.Description.String,
		Duration:     r.Duration,
		PassingScore: r.PassingScore,
		TotalPoints:  r.TotalPoints,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if err := json.Unmarshal(r.Questions, &qz.Questions); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "decoding quiz questions")
	}
	return qz, nil
}

var quizOrderFields = map[string]bool{
	"title": true, "duration": true, "total_points": true, "created_at": true,
}

type quizRepository struct {
	db *sqlx.DB
}

func NewQuizRepository(db *sqlx.DB) quiz.Repository {
	return &quizRepository{db: db}
}

func (repo *quizRepository) CreateQuiz(qz quiz.Quiz) (quiz.Quiz, error) {
	questions, err := json.Marshal(qz.Questions)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "encoding quiz questions")
	}

	q := `INSERT INTO quizzes (course_id, title, description, duration, passing_score, total_points, status, questions, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err = repo.db.Get(&qz.ID, q,
		qz.CourseID, qz.Title, null.NewString(qz.Description, qz.Description != ""),
		qz.Duration, qz.PassingScore, qz.TotalPoints, qz.Status, questions,
		qz.CreatedAt, qz.UpdatedAt)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return qz, nil
}

func (repo *quizRepository) GetQuizByID(id int) (quiz.Quiz, error) {
	var row quizRow
	err := repo.db.Get(&row, "SELECT * FROM quizzes WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "getting quiz")
	}
	return row.toEntity()
}

func (repo *quizRepository) FilterQuizzes(
	filter quiz.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]quiz.Quiz, int, error) {
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
	if err := repo.db.Get(&total, "SELECT COUNT(*) FROM quizzes "+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting quizzes")
	}

	q := fmt.Sprintf("SELECT * FROM quizzes %s %s %s",
		where, orderClause(ordering, quizOrderFields, "created_at DESC"), limitOffset(&args, page))
	var rows []quizRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering quizzes")
	}

	quizzes := make([]quiz.Quiz, 0, len(rows))
	for _, row := range rows {
		qz, err := row.toEntity()
		if err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, qz)
	}
	return quizzes, total, nil
}

func (repo *quizRepository) UpdateQuiz(qz quiz.Quiz, status *string) (quiz.Quiz, error) {
	// only save set fields
	args := argList{}
	sets := []string{fmt.Sprintf("updated_at = %s", args.add(qz.UpdatedAt))}
	if qz.Title != "" {
		sets = append(sets, fmt.Sprintf("title = %s", args.add(qz.Title)))
	}
	if qz.Description != "" {
		sets = append(sets, fmt.Sprintf("description = %s", args.add(qz.Description)))
	}
	if qz.Duration != 0 {
		sets = append(sets, fmt.Sprintf("duration = %s", args.add(qz.Duration)))
	}
	if qz.PassingScore != 0 {
		sets = append(sets, fmt.Sprintf("passing_score = %s", args.add(qz.PassingScore)))
	}
	if qz.Questions != nil {
		questions, err := json.Marshal(qz.Questions)
		if err != nil {
			return quiz.Quiz{}, errors.Wrap(err, "encoding quiz questions")
		}
		sets = append(sets,
			fmt.Sprintf("questions = %s", args.add(questions)),
			fmt.Sprintf("total_points = %s", args.add(qz.TotalPoints)))
	}
	if status != nil {
		sets = append(sets, fmt.Sprintf("status = %s", args.add(*status)))
	}

	q := fmt.Sprintf("UPDATE quizzes SET %s WHERE id = %s RETURNING *",
		joinSets(sets), args.add(qz.ID))
	var row quizRow
	err := repo.db.Get(&row, q, args...)
	if err == sql.ErrNoRows {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "updating quiz")
	}
	return row.toEntity()
}

func (repo *quizRepository) DeleteQuizzesByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM quizzes WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting quizzes")
	}
	return nil
}

func (repo *quizRepository) QuizStats() (quiz.Stats, error) {
	rows, err := repo.db.Queryx("SELECT status, COUNT(*) FROM quizzes GROUP BY status")
	if err != nil {
		return quiz.Stats{}, errors.Wrap(err, "querying quiz stats")
	}
	defer func() { _ = rows.Close() }()

	var stats quiz.Stats
	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return quiz.Stats{}, errors.Wrap(err, "scanning quiz stats")
		}
		stats.Total += count
		switch status {
		case quiz.StatusPublished:
			stats.Published = count
		case quiz.StatusDraft:
			stats.Draft = count
		}
	}
	return stats, errors.Wrap(rows.Err(), "reading quiz stats")
}
