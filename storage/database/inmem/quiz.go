package inmemdb

import (
	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/quiz"
)

type quizRepository struct {
	db *quizTable
}

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{db: db.quizzes}
}

func copyQuiz(qz quiz.Quiz) quiz.Quiz {
	cp := qz
	cp.Questions = make([]*quiz.Question, 0, len(qz.Questions))
	for _, q := range qz.Questions {
		qq := *q
		cp.Questions = append(cp.Questions, &qq)
	}
	return cp
}

func (repo *quizRepository) query() []quiz.Quiz {
	quizzes := make([]quiz.Quiz, 0, len(repo.db.table))
	for _, qz := range repo.db.table {
		quizzes = append(quizzes, copyQuiz(*qz))
	}
	return quizzes
}

func (repo *quizRepository) CreateQuiz(qz quiz.Quiz) (quiz.Quiz, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	qz.ID = repo.db.pk
	stored := copyQuiz(qz)
	repo.db.table[qz.ID] = &stored
	return qz, nil
}

func (repo *quizRepository) GetQuizByID(id int) (quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if qz, ok := repo.db.table[id]; ok {
		return copyQuiz(*qz), nil
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) FilterQuizzes(
	filter quiz.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]quiz.Quiz, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]quiz.Quiz, 0)
	for _, qz := range repo.query() {
		if filter.Search != "" && !(containsFold(qz.Title, filter.Search) || containsFold(qz.Description, filter.Search)) {
			continue
		}
		if filter.CourseID != "" && qz.CourseID != filter.CourseID {
			continue
		}
		if filter.Status != "" && qz.Status != filter.Status {
			continue
		}
		matches = append(matches, qz)
	}

	orderBy(matches, ordering, func(field string) func(a, b quiz.Quiz) bool {
		switch field {
		case "title":
			return func(a, b quiz.Quiz) bool { return a.Title < b.Title }
		case "total_points":
			return func(a, b quiz.Quiz) bool { return a.TotalPoints < b.TotalPoints }
		case "created_at":
			return func(a, b quiz.Quiz) bool { return a.CreatedAt.Before(b.CreatedAt) }
		}
		return nil
	}, func(a, b quiz.Quiz) bool { return a.CreatedAt.After(b.CreatedAt) })

	paged, total := paginate(matches, page)
	return paged, total, nil
}

func (repo *quizRepository) UpdateQuiz(qz quiz.Quiz, status *string) (quiz.Quiz, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.table[qz.ID]
	if !ok {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	if qz.Title != "" {
		orig.Title = qz.Title
	}
	if qz.Description != "" {
		orig.Description = qz.Description
	}
	if qz.Duration != 0 {
		orig.Duration = qz.Duration
	}
	if qz.PassingScore != 0 {
		orig.PassingScore = qz.PassingScore
	}
	if qz.Questions != nil {
		orig.Questions = qz.Questions
		orig.TotalPoints = qz.TotalPoints
	}
	if status != nil {
		orig.Status = *status
	}
	orig.UpdatedAt = qz.UpdatedAt

	repo.db.table[qz.ID] = orig
	return copyQuiz(*orig), nil
}

func (repo *quizRepository) DeleteQuizzesByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *quizRepository) QuizStats() (quiz.Stats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats quiz.Stats
	for _, qz := range repo.db.table {
		stats.Total++
		switch qz.Status {
		case quiz.StatusPublished:
			stats.Published++
		case quiz.StatusDraft:
			stats.Draft++
		}
	}
	return stats, nil
}
