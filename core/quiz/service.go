package quiz

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tailcraft/avialearn/core"
)

var (
	// errors
	ErrNotFound = errors.New("quiz not found")
)

type (
	Repository interface {
		CreateQuiz(qz Quiz) (Quiz, error)
		GetQuizByID(id int) (Quiz, error)
		// FilterQuizzes applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Quiz.Title or Quiz.Description.
		// It returns the page of quizzes plus the total match count.
		FilterQuizzes(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Quiz, int, error)
		UpdateQuiz(qz Quiz, status *string) (Quiz, error)
		DeleteQuizzesByID(ids ...int) error
		QuizStats() (Stats, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nq NewQuiz) (Quiz, error) {
	now := time.Now().UTC()
	qz := Quiz{
		CourseID:     nq.CourseID,
		Title:        nq.Title,
		Description:  nq.Description,
		Duration:     nq.Duration,
		PassingScore: nq.PassingScore,
		TotalPoints:  nq.TotalPoints(),
		Status:       StatusDraft,
		Questions:    nq.Questions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateQuiz(qz)
}

func (svc *Service) GetByID(id int) (Quiz, error) {
	return svc.repo.GetQuizByID(id)
}

func (svc *Service) Query(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Quiz, int, error) {
	return svc.repo.FilterQuizzes(filter, ordering, page)
}

func (svc *Service) Stats() (Stats, error) {
	return svc.repo.QuizStats()
}

func (svc *Service) Update(id int, uq UpdateQuiz) (Quiz, error) {
	qz := Quiz{
		ID:           id,
		Title:        uq.Title,
		Description:  uq.Description,
		Duration:     uq.Duration,
		PassingScore: uq.PassingScore,
		Questions:    uq.Questions,
		UpdatedAt:    time.Now().UTC(),
	}
	if uq.Questions != nil {
		var total int
		for _, q := range uq.Questions {
			total += q.Points
		}
		qz.TotalPoints = total
	}
	return svc.repo.UpdateQuiz(qz, nil)
}

// Duplicate clones an existing quiz into a new draft with fresh question ids.
func (svc *Service) Duplicate(id int) (Quiz, error) {
	orig, err := svc.repo.GetQuizByID(id)
	if err != nil {
		return Quiz{}, err
	}

	now := time.Now().UTC()
	dup := orig
	dup.ID = 0
	dup.Title = orig.Title + " (Copy)"
	dup.Status = StatusDraft
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.Questions = make([]*Question, 0, len(orig.Questions))
	for _, q := range orig.Questions {
		qq := *q
		qq.ID = uuid.NewString()
		dup.Questions = append(dup.Questions, &qq)
	}
	return svc.repo.CreateQuiz(dup)
}

// ToggleStatus flips a quiz between draft and published.
func (svc *Service) ToggleStatus(id int) (Quiz, error) {
	qz, err := svc.repo.GetQuizByID(id)
	if err != nil {
		return Quiz{}, err
	}
	status := StatusPublished
	if qz.Status == StatusPublished {
		status = StatusDraft
	}
	return svc.repo.UpdateQuiz(Quiz{ID: id, UpdatedAt: time.Now().UTC()}, &status)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteQuizzesByID(ids...)
}
