package assignment

import (
	"errors"
	"time"

	"github.com/tailcraft/avialearn/core"
)

var (
	// errors
	ErrNotFound = errors.New("assignment not found")
)

type (
	Repository interface {
		CreateAssignment(asg Assignment) (Assignment, error)
		GetAssignmentByID(id int) (Assignment, error)
		// FilterAssignments applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Assignment.Title or Description.
		FilterAssignments(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Assignment, int, error)
		UpdateAssignment(asg Assignment, status *string) (Assignment, error)
		DeleteAssignmentsByID(ids ...int) error
		AssignmentStats() (Stats, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(na NewAssignment) (Assignment, error) {
	now := time.Now().UTC()
	asg := Assignment{
		CourseID:    na.CourseID,
		Title:       na.Title,
		Description: na.Description,
		MaxPoints:   na.MaxPoints,
		DueAt:       na.DueAt,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateAssignment(asg)
}

func (svc *Service) GetByID(id int) (Assignment, error) {
	return svc.repo.GetAssignmentByID(id)
}

func (svc *Service) Query(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Assignment, int, error) {
	return svc.repo.FilterAssignments(filter, ordering, page)
}

func (svc *Service) Stats() (Stats, error) {
	return svc.repo.AssignmentStats()
}

func (svc *Service) Update(id int, ua UpdateAssignment) (Assignment, error) {
	asg := Assignment{
		ID:          id,
		Title:       ua.Title,
		Description: ua.Description,
		MaxPoints:   ua.MaxPoints,
		DueAt:       ua.DueAt,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateAssignment(asg, nil)
}

func (svc *Service) setStatus(id int, status string) (Assignment, error) {
	return svc.repo.UpdateAssignment(Assignment{ID: id, UpdatedAt: time.Now().UTC()}, &status)
}

func (svc *Service) Publish(id int) (Assignment, error) {
	return svc.setStatus(id, StatusPublished)
}

func (svc *Service) Close(id int) (Assignment, error) {
	return svc.setStatus(id, StatusClosed)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteAssignmentsByID(ids...)
}
