package instructor

import (
	"errors"
	"time"

	"github.com/tailcraft/avialearn/core"
)

var (
	// errors
	ErrNotFound    = errors.New("instructor not found")
	ErrEmailExists = errors.New("an instructor with this email already exists")
)

type (
	Repository interface {
		CheckInstructorEmailUniqueness(email string, excluded ...Instructor) error
		CreateInstructor(ins Instructor) (Instructor, error)
		GetInstructorByID(id int) (Instructor, error)
		// FilterInstructors applies AND operation on available QueryFilter fields;
		// paging is server-side like every other list.
		FilterInstructors(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Instructor, int, error)
		UpdateInstructor(ins Instructor, status *string) (Instructor, error)
		DeleteInstructorsByID(ids ...int) error
		InstructorStats() (Stats, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string, excluded ...Instructor) error {
	if err := svc.repo.CheckInstructorEmailUniqueness(email, excluded...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ni NewInstructor) (Instructor, error) {
	now := time.Now().UTC()
	ins := Instructor{
		Name:      ni.Name,
		Email:     ni.Email,
		Phone:     ni.Phone,
		Ratings:   ni.Ratings,
		Bio:       ni.Bio,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateInstructor(ins)
}

func (svc *Service) GetByID(id int) (Instructor, error) {
	return svc.repo.GetInstructorByID(id)
}

func (svc *Service) Query(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Instructor, int, error) {
	return svc.repo.FilterInstructors(filter, ordering, page)
}

func (svc *Service) Stats() (Stats, error) {
	return svc.repo.InstructorStats()
}

func (svc *Service) Update(id int, ui UpdateInstructor) (Instructor, error) {
	ins := Instructor{
		ID:        id,
		Name:      ui.Name,
		Email:     ui.Email,
		Phone:     ui.Phone,
		Ratings:   ui.Ratings,
		Bio:       ui.Bio,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateInstructor(ins, nil)
}

// ToggleStatus flips an instructor between active and inactive.
func (svc *Service) ToggleStatus(id int) (Instructor, error) {
	ins, err := svc.repo.GetInstructorByID(id)
	if err != nil {
		return Instructor{}, err
	}
	status := StatusActive
	if ins.Status == StatusActive {
		status = StatusInactive
	}
	return svc.repo.UpdateInstructor(Instructor{ID: id, UpdatedAt: time.Now().UTC()}, &status)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteInstructorsByID(ids...)
}
