package student

import (
	"errors"
	"time"

	"github.com/tailcraft/avialearn/core"
)

var (
	// errors
	ErrNotFound    = errors.New("student not found")
	ErrEmailExists = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CheckStudentEmailUniqueness(email string, excluded ...Student) error
		CreateStudent(std Student) (Student, error)
		GetStudentByID(id int) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Student.Name or Student.Email.
		// It returns the page of students plus the total match count.
		FilterStudents(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Student, int, error)
		UpdateStudent(std Student, status *string) (Student, error)
		DeleteStudentsByID(ids ...int) error
		StudentStats() (Stats, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string, excluded ...Student) error {
	if err := svc.repo.CheckStudentEmailUniqueness(email, excluded...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		Name:        ns.Name,
		Email:       ns.Email,
		Phone:       ns.Phone,
		LicenseGoal: ns.LicenseGoal,
		FlightHours: ns.FlightHours,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateStudent(std)
}

func (svc *Service) GetByID(id int) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) Query(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Student, int, error) {
	return svc.repo.FilterStudents(filter, ordering, page)
}

func (svc *Service) Stats() (Stats, error) {
	return svc.repo.StudentStats()
}

func (svc *Service) Update(id int, us UpdateStudent) (Student, error) {
	std := Student{
		ID:          id,
		Name:        us.Name,
		Email:       us.Email,
		Phone:       us.Phone,
		LicenseGoal: us.LicenseGoal,
		FlightHours: us.FlightHours,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(std, nil)
}

func (svc *Service) setStatus(id int, status string) (Student, error) {
	return svc.repo.UpdateStudent(Student{ID: id, UpdatedAt: time.Now().UTC()}, &status)
}

// Approve activates a pending student account.
func (svc *Service) Approve(id int) (Student, error) {
	return svc.setStatus(id, StatusActive)
}

func (svc *Service) Suspend(id int) (Student, error) {
	return svc.setStatus(id, StatusSuspended)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteStudentsByID(ids...)
}
