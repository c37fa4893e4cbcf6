package enrollment

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("enrollment not found")
)

type (
	Repository interface {
		CreateEnrollment(enr Enrollment) (Enrollment, error)
		GetEnrollmentByID(id int) (Enrollment, error)
		// FilterEnrollments applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Enrollment.CourseTitle.
		FilterEnrollments(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Enrollment, int, error)
		UpdateEnrollment(enr Enrollment, status *string, progress *int) (Enrollment, error)
		DeleteEnrollmentsByID(ids ...int) error
		EnrollmentStats() (Stats, error)
	}

	Service struct {
		repo    Repository
		stdSvc  *student.Service
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, stdSvc *student.Service, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, stdSvc: stdSvc, mailSvc: mailSvc}
}

func (svc *Service) Create(ne NewEnrollment) (Enrollment, error) {
	if _, err := svc.stdSvc.GetByID(ne.StudentID); err != nil {
		if err == student.ErrNotFound {
			return Enrollment{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		}
		return Enrollment{}, err
	}

	now := time.Now().UTC()
	enr := Enrollment{
		StudentID:   ne.StudentID,
		CourseID:    ne.CourseID,
		CourseTitle: ne.CourseTitle,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateEnrollment(enr)
}

func (svc *Service) GetByID(id int) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(id)
}

func (svc *Service) Query(filter QueryFilter, ordering []core.DBOrdering, page core.ListParams) ([]Enrollment, int, error) {
	return svc.repo.FilterEnrollments(filter, ordering, page)
}

func (svc *Service) Stats() (Stats, error) {
	return svc.repo.EnrollmentStats()
}

func (svc *Service) Update(id int, ue UpdateEnrollment) (Enrollment, error) {
	enr := Enrollment{
		ID:          id,
		CourseTitle: ue.CourseTitle,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateEnrollment(enr, nil, ue.Progress)
}

// Approve activates a pending enrollment and notifies the student.
func (svc *Service) Approve(id int) (Enrollment, error) {
	status := StatusActive
	enr, err := svc.repo.UpdateEnrollment(
		Enrollment{ID: id, StartedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}, &status, nil)
	if err != nil {
		return Enrollment{}, err
	}
	svc.notifyStudent(enr, "Enrollment approved",
		fmt.Sprintf("Your enrollment in %q has been approved. Welcome aboard!", enr.CourseTitle))
	return enr, nil
}

// Complete marks an enrollment finished with full progress.
func (svc *Service) Complete(id int) (Enrollment, error) {
	status := StatusCompleted
	progress := 100
	return svc.repo.UpdateEnrollment(Enrollment{ID: id, UpdatedAt: time.Now().UTC()}, &status, &progress)
}

func (svc *Service) Cancel(id int) (Enrollment, error) {
	status := StatusCancelled
	return svc.repo.UpdateEnrollment(Enrollment{ID: id, UpdatedAt: time.Now().UTC()}, &status, nil)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteEnrollmentsByID(ids...)
}

func (svc *Service) notifyStudent(enr Enrollment, subject, body string) {
	if svc.mailSvc == nil {
		return
	}
	std, err := svc.stdSvc.GetByID(enr.StudentID)
	if err != nil {
		return // enrollment survives; the mail is best-effort
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:          []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject:     subject,
		TextContent: body,
	})
}
