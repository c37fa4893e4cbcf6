package inmemdb

import (
	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/enrollment"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db.enrollments}
}

func (repo *enrollmentRepository) query() []enrollment.Enrollment {
	enrollments := make([]enrollment.Enrollment, 0, len(repo.db.table))
	for _, enr := range repo.db.table {
		enrollments = append(enrollments, *enr)
	}
	return enrollments
}

func (repo *enrollmentRepository) CreateEnrollment(enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	enr.ID = repo.db.pk
	repo.db.table[enr.ID] = &enr
	return enr, nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(id int) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if enr, ok := repo.db.table[id]; ok {
		return *enr, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) FilterEnrollments(
	filter enrollment.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]enrollment.Enrollment, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]enrollment.Enrollment, 0)
	for _, enr := range repo.query() {
		if filter.Search != "" && !containsFold(enr.CourseTitle, filter.Search) {
			continue
		}
		if filter.StudentID != 0 && enr.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && enr.CourseID != filter.CourseID {
			continue
		}
		if filter.Status != "" && enr.Status != filter.Status {
			continue
		}
		matches = append(matches, enr)
	}

	orderBy(matches, ordering, func(field string) func(a, b enrollment.Enrollment) bool {
		switch field {
		case "course_title":
			return func(a, b enrollment.Enrollment) bool { return a.CourseTitle < b.CourseTitle }
		case "progress":
			return func(a, b enrollment.Enrollment) bool { return a.Progress < b.Progress }
		case "created_at":
			return func(a, b enrollment.Enrollment) bool { return a.CreatedAt.Before(b.CreatedAt) }
		}
		return nil
	}, func(a, b enrollment.Enrollment) bool { return a.CreatedAt.After(b.CreatedAt) })

	paged, total := paginate(matches, page)
	return paged, total, nil
}

func (repo *enrollmentRepository) UpdateEnrollment(
	enr enrollment.Enrollment,
	status *string,
	progress *int,
) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.table[enr.ID]
	if !ok {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	if enr.CourseTitle != "" {
		orig.CourseTitle = enr.CourseTitle
	}
	if !enr.StartedAt.IsZero() {
		orig.StartedAt = enr.StartedAt
	}
	if status != nil {
		orig.Status = *status
	}
	if progress != nil {
		orig.Progress = *progress
	}
	orig.UpdatedAt = enr.UpdatedAt

	repo.db.table[enr.ID] = orig
	return *orig, nil
}

func (repo *enrollmentRepository) DeleteEnrollmentsByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *enrollmentRepository) EnrollmentStats() (enrollment.Stats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats enrollment.Stats
	for _, enr := range repo.db.table {
		stats.Total++
		switch enr.Status {
		case enrollment.StatusPending:
			stats.Pending++
		case enrollment.StatusActive:
			stats.Active++
		case enrollment.StatusCompleted:
			stats.Completed++
		case enrollment.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}
