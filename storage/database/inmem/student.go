package inmemdb

import (
	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/student"
)

type studentRepository struct {
	db *studentTable
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.students}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	return students
}

func (repo *studentRepository) CheckStudentEmailUniqueness(email string, excluded ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.query() {
		if std.Email != email {
			continue
		}
		var excl bool
		for _, ex := range excluded {
			if ex.ID == std.ID {
				excl = true
				break
			}
		}
		if !excl {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	std.ID = repo.db.pk
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudentByID(id int) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(
	filter student.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]student.Student, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]student.Student, 0)
	for _, std := range repo.query() {
		if filter.Search != "" && !(containsFold(std.Name, filter.Search) || containsFold(std.Email, filter.Search)) {
			continue
		}
		if filter.Status != "" && std.Status != filter.Status {
			continue
		}
		if filter.LicenseGoal != "" && std.LicenseGoal != filter.LicenseGoal {
			continue
		}
		matches = append(matches, std)
	}

	orderBy(matches, ordering, func(field string) func(a, b student.Student) bool {
		switch field {
		case "name":
			return func(a, b student.Student) bool { return a.Name < b.Name }
		case "email":
			return func(a, b student.Student) bool { return a.Email < b.Email }
		case "flight_hours":
			return func(a, b student.Student) bool { return a.FlightHours < b.FlightHours }
		case "created_at":
			return func(a, b student.Student) bool { return a.CreatedAt.Before(b.CreatedAt) }
		}
		return nil
	}, func(a, b student.Student) bool { return a.CreatedAt.After(b.CreatedAt) })

	paged, total := paginate(matches, page)
	return paged, total, nil
}

func (repo *studentRepository) UpdateStudent(std student.Student, status *string) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.table[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	if std.Name != "" {
		orig.Name = std.Name
	}
	if std.Email != "" {
		orig.Email = std.Email
	}
	if std.Phone != "" {
		orig.Phone = std.Phone
	}
	if std.LicenseGoal != "" {
		orig.LicenseGoal = std.LicenseGoal
	}
	if std.FlightHours != 0 {
		orig.FlightHours = std.FlightHours
	}
	if status != nil {
		orig.Status = *status
	}
	orig.UpdatedAt = std.UpdatedAt

	repo.db.table[std.ID] = orig
	return *orig, nil
}

func (repo *studentRepository) DeleteStudentsByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *studentRepository) StudentStats() (student.Stats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats student.Stats
	for _, std := range repo.db.table {
		stats.Total++
		switch std.Status {
		case student.StatusPending:
			stats.Pending++
		case student.StatusActive:
			stats.Active++
		case student.StatusSuspended:
			stats.Suspended++
		}
	}
	return stats, nil
}
