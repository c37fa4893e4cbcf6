package inmemdb

import (
	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/instructor"
)

type instructorRepository struct {
	db *instructorTable
}

func NewInstructorRepository(db *DB) instructor.Repository {
	return &instructorRepository{db: db.instructors}
}

func (repo *instructorRepository) query() []instructor.Instructor {
	instructors := make([]instructor.Instructor, 0, len(repo.db.table))
	for _, ins := range repo.db.table {
		instructors = append(instructors, *ins)
	}
	return instructors
}

func (repo *instructorRepository) CheckInstructorEmailUniqueness(email string, excluded ...instructor.Instructor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, ins := range repo.query() {
		if ins.Email != email {
			continue
		}
		var excl bool
		for _, ex := range excluded {
			if ex.ID == ins.ID {
				excl = true
				break
			}
		}
		if !excl {
			return instructor.ErrEmailExists
		}
	}
	return nil
}

func (repo *instructorRepository) CreateInstructor(ins instructor.Instructor) (instructor.Instructor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	ins.ID = repo.db.pk
	repo.db.table[ins.ID] = &ins
	return ins, nil
}

func (repo *instructorRepository) GetInstructorByID(id int) (instructor.Instructor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ins, ok := repo.db.table[id]; ok {
		return *ins, nil
	}
	return instructor.Instructor{}, instructor.ErrNotFound
}

func (repo *instructorRepository) FilterInstructors(
	filter instructor.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]instructor.Instructor, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]instructor.Instructor, 0)
	for _, ins := range repo.query() {
		if filter.Search != "" && !(containsFold(ins.Name, filter.Search) || containsFold(ins.Email, filter.Search)) {
			continue
		}
		if filter.Status != "" && ins.Status != filter.Status {
			continue
		}
		if filter.Rating != "" {
			var has bool
			for _, r := range ins.Ratings {
				if r == filter.Rating {
					has = true
					break
				}
			}
			if !has {
				continue
			}
		}
		matches = append(matches, ins)
	}

	orderBy(matches, ordering, func(field string) func(a, b instructor.Instructor) bool {
		switch field {
		case "name":
			return func(a, b instructor.Instructor) bool { return a.Name < b.Name }
		case "email":
			return func(a, b instructor.Instructor) bool { return a.Email < b.Email }
		case "created_at":
			return func(a, b instructor.Instructor) bool { return a.CreatedAt.Before(b.CreatedAt) }
		}
		return nil
	}, func(a, b instructor.Instructor) bool { return a.CreatedAt.After(b.CreatedAt) })

	paged, total := paginate(matches, page)
	return paged, total, nil
}

func (repo *instructorRepository) UpdateInstructor(ins instructor.Instructor, status *string) (instructor.Instructor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.table[ins.ID]
	if !ok {
		return instructor.Instructor{}, instructor.ErrNotFound
	}
	if ins.Name != "" {
		orig.Name = ins.Name
	}
	if ins.Email != "" {
		orig.Email = ins.Email
	}
	if ins.Phone != "" {
		orig.Phone = ins.Phone
	}
	if ins.Ratings != nil {
		orig.Ratings = ins.Ratings
	}
	if ins.Bio != "" {
		orig.Bio = ins.Bio
	}
	if status != nil {
		orig.Status = *status
	}
	orig.UpdatedAt = ins.UpdatedAt

	repo.db.table[ins.ID] = orig
	return *orig, nil
}

func (repo *instructorRepository) DeleteInstructorsByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *instructorRepository) InstructorStats() (instructor.Stats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats instructor.Stats
	for _, ins := range repo.db.table {
		stats.Total++
		switch ins.Status {
		case instructor.StatusActive:
			stats.Active++
		case instructor.StatusInactive:
			stats.Inactive++
		}
	}
	return stats, nil
}
