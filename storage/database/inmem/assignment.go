package inmemdb

import (
	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db.assignments}
}

func (repo *assignmentRepository) query() []assignment.Assignment {
	assignments := make([]assignment.Assignment, 0, len(repo.db.table))
	for _, asg := range repo.db.table {
		assignments = append(assignments, *asg)
	}
	return assignments
}

func (repo *assignmentRepository) CreateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	asg.ID = repo.db.pk
	repo.db.table[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(id int) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if asg, ok := repo.db.table[id]; ok {
		return *asg, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) FilterAssignments(
	filter assignment.QueryFilter,
	ordering []core.DBOrdering,
	page core.ListParams,
) ([]assignment.Assignment, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]assignment.Assignment, 0)
	for _, asg := range repo.query() {
		if filter.Search != "" && !(containsFold(asg.Title, filter.Search) || containsFold(asg.Description, filter.Search)) {
			continue
		}
		if filter.CourseID != "" && asg.CourseID != filter.CourseID {
			continue
		}
		if filter.Status != "" && asg.Status != filter.Status {
			continue
		}
		matches = append(matches, asg)
	}

	orderBy(matches, ordering, func(field string) func(a, b assignment.Assignment) bool {
		switch field {
		case "title":
			return func(a, b assignment.Assignment) bool { return a.Title < b.Title }
		case "due_at":
			return func(a, b assignment.Assignment) bool { return a.DueAt.Before(b.DueAt) }
		case "created_at":
			return func(a, b assignment.Assignment) bool { return a.CreatedAt.Before(b.CreatedAt) }
		}
		return nil
	}, func(a, b assignment.Assignment) bool { return a.CreatedAt.After(b.CreatedAt) })

	paged, total := paginate(matches, page)
	return paged, total, nil
}

func (repo *assignmentRepository) UpdateAssignment(asg assignment.Assignment, status *string) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.table[asg.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	if asg.Title != "" {
		orig.Title = asg.Title
	}
	if asg.Description != "" {
		orig.Description = asg.Description
	}
	if asg.MaxPoints != 0 {
		orig.MaxPoints = asg.MaxPoints
	}
	if !asg.DueAt.IsZero() {
		orig.DueAt = asg.DueAt
	}
	if status != nil {
		orig.Status = *status
	}
	orig.UpdatedAt = asg.UpdatedAt

	repo.db.table[asg.ID] = orig
	return *orig, nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *assignmentRepository) AssignmentStats() (assignment.Stats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats assignment.Stats
	for _, asg := range repo.db.table {
		stats.Total++
		switch asg.Status {
		case assignment.StatusDraft:
			stats.Draft++
		case assignment.StatusPublished:
			stats.Published++
		case assignment.StatusClosed:
			stats.Closed++
		}
	}
	return stats, nil
}
