// Package inmemdb is the in-memory storage backend used by tests and dev mode.
package inmemdb

import (
	"sync"

	"github.com/tailcraft/avialearn/core/assignment"
	"github.com/tailcraft/avialearn/core/cms"
	"github.com/tailcraft/avialearn/core/enrollment"
	"github.com/tailcraft/avialearn/core/instructor"
	"github.com/tailcraft/avialearn/core/nav"
	"github.com/tailcraft/avialearn/core/quiz"
	"github.com/tailcraft/avialearn/core/student"
	"github.com/tailcraft/avialearn/core/ticket"
)

type (
	DB struct {
		students    *studentTable
		instructors *instructorTable
		enrollments *enrollmentTable
		assignments *assignmentTable
		quizzes     *quizTable
		tickets     *ticketTable
		about       *aboutTable
		menu        *menuTable
	}

	studentTable struct {
		sync.RWMutex
		table map[int]*student.Student
		pk    int
	}

	instructorTable struct {
		sync.RWMutex
		table map[int]*instructor.Instructor
		pk    int
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[int]*enrollment.Enrollment
		pk    int
	}

	assignmentTable struct {
		sync.RWMutex
		table map[int]*assignment.Assignment
		pk    int
	}

	quizTable struct {
		sync.RWMutex
		table map[int]*quiz.Quiz
		pk    int
	}

	ticketTable struct {
		sync.RWMutex
		table   map[int]*ticket.Ticket
		pk      int
		replyPK int
	}

	// single-document tables
	aboutTable struct {
		sync.RWMutex
		page *cms.AboutPage
	}

	menuTable struct {
		sync.RWMutex
		menu *nav.Menu
	}
)

func Open() (*DB, error) {
	db := &DB{
		students:    &studentTable{table: make(map[int]*student.Student)},
		instructors: &instructorTable{table: make(map[int]*instructor.Instructor)},
		enrollments: &enrollmentTable{table: make(map[int]*enrollment.Enrollment)},
		assignments: &assignmentTable{table: make(map[int]*assignment.Assignment)},
		quizzes:     &quizTable{table: make(map[int]*quiz.Quiz)},
		tickets:     &ticketTable{table: make(map[int]*ticket.Ticket)},
		about:       &aboutTable{},
		menu:        &menuTable{},
	}
	return db, nil
}

// Reset drops all rows; used between tests.
func (db *DB) Reset() {
	db.students.Lock()
	db.students.table = make(map[int]*student.Student)
	db.students.Unlock()

	db.instructors.Lock()
	db.instructors.table = make(map[int]*instructor.Instructor)
	db.instructors.Unlock()

	db.enrollments.Lock()
	db.enrollments.table = make(map[int]*enrollment.Enrollment)
	db.enrollments.Unlock()

	db.assignments.Lock()
	db.assignments.table = make(map[int]*assignment.Assignment)
	db.assignments.Unlock()

	db.quizzes.Lock()
	db.quizzes.table = make(map[int]*quiz.Quiz)
	db.quizzes.Unlock()

	db.tickets.Lock()
	db.tickets.table = make(map[int]*ticket.Ticket)
	db.tickets.Unlock()

	db.about.Lock()
	db.about.page = nil
	db.about.Unlock()

	db.menu.Lock()
	db.menu.menu = nil
	db.menu.Unlock()
}
