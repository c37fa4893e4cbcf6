package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/assignment"
	"github.com/tailcraft/avialearn/core/enrollment"
	"github.com/tailcraft/avialearn/core/instructor"
	"github.com/tailcraft/avialearn/core/quiz"
	"github.com/tailcraft/avialearn/core/student"
	"github.com/tailcraft/avialearn/core/ticket"
	exportsvc "github.com/tailcraft/avialearn/services/export"
	sqlxrepos "github.com/tailcraft/avialearn/storage/database/sqlx"
)

func coreValidator() (*validator.Validate, ut.Translator) {
	return core.NewValidator()
}

func (cli *commandLine) export(db *sqlx.DB, resource string, format exportsvc.Format, out string) error {
	var (
		table exportsvc.Table
		err   error
	)
	switch resource {
	case "students":
		table, err = exportStudents(db)
	case "instructors":
		table, err = exportInstructors(db)
	case "enrollments":
		table, err = exportEnrollments(db)
	case "assignments":
		table, err = exportAssignments(db)
	case "quizzes":
		table, err = exportQuizzes(db)
	case "tickets":
		table, err = exportTickets(db)
	default:
		return errors.Errorf("unknown resource %q", resource)
	}
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, ferr := os.Create(out)
		if ferr != nil {
			return errors.Wrap(ferr, "creating output file")
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return exportsvc.Write(w, format, table)
}

// collectPages drains a paginated query into export rows.
func collectPages[T any](
	query func(page core.ListParams) ([]T, int, error),
	row func(T) []string,
	table *exportsvc.Table,
) error {
	page := core.ListParams{Page: 1, Limit: core.MaxPageSize}
	for {
		items, total, err := query(page)
		if err != nil {
			return err
		}
		for _, it := range items {
			table.Append(row(it)...)
		}
		if len(items) == 0 || len(table.Rows) >= total {
			return nil
		}
		page.Page++
	}
}

func exportStudents(db *sqlx.DB) (exportsvc.Table, error) {
	svc := student.NewService(sqlxrepos.NewStudentRepository(db))
	table := exportsvc.Table{Headers: []string{"id", "name", "email", "license_goal", "flight_hours", "status"}}
	err := collectPages(
		func(page core.ListParams) ([]student.Student, int, error) {
			return svc.Query(student.QueryFilter{}, nil, page)
		},
		func(std student.Student) []string {
			return []string{
				strconv.Itoa(std.ID), std.Name, std.Email, std.LicenseGoal,
				strconv.FormatFloat(std.FlightHours, 'f', -1, 64), std.Status,
			}
		},
		&table,
	)
	return table, err
}

func exportInstructors(db *sqlx.DB) (exportsvc.Table, error) {
	svc := instructor.NewService(sqlxrepos.NewInstructorRepository(db))
	table := exportsvc.Table{Headers: []string{"id", "name", "email", "ratings", "status"}}
	err := collectPages(
		func(page core.ListParams) ([]instructor.Instructor, int, error) {
			return svc.Query(instructor.QueryFilter{}, nil, page)
		},
		func(ins instructor.Instructor) []string {
			return []string{
				strconv.Itoa(ins.ID), ins.Name, ins.Email, strings.Join(ins.Ratings, "|"), ins.Status,
			}
		},
		&table,
	)
	return table, err
}

func exportEnrollments(db *sqlx.DB) (exportsvc.Table, error) {
	repo := sqlxrepos.NewEnrollmentRepository(db)
	table := exportsvc.Table{Headers: []string{"id", "student_id", "course_id", "course_title", "status", "progress"}}
	err := collectPages(
		func(page core.ListParams) ([]enrollment.Enrollment, int, error) {
			return repo.FilterEnrollments(enrollment.QueryFilter{}, nil, page)
		},
		func(enr enrollment.Enrollment) []string {
			return []string{
				strconv.Itoa(enr.ID), strconv.Itoa(enr.StudentID), enr.CourseID,
				enr.CourseTitle, enr.Status, strconv.Itoa(enr.Progress),
			}
		},
		&table,
	)
	return table, err
}

func exportAssignments(db *sqlx.DB) (exportsvc.Table, error) {
	repo := sqlxrepos.NewAssignmentRepository(db)
	table := exportsvc.Table{Headers: []string{"id", "course_id", "title", "max_points", "status"}}
	err := collectPages(
		func(page core.ListParams) ([]assignment.Assignment, int, error) {
			return repo.FilterAssignments(assignment.QueryFilter{}, nil, page)
		},
		func(asg assignment.Assignment) []string {
			return []string{
				strconv.Itoa(asg.ID), asg.CourseID, asg.Title, strconv.Itoa(asg.MaxPoints), asg.Status,
			}
		},
		&table,
	)
	return table, err
}

func exportQuizzes(db *sqlx.DB) (exportsvc.Table, error) {
	svc := quiz.NewService(sqlxrepos.NewQuizRepository(db))
	table := exportsvc.Table{Headers: []string{"id", "course_id", "title", "questions", "total_points", "status"}}
	err := collectPages(
		func(page core.ListParams) ([]quiz.Quiz, int, error) {
			return svc.Query(quiz.QueryFilter{}, nil, page)
		},
		func(qz quiz.Quiz) []string {
			return []string{
				strconv.Itoa(qz.ID), qz.CourseID, qz.Title,
				strconv.Itoa(len(qz.Questions)), strconv.Itoa(qz.TotalPoints), qz.Status,
			}
		},
		&table,
	)
	return table, err
}

func exportTickets(db *sqlx.DB) (exportsvc.Table, error) {
	repo := sqlxrepos.NewTicketRepository(db)
	table := exportsvc.Table{Headers: []string{"id", "subject", "requester_email", "category", "priority", "status"}}
	err := collectPages(
		func(page core.ListParams) ([]ticket.Ticket, int, error) {
			return repo.FilterTickets(ticket.QueryFilter{}, nil, page)
		},
		func(tkt ticket.Ticket) []string {
			return []string{
				strconv.Itoa(tkt.ID), tkt.Subject, tkt.RequesterEmail, tkt.Category, tkt.Priority, tkt.Status,
			}
		},
		&table,
	)
	return table, err
}
