package main

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core/cms"
	"github.com/tailcraft/avialearn/core/enrollment"
	"github.com/tailcraft/avialearn/core/instructor"
	"github.com/tailcraft/avialearn/core/nav"
	"github.com/tailcraft/avialearn/core/quiz"
	"github.com/tailcraft/avialearn/core/student"
	emailsvc "github.com/tailcraft/avialearn/services/email"
	sqlxrepos "github.com/tailcraft/avialearn/storage/database/sqlx"
)

// seed loads a flight-school starter set: a few students and instructors,
// one enrollment, a quiz built from a template, the default site menu and a
// skeleton about page. Safe to run once on a fresh database.
func (cli *commandLine) seed(db *sqlx.DB) error {
	mailSvc := emailsvc.NewConsoleServiceMock(cli.conf)

	stdSvc := student.NewService(sqlxrepos.NewStudentRepository(db))
	insSvc := instructor.NewService(sqlxrepos.NewInstructorRepository(db))
	enrSvc := enrollment.NewService(sqlxrepos.NewEnrollmentRepository(db), stdSvc, mailSvc)
	quizSvc := quiz.NewService(sqlxrepos.NewQuizRepository(db))
	cmsSvc := cms.NewService(sqlxrepos.NewAboutPageRepository(db), nil)
	navSvc := nav.NewService(sqlxrepos.NewMenuRepository(db))

	students := []student.NewStudent{
		{Name: "Amelia Vance", Email: "amelia.vance@example.com", LicenseGoal: "ppl", FlightHours: 12.5},
		{Name: "Deka Omar", Email: "deka.omar@example.com", LicenseGoal: "cpl", FlightHours: 164},
		{Name: "Jonas Petridis", Email: "jonas.petridis@example.com", LicenseGoal: "ir", FlightHours: 87.3},
	}
	var firstStudent student.Student
	for i, ns := range students {
		std, err := stdSvc.Create(ns)
		if err != nil {
			return errors.Wrap(err, "seeding students")
		}
		if i == 0 {
			firstStudent = std
		}
	}

	instructors := []instructor.NewInstructor{
		{Name: "Capt. Lena Brandt", Email: "lena.brandt@example.com", Ratings: []string{"cfi", "cfii"}},
		{Name: "Marco Silva", Email: "marco.silva@example.com", Ratings: []string{"cfi", "mei"}},
	}
	for _, ni := range instructors {
		if _, err := insSvc.Create(ni); err != nil {
			return errors.Wrap(err, "seeding instructors")
		}
	}

	if _, err := enrSvc.Create(enrollment.NewEnrollment{
		StudentID:   firstStudent.ID,
		CourseID:    "ppl-ground-school",
		CourseTitle: "PPL Ground School",
	}); err != nil {
		return errors.Wrap(err, "seeding enrollment")
	}

	if tpl, ok := quiz.TemplateByID("regulations-basics"); ok {
		details, questions := tpl.Build()
		if _, err := quizSvc.Create(quiz.NewQuiz{
			CourseID:     "ppl-ground-school",
			Title:        details.Title,
			Description:  details.Description,
			Duration:     details.Duration,
			PassingScore: details.PassingScore,
			Questions:    questions,
		}); err != nil {
			return errors.Wrap(err, "seeding quiz")
		}
	}

	if _, err := navSvc.SaveMenu(nav.DefaultMenu()); err != nil {
		return errors.Wrap(err, "seeding menu")
	}

	validate, _ := coreValidator()
	if _, err := cmsSvc.SaveAboutPage(cms.AboutPage{
		Title: "About Our Flight School",
		Intro: "Training pilots since 1998.",
		Sections: []*cms.ContentSection{
			{ID: "our-mission", Title: "Our Mission", Content: "<p>Safe, thorough, modern flight training.</p>", IsActive: true},
		},
		Team: []*cms.TeamMember{},
	}, validate); err != nil {
		return errors.Wrap(err, "seeding about page")
	}

	logger.Println("seed data loaded")
	return nil
}
