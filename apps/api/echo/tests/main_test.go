package tests

import (
	"os"
	"testing"
	"time"

	. "github.com/tailcraft/avialearn/apps/api/echo"
	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/assignment"
	"github.com/tailcraft/avialearn/core/cms"
	"github.com/tailcraft/avialearn/core/enrollment"
	"github.com/tailcraft/avialearn/core/instructor"
	"github.com/tailcraft/avialearn/core/nav"
	"github.com/tailcraft/avialearn/core/quiz"
	"github.com/tailcraft/avialearn/core/student"
	"github.com/tailcraft/avialearn/core/ticket"
	emailsvc "github.com/tailcraft/avialearn/services/email"
	filesvc "github.com/tailcraft/avialearn/services/files"
	inmemdb "github.com/tailcraft/avialearn/storage/database/inmem"
)

var (
	db  *inmemdb.DB
	app Server

	stdRepo student.Repository
	insRepo instructor.Repository
	enrRepo enrollment.Repository
	asgRepo assignment.Repository
	qzRepo  quiz.Repository
	tktRepo ticket.Repository

	aboutRepo cms.Repository
	menuRepo  nav.Repository

	// counts batched deletes to assert a selection is removed in one request
	stdDeleteCounter *deleteCountingRepo
)

type deleteCountingRepo struct {
	student.Repository
	calls int
}

func (repo *deleteCountingRepo) DeleteStudentsByID(ids ...int) error {
	repo.calls++
	return repo.Repository.DeleteStudentsByID(ids...)
}

func TestMain(m *testing.M) {
	conf := &core.Config{Env: "test", TestMode: true, AppName: "AviaLearn"}
	conf.FrontendBaseURL = "https://avialearn.example.com/"
	conf.Server.Host = "localhost"
	conf.Server.Port = 8000
	conf.Server.ShutdownTimeout = 5 * time.Second

	// set up DB & repos
	db, _ = inmemdb.Open()
	stdDeleteCounter = &deleteCountingRepo{Repository: inmemdb.NewStudentRepository(db)}
	stdRepo = stdDeleteCounter
	insRepo = inmemdb.NewInstructorRepository(db)
	enrRepo = inmemdb.NewEnrollmentRepository(db)
	asgRepo = inmemdb.NewAssignmentRepository(db)
	qzRepo = inmemdb.NewQuizRepository(db)
	tktRepo = inmemdb.NewTicketRepository(db)
	aboutRepo = inmemdb.NewAboutRepository(db)
	menuRepo = inmemdb.NewMenuRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	stdSvc := student.NewService(stdRepo)

	validate, translator := core.NewValidator()

	// set up server
	app = NewServer(
		ServerDeps{
			Conf:       conf,
			Logger:     testLogger{},
			Validate:   validate,
			Translator: translator,

			StudentSvc:    stdSvc,
			InstructorSvc: instructor.NewService(insRepo),
			EnrollmentSvc: enrollment.NewService(enrRepo, stdSvc, mailSvc),
			AssignmentSvc: assignment.NewService(asgRepo),
			QuizSvc:       quiz.NewService(qzRepo),
			TicketSvc:     ticket.NewService(tktRepo, mailSvc),
			CMSSvc:        cms.NewService(aboutRepo, filesvc.NewMemoryStore()),
			NavSvc:        nav.NewService(menuRepo),
		},
	)

	os.Exit(m.Run())
}

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}
