package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/tailcraft/avialearn/apps/api/echo"
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
	logsvc "github.com/tailcraft/avialearn/services/logger"
	"github.com/tailcraft/avialearn/storage/database"
	inmemdb "github.com/tailcraft/avialearn/storage/database/inmem"
	sqlxrepos "github.com/tailcraft/avialearn/storage/database/sqlx"
)

type repositories struct {
	student    student.Repository
	instructor instructor.Repository
	enrollment enrollment.Repository
	assignment assignment.Repository
	quiz       quiz.Repository
	ticket     ticket.Repository
	about      cms.Repository
	menu       nav.Repository
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.LoadConfig()

	logger := newLogger(conf)

	repos, closeDB, err := setUpRepos(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer closeDB()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	files, err := filesvc.NewLocalStore("media")
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up file store: %v", err), err)
	}

	stdSvc := student.NewService(repos.student)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("%s initializing : env %q", conf.AppName, conf.Env))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,

			StudentSvc:    stdSvc,
			InstructorSvc: instructor.NewService(repos.instructor),
			EnrollmentSvc: enrollment.NewService(repos.enrollment, stdSvc, mailSvc),
			AssignmentSvc: assignment.NewService(repos.assignment),
			QuizSvc:       quiz.NewService(repos.quiz),
			TicketSvc:     ticket.NewService(repos.ticket, mailSvc),
			CMSSvc:        cms.NewService(repos.about, files),
			NavSvc:        nav.NewService(repos.menu),
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newLogger(conf *core.Config) core.Logger {
	if conf.RollbarToken != "" && !conf.Debug {
		return logsvc.NewRollbarLogger(
			log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
			conf,
		)
	}
	logger, err := logsvc.NewZapLogger(conf)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	return logger
}

// setUpRepos wires either the in-memory backend (debug mode, no DB needed)
// or PostgreSQL via sqlx.
func setUpRepos(conf *core.Config) (repositories, func(), error) {
	if conf.Debug {
		db, err := inmemdb.Open()
		if err != nil {
			return repositories{}, nil, err
		}
		return repositories{
			student:    inmemdb.NewStudentRepository(db),
			instructor: inmemdb.NewInstructorRepository(db),
			enrollment: inmemdb.NewEnrollmentRepository(db),
			assignment: inmemdb.NewAssignmentRepository(db),
			quiz:       inmemdb.NewQuizRepository(db),
			ticket:     inmemdb.NewTicketRepository(db),
			about:      inmemdb.NewAboutRepository(db),
			menu:       inmemdb.NewMenuRepository(db),
		}, func() {}, nil
	}

	db, err := setUpDB(conf)
	if err != nil {
		return repositories{}, nil, err
	}
	return repositories{
		student:    sqlxrepos.NewStudentRepository(db),
		instructor: sqlxrepos.NewInstructorRepository(db),
		enrollment: sqlxrepos.NewEnrollmentRepository(db),
		assignment: sqlxrepos.NewAssignmentRepository(db),
		quiz:       sqlxrepos.NewQuizRepository(db),
		ticket:     sqlxrepos.NewTicketRepository(db),
		about:      sqlxrepos.NewAboutPageRepository(db),
		menu:       sqlxrepos.NewMenuRepository(db),
	}, func() { _ = db.Close() }, nil
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db, nil); err != nil {
		return nil, err
	}
	return db, nil
}
