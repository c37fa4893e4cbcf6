package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/tailcraft/avialearn/core"
	exportsvc "github.com/tailcraft/avialearn/services/export"
	"github.com/tailcraft/avialearn/storage/database"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf *core.Config
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  createdb - provision the app user and database")
	fmt.Println("  migrate - apply pending database migrations")
	fmt.Println("  seed - load demo data (flight school starter set)")
	fmt.Println("  export -resource RESOURCE [-format csv|json] [-out FILE] - dump a listing")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportResource := exportCmd.String("resource", "", "one of: students, instructors, enrollments, assignments, quizzes, tickets")
	exportFormat := exportCmd.String("format", "csv", "output format: csv or json")
	exportOut := exportCmd.String("out", "", "output file; stdout when empty")

	switch args[1] {
	case "createdb":
		return database.CreateIfNotExist(cli.conf)
	case "migrate":
		return cli.withDB(func(db *sqlx.DB) error {
			return database.Migrate(db, nil)
		})
	case "seed":
		return cli.withDB(cli.seed)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportResource == "" {
			exportCmd.Usage()
			return errHelp
		}
		format, err := exportsvc.ParseFormat(*exportFormat)
		if err != nil {
			return err
		}
		return cli.withDB(func(db *sqlx.DB) error {
			return cli.export(db, *exportResource, format, *exportOut)
		})
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) withDB(fn func(db *sqlx.DB) error) error {
	db, err := database.Open(cli.conf)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "db.Close(): %v\n", cerr)
		}
	}()
	return fn(db)
}
