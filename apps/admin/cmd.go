package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/thinkmate/thinkmate/core/country"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/user"
	"github.com/thinkmate/thinkmate/storage/database"
)

var (
	// mockable
	readPasswordFunc = term.ReadPassword
	migrateFunc      = database.Migrate

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db          *sql.DB // nil with in-memory storage
	validate    *validator.Validate
	usrRepo     user.Repository
	usrSvc      *user.Service
	studentSvc  *student.Service
	interestSvc *interest.Service
	countrySvc  *country.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (up, down, status, redo, up-to VERSION...)")
	fmt.Println("  addteacher -name NAME -email EMAIL - create or promote a teacher, the password is prompted")
	fmt.Println("  resetpassword -email EMAIL - reset user's password, the password is prompted")
	fmt.Println("  seed - create demo students and interests")
	fmt.Println("  importstats -file PATH - import a country statistics CSV")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	addTeacherCmd := flag.NewFlagSet("addteacher", flag.ContinueOnError)
	addTeacherName := addTeacherCmd.String("name", "", "The teacher's name.")
	addTeacherEmail := addTeacherCmd.String("email", "", "The teacher's email. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	importStatsCmd := flag.NewFlagSet("importstats", flag.ContinueOnError)
	importStatsFile := importStatsCmd.String("file", "", "Path of the CSV file.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])

	case "addteacher":
		if err := addTeacherCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addTeacherName == "" || *addTeacherEmail == "" {
			addTeacherCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addTeacherCmd.Usage()
			return errHelp
		}
		return cli.addTeacher(ctx, *addTeacherName, *addTeacherEmail, pwd)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(ctx, *resetPasswordEmail, pwd)

	case "seed":
		return cli.seed(ctx)

	case "importstats":
		if err := importStatsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importStatsFile == "" {
			importStatsCmd.Usage()
			return errHelp
		}
		return cli.importStats(ctx, *importStatsFile)

	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
