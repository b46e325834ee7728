package main

import (
	"flag"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/country"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/user"
	emailsvc "github.com/thinkmate/thinkmate/services/email"
	logsvc "github.com/thinkmate/thinkmate/services/logger"
	"github.com/thinkmate/thinkmate/storage/database"
	boiledrepos "github.com/thinkmate/thinkmate/storage/database/boiled"
	inmemdb "github.com/thinkmate/thinkmate/storage/database/inmem"
	sqlxrepos "github.com/thinkmate/thinkmate/storage/database/sqlx"
)

func main() {
	inmem := flag.Bool("inmem", false, "run against an empty in-memory store (dry runs)")
	flag.Parse()
	args := append([]string{os.Args[0]}, flag.Args()...)

	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		stdLogger.Fatalf("loading config: %v", err)
	}
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	interest.InitValidators(validate, translator)

	mailSvc := emailsvc.NewConsoleService(conf, stdLogger)

	var cli *commandLine
	if *inmem {
		db := inmemdb.NewDB()
		cli = newCommandLine(validate, mailSvc, logger, inmemdb.NewUserRepository(db), inmemdb.NewStudentRepository(db),
			inmemdb.NewInterestRepository(db), inmemdb.NewCountryRepository(db))
	} else {
		if err = database.CreateIfNotExist(conf); err != nil {
			logger.Fatal("creating database", err)
		}
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal("opening database", err)
		}
		defer func() { _ = db.Close() }()

		cli = newCommandLine(validate, mailSvc, logger, sqlxrepos.NewUserRepository(db), sqlxrepos.NewStudentRepository(db),
			sqlxrepos.NewInterestRepository(db), boiledrepos.NewCountryRepository(db.DB))
		cli.db = db.DB
	}

	if err = cli.run(args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func newCommandLine(
	validate *validator.Validate,
	mailSvc core.EmailService,
	logger core.Logger,
	usrRepo user.Repository,
	studentRepo student.Repository,
	interestRepo interest.Repository,
	countryRepo country.Repository,
) *commandLine {
	return &commandLine{
		validate:    validate,
		usrRepo:     usrRepo,
		usrSvc:      user.NewService(usrRepo),
		studentSvc:  student.NewService(studentRepo, mailSvc, logger),
		interestSvc: interest.NewService(interestRepo, core.NopMetrics{}),
		countrySvc:  country.NewService(countryRepo),
	}
}
