package main

import (
	"context"
	"expvar"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on the default mux
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/thinkmate/thinkmate/apps/api/echo"
	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/country"
	"github.com/thinkmate/thinkmate/core/group"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/survey"
	"github.com/thinkmate/thinkmate/core/user"
	aisvc "github.com/thinkmate/thinkmate/services/ai"
	emailsvc "github.com/thinkmate/thinkmate/services/email"
	logsvc "github.com/thinkmate/thinkmate/services/logger"
	metricsvc "github.com/thinkmate/thinkmate/services/metrics"
	"github.com/thinkmate/thinkmate/storage/database"
	boiledrepos "github.com/thinkmate/thinkmate/storage/database/boiled"
	inmemdb "github.com/thinkmate/thinkmate/storage/database/inmem"
	sqlxrepos "github.com/thinkmate/thinkmate/storage/database/sqlx"
)

type repositories struct {
	user     user.Repository
	student  student.Repository
	interest interest.Repository
	group    group.Repository
	survey   survey.Repository
	country  country.Repository
}

func main() {
	inmem := flag.Bool("inmem", false, "keep the data in memory instead of postgres")
	flag.Parse()

	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up storage
	var repos repositories
	if *inmem {
		logger.Warn("Using in-memory storage, data will be lost on exit")
		repos = inmemRepositories()
	} else {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		repos = dbRepositories(db)
	}

	metrics := metricsvc.NewPrometheusMetrics(conf.AppName)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, log.New(os.Stdout, "MAIL : ", log.LstdFlags))
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var generator survey.Generator
	if gen := aisvc.NewOpenAIGenerator(conf.OpenAI, logger); gen != nil {
		generator = gen
	} else {
		logger.Warn("OpenAI API key not configured, feedback is disabled")
	}

	usrSvc := user.NewService(repos.user)
	studentSvc := student.NewService(repos.student, mailSvc, logger)
	interestSvc := interest.NewService(repos.interest, metrics)
	groupSvc := group.NewService(repos.group)
	surveySvc := survey.NewService(repos.survey, generator, metrics)
	countrySvc := country.NewService(repos.country)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	interest.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus metrics of the app.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	http.DefaultServeMux.Handle("/metrics", metrics.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			Validate:    validate,
			Translator:  translator,
			Metrics:     metrics,
			Requests:    metrics,
			UserSvc:     usrSvc,
			StudentSvc:  studentSvc,
			InterestSvc: interestSvc,
			GroupSvc:    groupSvc,
			SurveySvc:   surveySvc,
			CountrySvc:  countrySvc,
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

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(context.Background(), db.DB, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func dbRepositories(db *sqlx.DB) repositories {
	return repositories{
		user:     sqlxrepos.NewUserRepository(db),
		student:  sqlxrepos.NewStudentRepository(db),
		interest: sqlxrepos.NewInterestRepository(db),
		group:    sqlxrepos.NewGroupRepository(db),
		survey:   sqlxrepos.NewSurveyRepository(db),
		country:  boiledrepos.NewCountryRepository(db.DB),
	}
}

func inmemRepositories() repositories {
	db := inmemdb.NewDB()
	return repositories{
		user:     inmemdb.NewUserRepository(db),
		student:  inmemdb.NewStudentRepository(db),
		interest: inmemdb.NewInterestRepository(db),
		group:    inmemdb.NewGroupRepository(db),
		survey:   inmemdb.NewSurveyRepository(db),
		country:  inmemdb.NewCountryRepository(db),
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
