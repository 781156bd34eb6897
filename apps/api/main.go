package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/gympoint/backend/apps/api/echo"
	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/checkin"
	"github.com/gympoint/backend/core/helporder"
	"github.com/gympoint/backend/core/notification"
	"github.com/gympoint/backend/core/plan"
	"github.com/gympoint/backend/core/registration"
	"github.com/gympoint/backend/core/student"
	"github.com/gympoint/backend/core/user"
	emailsvc "github.com/gympoint/backend/services/email"
	logsvc "github.com/gympoint/backend/services/logger"
	"github.com/gympoint/backend/storage/database"
	sqlxrepos "github.com/gympoint/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

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

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	clock := core.NewClock()
	tx := database.NewTransactor(db)

	planRepo := sqlxrepos.NewPlanRepository(db)
	studentRepo := sqlxrepos.NewStudentRepository(db)
	registrationRepo := sqlxrepos.NewRegistrationRepository(db)
	checkinRepo := sqlxrepos.NewCheckinRepository(db)
	helpOrderRepo := sqlxrepos.NewHelpOrderRepository(db)
	notificationRepo := sqlxrepos.NewNotificationRepository(db)
	userRepo := sqlxrepos.NewUserRepository(db)

	planSvc := plan.NewService(planRepo, clock)
	studentSvc := student.NewService(studentRepo, clock)
	registrationSvc := registration.NewService(registrationRepo, planRepo, studentRepo, mailSvc, clock)
	checkinSvc := checkin.NewService(tx, checkinRepo, registrationRepo, clock)
	notificationSvc := notification.NewService(notificationRepo, clock)
	helpOrderSvc := helporder.NewService(helpOrderRepo, studentRepo, notificationSvc, mailSvc, logger, clock)
	userSvc := user.NewService(userRepo, clock)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			UserSvc:         userSvc,
			PlanSvc:         planSvc,
			StudentSvc:      studentSvc,
			RegistrationSvc: registrationSvc,
			CheckinSvc:      checkinSvc,
			HelpOrderSvc:    helpOrderSvc,
			NotificationSvc: notificationSvc,
			Validate:        validate,
			Translator:      translator,
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

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
