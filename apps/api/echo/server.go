package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/checkin"
	"github.com/gympoint/backend/core/helporder"
	"github.com/gympoint/backend/core/notification"
	"github.com/gympoint/backend/core/plan"
	"github.com/gympoint/backend/core/registration"
	"github.com/gympoint/backend/core/student"
	"github.com/gympoint/backend/core/user"
)

type (
	ServerDeps struct {
		Conf   *core.Config
		Logger core.Logger

		UserSvc         user.ServiceInterface
		PlanSvc         plan.ServiceInterface
		StudentSvc      student.ServiceInterface
		RegistrationSvc registration.ServiceInterface
		CheckinSvc      checkin.ServiceInterface
		HelpOrderSvc    helporder.ServiceInterface
		NotificationSvc notification.ServiceInterface

		Validate   *validator.Validate
		Translator ut.Translator

		DisableReqLogs bool
	}

	Server struct {
		deps ServerDeps
		app  *echo.Echo

		errs     chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.SignalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	// open endpoints
	registerSessionAPI(s.app, conf, s.deps.UserSvc, s.deps.Validate)
	registerCheckinAPI(s.app, s.deps.CheckinSvc)

	// everything else sits behind the JWT middleware
	g := s.app.Group("", jwt)
	registerUserAPI(g, s.deps.UserSvc, s.deps.Validate)
	registerPlanAPI(g, s.deps.PlanSvc, s.deps.Validate)
	registerStudentAPI(g, s.deps.StudentSvc, s.deps.Validate)
	registerRegistrationAPI(g, s.deps.RegistrationSvc, s.deps.Validate)
	registerHelpOrderAPI(g, s.deps.HelpOrderSvc, s.deps.Validate)
	registerNotificationAPI(g, s.deps.NotificationSvc)
}

// Start runs the server; a listener failure lands on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errs }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown requests a graceful shutdown, used when an unrecoverable
// error is caught deep in a request.
func (s *Server) SignalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to GymPoint API!")
}
