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

	"github.com/tupine/lifegear/core"
	"github.com/tupine/lifegear/core/activity"
	"github.com/tupine/lifegear/core/bin"
	"github.com/tupine/lifegear/core/calendar"
	"github.com/tupine/lifegear/services/campus"
	"github.com/tupine/lifegear/services/realtime"
	"github.com/tupine/lifegear/storage/session"
)

type (
	ServerDeps struct {
		Conf        *core.Config
		Logger      core.Logger
		CampusClt   *campus.Client
		CalendarSvc *calendar.Service
		ActivitySvc *activity.Service
		BinSvc      *bin.Service
		Store       session.Store
		MailSvc     core.EmailService
		Hub         *realtime.Hub
		Validate    *validator.Validate
		Translator  ut.Translator

		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps         ServerDeps
		app          *echo.Echo
		errChan      chan error
		shutdownChan chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:         deps,
		app:          echo.New(),
		errChan:      make(chan error, 1),
		shutdownChan: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(conf, s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newAppJWTConfig(conf))
	authed := []echo.MiddlewareFunc{jwt, sessionKeepAliveMiddleware(s.deps.Store)}

	registerAuthAPI(v1, authed, s.deps)
	registerCalendarAPI(v1, authed, s.deps)
	registerActivityAPI(v1, authed, s.deps)
	registerBinAPI(v1, authed, s.deps)
	registerRealtimeAPI(v1, authed, s.deps)
	registerFeedbackAPI(v1, authed, s.deps)
}

func (s *server) Start() {
	signal.Notify(s.shutdownChan, os.Interrupt, syscall.SIGTERM)
	s.errChan <- s.app.Start(s.deps.Conf.Server.Addr)
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errChan
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownChan
}

// signalShutdown is handed to the error handler so a caught shutdown error
// triggers the same graceful stop as an OS signal.
func (s *server) signalShutdown() {
	s.shutdownChan <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to LifeGear API!")
}
