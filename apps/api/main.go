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
	"github.com/robfig/cron/v3"

	echoapi "github.com/tupine/lifegear/apps/api/echo"
	"github.com/tupine/lifegear/core"
	"github.com/tupine/lifegear/core/activity"
	"github.com/tupine/lifegear/core/bin"
	"github.com/tupine/lifegear/core/calendar"
	"github.com/tupine/lifegear/services/campus"
	emailsvc "github.com/tupine/lifegear/services/email"
	logsvc "github.com/tupine/lifegear/services/logger"
	"github.com/tupine/lifegear/services/realtime"
	"github.com/tupine/lifegear/storage/session/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	store := inmem.Open()
	campusClt := campus.NewClient(conf)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	binSvc := bin.NewService(store)
	calSvc := calendar.NewService(campusClt, binSvc)
	actSvc := activity.NewService(campusClt, store)
	hub := realtime.NewHub()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Fan session-storage changes out to the owning session's tabs

	changes, cancelWatch := store.Watch()
	defer cancelWatch()
	go func() {
		for change := range changes {
			if change.Key == bin.StorageKey {
				hub.Broadcast(change.SessionID, realtime.NewMessage(realtime.TypeBinChanged, nil))
			}
		}
	}()

	// =========================================================================
	// Start Background Jobs

	purge := cron.FuncJob(func() {
		if changed := binSvc.PurgeAllExpired(conf.Bin.RetentionDays); len(changed) > 0 {
			logger.Info(fmt.Sprintf("recycle bin purge: %d session(s) affected", len(changed)))
		}
		if dropped := store.PurgeIdle(conf.Bin.SessionTTL); dropped > 0 {
			logger.Info(fmt.Sprintf("session reaper: %d idle session(s) dropped", dropped))
		}
	})
	purge.Run()

	c := cron.New()
	c.Schedule(cron.Every(conf.Bin.PurgeInterval), purge)
	c.Start()
	defer c.Stop()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			CampusClt:   campusClt,
			CalendarSvc: calSvc,
			ActivitySvc: actSvc,
			BinSvc:      binSvc,
			Store:       store,
			MailSvc:     mailSvc,
			Hub:         hub,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
