package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/shulepay/shulepay/apps/api/echo"
	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/activation"
	"github.com/shulepay/shulepay/core/parent"
	"github.com/shulepay/shulepay/core/school"
	"github.com/shulepay/shulepay/core/session"
	"github.com/shulepay/shulepay/core/tenant"
	emailsvc "github.com/shulepay/shulepay/services/email"
	logsvc "github.com/shulepay/shulepay/services/logger"
	"github.com/shulepay/shulepay/storage/database"
	sqlxrepos "github.com/shulepay/shulepay/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %+v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	actSvc := activation.NewService(conf, sqlxrepos.NewActivationRepository(db), mailSvc)
	svcs := session.Services{
		Conf:       conf,
		Logger:     logger,
		School:     school.NewService(conf, sqlxrepos.NewSchoolRepository(db), mailSvc),
		Tenant:     tenant.NewService(sqlxrepos.NewTenantRepository(db)),
		Activation: actSvc,
		Parent:     parent.NewService(sqlxrepos.NewParentRepository(db)),
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Addr:   conf.Server.Address(),
			Conf:   conf,
			Logger: logger,
			Store:  session.NewStore(conf.Server.SessionTTL),
			Svcs:   svcs,
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

	if err = database.Migrate(db.DB, ""); err != nil {
		return nil, err
	}
	return db, nil
}
