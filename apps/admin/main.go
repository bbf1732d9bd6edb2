package main

import (
	"log"
	"os"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/activation"
	"github.com/shulepay/shulepay/core/school"
	emailsvc "github.com/shulepay/shulepay/services/email"
	"github.com/shulepay/shulepay/storage/database"
	sqlxrepos "github.com/shulepay/shulepay/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	mailSvc := emailsvc.NewConsoleService(conf)

	// start CLI
	cli := commandLine{
		db:     db,
		conf:   conf,
		actSvc: activation.NewService(conf, sqlxrepos.NewActivationRepository(db), mailSvc),
		schSvc: school.NewService(conf, sqlxrepos.NewSchoolRepository(db), mailSvc),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
