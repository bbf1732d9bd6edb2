package main

import (
	"database/sql"

	"github.com/shulepay/shulepay/storage/database"
)

var migrateFunc = func(db *sql.DB, command string, args ...string) error { // mockable
	return database.Migrate(db, command, args...)
}

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return migrateFunc(cli.db.DB, args[0], arguments...)
}
