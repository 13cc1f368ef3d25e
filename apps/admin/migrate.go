package main

import (
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/sekolahku/backend/core"
	appfs "github.com/sekolahku/backend/fs"
	"github.com/sekolahku/backend/storage/database"
)

var migrateRunFunc = runMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	return migrateRunFunc(cli.db, cli.conf, args[0], args[1:]...)
}

func runMigrations(db *database.DB, conf *core.Config, command string, args ...string) error {
	src, err := iofs.New(appfs.FS, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratepg.WithInstance(db.DB.DB, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, conf.Database.Name, driver)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "reset":
		err = m.Down()
	case "force":
		if len(args) == 0 {
			return fmt.Errorf("force must be of form: admin migrate force VERSION")
		}
		v, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Errorf("version must be a number (got '%s')", args[0])
		}
		err = m.Force(v)
	case "version":
		v, dirty, vErr := m.Version()
		if vErr != nil && vErr != migrate.ErrNilVersion {
			return vErr
		}
		fmt.Printf("version: %d (dirty: %t)\n", v, dirty)
	default:
		return fmt.Errorf("%q: no such command", command)
	}

	if err == migrate.ErrNoChange {
		err = nil
	}
	return err
}
