package postgres

import (
	"embed"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies every pending embedded migration.  It is called at
// startup before any query runs; a database that is already current is not
// an error.
func (c *Connection) RunMigrations() error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open embedded migrations")
	}

	driver, err := migratepg.WithInstance(c.db, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to init migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, c.cfg.DBName, driver)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrator")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migration failed")
	}
	c.logger.Info("database schema is up to date")
	return nil
}
