package database

import (
	"errors"
	"fmt"

	"hospital-management/config"
	"hospital-management/db"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

// Migrator applies the SQL migrations embedded in the binary.
type Migrator struct {
	m *migrate.Migrate
}

func NewMigrator(cfg config.DBConfig) (*Migrator, error) {
	return NewMigratorFromURL(URL(cfg))
}

// NewMigratorFromURL accepts a pgx5:// URL.
func NewMigratorFromURL(databaseURL string) (*Migrator, error) {
	source, err := iofs.New(db.Migrations, db.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. Being up to date is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	mg.logVersion()
	return nil
}

// Down rolls back steps migrations, or everything when steps <= 0.
func (mg *Migrator) Down(steps int) error {
	var err error
	if steps > 0 {
		err = mg.m.Steps(-steps)
	} else {
		err = mg.m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	mg.logVersion()
	return nil
}

// Version returns the current schema version; 0 means nothing applied.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (mg *Migrator) logVersion() {
	version, dirty, err := mg.Version()
	if err != nil {
		logrus.Warnf("Failed to read migration version: %+v", err)
		return
	}
	logrus.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Migrations applied")
}
