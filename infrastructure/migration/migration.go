package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed sql/*.sql
var FS embed.FS

var ErrDirtyDatabase = errors.New("database is in dirty state")

// Status descreve a versão de schema aplicada
type Status struct {
	Version uint
	Dirty   bool
	Applied bool
}

type Migrator struct {
	m *migrate.Migrate
}

func NewMigrator(dsn string) (*Migrator, error) {
	source, err := iofs.New(FS, "sql")
	if err != nil {
		return nil, fmt.Errorf("migration: error opening embedded source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return nil, fmt.Errorf("migration: error creating migrator: %w", err)
	}

	return &Migrator{m: m}, nil
}

// Up aplica todas as migrações pendentes
func (mg *Migrator) Up() error {
	status, err := mg.Status()
	if err != nil {
		return err
	}
	if status.Dirty {
		return ErrDirtyDatabase
	}

	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: error applying migrations: %w", err)
	}

	logrus.WithField("from_version", status.Version).Info("migration: schema up to date")
	return nil
}

// Down reverte as últimas steps migrações
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("migration: steps must be positive")
	}

	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: error reverting migrations: %w", err)
	}
	return nil
}

func (mg *Migrator) Status() (Status, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("migration: error reading version: %w", err)
	}
	return Status{Version: version, Dirty: dirty, Applied: true}, nil
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Run aplica as migrações pendentes e fecha o migrator
func Run(dsn string) error {
	mg, err := NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer mg.Close()

	return mg.Up()
}
