package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var files embed.FS

// Migrator manages database migrations
type Migrator struct {
	databaseURL string
	logger      zerolog.Logger
}

// NewMigrator creates a new migrator for a postgres:// connection string
func NewMigrator(connString string, logger zerolog.Logger) *Migrator {
	return &Migrator{
		databaseURL: pgx5URL(connString),
		logger:      logger.With().Str("component", "migrations").Logger(),
	}
}

// pgx5URL switches the scheme to the one the pgx/v5 migrate driver registers
func pgx5URL(conn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(conn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return conn
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	mg, err := migrate.NewWithSourceInstance("iofs", src, m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mg, nil
}

func closeMigrate(mg *migrate.Migrate) error {
	srcErr, dbErr := mg.Close()
	return errors.Join(srcErr, dbErr)
}

// Up applies all pending migrations
func (m *Migrator) Up() (err error) {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeMigrate(mg)) }()

	if err := mg.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info().Msg("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, _ := mg.Version()
	m.logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("Migrations applied")
	return nil
}

// Down rolls back every migration
func (m *Migrator) Down() (err error) {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeMigrate(mg)) }()

	if err := mg.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	m.logger.Info().Msg("Migrations rolled back")
	return nil
}

// Version reports the applied schema version
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	mg, err := m.open()
	if err != nil {
		return 0, false, err
	}
	defer func() { err = errors.Join(err, closeMigrate(mg)) }()

	version, dirty, err = mg.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
