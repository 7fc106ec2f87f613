// Package storage owns the embedded sqlite database backing the ledger
// store. It opens the database and applies the embedded schema migrations.
package storage

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	sqlite3migrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kassa/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Manager handles the database lifecycle.
type Manager struct {
	db   *gorm.DB
	path string
}

// Open opens (creating if necessary) the sqlite database at path, applies
// pending schema migrations, and returns a manager for it. Both file paths
// and ":memory:" work: migrations run over the same connection pool that
// serves queries, so an in-memory database keeps its schema.
func Open(path string) (*Manager, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	// Single writer: the engine serializes mutations itself, and sqlite
	// handles concurrent readers. A single connection also pins an
	// in-memory database for the manager's lifetime.
	sqlDB.SetMaxOpenConns(1)

	if err := runMigrations(sqlDB); err != nil {
		return nil, err
	}

	return &Manager{db: db, path: path}, nil
}

// runMigrations applies pending SQL migrations from the embedded
// migrations directory over the given connection pool.
func runMigrations(sqlDB *sql.DB) error {
	logger.Get().Info("Running database migrations...")

	driver, err := sqlite3migrate.WithInstance(sqlDB, &sqlite3migrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create iofs source: %w", err)
	}

	mig, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close closes the underlying database connection.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
