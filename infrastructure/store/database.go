// Package store persists audit runs and their records to sqlite.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"spscan/logging"
)

// Config holds database configuration.
type Config struct {
	Path              string
	BusyTimeoutMs     int
	EnableWAL         bool
	EnableForeignKeys bool
}

// DefaultConfig returns the database configuration for a given file path.
func DefaultConfig(path string) Config {
	return Config{
		Path:              path,
		BusyTimeoutMs:     5000,
		EnableWAL:         true,
		EnableForeignKeys: true,
	}
}

// Database wraps the sqlite connection and schema management. The audit is
// strictly sequential, so a single connection suffices.
type Database struct {
	db     *sql.DB
	config Config
	logger *logging.Logger
}

// New opens the database, verifies the connection, and applies pending
// migrations.
func New(config Config) (*Database, error) {
	logger := logging.Default().WithComponent("store")

	db, err := sql.Open("sqlite", buildDSN(config))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &Database{db: db, config: config, logger: logger}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Debug("Database ready", "path", config.Path)
	return d, nil
}

// buildDSN constructs the sqlite data source name.
func buildDSN(config Config) string {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", config.Path, config.BusyTimeoutMs)
	if config.EnableWAL {
		dsn += "&_journal_mode=WAL"
	}
	if config.EnableForeignKeys {
		dsn += "&_foreign_keys=on"
	}
	return dsn
}

func (d *Database) initialize() error {
	if err := d.db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if _, err := d.db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", d.config.BusyTimeoutMs)); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	if d.config.EnableWAL {
		var journalMode string
		if err := d.db.QueryRow("PRAGMA journal_mode=WAL").Scan(&journalMode); err != nil {
			return fmt.Errorf("enable WAL mode: %w", err)
		}
		if journalMode != "wal" {
			d.logger.Warn("WAL mode not enabled", "journal_mode", journalMode)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	return d.db.Close()
}
