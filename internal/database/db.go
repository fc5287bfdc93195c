package database

import (
	"database/sql"
	"fmt"
	"strings"

	"gamepal/internal/config"
)

// DB wraps the database connection with dialect support
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Initialize creates and configures the database connection based on config
func Initialize(cfg *config.Config) (*DB, error) {
	var dialect Dialect
	var dialectConfig DialectConfig

	switch strings.ToLower(cfg.DatabaseType) {
	case "postgres", "postgresql":
		dialect = NewPostgresDialect()
		dialectConfig = DialectConfig{URL: cfg.DatabaseURL}
	case "mysql":
		dialect = NewMySQLDialect()
		dialectConfig = DialectConfig{URL: cfg.DatabaseURL}
	case "sqlite", "sqlite3", "":
		dialect = NewSQLiteDialect()
		dialectConfig = DialectConfig{Path: cfg.DatabasePath}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DatabaseType)
	}

	db, err := sql.Open(dialect.DriverName(), dialect.DSN(dialectConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := dialect.ConfigureConnection(db); err != nil {
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// InitializeSQLite opens a SQLite database at the given path. Used by tests
// and the backup tool.
func InitializeSQLite(dbPath string) (*DB, error) {
	return Initialize(&config.Config{DatabaseType: "sqlite", DatabasePath: dbPath})
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Query executes a query with automatic placeholder rewriting
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	var rows *sql.Rows
	err := withRetry(func() error {
		var err error
		rows, err = db.DB.Query(db.Dialect.RewriteQuery(query), args...)
		return err
	})
	return rows, err
}

// QueryRow executes a query that returns a single row with automatic
// placeholder rewriting
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(db.Dialect.RewriteQuery(query), args...)
}

// Exec executes a query that doesn't return rows with automatic
// placeholder rewriting
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	var result sql.Result
	err := withRetry(func() error {
		var err error
		result, err = db.DB.Exec(db.Dialect.RewriteQuery(query), args...)
		return err
	})
	return result, err
}

// ExecReturningID executes an INSERT query and returns the new row's ID.
// Handles the dialect difference between drivers that support
// LastInsertId() and PostgreSQL which requires a RETURNING clause.
func (db *DB) ExecReturningID(query string, args ...interface{}) (int64, error) {
	rewritten := db.Dialect.RewriteQuery(query)

	if db.Dialect.SupportsLastInsertId() {
		result, err := db.Exec(query, args...)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}

	rewritten = strings.TrimSuffix(strings.TrimSpace(rewritten), ";") + " RETURNING id"

	var id int64
	if err := db.DB.QueryRow(rewritten, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
