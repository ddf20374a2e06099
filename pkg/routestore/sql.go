package routestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
)

// SQLStore keeps routes in a SQL table.
// It works with any database/sql driver. The table layout is:
//
//	CREATE TABLE flxrouter_routes (
//	    route_key  VARCHAR(255) PRIMARY KEY,
//	    url        TEXT NOT NULL,
//	    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// EnsureSchema creates it when missing.
type SQLStore struct {
	db        *sql.DB
	tableName string
	dialect   SQLDialect
	closed    atomic.Bool
}

// SQLDialect selects placeholder and upsert syntax.
type SQLDialect int

const (
	// DialectPostgreSQL uses $n placeholders and ON CONFLICT.
	DialectPostgreSQL SQLDialect = iota
	// DialectMySQL uses ? placeholders and ON DUPLICATE KEY.
	DialectMySQL
	// DialectSQLite uses ? placeholders and ON CONFLICT.
	DialectSQLite
)

// ParseDialect maps a driver name to its dialect.
func ParseDialect(driver string) (SQLDialect, error) {
	switch driver {
	case "postgres", "pgx", "postgresql":
		return DialectPostgreSQL, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	}
	return 0, fmt.Errorf("routestore: unknown SQL driver %q", driver)
}

// SQLStoreOption configures SQLStore behavior.
type SQLStoreOption func(*sqlStoreConfig)

type sqlStoreConfig struct {
	tableName string
	dialect   SQLDialect
}

// WithSQLTableName sets the table name.
// Default: "flxrouter_routes".
func WithSQLTableName(name string) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.tableName = name
	}
}

// WithSQLDialect sets the SQL dialect.
// Default: DialectPostgreSQL.
func WithSQLDialect(dialect SQLDialect) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.dialect = dialect
	}
}

// NewSQLStore creates a store on top of db. The db is not closed by Close.
func NewSQLStore(db *sql.DB, opts ...SQLStoreOption) *SQLStore {
	cfg := &sqlStoreConfig{
		tableName: "flxrouter_routes",
		dialect:   DialectPostgreSQL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &SQLStore{
		db:        db,
		tableName: cfg.tableName,
		dialect:   cfg.dialect,
	}
}

func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// EnsureSchema creates the routes table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			route_key VARCHAR(255) PRIMARY KEY,
			url TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Load returns the URL stored under key.
func (s *SQLStore) Load(ctx context.Context, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, ErrStoreClosed{}
	}

	query := fmt.Sprintf(`SELECT url FROM %s WHERE route_key = %s`, s.tableName, s.placeholder(1))

	var url string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return url, true, nil
}

// Save stores url under key.
func (s *SQLStore) Save(ctx context.Context, key string, url string) error {
	if s.closed.Load() {
		return ErrStoreClosed{}
	}

	var query string
	switch s.dialect {
	case DialectPostgreSQL:
		query = fmt.Sprintf(`
			INSERT INTO %s (route_key, url, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (route_key) DO UPDATE SET
				url = EXCLUDED.url,
				updated_at = NOW()
		`, s.tableName)
	case DialectMySQL:
		query = fmt.Sprintf(`
			INSERT INTO %s (route_key, url, updated_at)
			VALUES (?, ?, NOW())
			ON DUPLICATE KEY UPDATE
				url = VALUES(url),
				updated_at = NOW()
		`, s.tableName)
	case DialectSQLite:
		query = fmt.Sprintf(`
			INSERT INTO %s (route_key, url, updated_at)
			VALUES (?, ?, datetime('now'))
			ON CONFLICT (route_key) DO UPDATE SET
				url = excluded.url,
				updated_at = excluded.updated_at
		`, s.tableName)
	}

	_, err := s.db.ExecContext(ctx, query, key, url)
	return err
}

// Delete removes key.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrStoreClosed{}
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE route_key = %s`, s.tableName, s.placeholder(1))
	_, err := s.db.ExecContext(ctx, query, key)
	return err
}

// Close marks the store as closed.
func (s *SQLStore) Close() error {
	s.closed.Store(true)
	return nil
}
