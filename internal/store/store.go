package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Registered database/sql driver names.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// DefaultDriver is used when no WithDriver option is given.
const DefaultDriver = DriverCGO

// Drivers lists the accepted driver names.
var Drivers = []string{DriverCGO, DriverPureGo}

// Store provides durable storage for the contact book.
type Store struct {
	db     *sql.DB
	path   string
	driver string
}

type options struct {
	driver string
}

// Option configures Open.
type Option func(*options)

// WithDriver selects the database/sql driver used to open the file.
func WithDriver(name string) Option {
	return func(o *options) {
		o.driver = name
	}
}

// IsValidDriver reports whether name is one of Drivers.
func IsValidDriver(name string) bool {
	for _, d := range Drivers {
		if d == name {
			return true
		}
	}
	return false
}

// Open creates or opens a SQLite database at the given path and makes sure
// the people and pnumbers tables exist.
//
// The database is configured through the DSN, so every pooled connection gets:
//   - WAL mode
//   - NORMAL synchronous mode
//   - 5-second busy timeout
//   - foreign key enforcement
//   - case-sensitive LIKE, which FindByBirthPrefix relies on
//
// This function is idempotent - safe to call on every program invocation.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{driver: DefaultDriver}
	for _, opt := range opts {
		opt(&o)
	}
	if !IsValidDriver(o.driver) {
		return nil, newError(KindOpen, "open", fmt.Errorf("unknown driver %q", o.driver))
	}

	db, err := sql.Open(o.driver, dsn(o.driver, path))
	if err != nil {
		return nil, newError(KindOpen, "open", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, newError(KindOpen, "connect", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, newError(KindSchema, "apply schema", err)
	}

	return &Store{db: db, path: path, driver: o.driver}, nil
}

// Init opens the database at path, ensures the schema exists and closes it again.
// A context that is already done leaves the file untouched.
func Init(ctx context.Context, path string, opts ...Option) error {
	if err := ctx.Err(); err != nil {
		return newError(KindSchema, "init", err)
	}
	s, err := Open(path, opts...)
	if err != nil {
		return err
	}
	return s.Close()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the file the store was opened on.
func (s *Store) Path() string {
	return s.path
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.driver
}

// pragmas are applied by the driver to every connection it opens.
var pragmas = []struct {
	name  string
	value string
}{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "1"},
	{"case_sensitive_like", "1"},
}

// dsn appends the pragmas to path in the query syntax each driver expects:
// mattn/go-sqlite3 takes _<pragma>=value, modernc.org/sqlite takes
// _pragma=<pragma>(value).
func dsn(driver, path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		if driver == DriverPureGo {
			q.Add("_pragma", fmt.Sprintf("%s(%s)", p.name, p.value))
		} else {
			q.Add("_"+p.name, p.value)
		}
	}
	return path + "?" + q.Encode()
}

// applySchema creates tables if they don't exist.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
