package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// forEachDriver runs fn once per registered driver as a subtest.
func forEachDriver(t *testing.T, fn func(t *testing.T, s *Store)) {
	t.Helper()
	for _, driver := range Drivers {
		t.Run(driver, func(t *testing.T) {
			fn(t, createTestStore(t, WithDriver(driver)))
		})
	}
}

func phone(n int64) *int64 {
	return &n
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}

// readPerson retrieves a person by exact stored name.
func readPerson(ctx context.Context, s *Store, name string) (Person, error) {
	var p Person
	err := s.db.QueryRowContext(ctx, `
		SELECT person_id, person_name, person_birth
		FROM people
		WHERE person_name = ?
	`, name).Scan(&p.ID, &p.Name, &p.Birth)
	return p, err
}
