package store

import (
	"context"
	"database/sql"
)

const selectRecords = `
	SELECT people.person_name, people.person_birth, pnumbers.pnumber
	FROM pnumbers
	INNER JOIN people ON people.person_id = pnumbers.person_id
`

// SelectAll returns every phone number joined to its owner.
// Order is whatever the join produces; callers must not rely on it.
//
// Returns an empty slice (not nil) when the database holds no numbers.
func (s *Store) SelectAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords)
	if err != nil {
		return nil, newError(KindRead, "query records", err)
	}
	return scanRecords(rows)
}

// FindByBirthPrefix returns the records whose person's birth starts with prefix.
//
// Matching uses LIKE with case_sensitive_like enabled: letters compare
// case-sensitively, while % and _ inside prefix keep their wildcard meaning.
// The prefix is tried both as given and in NFC, so rows stored by other
// tools in either form are found. No match yields an empty slice, never an
// error.
func (s *Store) FindByBirthPrefix(ctx context.Context, prefix string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+`
		WHERE people.person_birth LIKE ? || '%'
		   OR people.person_birth LIKE ? || '%'
	`, prefix, normalize(prefix))
	if err != nil {
		return nil, newError(KindRead, "query records by birth", err)
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			r     Record
			phone sql.NullInt64
		)
		if err := rows.Scan(&r.Name, &r.Birth, &phone); err != nil {
			return nil, newError(KindRead, "scan record", err)
		}
		if phone.Valid {
			n := phone.Int64
			r.Phone = &n
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, newError(KindRead, "iterate records", err)
	}

	return records, nil
}
