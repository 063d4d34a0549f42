package store

import (
	"context"
	"database/sql"
	"errors"
)

// AddPerson attaches a phone number to the person with the given name,
// creating the person first if no row with that exact name exists.
//
// New people are stored in Unicode NFC. An existing person keeps the birth
// date it was created with; the birth argument is only used on creation.
// Exactly one pnumbers row is written per call, and phone may be nil to
// store a NULL number.
//
// The lookup and both inserts share one transaction, so a failure leaves the
// database unchanged.
func (s *Store) AddPerson(ctx context.Context, name string, phone *int64, birth string) (AddResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AddResult{}, newError(KindWrite, "begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	// Rows written by other tools may not be NFC, so match the name as given
	// or in NFC, preferring the byte-exact row.
	var res AddResult
	err = tx.QueryRowContext(ctx, `
		SELECT person_id FROM people
		WHERE person_name = ? OR person_name = ?
		ORDER BY person_name = ? DESC, person_id ASC
		LIMIT 1
	`, name, normalize(name), name).Scan(&res.PersonID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.ExecContext(ctx, `
			INSERT INTO people (person_name, person_birth) VALUES (?, ?)
		`, normalize(name), normalize(birth))
		if err != nil {
			return AddResult{}, newError(KindWrite, "insert person", err)
		}
		res.PersonID, err = result.LastInsertId()
		if err != nil {
			return AddResult{}, newError(KindWrite, "person last insert id", err)
		}
		res.Created = true
	case err != nil:
		return AddResult{}, newError(KindWrite, "lookup person", err)
	}

	var number sql.NullInt64
	if phone != nil {
		number = sql.NullInt64{Int64: *phone, Valid: true}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO pnumbers (person_id, pnumber) VALUES (?, ?)
	`, res.PersonID, number)
	if err != nil {
		return AddResult{}, newError(KindWrite, "insert phone number", err)
	}
	res.PhoneID, err = result.LastInsertId()
	if err != nil {
		return AddResult{}, newError(KindWrite, "phone last insert id", err)
	}

	if err := tx.Commit(); err != nil {
		return AddResult{}, newError(KindWrite, "commit", err)
	}

	return res, nil
}
