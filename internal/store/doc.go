// Package store provides SQLite-backed durable storage for the contact book.
//
// The database file holds two tables:
//   - people: one row per distinct name (person_id, person_name, person_birth)
//   - pnumbers: phone numbers, each owned by a person through person_id
//
// The two tables are keyed independently; pnumbers.person_id is an explicit
// owner reference. A person is unique by name only because AddPerson looks the
// name up before inserting, inside the same transaction.
//
// # Database Configuration
//
// Pragmas are passed in the DSN, so the driver applies them to every
// connection it opens:
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce the pnumbers → people reference
//   - case_sensitive_like=ON: Birth prefix search is case-sensitive
//
// Two drivers are registered: "sqlite3" (mattn/go-sqlite3, cgo) and "sqlite"
// (modernc.org/sqlite, pure Go). Both see the same schema and queries.
//
// New names and birth strings are stored in Unicode NFC. Lookups accept the
// value both as given and in NFC, so rows written in another form still match.
package store
