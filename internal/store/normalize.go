package store

import "golang.org/x/text/unicode/norm"

// normalize returns s in Unicode NFC so that visually identical names
// entered with composed or decomposed characters deduplicate to one person.
func normalize(s string) string {
	return norm.NFC.String(s)
}
