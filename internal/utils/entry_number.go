package utils

import "github.com/oklog/ulid/v2"

// entryNoPrefix distinguishes journal entry references from other identifiers.
const entryNoPrefix = "JE-"

// NewEntryNumber generates a unique, lexicographically sortable journal entry
// reference of the form JE-<ULID>.
func NewEntryNumber() string {
	return entryNoPrefix + ulid.Make().String()
}
