// Package domain holds the typed identifiers shared across modules. Wrapping
// uuid.UUID keeps run identifiers from being mixed up with arbitrary strings
// at compile time.
package domain

import "github.com/google/uuid"

// RunID identifies a single deduplication run and the cached session holding
// its outputs.
type RunID uuid.UUID

// NewRunID returns a fresh random run identifier.
func NewRunID() RunID {
	return RunID(uuid.New())
}

// ParseRunID parses the canonical string form of a run identifier.
func ParseRunID(s string) (RunID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return RunID{}, err
	}
	return RunID(u), nil
}

func (id RunID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the identifier is the zero value.
func (id RunID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MarshalText renders the canonical string form so JSON and logs show the
// UUID rather than a byte array.
func (id RunID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses the canonical string form.
func (id *RunID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = RunID(u)
	return nil
}
