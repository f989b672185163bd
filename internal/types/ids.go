package types

import (
	"time"

	"github.com/google/uuid"
)

// NewProgramID generates a UUIDv7 program identifier.
// Time-ordered IDs let logs order program versions without a lookup.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewProgramID() ProgramID {
	return ProgramID(uuid.Must(uuid.NewV7()).String())
}

// NewRowID generates a UUIDv7 enrichment row identifier.
// Time-ordered IDs keep rows in insertion order under ORDER BY row_id.
func NewRowID() RowID {
	return RowID(uuid.Must(uuid.NewV7()).String())
}

// ProgramIDTime extracts the compile time embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func ProgramIDTime(id ProgramID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
