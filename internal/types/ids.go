package types

import (
	"time"

	"github.com/google/uuid"
)

// NewRecordID generates a UUIDv7 record identifier.
// Time-ordered IDs ensure sequential inserts cluster in B-tree pages.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRecordID() RecordID {
	return RecordID(uuid.Must(uuid.NewV7()).String())
}

// NewJobID generates a UUIDv7 job identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewJobID() JobID {
	return JobID(uuid.Must(uuid.NewV7()).String())
}

// NewSessionToken generates a UUIDv7 search-session token.
func NewSessionToken() SessionToken {
	return SessionToken(uuid.Must(uuid.NewV7()).String())
}

// ParseRecordID validates and converts a string to RecordID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseRecordID(s string) (RecordID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return RecordID(s), nil
}

// ParseJobID validates and converts a string to JobID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseJobID(s string) (JobID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return JobID(s), nil
}

// JobIDTime extracts the timestamp embedded in a UUIDv7 job ID.
// Lets the API report job start times without separate bookkeeping.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func JobIDTime(id JobID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
