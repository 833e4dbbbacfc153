package storage

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrStorageUnavailable marks failures to open, migrate, or write the
	// database file. Callers treat it as fatal.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidKind is returned when an event kind is neither smoke nor craving.
	ErrInvalidKind = errors.New("invalid event kind")
)

// Kind distinguishes the two things a user can log.
type Kind string

const (
	KindSmoke   Kind = "smoke"
	KindCraving Kind = "craving"
)

// Valid reports whether k is one of the persisted kinds.
func (k Kind) Valid() bool {
	return k == KindSmoke || k == KindCraving
}

// ParseKind converts user input into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// Event is a single logged smoke or craving. Events are never updated in place.
type Event struct {
	ID        int64
	Timestamp time.Time // second resolution
	Kind      Kind
}

// Stats holds aggregate counts over the whole log.
type Stats struct {
	TotalSmokes   int64
	TotalCravings int64
	OldestEvent   time.Time
	NewestEvent   time.Time
}
