// Package storage defines the save-slot contract shared by the file and
// SQLite backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrNotFound indicates a requested slot does not exist.
	ErrNotFound = errors.New("slot not found")
	// ErrInvalidName indicates a slot name outside [A-Za-z0-9_-].
	ErrInvalidName = errors.New("invalid slot name")
)

// DefaultSlot is used when the player saves or loads without naming a slot.
const DefaultSlot = "quicksave"

var slotName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Slot describes one saved game.
type Slot struct {
	Name    string
	Floor   int
	SavedAt time.Time
}

// Store persists save documents by slot name.
type Store interface {
	Save(ctx context.Context, slot Slot, doc []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]Slot, error)
	Close() error
}

// ValidateName rejects names that could escape a save directory or collide
// with another slot after normalization.
func ValidateName(name string) error {
	if !slotName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
