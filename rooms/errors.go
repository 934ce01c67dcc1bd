/*
errors.go - Error taxonomy for the room inventory

ERROR CATEGORIES:
  1. Key errors     - ErrDuplicateRoom, ErrRoomNotFound
  2. Input errors   - ErrInvalidRoom, ErrInvalidHeader
  3. Storage errors - ErrStorageUnavailable (fatal for the operation)

USAGE:
  Stores return the sentinels (optionally wrapped in a structured error),
  callers branch with errors.Is:

    if errors.Is(err, rooms.ErrDuplicateRoom) {
        // warn the user, nothing was written
    }

  Delete is the exception: a missing key is a negative result
  (false, nil), not an error.
*/
package rooms

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateRoom is returned by Insert when the room ID already exists.
	// Nothing is written.
	ErrDuplicateRoom = errors.New("room already exists")

	// ErrRoomNotFound is returned by Lookup and Update for an unknown room ID.
	ErrRoomNotFound = errors.New("room not found")

	// ErrInvalidRoom is returned when input cannot be turned into a Room.
	ErrInvalidRoom = errors.New("invalid room")

	// ErrInvalidHeader is returned when an import file lacks a required column.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrStorageUnavailable wraps every failure of the underlying database.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateRoomError names the room that already exists.
type DuplicateRoomError struct {
	RoomID RoomID
}

func (e *DuplicateRoomError) Error() string {
	return fmt.Sprintf("room %q already exists", e.RoomID)
}

func (e *DuplicateRoomError) Unwrap() error {
	return ErrDuplicateRoom
}

// FieldError describes a field that failed boundary parsing.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidRoom
}

// HeaderError lists the columns missing from an import header.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	if len(e.Missing) == 0 {
		return "missing header row"
	}
	return "missing columns: " + strings.Join(e.Missing, ", ")
}

func (e *HeaderError) Unwrap() error {
	return ErrInvalidHeader
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateRoom) ||
		errors.Is(err, ErrInvalidRoom) ||
		errors.Is(err, ErrInvalidHeader)
}

// IsNotFound returns true if the error indicates a missing room.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound)
}
