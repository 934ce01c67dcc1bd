/*
store.go - Persistence interface for room records

PURPOSE:
  Defines the contract between the inventory and its storage. The inventory
  never talks SQL; it talks to a Store.

SET SEMANTICS ON THE KEY:
  - Insert never overwrites. An existing ID returns ErrDuplicateRoom.
  - Update never creates. A missing ID returns ErrRoomNotFound.
  - Delete reports whether a row was removed.

DURABILITY:
  Every successful mutation is durable when the call returns. There are no
  multi-record transactions: a bulk import is a sequence of Inserts.

IMPLEMENTATIONS:
  - store/sqlite: SQLite file or :memory: database
  - store/memory: map-backed, for tests and dev
*/
package rooms

import "context"

// Store handles persistence of rooms.
type Store interface {
	// Insert persists a new room. Returns ErrDuplicateRoom if the ID exists.
	Insert(ctx context.Context, room Room) error

	// Delete removes a room. Returns false if no room had that ID.
	Delete(ctx context.Context, id RoomID) (bool, error)

	// Get returns the room with the given ID or ErrRoomNotFound.
	Get(ctx context.Context, id RoomID) (Room, error)

	// Update replaces every non-key field. Returns ErrRoomNotFound if the ID
	// does not exist.
	Update(ctx context.Context, room Room) error

	// List returns every room ordered by ID.
	List(ctx context.Context) ([]Room, error)

	// Close releases the underlying handle.
	Close() error
}

// Pinger is implemented by stores that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}
