/*
inventory.go - The room inventory service

PURPOSE:
  Inventory is the single entry point used by every surface (HTTP API,
  roomctl). It wraps a Store with validation, logging and the bulk
  exchange operations (CSV and XLSX import/export).

OPERATIONS:
  Insert   - add a room, ErrDuplicateRoom if the ID exists
  Delete   - remove a room, reports whether it existed
  Lookup   - point read, ErrRoomNotFound if absent
  Update   - replace non-key fields, ErrRoomNotFound if absent
  ListAll  - every room ordered by ID
  WriteCSV / ReadCSV, ExportCSV / ImportCSV       (csv.go)
  WriteXLSX / ReadXLSX, ExportXLSX / ImportXLSX   (xlsx.go)
  Close    - release the store

KEYS:
  Room IDs are trimmed of surrounding whitespace on every operation, the
  same way ParseRoom trims imported IDs, so " 101" and "101" are one room.

OWNERSHIP:
  The Inventory owns its Store. Close the Inventory, not the Store.

SEE ALSO:
  - store.go: Store contract
  - csv.go, xlsx.go: exchange formats
  - import.go: shared row-import loop
*/
package rooms

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Inventory manages rooms on top of a Store.
type Inventory struct {
	store  Store
	logger *zap.Logger
}

// NewInventory creates an inventory over the given store.
// A nil logger disables logging.
func NewInventory(store Store, logger *zap.Logger) *Inventory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inventory{store: store, logger: logger}
}

// Insert adds a room.
func (inv *Inventory) Insert(ctx context.Context, room Room) error {
	room.ID = room.ID.Trim()
	if err := room.Validate(); err != nil {
		return err
	}
	if err := inv.store.Insert(ctx, room); err != nil {
		if errors.Is(err, ErrDuplicateRoom) {
			inv.logger.Info("room already exists", zap.String("room_id", string(room.ID)))
		}
		return err
	}
	inv.logger.Info("room created", zap.String("room_id", string(room.ID)))
	return nil
}

// Delete removes a room and reports whether it existed.
func (inv *Inventory) Delete(ctx context.Context, id RoomID) (bool, error) {
	id = id.Trim()
	removed, err := inv.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	inv.logger.Info("room delete",
		zap.String("room_id", string(id)),
		zap.Bool("removed", removed),
	)
	return removed, nil
}

// Lookup returns a single room.
func (inv *Inventory) Lookup(ctx context.Context, id RoomID) (Room, error) {
	id = id.Trim()
	room, err := inv.store.Get(ctx, id)
	inv.logger.Debug("room lookup",
		zap.String("room_id", string(id)),
		zap.Bool("found", err == nil),
	)
	return room, err
}

// Update replaces every non-key field of an existing room.
func (inv *Inventory) Update(ctx context.Context, room Room) error {
	room.ID = room.ID.Trim()
	if err := room.Validate(); err != nil {
		return err
	}
	if err := inv.store.Update(ctx, room); err != nil {
		return err
	}
	inv.logger.Info("room updated", zap.String("room_id", string(room.ID)))
	return nil
}

// ListAll returns every room ordered by ID.
func (inv *Inventory) ListAll(ctx context.Context) ([]Room, error) {
	list, err := inv.store.List(ctx)
	if err != nil {
		return nil, err
	}
	inv.logger.Debug("rooms listed", zap.Int("count", len(list)))
	return list, nil
}

// Ping checks the store connection when the store supports it.
func (inv *Inventory) Ping(ctx context.Context) error {
	if p, ok := inv.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the store. No further operations are valid afterward.
func (inv *Inventory) Close() error {
	return inv.store.Close()
}
