/*
Package sqlite provides a SQLite-backed implementation of rooms.Store.

PURPOSE:
  Durable storage for the room inventory: one table, keyed by room_id.
  Every mutation is committed before the call returns.

KEY TABLE:
  rooms: room_id (PRIMARY KEY), room_type, price, room_count, amenities, status

  Column names match the legacy hotel_db.sqlite layout (SQLite column
  names are case-insensitive), so an existing database file opens as is.
  Price is written as its exact decimal string; REAL values written by older
  tools are read back through the same parser.

  The legacy tool stored whatever was typed, so a price or count cell may
  hold text such as "50$". Such a value is read as zero and logged at warn
  level with the room ID; the row itself stays readable.

KEY SEMANTICS:
  - Insert relies on the primary key. A constraint violation is mapped to
    rooms.ErrDuplicateRoom; nothing is overwritten.
  - Update and Delete use RowsAffected to report a missing key.

CONCURRENCY:
  Uses sync.RWMutex: one writer, concurrent readers. The pool is capped at
  one connection so ":memory:" databases are shared between calls.

ERRORS:
  Every driver failure is wrapped with rooms.ErrStorageUnavailable.

USAGE:
  store, err := sqlite.New("./rooms.db")
  if err != nil {
      log.Fatal(err)
  }
  inv := rooms.NewInventory(store, logger)
  defer inv.Close()

MIGRATION:
  Schema is created on New() with CREATE TABLE IF NOT EXISTS. There is no
  schema evolution.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"github.com/warp/room-inventory/rooms"
	"go.uber.org/zap"
)

// Store implements rooms.Store using SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report unreadable legacy values.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New opens or creates the SQLite database at dbPath and ensures the schema.
// Use ":memory:" for an in-memory database. Calling New again on an existing
// file is safe.
func New(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, storageErr("open database", err)
	}
	db.SetMaxOpenConns(1)

	store, err := NewWithDB(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewWithDB wraps an already opened database handle and ensures the schema.
func NewWithDB(db *sql.DB, opts ...Option) (*Store, error) {
	store := &Store{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.migrate(); err != nil {
		return nil, storageErr("migrate database", err)
	}
	return store, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_journal_mode=WAL&_busy_timeout=5000"
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageErr("ping database", err)
	}
	return nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rooms (
		room_id TEXT PRIMARY KEY,
		room_type TEXT,
		price TEXT,
		room_count INTEGER,
		amenities TEXT,
		status TEXT
	)`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ROOM STORE (rooms.Store interface)
// =============================================================================

// Insert adds a room. Returns rooms.ErrDuplicateRoom if the ID exists.
func (s *Store) Insert(ctx context.Context, room rooms.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO rooms (room_id, room_type, price, room_count, amenities, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		string(room.ID),
		room.Type,
		room.Price.String(),
		room.Count,
		room.Amenities,
		room.Status,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &rooms.DuplicateRoomError{RoomID: room.ID}
		}
		return storageErr("insert room", err)
	}
	return nil
}

// Delete removes a room and reports whether a row was removed.
func (s *Store) Delete(ctx context.Context, id rooms.RoomID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM rooms WHERE room_id = ?", string(id))
	if err != nil {
		return false, storageErr("delete room", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("delete room", err)
	}
	return n > 0, nil
}

// Get retrieves a room by ID.
func (s *Store) Get(ctx context.Context, id rooms.RoomID) (rooms.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT room_id, room_type, price, room_count, amenities, status FROM rooms WHERE room_id = ?",
		string(id),
	)
	room, err := s.scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rooms.Room{}, rooms.ErrRoomNotFound
	}
	if err != nil {
		return rooms.Room{}, err
	}
	return room, nil
}

// Update replaces every non-key field. Returns rooms.ErrRoomNotFound if no
// row has the ID.
func (s *Store) Update(ctx context.Context, room rooms.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE rooms
		SET room_type = ?, price = ?, room_count = ?, amenities = ?, status = ?
		WHERE room_id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		room.Type,
		room.Price.String(),
		room.Count,
		room.Amenities,
		room.Status,
		string(room.ID),
	)
	if err != nil {
		return storageErr("update room", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update room", err)
	}
	if n == 0 {
		return rooms.ErrRoomNotFound
	}
	return nil
}

// List returns all rooms ordered by ID.
func (s *Store) List(ctx context.Context) ([]rooms.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT room_id, room_type, price, room_count, amenities, status FROM rooms ORDER BY room_id",
	)
	if err != nil {
		return nil, storageErr("list rooms", err)
	}
	defer rows.Close()

	var list []rooms.Room
	for rows.Next() {
		room, err := s.scanRoom(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, room)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list rooms", err)
	}
	return list, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanRoom(row scanner) (rooms.Room, error) {
	var (
		room                   rooms.Room
		id                     string
		roomType, price, count sql.NullString
		amenities, status      sql.NullString
	)

	err := row.Scan(&id, &roomType, &price, &count, &amenities, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return room, err
	}
	if err != nil {
		return room, storageErr("scan room", err)
	}

	room.ID = rooms.RoomID(id)
	room.Type = roomType.String
	room.Amenities = amenities.String
	room.Status = status.String

	if room.Price, err = rooms.ParsePrice(price.String); err != nil {
		s.unreadable(id, rooms.ColumnPrice, price.String)
	}
	if room.Count, err = rooms.ParseCount(count.String); err != nil {
		s.unreadable(id, rooms.ColumnRoomCount, count.String)
	}
	return room, nil
}

func (s *Store) unreadable(id, column, value string) {
	s.logger.Warn("unreadable stored value read as zero",
		zap.String("room_id", id),
		zap.String("column", column),
		zap.String("value", value),
	)
}

// Helper functions

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, rooms.ErrStorageUnavailable, err)
}

func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
