// Package memory provides an in-memory rooms.Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/room-inventory/rooms"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu     sync.RWMutex
	rooms  map[rooms.RoomID]rooms.Room
	closed bool
}

func New() *Store {
	return &Store{rooms: make(map[rooms.RoomID]rooms.Room)}
}

// Insert adds a room. Never overwrites.
func (s *Store) Insert(_ context.Context, room rooms.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return rooms.ErrStorageUnavailable
	}
	if _, ok := s.rooms[room.ID]; ok {
		return &rooms.DuplicateRoomError{RoomID: room.ID}
	}
	s.rooms[room.ID] = room
	return nil
}

func (s *Store) Delete(_ context.Context, id rooms.RoomID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, rooms.ErrStorageUnavailable
	}
	if _, ok := s.rooms[id]; !ok {
		return false, nil
	}
	delete(s.rooms, id)
	return true, nil
}

func (s *Store) Get(_ context.Context, id rooms.RoomID) (rooms.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return rooms.Room{}, rooms.ErrStorageUnavailable
	}
	room, ok := s.rooms[id]
	if !ok {
		return rooms.Room{}, rooms.ErrRoomNotFound
	}
	return room, nil
}

func (s *Store) Update(_ context.Context, room rooms.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return rooms.ErrStorageUnavailable
	}
	if _, ok := s.rooms[room.ID]; !ok {
		return rooms.ErrRoomNotFound
	}
	s.rooms[room.ID] = room
	return nil
}

// List returns rooms sorted by ID, matching the SQLite store.
func (s *Store) List(_ context.Context) ([]rooms.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, rooms.ErrStorageUnavailable
	}
	list := make([]rooms.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		list = append(list, room)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ping reports whether the store is still open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return rooms.ErrStorageUnavailable
	}
	return nil
}
