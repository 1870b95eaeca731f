// Package memory provides an in-process catalog store. The server uses it
// when no database is configured, and domain tests use it as their
// persistence collaborator.
package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/core/entity"
	"hobbyshop/internal/core/id"
	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/domain/catalogs/reference"
)

// ErrStoreDown is the cause attached to errors while the store is switched off.
var ErrStoreDown = errors.New("memory store is down")

// Store holds items and reference rows.
type Store struct {
	mu     sync.RWMutex
	items  map[id.ID]*item.Item
	nextID id.ID
	refs   map[reference.Kind][]entity.Reference

	// writeMu serialises read-write handles so a rollback never
	// discards another handle's work.
	writeMu sync.Mutex

	down     atomic.Bool
	open     atomic.Int64
	acquired atomic.Int64
}

// NewStore creates a store holding the default reference rows and no items.
func NewStore() *Store {
	return &Store{
		items: make(map[id.ID]*item.Item),
		refs:  reference.Seed(),
	}
}

// Insert stores items as given (including an absent historical flag) and
// assigns their IDs. It bypasses handles and is meant for seeding.
func (s *Store) Insert(items ...*item.Item) []*item.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*item.Item, 0, len(items))
	for _, it := range items {
		stored := it.Clone()
		s.nextID++
		stored.ID = s.nextID
		s.items[stored.ID] = stored
		out = append(out, stored.Clone())
	}
	return out
}

// Peek returns a copy of the stored item without opening a handle.
func (s *Store) Peek(itemID id.ID) (*item.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[itemID]
	return it.Clone(), ok
}

// SetUnavailable switches the store off (true) or back on (false).
// While off, acquiring a handle and every repository call fail with
// apperror CodeUnavailable.
func (s *Store) SetUnavailable(down bool) {
	s.down.Store(down)
}

// OpenHandles returns the number of handles currently held.
func (s *Store) OpenHandles() int64 {
	return s.open.Load()
}

// HandlesAcquired returns the number of handles opened since creation.
func (s *Store) HandlesAcquired() int64 {
	return s.acquired.Load()
}

// Ping reports whether the store is available.
func (s *Store) Ping(context.Context) error {
	return s.checkAvailable()
}

func (s *Store) checkAvailable() error {
	if s.down.Load() {
		return apperror.NewUnavailable("memory store", ErrStoreDown)
	}
	return nil
}

func (s *Store) acquire() error {
	if err := s.checkAvailable(); err != nil {
		return err
	}
	s.open.Add(1)
	s.acquired.Add(1)
	return nil
}

func (s *Store) release() {
	s.open.Add(-1)
}

type snapshot struct {
	items  map[id.ID]*item.Item
	nextID id.ID
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make(map[id.ID]*item.Item, len(s.items))
	for k, v := range s.items {
		items[k] = v.Clone()
	}
	return snapshot{items: items, nextID: s.nextID}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snap.items
	s.nextID = snap.nextID
}
