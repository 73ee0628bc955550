package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is the in-memory session store. Sessions are transient:
// a server restart starts every case over.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Session
	order []uuid.UUID
	cap   int
}

// NewMemoryRepository creates a store holding at most cap sessions.
func NewMemoryRepository(cap int) *MemoryRepository {
	if cap <= 0 {
		cap = 1000
	}
	return &MemoryRepository{
		items: make(map[uuid.UUID]*Session),
		cap:   cap,
	}
}

func (r *MemoryRepository) Create(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) >= r.cap {
		return ErrCapacity
	}
	r.items[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) List(_ context.Context, limit, offset int) ([]*Session, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	out := make([]*Session, 0, end-offset)
	for _, id := range r.order[offset:end] {
		out = append(out, r.items[id])
	}
	return out, total, nil
}

func (r *MemoryRepository) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
