package save

import (
	"context"
	"sync"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

// MemoryRepository keeps save blobs in memory (dev/test use)
type MemoryRepository struct {
	mu    sync.RWMutex
	slots map[run.Mode][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{slots: make(map[run.Mode][]byte)}
}

func (r *MemoryRepository) Put(_ context.Context, mode run.Mode, blob []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]byte, len(blob))
	copy(cp, blob)
	r.slots[mode] = cp
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, mode run.Mode) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	blob, ok := r.slots[mode]
	if !ok {
		return nil, ErrNoSave
	}
	cp := make([]byte, len(blob))
	copy(cp, blob)
	return cp, nil
}

func (r *MemoryRepository) Has(_ context.Context, mode run.Mode) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.slots[mode]
	return ok, nil
}

func (r *MemoryRepository) Delete(_ context.Context, mode run.Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, mode)
	return nil
}
