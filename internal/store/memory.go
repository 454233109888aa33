package store

import (
	"context"
	"sync"
)

// MemoryBackend keeps slots in process memory. Nothing survives a restart.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[Collection][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[Collection][]byte)}
}

func (b *MemoryBackend) Read(_ context.Context, c Collection) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.slots[c]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Write(_ context.Context, c Collection, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[c] = append([]byte(nil), data...)
	return nil
}

// WriteBatch replaces all slots under a single lock.
func (b *MemoryBackend) WriteBatch(_ context.Context, writes []SlotWrite) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, w := range writes {
		b.slots[w.Collection] = append([]byte(nil), w.Data...)
	}
	return nil
}

func (b *MemoryBackend) Ping(context.Context) error { return nil }

func (b *MemoryBackend) Close() error { return nil }
