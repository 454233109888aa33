package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/domain"
)

// Store is the record store used by the services. Reads go straight to the backend;
// mutating workflows go through Update.
type Store struct {
	backend Backend
	mu      sync.Mutex // serializes Update and direct writes
	log     *logrus.Entry
}

// New creates a Store on top of backend.
func New(backend Backend, logger *logrus.Logger) *Store {
	return &Store{
		backend: backend,
		log:     logger.WithField("component", "store"),
	}
}

// Backend returns the underlying slot backend.
func (s *Store) Backend() Backend { return s.backend }

func (s *Store) ReadSlot(ctx context.Context, c Collection) ([]byte, error) {
	return s.backend.Read(ctx, c)
}

func (s *Store) WriteSlot(ctx context.Context, c Collection, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Write(ctx, c, data)
}

// Update runs fn as one unit of work. Writes made through tx are staged and only
// reach the backend if fn returns nil. Backends implementing BatchWriter commit all
// staged slots atomically; others receive them one by one in first-write order.
// Update calls never interleave within a process.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{backend: s.backend, staged: make(map[Collection][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.order) == 0 {
		return nil
	}

	writes := tx.writes()
	if bw, ok := s.backend.(BatchWriter); ok {
		if err := bw.WriteBatch(ctx, writes); err != nil {
			return fmt.Errorf("%w: commit: %v", ErrStorageUnavailable, err)
		}
		return nil
	}
	for i, w := range writes {
		if err := s.backend.Write(ctx, w.Collection, w.Data); err != nil {
			s.log.WithFields(logrus.Fields{
				"collection": w.Collection,
				"committed":  i,
				"staged":     len(writes),
			}).WithError(err).Error("partial commit")
			return fmt.Errorf("%w: commit %s: %v", ErrStorageUnavailable, w.Collection, err)
		}
	}
	return nil
}

// Tx stages slot writes for Store.Update. Reads observe staged writes.
type Tx struct {
	backend Backend
	staged  map[Collection][]byte
	order   []Collection
}

func (tx *Tx) ReadSlot(ctx context.Context, c Collection) ([]byte, error) {
	if data, ok := tx.staged[c]; ok {
		return data, nil
	}
	return tx.backend.Read(ctx, c)
}

func (tx *Tx) WriteSlot(_ context.Context, c Collection, data []byte) error {
	if _, ok := tx.staged[c]; !ok {
		tx.order = append(tx.order, c)
	}
	tx.staged[c] = data
	return nil
}

func (tx *Tx) writes() []SlotWrite {
	out := make([]SlotWrite, 0, len(tx.order))
	for _, c := range tx.order {
		out = append(out, SlotWrite{Collection: c, Data: tx.staged[c]})
	}
	return out
}

// Load reads and decodes every record of a collection. A slot that was never
// written yields an empty slice. Backend or decoding failures are reported as
// ErrStorageUnavailable.
func Load[T any](ctx context.Context, r Reader, c Collection) ([]T, error) {
	data, err := r.ReadSlot(ctx, c)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("%w: load %s: %v", ErrStorageUnavailable, c, err)
	}
	records := []T{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorageUnavailable, c, err)
	}
	if records == nil { // slot holds JSON null
		records = []T{}
	}
	return records, nil
}

// Save replaces the whole collection with records.
func Save[T any](ctx context.Context, w Writer, c Collection, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", c, err)
	}
	if err := w.WriteSlot(ctx, c, data); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrStorageUnavailable, c, err)
	}
	return nil
}

// NextID returns 1 + the highest id in records, or 1 for an empty collection.
func NextID[T domain.Record](records []T) int64 {
	var highest int64
	for _, r := range records {
		if id := r.RecordID(); id > highest {
			highest = id
		}
	}
	return highest + 1
}
