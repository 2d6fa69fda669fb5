package state

import (
	"context"

	"github.com/goliatone/go-querystate/codec"
)

// MemoryStore is an in-memory Store with push/replace history and batched
// writes. It is safe for concurrent use.
type MemoryStore struct {
	log *journal
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(opts ...Option) *MemoryStore {
	cfg := applyOptions(opts)
	return &MemoryStore{log: newJournal(cfg.initial, cfg)}
}

func (s *MemoryStore) Get(_ context.Context, schema codec.Schema) (codec.Snapshot, error) {
	return s.log.get(schema), nil
}

func (s *MemoryStore) Set(ctx context.Context, schema codec.Schema, patch codec.Snapshot, opts ...WriteOption) error {
	return s.log.set(ctx, schema, patch, opts)
}

// Flush commits staged batched writes as one transition.
func (s *MemoryStore) Flush(ctx context.Context) bool {
	return s.log.flush(ctx)
}

// Back discards the newest history entry. It reports false when only the
// initial entry remains.
func (s *MemoryStore) Back() bool {
	return s.log.back()
}

// Meta describes the current transition.
func (s *MemoryStore) Meta() Meta {
	return s.log.meta()
}

// Raw returns the persisted form of key in the current transition.
func (s *MemoryStore) Raw(key string) codec.Raw {
	return s.log.raw(key)
}

// Values returns a copy of every persisted key in the current transition.
func (s *MemoryStore) Values() map[string]codec.Raw {
	return s.log.snapshotValues()
}

// Depth is the number of history entries.
func (s *MemoryStore) Depth() int {
	return s.log.depth()
}

// Pending reports whether batched writes are waiting for Flush.
func (s *MemoryStore) Pending() bool {
	return s.log.hasPending()
}
