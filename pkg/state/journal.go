package state

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-querystate/codec"
	"github.com/goliatone/go-querystate/pkg/activity"
	"github.com/google/uuid"
)

// Option configures MemoryStore and URLStore.
type Option func(*storeConfig)

type storeConfig struct {
	emitter         *activity.Emitter
	onActivityError func(error)
	now             func() time.Time
	newID           func() string
	nullToken       string
	initial         map[string]codec.Raw
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{
		now:       time.Now,
		newID:     uuid.NewString,
		nullToken: DefaultNullToken,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.onActivityError == nil {
		cfg.onActivityError = func(error) {}
	}
	return cfg
}

// WithActivity announces committed transitions through emitter.
func WithActivity(emitter *activity.Emitter) Option {
	return func(cfg *storeConfig) {
		cfg.emitter = emitter
	}
}

// WithActivityErrorHandler receives errors returned by activity hooks. Hook
// failures never fail a write.
func WithActivityErrorHandler(fn func(error)) Option {
	return func(cfg *storeConfig) {
		cfg.onActivityError = fn
	}
}

// WithClock overrides the time source used for Meta.UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(cfg *storeConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithIDGenerator overrides the transition ID source (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(cfg *storeConfig) {
		if fn != nil {
			cfg.newID = fn
		}
	}
}

// WithInitialValues seeds the first transition of a MemoryStore.
func WithInitialValues(values map[string]codec.Raw) Option {
	return func(cfg *storeConfig) {
		cfg.initial = cloneValues(values)
	}
}

type entry struct {
	values map[string]codec.Raw
	meta   Meta
}

type pendingWrite struct {
	values  map[string]codec.Raw
	history History
}

// journal is the transition log shared by the store implementations.
type journal struct {
	mu      sync.RWMutex
	entries []entry
	pending *pendingWrite
	version uint64
	pushes  uint64
	cfg     storeConfig
}

func newJournal(initial map[string]codec.Raw, cfg storeConfig) *journal {
	j := &journal{cfg: cfg, version: 1}
	j.entries = []entry{{
		values: cloneValues(initial),
		meta: Meta{
			TransitionID: cfg.newID(),
			Version:      j.version,
			History:      HistoryReplace,
			UpdatedAt:    cfg.now(),
		},
	}}
	return j
}

func (j *journal) current() entry {
	return j.entries[len(j.entries)-1]
}

func (j *journal) get(schema codec.Schema) codec.Snapshot {
	j.mu.RLock()
	values := j.current().values
	snapshot := codec.Decode(schema, func(key string) codec.Raw {
		return values[key]
	})
	j.mu.RUnlock()
	return snapshot
}

func (j *journal) set(ctx context.Context, schema codec.Schema, patch codec.Snapshot, opts []WriteOption) error {
	o := ApplyWriteOptions(opts...)
	values, err := codec.Encode(schema, patch)
	if err != nil {
		return fmt.Errorf("state: %w", err)
	}

	j.mu.Lock()
	cur := j.current().meta
	if o.IfVersion != 0 && o.IfVersion != cur.Version {
		j.mu.Unlock()
		return fmt.Errorf("%w: expected %d, got %d", ErrVersionMismatch, o.IfVersion, cur.Version)
	}
	if j.pending == nil {
		j.pending = &pendingWrite{values: map[string]codec.Raw{}, history: HistoryReplace}
	}
	for key, raw := range values {
		j.pending.values[key] = raw
	}
	if o.History == HistoryPush {
		j.pending.history = HistoryPush
	}
	if o.Batch {
		j.mu.Unlock()
		return nil
	}
	meta := j.commitLocked()
	j.mu.Unlock()

	j.emit(ctx, meta)
	return nil
}

// flush commits staged batched writes. It reports whether a transition was
// recorded.
func (j *journal) flush(ctx context.Context) bool {
	j.mu.Lock()
	if j.pending == nil {
		j.mu.Unlock()
		return false
	}
	meta := j.commitLocked()
	j.mu.Unlock()

	j.emit(ctx, meta)
	return true
}

func (j *journal) commitLocked() Meta {
	pending := j.pending
	j.pending = nil

	next := cloneValues(j.current().values)
	keys := make([]string, 0, len(pending.values))
	for key, raw := range pending.values {
		keys = append(keys, key)
		if raw.IsZero() {
			delete(next, key)
			continue
		}
		next[key] = raw.Clone()
	}
	sort.Strings(keys)

	j.version++
	if pending.history == HistoryPush {
		j.pushes++
	}
	meta := Meta{
		TransitionID: j.cfg.newID(),
		Version:      j.version,
		History:      pending.history,
		Keys:         keys,
		Pushes:       j.pushes,
		UpdatedAt:    j.cfg.now(),
	}
	e := entry{values: next, meta: meta}
	if pending.history == HistoryPush {
		j.entries = append(j.entries, e)
	} else {
		j.entries[len(j.entries)-1] = e
	}
	return meta
}

func (j *journal) back() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.entries) < 2 {
		return false
	}
	j.entries = j.entries[:len(j.entries)-1]
	return true
}

func (j *journal) meta() Meta {
	j.mu.RLock()
	defer j.mu.RUnlock()
	meta := j.current().meta
	meta.Keys = append([]string(nil), meta.Keys...)
	meta.Pushes = j.pushes
	return meta
}

func (j *journal) raw(key string) codec.Raw {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.current().values[key].Clone()
}

func (j *journal) snapshotValues() map[string]codec.Raw {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return cloneValues(j.current().values)
}

func (j *journal) depth() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

func (j *journal) hasPending() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.pending != nil
}

func (j *journal) emit(ctx context.Context, meta Meta) {
	if !j.cfg.emitter.Enabled() {
		return
	}
	err := j.cfg.emitter.Emit(ctx, activity.BuildTransitionEvent(activity.TransitionEventInput{
		TransitionID: meta.TransitionID,
		Version:      meta.Version,
		Pushed:       meta.History == HistoryPush,
		Keys:         meta.Keys,
		OccurredAt:   meta.UpdatedAt,
	}))
	if err != nil {
		j.cfg.onActivityError(err)
	}
}

func cloneValues(values map[string]codec.Raw) map[string]codec.Raw {
	out := make(map[string]codec.Raw, len(values))
	for key, raw := range values {
		if raw.IsZero() {
			continue
		}
		out[key] = raw.Clone()
	}
	return out
}
