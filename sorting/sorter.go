package sorting

import (
	"context"
	"fmt"

	"github.com/goliatone/go-querystate/codec"
	"github.com/goliatone/go-querystate/pkg/state"
)

// Option configures a Sorter.
type Option func(*Sorter)

// WithHistory sets the history mode used by Set and Update.
func WithHistory(h state.History) Option {
	return func(s *Sorter) {
		s.history = h
	}
}

// Sorter reads and writes sort entries through a state store.
type Sorter struct {
	store   state.Store
	builder *Builder
	history state.History
}

func NewSorter(store state.Store, cfg Config, opts ...Option) *Sorter {
	s := &Sorter{
		store:   store,
		builder: NewBuilder(cfg),
		history: state.HistoryReplace,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Codec returns the frozen codec.
func (s *Sorter) Codec() *Codec {
	return s.builder.Codec()
}

// Schema is the schema the sorter reads.
func (s *Sorter) Schema() codec.Schema {
	return s.Codec().Schema()
}

// Reconfigure forwards to the underlying Builder.
func (s *Sorter) Reconfigure(cfg Config) bool {
	return s.builder.Reconfigure(cfg)
}

// FromSnapshot extracts the entries from a snapshot that includes Schema.
func (s *Sorter) FromSnapshot(snap codec.Snapshot) []Entry {
	entries, _ := codec.Get[[]Entry](snap, s.Codec().Key()).Get()
	return entries
}

// Get reads the current entries.
func (s *Sorter) Get(ctx context.Context) ([]Entry, error) {
	snap, err := s.store.Get(ctx, s.Schema())
	if err != nil {
		return nil, fmt.Errorf("sorting: read state: %w", err)
	}
	return s.FromSnapshot(snap), nil
}

// Set replaces the stored entries. An empty list removes the key so the
// default sort applies again.
func (s *Sorter) Set(ctx context.Context, entries []Entry, opts ...state.WriteOption) error {
	value := codec.Missing[any]()
	if len(entries) > 0 {
		value = codec.Some[any](append([]Entry(nil), entries...))
	}
	c := s.Codec()
	opts = append([]state.WriteOption{state.WithHistory(s.history)}, opts...)
	if err := s.store.Set(ctx, c.Schema(), codec.Snapshot{c.Key(): value}, opts...); err != nil {
		return fmt.Errorf("sorting: write state: %w", err)
	}
	return nil
}

// Update reads the current entries, passes them to fn and stores the result.
func (s *Sorter) Update(ctx context.Context, fn func([]Entry) []Entry, opts ...state.WriteOption) error {
	current, err := s.Get(ctx)
	if err != nil {
		return err
	}
	return s.Set(ctx, fn(current), opts...)
}

// Toggle makes field the primary sort. A field that is already primary has
// its direction flipped; otherwise it is moved to the front ascending.
func (s *Sorter) Toggle(ctx context.Context, field string, opts ...state.WriteOption) error {
	return s.Update(ctx, func(current []Entry) []Entry {
		next := Asc(field)
		if len(current) > 0 && current[0].Field() == field {
			next = current[0].Reverse()
		}
		out := []Entry{next}
		for _, e := range current {
			if e.Field() != field {
				out = append(out, e)
			}
		}
		return out
	}, opts...)
}
