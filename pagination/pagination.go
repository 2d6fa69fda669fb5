// Package pagination derives page state from query state and renumbers pages
// when the page size changes.
package pagination

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-querystate/codec"
	"github.com/goliatone/go-querystate/pkg/state"
)

const (
	DefaultPageKey     = "page"
	DefaultPageSizeKey = "pageSize"
	DefaultPageSize    = 20
)

// State is the stored page position. Page starts at 1 and PageSize must be
// positive; callers own that precondition.
type State struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Limit is the number of rows per page.
func (s State) Limit() int {
	return s.PageSize
}

// Offset is the number of rows before the page.
func (s State) Offset() int {
	return s.PageSize * (s.Page - 1)
}

// NewPage returns the page that, under newSize, contains the first item shown
// by (curPage, curSize). newSize must be positive.
func NewPage(curPage, curSize, newSize int) int {
	idx := 1 + (curPage-1)*curSize
	return (idx + newSize - 1) / newSize
}

// Patch is a partial pagination write. Missing fields are left untouched and
// Null fields are reset to their defaults.
type Patch struct {
	Page     codec.Value[int]
	PageSize codec.Value[int]
}

type config struct {
	pageKey     string
	pageSizeKey string
	defaultSize int
	history     state.History
}

// Option configures a Paginator.
type Option func(*config)

// WithDefaultPageSize sets the page size used when none is stored.
func WithDefaultPageSize(size int) Option {
	return func(cfg *config) {
		if size > 0 {
			cfg.defaultSize = size
		}
	}
}

// WithHistory sets the history mode used for writes.
func WithHistory(h state.History) Option {
	return func(cfg *config) {
		cfg.history = h
	}
}

// WithKeys overrides the store keys.
func WithKeys(pageKey, pageSizeKey string) Option {
	return func(cfg *config) {
		if k := strings.TrimSpace(pageKey); k != "" {
			cfg.pageKey = k
		}
		if k := strings.TrimSpace(pageSizeKey); k != "" {
			cfg.pageSizeKey = k
		}
	}
}

// Paginator reads and writes pagination through a state store.
type Paginator struct {
	store  state.Store
	cfg    config
	schema codec.Schema
}

func New(store state.Store, opts ...Option) *Paginator {
	cfg := config{
		pageKey:     DefaultPageKey,
		pageSizeKey: DefaultPageSizeKey,
		defaultSize: DefaultPageSize,
		history:     state.HistoryReplace,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Paginator{
		store: store,
		cfg:   cfg,
		schema: codec.Schema{
			cfg.pageKey:     codec.Erase(codec.WithDefault(codec.PositiveInteger(), 1)),
			cfg.pageSizeKey: codec.Erase(codec.WithDefault(codec.PositiveInteger(), cfg.defaultSize)),
		},
	}
}

// Schema is the schema the paginator reads.
func (p *Paginator) Schema() codec.Schema {
	out := make(codec.Schema, len(p.schema))
	for key, field := range p.schema {
		out[key] = field
	}
	return out
}

// DefaultPageSize is the page size used when none is stored.
func (p *Paginator) DefaultPageSize() int {
	return p.cfg.defaultSize
}

// FromSnapshot extracts the state from a snapshot that includes Schema.
func (p *Paginator) FromSnapshot(snap codec.Snapshot) State {
	return State{
		Page:     codec.Get[int](snap, p.cfg.pageKey).OrElse(1),
		PageSize: codec.Get[int](snap, p.cfg.pageSizeKey).OrElse(p.cfg.defaultSize),
	}
}

// State reads the current pagination.
func (p *Paginator) State(ctx context.Context) (State, error) {
	snap, err := p.store.Get(ctx, p.schema)
	if err != nil {
		return State{}, fmt.Errorf("pagination: read state: %w", err)
	}
	return p.FromSnapshot(snap), nil
}

// SetPagination writes patch as is.
func (p *Paginator) SetPagination(ctx context.Context, patch Patch, opts ...state.WriteOption) error {
	snap := codec.Snapshot{}
	if !patch.Page.IsMissing() {
		snap[p.cfg.pageKey] = patch.Page.Any()
	}
	if !patch.PageSize.IsMissing() {
		snap[p.cfg.pageSizeKey] = patch.PageSize.Any()
	}
	if len(snap) == 0 {
		return nil
	}
	return p.write(ctx, snap, opts)
}

// ChangePageSize switches to newSize and moves to the page that keeps the
// first visible item in view. Both keys are written in one transition. A
// non-positive newSize keeps the page and clears the stored size, so the
// default applies.
func (p *Paginator) ChangePageSize(ctx context.Context, newSize int, opts ...state.WriteOption) error {
	cur, err := p.State(ctx)
	if err != nil {
		return err
	}
	if newSize < 1 {
		return p.write(ctx, codec.Snapshot{
			p.cfg.pageKey:     codec.Some[any](cur.Page),
			p.cfg.pageSizeKey: codec.Null[any](),
		}, opts)
	}
	return p.write(ctx, codec.Snapshot{
		p.cfg.pageKey:     codec.Some[any](NewPage(cur.Page, cur.PageSize, newSize)),
		p.cfg.pageSizeKey: codec.Some[any](newSize),
	}, opts)
}

func (p *Paginator) write(ctx context.Context, snap codec.Snapshot, opts []state.WriteOption) error {
	opts = append([]state.WriteOption{state.WithHistory(p.cfg.history)}, opts...)
	if err := p.store.Set(ctx, p.schema, snap, opts...); err != nil {
		return fmt.Errorf("pagination: write state: %w", err)
	}
	return nil
}
