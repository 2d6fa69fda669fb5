// Package qstate derives filters, sort order and pagination from one
// snapshot of query state.
//
// A Query bundles filter definitions, a sorting.Sorter and a
// pagination.Paginator over a single state.Store. Derive reads the union of
// their schemas once, so every part of the Result reflects the same
// transition.
package qstate

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-querystate/codec"
	"github.com/goliatone/go-querystate/config"
	"github.com/goliatone/go-querystate/filter"
	"github.com/goliatone/go-querystate/pagination"
	"github.com/goliatone/go-querystate/pkg/state"
	"github.com/goliatone/go-querystate/render"
	"github.com/goliatone/go-querystate/sorting"
)

// Option configures a Query.
type Option func(*queryConfig)

type queryConfig struct {
	fields     filter.Fields
	sort       *sorting.Config
	sortOpts   []sorting.Option
	pageOpts   []pagination.Option
	pagination bool
	renderer   render.Renderer
	logger     Logger
	now        func() time.Time
	err        error
}

func applyOptions(opts []Option) queryConfig {
	cfg := queryConfig{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	return cfg
}

// WithFilters appends filter fields. Order is preserved across calls.
func WithFilters(fields filter.Fields) Option {
	return func(cfg *queryConfig) {
		cfg.fields = append(cfg.fields, fields...)
	}
}

// WithSort enables sorting with cfg.
func WithSort(cfg sorting.Config, opts ...sorting.Option) Option {
	return func(qc *queryConfig) {
		c := cfg
		qc.sort = &c
		qc.sortOpts = append(qc.sortOpts, opts...)
	}
}

// WithPagination enables pagination.
func WithPagination(opts ...pagination.Option) Option {
	return func(cfg *queryConfig) {
		cfg.pagination = true
		cfg.pageOpts = append(cfg.pageOpts, opts...)
	}
}

// WithRenderer renders derived filters on every Derive.
func WithRenderer(r render.Renderer) Option {
	return func(cfg *queryConfig) {
		cfg.renderer = r
	}
}

// WithDocument applies every declaration of a config document. An invalid
// document surfaces as an error from New.
func WithDocument(doc config.Document) Option {
	return func(cfg *queryConfig) {
		fields, err := doc.Fields()
		if err != nil {
			cfg.err = err
			return
		}
		cfg.fields = append(cfg.fields, fields...)
		if doc.Sort != nil {
			sortCfg := doc.SortConfig()
			cfg.sort = &sortCfg
			cfg.sortOpts = append(cfg.sortOpts, doc.SortOptions()...)
		}
		if doc.Pagination != nil {
			cfg.pagination = true
			cfg.pageOpts = append(cfg.pageOpts, doc.PaginationOptions()...)
		}
		if doc.Render != "" {
			r, err := render.ForDialect(doc.Render, render.NewMemoryCache())
			if err != nil {
				cfg.err = err
				return
			}
			cfg.renderer = r
		}
	}
}

// WithClock overrides the time source used to measure derivations.
func WithClock(now func() time.Time) Option {
	return func(cfg *queryConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// Query derives filters, sort and pagination from a store.
type Query struct {
	store     state.Store
	defs      []filter.Definition
	sorter    *sorting.Sorter
	paginator *pagination.Paginator
	renderer  render.Renderer
	logger    Logger
	now       func() time.Time
}

// Result is everything derived from one snapshot.
type Result struct {
	Filters  []filter.Expression `json:"filters"`
	Sort     []sorting.Entry     `json:"sort,omitempty"`
	Page     *pagination.State   `json:"page,omitempty"`
	Rendered *render.Rendered    `json:"rendered,omitempty"`
}

// New builds a Query over store.
func New(store state.Store, opts ...Option) (*Query, error) {
	if store == nil {
		return nil, fmt.Errorf("qstate: store is required")
	}
	cfg := applyOptions(opts)
	if cfg.err != nil {
		return nil, fmt.Errorf("qstate: %w", cfg.err)
	}
	q := &Query{
		store:    store,
		defs:     filter.Definitions(cfg.fields),
		renderer: cfg.renderer,
		logger:   cfg.logger,
		now:      cfg.now,
	}
	if cfg.sort != nil {
		q.sorter = sorting.NewSorter(store, *cfg.sort, cfg.sortOpts...)
	}
	if cfg.pagination {
		q.paginator = pagination.New(store, cfg.pageOpts...)
	}
	return q, nil
}

// Sorter returns the sorter, or nil when sorting is disabled.
func (q *Query) Sorter() *sorting.Sorter {
	return q.sorter
}

// Paginator returns the paginator, or nil when pagination is disabled.
func (q *Query) Paginator() *pagination.Paginator {
	return q.paginator
}

// Definitions returns the filter definitions in declaration order.
func (q *Query) Definitions() []filter.Definition {
	return append([]filter.Definition(nil), q.defs...)
}

// Schema merges the filter, sort and pagination schemas in that order. A key
// declared by more than one part resolves to the later part.
func (q *Query) Schema() codec.Schema {
	schemas := []codec.Schema{filter.Combine(q.defs...)}
	if q.sorter != nil {
		schemas = append(schemas, q.sorter.Schema())
	}
	if q.paginator != nil {
		schemas = append(schemas, q.paginator.Schema())
	}
	return codec.Merge(schemas...)
}

// Derive reads one snapshot and derives every configured part from it.
func (q *Query) Derive(ctx context.Context) (Result, error) {
	start := q.now()
	schema := q.Schema()
	event := DerivationEvent{Keys: schema.Keys()}

	result, err := q.derive(ctx, schema)
	event.Filters = len(result.Filters)
	for _, e := range result.Sort {
		event.Sort = append(event.Sort, e.String())
	}
	if result.Page != nil {
		event.Page, event.PageSize = result.Page.Page, result.Page.PageSize
	}
	if result.Rendered != nil {
		event.Dialect = result.Rendered.Dialect
	}
	event.Duration = q.now().Sub(start)
	event.Err = err
	q.logger.LogDerivation(event)

	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func (q *Query) derive(ctx context.Context, schema codec.Schema) (Result, error) {
	snap, err := q.store.Get(ctx, schema)
	if err != nil {
		return Result{}, fmt.Errorf("qstate: read state: %w", err)
	}
	result := Result{Filters: filter.Apply(snap, q.defs...)}
	if q.sorter != nil {
		result.Sort = q.sorter.FromSnapshot(snap)
	}
	if q.paginator != nil {
		page := q.paginator.FromSnapshot(snap)
		result.Page = &page
	}
	if q.renderer != nil {
		rendered, err := q.renderer.Render(result.Filters)
		if err != nil {
			return result, fmt.Errorf("qstate: %w", err)
		}
		result.Rendered = &rendered
	}
	return result, nil
}
