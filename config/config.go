// Package config loads filter, sort and pagination declarations from YAML.
//
// Filters are kept in document order so that the derived expression order
// follows the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-querystate/filter"
	"github.com/goliatone/go-querystate/pagination"
	"github.com/goliatone/go-querystate/pkg/state"
	"github.com/goliatone/go-querystate/render"
	"github.com/goliatone/go-querystate/sorting"
)

var (
	ErrUnknownType     = errors.New("config: unknown filter type")
	ErrUnknownBehavior = errors.New("config: unknown filter behavior")
)

// Filter declares one filter field.
type Filter struct {
	Label       string   `yaml:"-"`
	Type        string   `yaml:"type"`
	Behavior    string   `yaml:"behavior"`
	Nullable    bool     `yaml:"nullable,omitempty"`
	Values      []string `yaml:"values,omitempty"`
	Delimiter   string   `yaml:"delimiter,omitempty"`
	ExcludeNull bool     `yaml:"excludeNull,omitempty"`
}

// Pagination declares paginator defaults.
type Pagination struct {
	DefaultPageSize int    `yaml:"defaultPageSize,omitempty"`
	PageKey         string `yaml:"pageKey,omitempty"`
	PageSizeKey     string `yaml:"pageSizeKey,omitempty"`
	History         string `yaml:"history,omitempty"`
}

// Sort declares the sort codec plus the history mode for writes.
type Sort struct {
	sorting.Config `yaml:",inline"`
	History        string `yaml:"history,omitempty"`
}

// Document is a parsed configuration file.
type Document struct {
	Filters    []Filter       `yaml:"-"`
	Sort       *Sort          `yaml:"sort,omitempty"`
	Pagination *Pagination    `yaml:"pagination,omitempty"`
	Render     render.Dialect `yaml:"render,omitempty"`
}

type rawDocument struct {
	Filters    yaml.Node      `yaml:"filters"`
	Sort       *Sort          `yaml:"sort"`
	Pagination *Pagination    `yaml:"pagination"`
	Render     render.Dialect `yaml:"render"`
}

// Load reads and parses a YAML file.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document and validates its filters.
func Parse(data []byte) (Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("config: decode: %w", err)
	}
	filters, err := parseFilters(&raw.Filters)
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		Filters:    filters,
		Sort:       raw.Sort,
		Pagination: raw.Pagination,
		Render:     raw.Render,
	}
	if _, err := doc.Fields(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func parseFilters(node *yaml.Node) ([]Filter, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config: filters must be a mapping (line %d)", node.Line)
	}
	out := make([]Filter, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var f Filter
		if err := value.Decode(&f); err != nil {
			return nil, fmt.Errorf("config: filter %q: %w", key.Value, err)
		}
		f.Label = key.Value
		out = append(out, f)
	}
	return out, nil
}

// Fields builds the ordered filter fields.
func (d Document) Fields() (filter.Fields, error) {
	out := make(filter.Fields, 0, len(d.Filters))
	for _, f := range d.Filters {
		gen, err := f.Generator()
		if err != nil {
			return nil, err
		}
		out = out.Add(f.Label, gen)
	}
	return out, nil
}

// SortConfig returns the sort configuration, or the defaults when the document
// has none.
func (d Document) SortConfig() sorting.Config {
	if d.Sort == nil {
		return sorting.DefaultConfig()
	}
	return d.Sort.Config
}

// SortOptions returns the sorter options declared by the document.
func (d Document) SortOptions() []sorting.Option {
	if d.Sort == nil || d.Sort.History == "" {
		return nil
	}
	return []sorting.Option{sorting.WithHistory(history(d.Sort.History))}
}

// PaginationOptions returns the paginator options declared by the document.
func (d Document) PaginationOptions() []pagination.Option {
	if d.Pagination == nil {
		return nil
	}
	p := d.Pagination
	opts := []pagination.Option{pagination.WithKeys(p.PageKey, p.PageSizeKey)}
	if p.DefaultPageSize > 0 {
		opts = append(opts, pagination.WithDefaultPageSize(p.DefaultPageSize))
	}
	if p.History != "" {
		opts = append(opts, pagination.WithHistory(history(p.History)))
	}
	return opts
}

// Generator resolves the declared type and behavior into a filter generator.
func (f Filter) Generator() (filter.Generator, error) {
	behavior := strings.ToLower(strings.TrimSpace(f.Behavior))
	if behavior == "" {
		behavior = "equal"
	}
	switch strings.ToLower(strings.TrimSpace(f.Type)) {
	case "", "string":
		return pick(f, behavior, selector(f, filter.String(), filter.NullableString()))
	case "integer", "int":
		return pick(f, behavior, selector(f, filter.Integer(), filter.NullableInteger()))
	case "float", "number":
		return pick(f, behavior, selector(f, filter.Float(), filter.NullableFloat()))
	case "boolean", "bool":
		return pick(f, behavior, selector(f, filter.Boolean(), filter.NullableBoolean()))
	case "enum":
		if len(f.Values) == 0 {
			return nil, fmt.Errorf("config: filter %q: enum requires values", f.Label)
		}
		return pick(f, behavior, selector(f, filter.Enum(f.Values...), filter.NullableEnum(f.Values...)))
	default:
		return nil, fmt.Errorf("%w: filter %q type %q", ErrUnknownType, f.Label, f.Type)
	}
}

func selector[T any](f Filter, plain, nullable filter.Selector[T]) filter.Selector[T] {
	if f.Nullable {
		return nullable
	}
	return plain
}

func pick[T any](f Filter, behavior string, s filter.Selector[T]) (filter.Generator, error) {
	switch behavior {
	case "equal":
		return s.Equal(), nil
	case "in":
		return s.In(filter.WithDelimiter(f.Delimiter)), nil
	case "range":
		var opts []filter.RangeOption
		if f.ExcludeNull {
			opts = append(opts, filter.ExcludeNull())
		}
		return s.Range(opts...), nil
	default:
		return nil, fmt.Errorf("%w: filter %q behavior %q", ErrUnknownBehavior, f.Label, f.Behavior)
	}
}

func history(v string) state.History {
	if strings.EqualFold(strings.TrimSpace(v), string(state.HistoryPush)) {
		return state.HistoryPush
	}
	return state.HistoryReplace
}
