// Package render turns derived filter expressions into source code for a
// downstream expression engine and compile-checks the result. Rendered
// programs are never evaluated here.
package render

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-querystate/filter"
)

// Dialect names a target expression language.
type Dialect string

const (
	DialectExpr Dialect = "expr"
	DialectCEL  Dialect = "cel"
	DialectJS   Dialect = "js"
)

var (
	ErrUnsupportedOperator = errors.New("render: unsupported operator")
	ErrUnsupportedValue    = errors.New("render: unsupported value")
	ErrInvalidField        = errors.New("render: invalid field name")
	ErrDialectUnavailable  = errors.New("render: dialect unavailable")
)

// Rendered is the output of a Renderer. Program holds the engine specific
// compiled form.
type Rendered struct {
	Dialect Dialect  `json:"dialect"`
	Source  string   `json:"source"`
	Fields  []string `json:"fields,omitempty"`
	Program any      `json:"-"`
}

// Renderer converts expressions into a compiled program.
type Renderer interface {
	Dialect() Dialect
	Render(exprs []filter.Expression) (Rendered, error)
}

// ProgramCache stores compiled programs keyed by dialect and source.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MemoryCache is a ProgramCache backed by a map. It is safe for concurrent
// use.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]any
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: map[string]any{}}
}

func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *MemoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// Len reports the number of cached programs.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// ForDialect returns the renderer for d.
func ForDialect(d Dialect, cache ProgramCache) (Renderer, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(string(d)))) {
	case DialectExpr, "":
		return NewExpr(ExprWithProgramCache(cache)), nil
	case DialectCEL:
		return NewCEL(CELWithProgramCache(cache)), nil
	case DialectJS:
		r := NewJS(JSWithProgramCache(cache))
		if r == nil {
			return nil, fmt.Errorf("%w: %s (build with -tags js_eval)", ErrDialectUnavailable, d)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrDialectUnavailable, d)
	}
}

func cacheKey(d Dialect, source string) string {
	return string(d) + ":" + source
}

// syntax describes how one dialect spells the pieces of a predicate.
type syntax struct {
	eq, ne  string
	null    string
	and     string
	empty   string
	inList  func(field, list string) string
	literal func(v any) (string, bool)
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// build joins exprs with the dialect's conjunction and returns the source
// along with the sorted set of referenced fields.
func build(s syntax, exprs []filter.Expression) (string, []string, error) {
	if len(exprs) == 0 {
		return s.empty, nil, nil
	}
	seen := map[string]struct{}{}
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if !identifier.MatchString(e.Field) {
			return "", nil, fmt.Errorf("%w: %q", ErrInvalidField, e.Field)
		}
		seen[e.Field] = struct{}{}
		part, err := predicate(s, e)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, part)
	}
	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return strings.Join(parts, s.and), fields, nil
}

func predicate(s syntax, e filter.Expression) (string, error) {
	if isList(e.Value) {
		if e.Op != filter.OpEqual {
			return "", fmt.Errorf("%w: %s with list value", ErrUnsupportedOperator, e.Op)
		}
		list, err := listLiteral(s, e.Value)
		if err != nil {
			return "", err
		}
		return s.inList(e.Field, list), nil
	}

	var op string
	switch e.Op {
	case filter.OpEqual:
		op = s.eq
	case filter.OpNotEqual:
		op = s.ne
	case filter.OpLess, filter.OpGreater, filter.OpLessEqual, filter.OpGreaterEqual:
		if e.Value == nil {
			return "", fmt.Errorf("%w: %s null", ErrUnsupportedOperator, e.Op)
		}
		op = string(e.Op)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOperator, e.Op)
	}

	if e.Value == nil {
		return e.Field + " " + op + " " + s.null, nil
	}
	lit, ok := s.literal(e.Value)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, e.Value)
	}
	return e.Field + " " + op + " " + lit, nil
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func listLiteral(s syntax, v any) (string, error) {
	rv := reflect.ValueOf(v)
	items := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		lit, ok := s.literal(item)
		if !ok || isList(item) {
			return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, item)
		}
		items = append(items, lit)
	}
	return "[" + strings.Join(items, ", ") + "]", nil
}

// scalarLiteral spells strings, numbers and booleans. String quoting follows
// Go escapes, which all three dialects accept.
func scalarLiteral(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return strconv.Quote(rv.String()), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		lit := strconv.FormatFloat(rv.Float(), 'g', -1, 64)
		if !strings.ContainsAny(lit, ".eEIN") {
			lit += ".0"
		}
		return lit, true
	default:
		return "", false
	}
}
