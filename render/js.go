//go:build js_eval

package render

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/goliatone/go-querystate/filter"
)

type jsRenderer struct {
	cache ProgramCache
}

// NewJS builds a Renderer producing goja programs.
func NewJS(opts ...JSOption) Renderer {
	cfg := applyJSOptions(opts)
	return &jsRenderer{cache: cfg.cache}
}

func (r *jsRenderer) Dialect() Dialect { return DialectJS }

func (r *jsRenderer) Render(exprs []filter.Expression) (Rendered, error) {
	source, fields, err := build(jsSyntax, exprs)
	if err != nil {
		return Rendered{}, wrapError(DialectJS, "", err)
	}
	program, err := r.loadOrCompile(source)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Dialect: DialectJS, Source: source, Fields: fields, Program: program}, nil
}

func (r *jsRenderer) loadOrCompile(source string) (*goja.Program, error) {
	key := cacheKey(DialectJS, source)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", wrapPredicate(source), false)
	if err != nil {
		return nil, wrapError(DialectJS, source, err)
	}
	if r.cache != nil {
		r.cache.Set(key, program)
	}
	return program, nil
}

func wrapPredicate(source string) string {
	return fmt.Sprintf("(function(){ return (%s); })", source)
}
