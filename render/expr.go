package render

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-querystate/filter"
)

// ExprOption configures the expr renderer.
type ExprOption func(*exprRenderer)

// ExprWithProgramCache wires a ProgramCache into the expr renderer.
func ExprWithProgramCache(cache ProgramCache) ExprOption {
	return func(r *exprRenderer) {
		r.cache = cache
	}
}

var exprSyntax = syntax{
	eq:      "==",
	ne:      "!=",
	null:    "nil",
	and:     " && ",
	empty:   "true",
	inList:  func(field, list string) string { return field + " in " + list },
	literal: scalarLiteral,
}

type exprRenderer struct {
	cache ProgramCache
}

// NewExpr builds a Renderer producing github.com/expr-lang/expr programs.
func NewExpr(opts ...ExprOption) Renderer {
	r := &exprRenderer{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *exprRenderer) Dialect() Dialect { return DialectExpr }

func (r *exprRenderer) Render(exprs []filter.Expression) (Rendered, error) {
	source, fields, err := build(exprSyntax, exprs)
	if err != nil {
		return Rendered{}, wrapError(DialectExpr, "", err)
	}
	program, err := r.loadOrCompile(source)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Dialect: DialectExpr, Source: source, Fields: fields, Program: program}, nil
}

func (r *exprRenderer) loadOrCompile(source string) (*exprvm.Program, error) {
	key := cacheKey(DialectExpr, source)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	program, err := exprlang.Compile(source,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, wrapError(DialectExpr, source, err)
	}
	if r.cache != nil {
		r.cache.Set(key, program)
	}
	return program, nil
}
