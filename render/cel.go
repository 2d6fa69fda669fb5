package render

import (
	celgo "github.com/google/cel-go/cel"

	"github.com/goliatone/go-querystate/filter"
)

// CELOption configures the CEL renderer.
type CELOption func(*celRenderer)

// CELWithProgramCache wires a ProgramCache into the CEL renderer.
func CELWithProgramCache(cache ProgramCache) CELOption {
	return func(r *celRenderer) {
		r.cache = cache
	}
}

var celSyntax = syntax{
	eq:      "==",
	ne:      "!=",
	null:    "null",
	and:     " && ",
	empty:   "true",
	inList:  func(field, list string) string { return field + " in " + list },
	literal: scalarLiteral,
}

type celRenderer struct {
	cache ProgramCache
}

// NewCEL builds a Renderer producing cel-go programs. Every referenced field
// is declared as a dyn variable.
func NewCEL(opts ...CELOption) Renderer {
	r := &celRenderer{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *celRenderer) Dialect() Dialect { return DialectCEL }

func (r *celRenderer) Render(exprs []filter.Expression) (Rendered, error) {
	source, fields, err := build(celSyntax, exprs)
	if err != nil {
		return Rendered{}, wrapError(DialectCEL, "", err)
	}
	program, err := r.loadOrCompile(source, fields)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Dialect: DialectCEL, Source: source, Fields: fields, Program: program}, nil
}

func (r *celRenderer) loadOrCompile(source string, fields []string) (celgo.Program, error) {
	key := cacheKey(DialectCEL, source)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	opts := make([]celgo.EnvOption, 0, len(fields))
	for _, field := range fields {
		opts = append(opts, celgo.Variable(field, celgo.DynType))
	}
	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, wrapError(DialectCEL, source, err)
	}
	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, wrapError(DialectCEL, source, issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, wrapError(DialectCEL, source, err)
	}
	if r.cache != nil {
		r.cache.Set(key, program)
	}
	return program, nil
}
