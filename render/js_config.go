package render

import "github.com/goliatone/go-querystate/filter"

var jsSyntax = syntax{
	eq:      "===",
	ne:      "!==",
	null:    "null",
	and:     " && ",
	empty:   "true",
	inList:  func(field, list string) string { return list + ".includes(" + field + ")" },
	literal: scalarLiteral,
}

type jsConfig struct {
	cache ProgramCache
}

// JSOption configures the JS renderer.
type JSOption func(*jsConfig)

// JSWithProgramCache wires a ProgramCache into the JS renderer.
func JSWithProgramCache(cache ProgramCache) JSOption {
	return func(cfg *jsConfig) {
		cfg.cache = cache
	}
}

func applyJSOptions(opts []JSOption) jsConfig {
	cfg := jsConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// JSSource renders exprs as a JavaScript predicate without compiling it. It
// is available regardless of build tags.
func JSSource(exprs []filter.Expression) (string, error) {
	source, _, err := build(jsSyntax, exprs)
	if err != nil {
		return "", wrapError(DialectJS, "", err)
	}
	return source, nil
}
