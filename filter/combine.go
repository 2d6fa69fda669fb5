package filter

import (
	"context"
	"fmt"

	"github.com/goliatone/go-querystate/codec"
	"github.com/goliatone/go-querystate/pkg/state"
)

// Field labels a generator. Fields keep their declaration order.
type Field struct {
	Label     string
	Generator Generator
}

// Fields is an ordered field-to-behavior mapping.
type Fields []Field

// Add appends a field and returns the extended list.
func (f Fields) Add(label string, gen Generator) Fields {
	return append(f, Field{Label: label, Generator: gen})
}

// Definitions generates one definition per field in order. Fields without a
// generator are skipped.
func Definitions(fields Fields) []Definition {
	out := make([]Definition, 0, len(fields))
	for _, f := range fields {
		if f.Generator == nil {
			continue
		}
		out = append(out, f.Generator.Generate(f.Label))
	}
	return out
}

// Combine merges the schemas of defs. A key declared twice resolves to the
// later definition.
func Combine(defs ...Definition) codec.Schema {
	schemas := make([]codec.Schema, 0, len(defs))
	for _, def := range defs {
		schemas = append(schemas, def.Schema)
	}
	return codec.Merge(schemas...)
}

// Apply runs every transform against snap and concatenates the results in
// definition order.
func Apply(snap codec.Snapshot, defs ...Definition) []Expression {
	var out []Expression
	for _, def := range defs {
		if def.Transform == nil {
			continue
		}
		out = append(out, def.Transform(snap)...)
	}
	return out
}

// Derive reads one snapshot of the combined schema from r and applies defs to
// it. r is read exactly once so every transform observes the same state.
func Derive(ctx context.Context, r state.Reader, defs ...Definition) ([]Expression, error) {
	snap, err := r.Get(ctx, Combine(defs...))
	if err != nil {
		return nil, fmt.Errorf("filter: read state: %w", err)
	}
	return Apply(snap, defs...), nil
}
