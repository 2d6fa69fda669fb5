package filter

import (
	"github.com/goliatone/go-querystate/codec"
)

// Definition pairs the schema a filter reads with the transform that turns a
// snapshot of that schema into expressions.
type Definition struct {
	Schema    codec.Schema
	Transform func(snap codec.Snapshot) []Expression
}

// Generator produces the Definition for one field key.
type Generator interface {
	Generate(key string) Definition
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(key string) Definition

func (fn GeneratorFunc) Generate(key string) Definition {
	return fn(key)
}

// Selector binds a codec and a nullability policy. It is an immutable value;
// every behavior reads only the selector it was called on.
type Selector[T any] struct {
	Codec    codec.Codec[T]
	Nullable bool
}

// For builds a selector over c.
func For[T any](c codec.Codec[T]) Selector[T] {
	return Selector[T]{Codec: c}
}

// NullableFor builds a selector whose fields can be explicitly cleared.
func NullableFor[T any](c codec.Codec[T]) Selector[T] {
	return Selector[T]{Codec: c, Nullable: true}
}

func String() Selector[string] { return For(codec.String()) }
func Integer() Selector[int] { return For(codec.Integer()) }
func Float() Selector[float64] { return For(codec.Float()) }
func Boolean() Selector[bool] { return For(codec.Boolean()) }

func Enum(values ...string) Selector[string] { return For(codec.Enum(values...)) }

func NullableString() Selector[string] { return NullableFor(codec.String()) }
func NullableInteger() Selector[int] { return NullableFor(codec.Integer()) }
func NullableFloat() Selector[float64] { return NullableFor(codec.Float()) }
func NullableBoolean() Selector[bool] { return NullableFor(codec.Boolean()) }

func NullableEnum(values ...string) Selector[string] {
	return NullableFor(codec.Enum(values...))
}

func (s Selector[T]) scalar() codec.Codec[T] {
	if s.Nullable {
		return codec.Nullable(s.Codec)
	}
	return s.Codec
}

// Equal emits (key, "=", value) when the key holds a value.
func (s Selector[T]) Equal() Generator {
	field := codec.Erase(s.scalar())
	return GeneratorFunc(func(key string) Definition {
		return Definition{
			Schema: codec.Schema{key: field},
			Transform: func(snap codec.Snapshot) []Expression {
				v, ok := snap.Lookup(key).Get()
				if !ok {
					return nil
				}
				return []Expression{{Field: key, Op: OpEqual, Value: v}}
			},
		}
	})
}

// InOptions configures In.
type InOptions struct {
	// Delimiter joins the values into one occurrence. Empty means one
	// occurrence per value.
	Delimiter string
}

// InOption mutates InOptions.
type InOption func(*InOptions)

// WithDelimiter stores the values as one delimited occurrence.
func WithDelimiter(delim string) InOption {
	return func(o *InOptions) {
		o.Delimiter = delim
	}
}

// In emits one (key, "=", values) expression carrying the decoded slice.
// Membership semantics are left to the consumer.
func (s Selector[T]) In(opts ...InOption) Generator {
	var o InOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	var list codec.Codec[[]T]
	switch {
	case o.Delimiter != "" && s.Nullable:
		list = codec.NullableDelimited(s.Codec, o.Delimiter)
	case o.Delimiter != "":
		list = codec.Delimited(s.Codec, o.Delimiter)
	case s.Nullable:
		list = codec.NullableArray(s.Codec)
	default:
		list = codec.Array(s.Codec)
	}
	field := codec.Erase(list)

	return GeneratorFunc(func(key string) Definition {
		return Definition{
			Schema: codec.Schema{key: field},
			Transform: func(snap codec.Snapshot) []Expression {
				v, ok := snap.Lookup(key).Get()
				if !ok {
					return nil
				}
				return []Expression{{Field: key, Op: OpEqual, Value: v}}
			},
		}
	})
}

// RangeOptions configures Range.
type RangeOptions struct {
	// ExcludeNull adds (key, "!=", null) whenever a bound is set.
	ExcludeNull bool
}

// RangeOption mutates RangeOptions.
type RangeOption func(*RangeOptions)

// ExcludeNull drops rows whose field is null once a bound is applied.
func ExcludeNull() RangeOption {
	return func(o *RangeOptions) {
		o.ExcludeNull = true
	}
}

// Range reads key+"Max" and key+"Min" and emits at most three expressions in
// the order max bound, min bound, not-null.
func (s Selector[T]) Range(opts ...RangeOption) Generator {
	var o RangeOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	field := codec.Erase(s.scalar())

	return GeneratorFunc(func(key string) Definition {
		maxKey, minKey := RangeKeys(key)
		return Definition{
			Schema: codec.Schema{maxKey: field, minKey: field},
			Transform: func(snap codec.Snapshot) []Expression {
				out := make([]Expression, 0, 3)
				if v, ok := snap.Lookup(maxKey).Get(); ok {
					out = append(out, Expression{Field: key, Op: OpLessEqual, Value: v})
				}
				if v, ok := snap.Lookup(minKey).Get(); ok {
					out = append(out, Expression{Field: key, Op: OpGreaterEqual, Value: v})
				}
				if o.ExcludeNull && len(out) > 0 {
					out = append(out, Expression{Field: key, Op: OpNotEqual, Value: nil})
				}
				if len(out) == 0 {
					return nil
				}
				return out
			},
		}
	})
}

// RangeKeys returns the store keys Range reads for key.
func RangeKeys(key string) (maxKey, minKey string) {
	return key + "Max", key + "Min"
}
