package codec

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

type scalar[T any] struct {
	typeName string
	parse    func(string) (T, bool)
	format   func(T) string
	enum     []string
}

func (c scalar[T]) Parse(raw Raw) Value[T] {
	s, ok := raw.First()
	if !ok || s == "" {
		return Missing[T]()
	}
	v, ok := c.parse(s)
	if !ok {
		return Missing[T]()
	}
	return Some(v)
}

func (c scalar[T]) Serialize(v Value[T]) Raw {
	value, ok := v.Get()
	if !ok {
		return Raw{}
	}
	return RawOf(c.format(value))
}

func (c scalar[T]) Describe() Descriptor {
	return Descriptor{Type: c.typeName, Enum: slices.Clone(c.enum)}
}

// String passes values through unchanged.
func String() Codec[string] {
	return scalar[string]{
		typeName: "string",
		parse:    func(s string) (string, bool) { return s, true },
		format:   func(s string) string { return s },
	}
}

// Integer decodes base-10 integers.
func Integer() Codec[int] {
	return scalar[int]{
		typeName: "integer",
		parse: func(s string) (int, bool) {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return 0, false
			}
			return n, true
		},
		format: strconv.Itoa,
	}
}

// PositiveInteger decodes base-10 integers greater than zero. Zero and
// negative values decode to Missing.
func PositiveInteger() Codec[int] {
	return scalar[int]{
		typeName: "integer",
		parse: func(s string) (int, bool) {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 1 {
				return 0, false
			}
			return n, true
		},
		format: strconv.Itoa,
	}
}

// Float decodes finite floating point numbers.
func Float() Codec[float64] {
	return scalar[float64]{
		typeName: "float",
		parse: func(s string) (float64, bool) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return 0, false
			}
			return f, true
		},
		format: func(f float64) string {
			return strconv.FormatFloat(f, 'f', -1, 64)
		},
	}
}

// Boolean decodes "true" and "false", case-insensitively.
func Boolean() Codec[bool] {
	return scalar[bool]{
		typeName: "boolean",
		parse: func(s string) (bool, bool) {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return true, true
			case "false":
				return false, true
			default:
				return false, false
			}
		},
		format: strconv.FormatBool,
	}
}

// Enum accepts only the listed values.
func Enum(values ...string) Codec[string] {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return scalar[string]{
		typeName: "enum",
		enum:     slices.Clone(values),
		parse: func(s string) (string, bool) {
			_, ok := allowed[s]
			return s, ok
		},
		format: func(s string) string { return s },
	}
}
