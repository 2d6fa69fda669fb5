// Package codec converts between the persisted string form of query state and
// typed values.
//
// Every codec produces a tri-state Value: Missing when the key is absent or
// cannot be parsed, Null when the key was explicitly cleared (nullable codecs
// only) and Present otherwise. Parsing never fails loudly; malformed input
// resolves to Missing or is dropped from sequences.
package codec

import "fmt"

// Raw is the persisted form of a single key. Values holds every occurrence of
// the key in store order. Cleared marks an explicit null written through a
// nullable codec. The zero Raw means the key is absent.
type Raw struct {
	Values  []string
	Cleared bool
}

// RawOf builds a Raw from occurrences.
func RawOf(values ...string) Raw {
	if len(values) == 0 {
		return Raw{}
	}
	return Raw{Values: append([]string(nil), values...)}
}

// IsZero reports whether the key is absent.
func (r Raw) IsZero() bool {
	return len(r.Values) == 0 && !r.Cleared
}

// First returns the first occurrence, which is what scalar codecs read.
func (r Raw) First() (string, bool) {
	if len(r.Values) == 0 {
		return "", false
	}
	return r.Values[0], true
}

// Clone detaches Values from the receiver.
func (r Raw) Clone() Raw {
	out := Raw{Cleared: r.Cleared}
	if len(r.Values) > 0 {
		out.Values = append([]string(nil), r.Values...)
	}
	return out
}

// Codec is a parse/serialize pair for one field type.
type Codec[T any] interface {
	Parse(raw Raw) Value[T]
	Serialize(v Value[T]) Raw
}

// Descriptor summarises a codec for documentation and schema listings.
type Descriptor struct {
	Type      string   `json:"type"`
	Nullable  bool     `json:"nullable,omitempty"`
	Repeated  bool     `json:"repeated,omitempty"`
	Delimiter string   `json:"delimiter,omitempty"`
	Enum      []string `json:"enum,omitempty"`
	Default   any      `json:"default,omitempty"`
}

// Describer is implemented by codecs that can report a Descriptor.
type Describer interface {
	Describe() Descriptor
}

// Describe returns the descriptor for c, or a generic one derived from T when
// c does not implement Describer.
func Describe[T any](c Codec[T]) Descriptor {
	if d, ok := any(c).(Describer); ok {
		return d.Describe()
	}
	var zero T
	return Descriptor{Type: fmt.Sprintf("%T", zero)}
}
