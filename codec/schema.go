package codec

import (
	"fmt"
	"sort"
)

// Field is a type-erased Codec so that fields of different types can share a
// Schema.
type Field interface {
	Decode(raw Raw) Value[any]
	Encode(v Value[any]) (Raw, error)
	Descriptor() Descriptor
}

type erased[T any] struct {
	codec Codec[T]
}

// Erase adapts c to Field.
func Erase[T any](c Codec[T]) Field {
	return erased[T]{codec: c}
}

func (e erased[T]) Decode(raw Raw) Value[any] {
	return e.codec.Parse(raw).Any()
}

func (e erased[T]) Encode(v Value[any]) (Raw, error) {
	switch v.State() {
	case StatePresent:
		value, _ := v.Get()
		typed, ok := value.(T)
		if !ok {
			var zero T
			return Raw{}, fmt.Errorf("codec: cannot encode %T as %T", value, zero)
		}
		return e.codec.Serialize(Some(typed)), nil
	case StateNull:
		return e.codec.Serialize(Null[T]()), nil
	default:
		return Raw{}, nil
	}
}

func (e erased[T]) Descriptor() Descriptor {
	return Describe(e.codec)
}

// Schema maps store keys to the fields used to decode them.
type Schema map[string]Field

// Keys returns the schema keys sorted alphabetically.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Merge flattens schemas in order. When a key repeats, the later schema wins.
func Merge(schemas ...Schema) Schema {
	size := 0
	for _, s := range schemas {
		size += len(s)
	}
	out := make(Schema, size)
	for _, s := range schemas {
		for key, field := range s {
			out[key] = field
		}
	}
	return out
}

// Snapshot holds the decoded values for one schema at one point in time.
type Snapshot map[string]Value[any]

// Lookup returns the value stored for key; absent keys are Missing.
func (s Snapshot) Lookup(key string) Value[any] {
	if s == nil {
		return Missing[any]()
	}
	return s[key]
}

// Decode runs every field of schema against the raw values returned by
// lookup. Keys lookup does not know resolve through each field's own
// Missing/default policy.
func Decode(schema Schema, lookup func(key string) Raw) Snapshot {
	out := make(Snapshot, len(schema))
	for key, field := range schema {
		var raw Raw
		if lookup != nil {
			raw = lookup(key)
		}
		out[key] = field.Decode(raw)
	}
	return out
}

// Encode serialises every key of patch with its schema field. Keys without a
// field are rejected.
func Encode(schema Schema, patch Snapshot) (map[string]Raw, error) {
	out := make(map[string]Raw, len(patch))
	for _, key := range sortedSnapshotKeys(patch) {
		field, ok := schema[key]
		if !ok {
			return nil, fmt.Errorf("codec: no field registered for key %q", key)
		}
		raw, err := field.Encode(patch[key])
		if err != nil {
			return nil, fmt.Errorf("codec: key %q: %w", key, err)
		}
		out[key] = raw
	}
	return out, nil
}

// Get reads key from snap as T.
func Get[T any](snap Snapshot, key string) Value[T] {
	return As[T](snap.Lookup(key))
}

func sortedSnapshotKeys(s Snapshot) []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
