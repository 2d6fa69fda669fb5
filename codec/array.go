package codec

import "strings"

type array[T any] struct {
	elem Codec[T]
}

// Array encodes a sequence as repeated occurrences of the same key. Elements
// that fail to parse are dropped; a sequence left empty decodes to Missing.
func Array[T any](elem Codec[T]) Codec[[]T] {
	return array[T]{elem: elem}
}

func (c array[T]) Parse(raw Raw) Value[[]T] {
	return Collect(c.elem, raw.Values)
}

func (c array[T]) Serialize(v Value[[]T]) Raw {
	values := serializeElements(c.elem, v)
	if len(values) == 0 {
		return Raw{}
	}
	return Raw{Values: values}
}

func (c array[T]) Describe() Descriptor {
	d := Describe(c.elem)
	d.Repeated = true
	return d
}

type delimited[T any] struct {
	elem      Codec[T]
	delimiter string
}

// Delimited encodes a sequence as a single occurrence joined by delimiter.
// Parsing splits on delimiter and drops pieces the element codec rejects. An
// empty delimiter treats the whole string as one element.
func Delimited[T any](elem Codec[T], delimiter string) Codec[[]T] {
	return delimited[T]{elem: elem, delimiter: delimiter}
}

func (c delimited[T]) Parse(raw Raw) Value[[]T] {
	s, ok := raw.First()
	if !ok || s == "" {
		return Missing[[]T]()
	}
	if c.delimiter == "" {
		return Collect(c.elem, []string{s})
	}
	return Collect(c.elem, strings.Split(s, c.delimiter))
}

func (c delimited[T]) Serialize(v Value[[]T]) Raw {
	values := serializeElements(c.elem, v)
	if len(values) == 0 {
		return Raw{}
	}
	return RawOf(strings.Join(values, c.delimiter))
}

func (c delimited[T]) Describe() Descriptor {
	d := Describe(c.elem)
	d.Repeated = true
	d.Delimiter = c.delimiter
	return d
}

// Collect parses each piece with elem, keeping only present results in input
// order.
func Collect[T any](elem Codec[T], pieces []string) Value[[]T] {
	out := make([]T, 0, len(pieces))
	for _, piece := range pieces {
		if v, ok := elem.Parse(RawOf(piece)).Get(); ok {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return Missing[[]T]()
	}
	return Some(out)
}

func serializeElements[T any](elem Codec[T], v Value[[]T]) []string {
	items, ok := v.Get()
	if !ok {
		return nil
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		values = append(values, elem.Serialize(Some(item)).Values...)
	}
	return values
}
