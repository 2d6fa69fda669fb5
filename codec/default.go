package codec

type withDefault[T any] struct {
	inner    Codec[T]
	fallback T
}

// WithDefault resolves Missing to fallback. Null is left untouched so a
// nullable field can still be cleared below its default.
func WithDefault[T any](c Codec[T], fallback T) Codec[T] {
	return withDefault[T]{inner: c, fallback: fallback}
}

func (c withDefault[T]) Parse(raw Raw) Value[T] {
	v := c.inner.Parse(raw)
	if v.IsMissing() {
		return Some(c.fallback)
	}
	return v
}

func (c withDefault[T]) Serialize(v Value[T]) Raw {
	return c.inner.Serialize(v)
}

func (c withDefault[T]) Describe() Descriptor {
	d := Describe(c.inner)
	d.Default = c.fallback
	return d
}
