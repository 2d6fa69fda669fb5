package codec

type nullable[T any] struct {
	inner Codec[T]
}

// Nullable wraps c so that an explicit clear round-trips as Null instead of
// collapsing into Missing. Empty or absent input still decodes to Missing.
func Nullable[T any](c Codec[T]) Codec[T] {
	if _, ok := c.(nullable[T]); ok {
		return c
	}
	return nullable[T]{inner: c}
}

// IsNullable reports whether c was built through Nullable.
func IsNullable[T any](c Codec[T]) bool {
	_, ok := c.(nullable[T])
	return ok
}

func (c nullable[T]) Parse(raw Raw) Value[T] {
	if raw.Cleared {
		return Null[T]()
	}
	return c.inner.Parse(raw)
}

func (c nullable[T]) Serialize(v Value[T]) Raw {
	if v.IsNull() {
		return Raw{Cleared: true}
	}
	return c.inner.Serialize(v)
}

func (c nullable[T]) Describe() Descriptor {
	d := Describe(c.inner)
	d.Nullable = true
	return d
}

func NullableString() Codec[string] { return Nullable(String()) }

func NullableInteger() Codec[int] { return Nullable(Integer()) }

func NullableFloat() Codec[float64] { return Nullable(Float()) }

func NullableBoolean() Codec[bool] { return Nullable(Boolean()) }

func NullableEnum(values ...string) Codec[string] { return Nullable(Enum(values...)) }

// NullableArray is the nullable counterpart of Array.
func NullableArray[T any](elem Codec[T]) Codec[[]T] {
	return Nullable(Array(elem))
}

// NullableDelimited is the nullable counterpart of Delimited.
func NullableDelimited[T any](elem Codec[T], delimiter string) Codec[[]T] {
	return Nullable(Delimited(elem, delimiter))
}
