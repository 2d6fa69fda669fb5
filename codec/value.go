package codec

import "fmt"

// State tags the three conditions a decoded field can be in.
type State uint8

const (
	// StateMissing means the key was absent (or unparseable) in the store.
	StateMissing State = iota
	// StateNull means the key was explicitly cleared.
	StateNull
	// StatePresent means the key decoded to a value.
	StatePresent
)

func (s State) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateNull:
		return "null"
	case StatePresent:
		return "present"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Value is the tri-state result of decoding one field.
type Value[T any] struct {
	state State
	value T
}

// Some wraps v as a present value.
func Some[T any](v T) Value[T] {
	return Value[T]{state: StatePresent, value: v}
}

// Missing returns the absent sentinel.
func Missing[T any]() Value[T] {
	return Value[T]{}
}

// Null returns the explicitly cleared sentinel.
func Null[T any]() Value[T] {
	return Value[T]{state: StateNull}
}

func (v Value[T]) State() State { return v.state }

func (v Value[T]) IsPresent() bool { return v.state == StatePresent }

func (v Value[T]) IsMissing() bool { return v.state == StateMissing }

func (v Value[T]) IsNull() bool { return v.state == StateNull }

// Get returns the wrapped value and whether it is present.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.state == StatePresent
}

// OrElse returns the wrapped value when present, otherwise fallback.
func (v Value[T]) OrElse(fallback T) T {
	if v.state == StatePresent {
		return v.value
	}
	return fallback
}

// Any erases the type parameter while keeping the state tag.
func (v Value[T]) Any() Value[any] {
	if v.state != StatePresent {
		return Value[any]{state: v.state}
	}
	return Value[any]{state: StatePresent, value: v.value}
}

func (v Value[T]) String() string {
	if v.state != StatePresent {
		return "<" + v.state.String() + ">"
	}
	return fmt.Sprint(v.value)
}

// As narrows an erased value back to T. A present value of the wrong type
// resolves to Missing.
func As[T any](v Value[any]) Value[T] {
	switch v.state {
	case StateNull:
		return Null[T]()
	case StatePresent:
		typed, ok := v.value.(T)
		if !ok {
			return Missing[T]()
		}
		return Some(typed)
	default:
		return Missing[T]()
	}
}
