// Package filter turns a declarative field-to-behavior mapping into filter
// expressions derived from query state.
//
// A Selector binds a codec and a nullability policy. Its behaviors (Equal, In,
// Range) return Generators, which produce a Definition for a field key. A
// Definition couples the codec schema it reads with a pure Transform from a
// decoded snapshot to expressions. Combine, Apply and Derive merge and run
// definitions against a single snapshot.
package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Operator is the comparison emitted by a filter expression.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpGreater      Operator = ">"
	OpLessEqual    Operator = "<="
	OpGreaterEqual Operator = ">="
)

// Valid reports whether op is one of the six supported operators.
func (op Operator) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpGreater, OpLessEqual, OpGreaterEqual:
		return true
	default:
		return false
	}
}

// Expression is a (field, operator, value) triple. A nil Value stands for
// null.
type Expression struct {
	Field string
	Op    Operator
	Value any
}

// MarshalJSON writes the expression as a three element array. Operators are
// written unescaped; an enclosing encoder may still escape them unless it
// disables HTML escaping.
func (e Expression) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([3]any{e.Field, e.Op, e.Value}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON reads the three element array form.
func (e *Expression) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("filter: expression: %w", err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("filter: expression: expected 3 elements, got %d", len(parts))
	}
	var out Expression
	if err := json.Unmarshal(parts[0], &out.Field); err != nil {
		return fmt.Errorf("filter: expression field: %w", err)
	}
	if err := json.Unmarshal(parts[1], &out.Op); err != nil {
		return fmt.Errorf("filter: expression operator: %w", err)
	}
	if !out.Op.Valid() {
		return fmt.Errorf("filter: unsupported operator %q", out.Op)
	}
	if err := json.Unmarshal(parts[2], &out.Value); err != nil {
		return fmt.Errorf("filter: expression value: %w", err)
	}
	*e = out
	return nil
}

func (e Expression) String() string {
	if e.Value == nil {
		return fmt.Sprintf("%s %s null", e.Field, e.Op)
	}
	return fmt.Sprintf("%s %s %v", e.Field, e.Op, e.Value)
}
