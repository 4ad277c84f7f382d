package request

import (
	"bytes"
	"encoding/json"
)

// Optional records whether a JSON field was present and whether it was null.
// Absent: Set=false. Explicit null: Set=true, Null=true.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Set: true}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns nil for an absent or null field
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	value := o.Value
	return &value
}

// validationValue exposes the present value to validator tags, nil otherwise
func (o Optional[T]) validationValue() any {
	if !o.Set || o.Null {
		return nil
	}
	return o.Value
}
