package core

import (
	"bytes"
	"encoding/json"
)

// Optional is a tri-state field for merge-patch updates: a field can be
// omitted (leave the stored value unchanged), set to an explicit JSON null,
// or set to a value. json.Unmarshal only invokes UnmarshalJSON for keys
// present in the payload, which is what distinguishes omitted from provided.
// An explicit null is recorded so callers can reject it for fields whose
// type has no null representation; for pointer-typed T it decodes to nil.
type Optional[T any] struct {
	value T
	set   bool
	null  bool
}

// Set returns an Optional holding v.
func Set[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// IsSet reports whether the field was present in the payload.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// IsNull reports whether the field was an explicit JSON null.
func (o Optional[T]) IsNull() bool {
	return o.null
}

// Value returns the held value, or the zero value when unset.
func (o Optional[T]) Value() T {
	return o.value
}

// Get returns the held value and whether it was set. An explicit null
// yields the zero value with set true; callers that must distinguish it
// check IsNull.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	o.null = bytes.Equal(data, []byte("null"))
	if o.null {
		var zero T
		o.value = zero
		return nil
	}
	return json.Unmarshal(data, &o.value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
