package dto

import (
	"bytes"
	"encoding/json"
)

// OptionalInt64 is a tri-state JSON field: absent, explicit null, or a value.
// A plain pointer cannot tell "omitted" from "set to null", which matters for
// partial updates where null means "clear the room assignment".
type OptionalInt64 struct {
	// Set is true when the key was present in the request body at all.
	Set bool
	// Valid is true when a non-null value was provided.
	Valid bool
	Value int64
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked for keys that
// are present in the payload, which is what makes the presence bit reliable.
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler
func (o OptionalInt64) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns the value as a nullable pointer, nil when null or absent.
func (o OptionalInt64) Ptr() *int64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
