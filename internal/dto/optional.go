package dto

import "encoding/json"

// Optional distinguishes "absent" from "explicitly null" in PATCH
// payloads. Set is true whenever the key appeared in the JSON body;
// Value holds whatever was decoded, so a pointer-typed T stays nil for
// an explicit null.
type Optional[T any] struct {
	Set   bool
	Value T
}

// UnmarshalJSON marks the field present and decodes into Value.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON round-trips the wrapped value.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}
