package models

import "encoding/json"

// Field is a presence-flagged optional value for sparse patch payloads.
// Set reports whether the key appeared in the JSON at all; Valid whether it
// carried a non-null value. This keeps "absent" and "explicitly null"
// distinct, which plain pointers cannot.
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}
