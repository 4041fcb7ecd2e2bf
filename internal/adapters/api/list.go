package api

import (
	"bytes"
	"encoding/json"
)

// List is a sequence of T however the server transports it.
// The server may send a bare JSON array or an {"items": [...]} envelope; both decode
// to the same value here so callers never branch on the wire shape.
type List[T any] struct {
	Items []T `json:"items"`
}

// UnmarshalJSON accepts a bare array, an {"items": [...]} envelope, or null.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		l.Items = nil
	case data[0] == '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		l.Items = items
	default:
		var envelope struct {
			Items []T `json:"items"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return err
		}
		l.Items = envelope.Items
	}
	if l.Items == nil {
		l.Items = []T{}
	}
	return nil
}
