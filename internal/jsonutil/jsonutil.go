// Package jsonutil provides shared helpers for decoding API payloads:
// contextual error wrapping and typed array decoding.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v any, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// Decode reads a single JSON document from r into v.
// An empty body is reported as an error rather than io.EOF.
func Decode(r io.Reader, v any, context string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%s: reading body: %w", context, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%s: empty body", context)
	}
	return UnmarshalWithContext(data, v, context)
}

// DecodeArray decodes a JSON array from r. A JSON null yields an empty,
// non-nil slice so callers can range and len without nil checks.
func DecodeArray[T any](r io.Reader, context string) ([]T, error) {
	var entries []T
	if err := Decode(r, &entries, context); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []T{}
	}
	return entries, nil
}

// Encode marshals v for use as a request body.
func Encode(v any, context string) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", context, err)
	}
	return b, nil
}
