// Package docstore is a small key/document store abstraction with MongoDB,
// PostgreSQL (JSONB) and in-memory drivers.
//
// Documents are plain JSON-shaped values: map[string]any, []any, string,
// float64, bool and nil. Every driver returns documents in that shape
// regardless of how it stores them.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("docstore: document not found")

// Document is a stored JSON object.
type Document map[string]any

// Snapshot is a document together with its key.
type Snapshot struct {
	Key  string
	Data Document
}

// WriteMode selects how Set treats an existing document.
type WriteMode int

const (
	// Replace overwrites the whole document.
	Replace WriteMode = iota
	// Merge replaces the top-level fields given and keeps the others.
	Merge
)

// Store is implemented by every driver.
type Store interface {
	Get(ctx context.Context, collection, key string) (Document, error)
	Set(ctx context.Context, collection, key string, doc Document, mode WriteMode) error
	// Delete succeeds when the document does not exist.
	Delete(ctx context.Context, collection, key string) error
	// Query returns documents whose top-level field equals value.
	Query(ctx context.Context, collection, field string, value any) ([]Snapshot, error)
	List(ctx context.Context, collection string) ([]Snapshot, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// normalize round-trips v through JSON so callers always see the same Go
// types no matter which driver produced the value.
func normalize(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode document: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("docstore: decode document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// MergeFields writes each top-level field of src into dst, replacing what
// was there. Fields absent from src are kept. Nested values are never merged
// below the top level, so a field is always stored as one whole value no
// matter what shape the old value had.
func MergeFields(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
