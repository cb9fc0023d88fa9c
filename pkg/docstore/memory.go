package docstore

import (
	"context"
	"reflect"
	"sort"
	"sync"
)

// MemoryStore keeps documents in process memory. It backs local runs
// without a database and serves as the storage fake in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]Document)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, key string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	return normalize(doc)
}

func (s *MemoryStore) Set(ctx context.Context, collection, key string, doc Document, mode WriteMode) error {
	clean, err := normalize(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.data[collection]
	if !ok {
		coll = make(map[string]Document)
		s.data[collection] = coll
	}
	if existing, ok := coll[key]; ok && mode == Merge {
		coll[key] = MergeFields(existing, clean)
		return nil
	}
	coll[key] = clean
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[collection], key)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection, field string, value any) ([]Snapshot, error) {
	want, err := normalize(Document{"v": value})
	if err != nil {
		return nil, err
	}
	all, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	var out []Snapshot
	for _, snap := range all {
		if reflect.DeepEqual(snap.Data[field], want["v"]) {
			out = append(out, snap)
		}
	}
	return out, nil
}

// List returns the collection ordered by key.
func (s *MemoryStore) List(ctx context.Context, collection string) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data[collection]))
	for k := range s.data[collection] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Snapshot, 0, len(keys))
	for _, k := range keys {
		doc, err := normalize(s.data[collection][k])
		if err != nil {
			return nil, err
		}
		out = append(out, Snapshot{Key: k, Data: doc})
	}
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }
