package database

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"
)

type memCollection struct {
	order []string
	docs  map[string]map[string]any
}

// MemoryStore is an in-process DocumentStore. Documents keep insertion order
// and every read returns a deep copy.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[CollectionPath]*memCollection
	nowFn       func() time.Time
}

// NewMemoryStore creates an empty MemoryStore stamping server timestamps with the wall clock.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: map[CollectionPath]*memCollection{},
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used to resolve ServerTimestamp.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = now
	return s
}

func (s *MemoryStore) check(ctx context.Context, path CollectionPath) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !path.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context, path CollectionPath) ([]Document, error) {
	if err := s.check(ctx, path); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0)
	coll, ok := s.collections[path]
	if !ok {
		return docs, nil
	}
	for _, id := range coll.order {
		docs = append(docs, Document{ID: id, Path: path, Data: CloneMap(coll.docs[id])})
	}
	return docs, nil
}

func (s *MemoryStore) Query(ctx context.Context, path CollectionPath, field string, value any) ([]Document, error) {
	all, err := s.List(ctx, path)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0)
	for _, d := range all {
		if v, ok := d.Data[field]; ok && reflect.DeepEqual(v, value) {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func (s *MemoryStore) Probe(ctx context.Context, path CollectionPath) (bool, error) {
	if err := s.check(ctx, path); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.collections[path]
	return ok && len(coll.order) > 0, nil
}

func (s *MemoryStore) Get(ctx context.Context, path CollectionPath, id string) (Document, error) {
	if err := s.check(ctx, path); err != nil {
		return Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.collections[path]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s/%s", ErrNotFound, path, id)
	}
	data, ok := coll.docs[id]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s/%s", ErrNotFound, path, id)
	}
	return Document{ID: id, Path: path, Data: CloneMap(data)}, nil
}

func (s *MemoryStore) Set(ctx context.Context, path CollectionPath, id string, data map[string]any) error {
	if err := s.check(ctx, path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(path, id, s.resolve(data))
	return nil
}

func (s *MemoryStore) Merge(ctx context.Context, path CollectionPath, id string, data map[string]any) error {
	if err := s.check(ctx, path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := map[string]any{}
	if coll, ok := s.collections[path]; ok {
		if existing, ok := coll.docs[id]; ok {
			merged = existing
		}
	}
	mergeInto(merged, s.resolve(data))
	s.put(path, id, merged)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path CollectionPath, id string, patch map[string]any) error {
	if err := s.check(ctx, path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[path]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, path, id)
	}
	existing, ok := coll.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, path, id)
	}
	for k, v := range s.resolve(patch) {
		existing[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, path CollectionPath, id string) error {
	if err := s.check(ctx, path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[path]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, path, id)
	}
	if _, ok := coll.docs[id]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, path, id)
	}
	delete(coll.docs, id)
	for i, existing := range coll.order {
		if existing == id {
			coll.order = append(coll.order[:i], coll.order[i+1:]...)
			break
		}
	}
	return nil
}

// put stores data under id. Callers must hold the write lock.
func (s *MemoryStore) put(path CollectionPath, id string, data map[string]any) {
	coll, ok := s.collections[path]
	if !ok {
		coll = &memCollection{docs: map[string]map[string]any{}}
		s.collections[path] = coll
	}
	if _, exists := coll.docs[id]; !exists {
		coll.order = append(coll.order, id)
	}
	coll.docs[id] = data
}

// resolve deep-copies data and replaces ServerTimestamp with the store clock.
func (s *MemoryStore) resolve(data map[string]any) map[string]any {
	now := s.nowFn().UTC().Format(time.RFC3339Nano)
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now
			continue
		}
		out[k] = cloneValue(Normalize(v))
	}
	return out
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeInto(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

// CloneMap deep-copies nested maps and slices of m.
func CloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}
