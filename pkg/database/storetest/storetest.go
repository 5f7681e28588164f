// Package storetest provides a DocumentStore wrapper that records calls and
// injects failures, for tests of code built on pkg/database.
package storetest

import (
	"context"
	"sync"

	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

// Operation names used by Call and Fault.
const (
	OpList   = "list"
	OpQuery  = "query"
	OpProbe  = "probe"
	OpGet    = "get"
	OpSet    = "set"
	OpMerge  = "merge"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Call is one recorded store operation.
type Call struct {
	Op   string
	Path database.CollectionPath
	ID   string
}

type fault struct {
	op    string
	path  database.CollectionPath
	after int
	seen  int
	err   error
}

// Store wraps a DocumentStore. Every call is recorded before the fault check,
// so failed attempts are counted too.
type Store struct {
	inner database.DocumentStore

	mu     sync.Mutex
	calls  []Call
	faults []*fault
}

// Wrap returns a Store over inner, or over a fresh MemoryStore when inner is nil.
func Wrap(inner database.DocumentStore) *Store {
	if inner == nil {
		inner = database.NewMemoryStore()
	}
	return &Store{inner: inner}
}

// Fail makes every op on path return err.
func (s *Store) Fail(op string, path database.CollectionPath, err error) {
	s.FailAfter(op, path, 0, err)
}

// FailAfter lets n calls of op on path through, then returns err.
func (s *Store) FailAfter(op string, path database.CollectionPath, n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, &fault{op: op, path: path, after: n, err: err})
}

// Heal removes every injected fault.
func (s *Store) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = nil
}

// Calls returns the recorded calls in order.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Count returns how many times op was called on path.
func (s *Store) Count(op string, path database.CollectionPath) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Op == op && c.Path == path {
			n++
		}
	}
	return n
}

// Reset forgets the recorded calls.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Store) enter(op string, path database.CollectionPath, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: op, Path: path, ID: id})
	for _, f := range s.faults {
		if f.op != op || f.path != path {
			continue
		}
		f.seen++
		if f.seen > f.after {
			return f.err
		}
	}
	return nil
}

func (s *Store) List(ctx context.Context, path database.CollectionPath) ([]database.Document, error) {
	if err := s.enter(OpList, path, ""); err != nil {
		return nil, err
	}
	return s.inner.List(ctx, path)
}

func (s *Store) Query(ctx context.Context, path database.CollectionPath, field string, value any) ([]database.Document, error) {
	if err := s.enter(OpQuery, path, field); err != nil {
		return nil, err
	}
	return s.inner.Query(ctx, path, field, value)
}

func (s *Store) Probe(ctx context.Context, path database.CollectionPath) (bool, error) {
	if err := s.enter(OpProbe, path, ""); err != nil {
		return false, err
	}
	return s.inner.Probe(ctx, path)
}

func (s *Store) Get(ctx context.Context, path database.CollectionPath, id string) (database.Document, error) {
	if err := s.enter(OpGet, path, id); err != nil {
		return database.Document{}, err
	}
	return s.inner.Get(ctx, path, id)
}

func (s *Store) Set(ctx context.Context, path database.CollectionPath, id string, data map[string]any) error {
	if err := s.enter(OpSet, path, id); err != nil {
		return err
	}
	return s.inner.Set(ctx, path, id, data)
}

func (s *Store) Merge(ctx context.Context, path database.CollectionPath, id string, data map[string]any) error {
	if err := s.enter(OpMerge, path, id); err != nil {
		return err
	}
	return s.inner.Merge(ctx, path, id, data)
}

func (s *Store) Update(ctx context.Context, path database.CollectionPath, id string, patch map[string]any) error {
	if err := s.enter(OpUpdate, path, id); err != nil {
		return err
	}
	return s.inner.Update(ctx, path, id, patch)
}

func (s *Store) Delete(ctx context.Context, path database.CollectionPath, id string) error {
	if err := s.enter(OpDelete, path, id); err != nil {
		return err
	}
	return s.inner.Delete(ctx, path, id)
}
