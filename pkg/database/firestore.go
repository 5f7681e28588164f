package database

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClientSource hands out the shared Firestore client.
type ClientSource interface {
	Client(ctx context.Context) (*firestore.Client, error)
}

// ClientSourceFunc adapts a function to ClientSource.
type ClientSourceFunc func(ctx context.Context) (*firestore.Client, error)

func (f ClientSourceFunc) Client(ctx context.Context) (*firestore.Client, error) { return f(ctx) }

// FirestoreService implements DocumentStore on Cloud Firestore.
type FirestoreService struct {
	source ClientSource
}

// NewFirestoreService creates a FirestoreService. The client is requested from
// source on every call so an unresolved client degrades to ErrUnavailable.
func NewFirestoreService(source ClientSource) *FirestoreService {
	return &FirestoreService{source: source}
}

func (s *FirestoreService) collection(ctx context.Context, path CollectionPath) (*firestore.CollectionRef, error) {
	if !path.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	client, err := s.source.Client(ctx)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if client == nil {
		return nil, ErrUnavailable
	}
	coll := client.Collection(string(path))
	if coll == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return coll, nil
}

// classify maps Firestore gRPC errors onto the store errors.
func classify(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	case codes.Unavailable, codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func drain(iter *firestore.DocumentIterator, path CollectionPath) ([]Document, error) {
	defer iter.Stop()

	docs := make([]Document, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err)
		}
		docs = append(docs, Document{
			ID:   snap.Ref.ID,
			Path: path,
			Data: NormalizeMap(snap.Data()),
		})
	}
	return docs, nil
}

// List returns every document in the collection.
func (s *FirestoreService) List(ctx context.Context, path CollectionPath) ([]Document, error) {
	coll, err := s.collection(ctx, path)
	if err != nil {
		return nil, err
	}
	docs, err := drain(coll.Documents(ctx), path)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection '%s': %w", path, err)
	}
	return docs, nil
}

// Query returns the documents whose field equals value.
func (s *FirestoreService) Query(ctx context.Context, path CollectionPath, field string, value any) ([]Document, error) {
	coll, err := s.collection(ctx, path)
	if err != nil {
		return nil, err
	}
	docs, err := drain(coll.WherePath(firestore.FieldPath{field}, "==", value).Documents(ctx), path)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection '%s' on '%s': %w", path, field, err)
	}
	return docs, nil
}

// Probe reports whether the collection holds at least one document.
func (s *FirestoreService) Probe(ctx context.Context, path CollectionPath) (bool, error) {
	coll, err := s.collection(ctx, path)
	if err != nil {
		return false, err
	}
	iter := coll.Limit(1).Documents(ctx)
	defer iter.Stop()
	_, err = iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, classify(err)
	}
	return true, nil
}

// Get retrieves a single document.
func (s *FirestoreService) Get(ctx context.Context, path CollectionPath, id string) (Document, error) {
	coll, err := s.collection(ctx, path)
	if err != nil {
		return Document{}, err
	}
	snap, err := coll.Doc(id).Get(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("failed to get document '%s' from '%s': %w", id, path, classify(err))
	}
	return Document{ID: snap.Ref.ID, Path: path, Data: NormalizeMap(snap.Data())}, nil
}

// Set creates or overwrites a document.
func (s *FirestoreService) Set(ctx context.Context, path CollectionPath, id string, data map[string]any) error {
	coll, err := s.collection(ctx, path)
	if err != nil {
		return err
	}
	if _, err := coll.Doc(id).Set(ctx, toFirestore(data)); err != nil {
		return fmt.Errorf("failed to set document '%s' in '%s': %w", id, path, classify(err))
	}
	return nil
}

// Merge writes the given fields with MergeAll, creating the document when needed.
func (s *FirestoreService) Merge(ctx context.Context, path CollectionPath, id string, data map[string]any) error {
	coll, err := s.collection(ctx, path)
	if err != nil {
		return err
	}
	if _, err := coll.Doc(id).Set(ctx, toFirestore(data), firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to merge document '%s' in '%s': %w", id, path, classify(err))
	}
	return nil
}

// Update patches an existing document. Firestore rejects updates of missing
// documents with NotFound, which surfaces as ErrNotFound.
func (s *FirestoreService) Update(ctx context.Context, path CollectionPath, id string, patch map[string]any) error {
	coll, err := s.collection(ctx, path)
	if err != nil {
		return err
	}
	updates := make([]firestore.Update, 0, len(patch))
	for field, value := range toFirestore(patch) {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{field}, Value: value})
	}
	if _, err := coll.Doc(id).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update document '%s' in '%s': %w", id, path, classify(err))
	}
	return nil
}

// Delete removes an existing document. The Exists precondition makes deleting
// a missing document fail with ErrNotFound instead of silently succeeding.
func (s *FirestoreService) Delete(ctx context.Context, path CollectionPath, id string) error {
	coll, err := s.collection(ctx, path)
	if err != nil {
		return err
	}
	if _, err := coll.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return fmt.Errorf("failed to delete document '%s' from '%s': %w", id, path, classify(err))
	}
	return nil
}

func toFirestore(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}
