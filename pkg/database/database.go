package database

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a document does not exist at the requested location.
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable is returned when the store has no usable client.
	ErrUnavailable = errors.New("document store unavailable")
	// ErrInvalidPath is returned for collection paths the store cannot address.
	ErrInvalidPath = errors.New("invalid collection path")
	// ErrAlreadyExists is returned when a create-only write hits an existing document.
	ErrAlreadyExists = errors.New("document already exists")
)

type serverTimestamp struct{}

// ServerTimestamp is a field value that the store replaces with its own write time.
var ServerTimestamp = serverTimestamp{}

// CollectionPath addresses a collection, either top-level ("ai-tools") or nested
// under a document ("applications/tool-registrations/requests").
type CollectionPath string

// Segments returns the slash separated parts of the path.
func (p CollectionPath) Segments() []string {
	return strings.Split(string(p), "/")
}

// Valid reports whether the path names a collection: an odd number of non-empty segments.
func (p CollectionPath) Valid() bool {
	if p == "" {
		return false
	}
	segs := p.Segments()
	if len(segs)%2 == 0 {
		return false
	}
	for _, s := range segs {
		if s == "" {
			return false
		}
	}
	return true
}

// Sub returns the path of the named sub-collection of document docID.
func (p CollectionPath) Sub(docID, name string) CollectionPath {
	return CollectionPath(string(p) + "/" + docID + "/" + name)
}

func (p CollectionPath) String() string { return string(p) }

// Document is a schema-less record inside a collection.
type Document struct {
	ID   string         `json:"id"`
	Path CollectionPath `json:"path"`
	Data map[string]any `json:"data"`
}

// Fields returns a copy of the document data with the document id stored under idField.
func (d Document) Fields(idField string) map[string]any {
	out := make(map[string]any, len(d.Data)+1)
	for k, v := range d.Data {
		out[k] = v
	}
	if idField != "" {
		out[idField] = d.ID
	}
	return out
}

// String returns the field value as a string, or "" when absent or not a string.
func (d Document) String(field string) string {
	s, _ := d.Data[field].(string)
	return s
}

// DocumentStore defines the document database operations used by the accessors.
// Implementations must return ErrNotFound from Get, Update and Delete when the
// document is missing, and ErrUnavailable when no client can be obtained.
type DocumentStore interface {
	List(ctx context.Context, path CollectionPath) ([]Document, error)
	Query(ctx context.Context, path CollectionPath, field string, value any) ([]Document, error)
	// Probe reports whether the collection holds at least one document.
	Probe(ctx context.Context, path CollectionPath) (bool, error)
	Get(ctx context.Context, path CollectionPath, id string) (Document, error)
	// Set creates or overwrites the document.
	Set(ctx context.Context, path CollectionPath, id string, data map[string]any) error
	// Merge writes the given fields, creating the document when needed.
	Merge(ctx context.Context, path CollectionPath, id string, data map[string]any) error
	// Update patches an existing document.
	Update(ctx context.Context, path CollectionPath, id string, patch map[string]any) error
	Delete(ctx context.Context, path CollectionPath, id string) error
}
