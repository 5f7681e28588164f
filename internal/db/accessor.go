package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/pkg/cache"
	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

const (
	DefaultListTTL = 300 * time.Second
	DefaultItemTTL = 60 * time.Second

	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"

	allKey = "all"
)

// Options configures an Accessor for one entity type.
type Options struct {
	Entity  string
	IDField string
	// Locations are candidate collections in priority order; creates go to the first.
	Locations []database.CollectionPath
	ListTTL   time.Duration
	ItemTTL   time.Duration
	// Subcollections owned by each document, deleted before the document itself.
	Subcollections []string
	// Stamp adds entity specific bookkeeping fields to every write.
	Stamp func(data map[string]any, created bool)
}

// Accessor is the cached, multi-location data access for one entity type.
type Accessor struct {
	opts     Options
	store    database.DocumentStore
	registry *cache.Registry
	logger   *zap.Logger

	mu        sync.RWMutex
	locations []database.CollectionPath

	all     *cache.TTL[string, []Record]
	byID    *cache.TTL[string, Record]
	names   []string
	cascade *Cascade
}

// NewAccessor creates an Accessor and registers its caches as "<entity>.all" and "<entity>.byId".
func NewAccessor(store database.DocumentStore, registry *cache.Registry, logger *zap.Logger, opts Options) (*Accessor, error) {
	if opts.Entity == "" {
		return nil, fmt.Errorf("%w: entity name is required", ErrInvalidInput)
	}
	if len(opts.Locations) == 0 {
		return nil, fmt.Errorf("%w: entity %q has no locations", ErrInvalidInput, opts.Entity)
	}
	for _, loc := range opts.Locations {
		if !loc.Valid() {
			return nil, fmt.Errorf("entity %q: %w: %q", opts.Entity, database.ErrInvalidPath, loc)
		}
	}
	if opts.IDField == "" {
		opts.IDField = "id"
	}
	if opts.ListTTL <= 0 {
		opts.ListTTL = DefaultListTTL
	}
	if opts.ItemTTL <= 0 {
		opts.ItemTTL = DefaultItemTTL
	}
	if registry == nil {
		registry = cache.NewRegistry()
	}

	a := &Accessor{
		opts:      opts,
		store:     store,
		registry:  registry,
		logger:    logger.With(zap.String("entity", opts.Entity)),
		locations: append([]database.CollectionPath(nil), opts.Locations...),
		all:       cache.NewTTL[string, []Record](opts.ListTTL),
		byID:      cache.NewTTL[string, Record](opts.ItemTTL),
		names:     []string{opts.Entity + ".all", opts.Entity + ".byId"},
	}
	if err := registry.Register(a.names[0], a.all); err != nil {
		return nil, err
	}
	if err := registry.Register(a.names[1], a.byID); err != nil {
		return nil, err
	}
	if len(opts.Subcollections) > 0 {
		a.cascade = NewCascade(store, opts.Subcollections, logger)
	}
	return a, nil
}

func (a *Accessor) Entity() string  { return a.opts.Entity }
func (a *Accessor) IDField() string { return a.opts.IDField }

// CacheNames returns the registry names of this accessor's caches.
func (a *Accessor) CacheNames() []string {
	return append([]string(nil), a.names...)
}

// Locations returns the candidate collections in their current priority order.
func (a *Accessor) Locations() []database.CollectionPath {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]database.CollectionPath(nil), a.locations...)
}

// Primary returns the collection that receives creates.
func (a *Accessor) Primary() database.CollectionPath {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.locations[0]
}

// Cascade returns the sub-collection delete saga, or nil when the entity owns none.
func (a *Accessor) Cascade() *Cascade {
	return a.cascade
}

func (a *Accessor) record(doc database.Document) Record {
	return Record(doc.Fields(a.opts.IDField))
}

// GetAll returns the union of every candidate location, de-duplicated by id with
// the earlier location winning. Only complete reads are cached. When every
// location fails the result is empty and the error says why.
func (a *Accessor) GetAll(ctx context.Context) ([]Record, error) {
	if cached, ok := a.all.Get(allKey); ok {
		return cloneRecords(cached), nil
	}

	locations := a.Locations()
	records := make([]Record, 0)
	seen := map[string]bool{}
	var errs *multierror.Error
	for _, loc := range locations {
		docs, err := a.store.List(ctx, loc)
		if err != nil {
			a.logger.Warn("Failed to list collection", zap.String("location", loc.String()), zap.Error(err))
			errs = multierror.Append(errs, err)
			continue
		}
		for _, doc := range docs {
			if seen[doc.ID] {
				continue
			}
			seen[doc.ID] = true
			records = append(records, a.record(doc))
		}
	}

	switch {
	case errs == nil:
		a.all.Set(allKey, records)
		return cloneRecords(records), nil
	case len(errs.Errors) == len(locations):
		a.logger.Error("All locations failed; returning empty list", zap.Error(errs))
		return []Record{}, fmt.Errorf("list %s: %w", a.opts.Entity, errs)
	default:
		return records, nil
	}
}

// GetByID returns the document from the first location that holds it.
// Misses are not cached.
func (a *Accessor) GetByID(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty %s id", ErrInvalidInput, a.opts.Entity)
	}
	if cached, ok := a.byID.Get(id); ok {
		return cached.Clone(), nil
	}

	var out outcome
	for _, loc := range a.Locations() {
		doc, err := a.store.Get(ctx, loc, id)
		if err != nil {
			out.add(a.logger, "get", loc, id, err)
			continue
		}
		rec := a.record(doc)
		a.byID.Set(id, rec)
		return rec.Clone(), nil
	}
	return nil, out.err(a.opts.Entity, id)
}

// Find returns the documents whose field equals value across all locations.
// Results are not cached.
func (a *Accessor) Find(ctx context.Context, field string, value any) ([]Record, error) {
	locations := a.Locations()
	records := make([]Record, 0)
	seen := map[string]bool{}
	var errs *multierror.Error
	for _, loc := range locations {
		docs, err := a.store.Query(ctx, loc, field, value)
		if err != nil {
			a.logger.Warn("Failed to query collection", zap.String("location", loc.String()), zap.String("field", field), zap.Error(err))
			errs = multierror.Append(errs, err)
			continue
		}
		for _, doc := range docs {
			if !seen[doc.ID] {
				seen[doc.ID] = true
				records = append(records, a.record(doc))
			}
		}
	}
	if errs != nil && len(errs.Errors) == len(locations) {
		return []Record{}, fmt.Errorf("query %s.%s: %w", a.opts.Entity, field, errs)
	}
	return records, nil
}

// ListSub reads a sub-collection of document id at the primary location.
func (a *Accessor) ListSub(ctx context.Context, id, name string) ([]Record, error) {
	if id == "" || name == "" {
		return []Record{}, fmt.Errorf("%w: empty id or sub-collection", ErrInvalidInput)
	}
	path := a.Primary().Sub(id, name)
	docs, err := a.store.List(ctx, path)
	if err != nil {
		a.logger.Warn("Failed to list sub-collection", zap.String("location", path.String()), zap.String("id", id), zap.Error(err))
		return []Record{}, fmt.Errorf("list %s: %w", path, err)
	}
	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, Record(doc.Fields("id")))
	}
	return records, nil
}

// Create writes a new document at the primary location and returns its id.
// An empty id gets a generated one.
func (a *Accessor) Create(ctx context.Context, id string, data map[string]any) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	payload := a.prepare(data, true)
	loc := a.Primary()
	if err := a.store.Set(ctx, loc, id, payload); err != nil {
		a.logger.Error("Failed to create document", zap.String("location", loc.String()), zap.String("id", id), zap.Error(err))
		return "", fmt.Errorf("create %s %q: %w", a.opts.Entity, id, err)
	}
	a.Invalidate()
	return id, nil
}

// Update patches the document at the first location that accepts the write.
func (a *Accessor) Update(ctx context.Context, id string, patch map[string]any) error {
	if id == "" {
		return fmt.Errorf("%w: empty %s id", ErrInvalidInput, a.opts.Entity)
	}
	payload := a.prepare(patch, false)

	var out outcome
	for _, loc := range a.Locations() {
		if err := a.store.Update(ctx, loc, id, payload); err != nil {
			out.add(a.logger, "update", loc, id, err)
			continue
		}
		a.Invalidate()
		return nil
	}
	return out.err(a.opts.Entity, id)
}

// Merge writes the given fields at the primary location, creating the document when missing.
func (a *Accessor) Merge(ctx context.Context, id string, data map[string]any) error {
	if id == "" {
		return fmt.Errorf("%w: empty %s id", ErrInvalidInput, a.opts.Entity)
	}
	loc := a.Primary()
	if err := a.store.Merge(ctx, loc, id, a.prepare(data, false)); err != nil {
		a.logger.Error("Failed to merge document", zap.String("location", loc.String()), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("merge %s %q: %w", a.opts.Entity, id, err)
	}
	a.Invalidate()
	return nil
}

// Delete removes the document from the first location that holds it. Owned
// sub-collections are emptied first.
func (a *Accessor) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty %s id", ErrInvalidInput, a.opts.Entity)
	}

	var out outcome
	for _, loc := range a.Locations() {
		var err error
		if a.cascade != nil {
			err = a.cascade.Delete(ctx, loc, id)
		} else {
			err = a.store.Delete(ctx, loc, id)
		}
		if err != nil {
			out.add(a.logger, "delete", loc, id, err)
			continue
		}
		a.Invalidate()
		return nil
	}
	return out.err(a.opts.Entity, id)
}

// Invalidate clears this entity's list and item caches.
func (a *Accessor) Invalidate() {
	a.registry.Clear(a.names...)
}

func (a *Accessor) prepare(data map[string]any, created bool) map[string]any {
	payload := make(map[string]any, len(data)+2)
	for k, v := range data {
		payload[k] = v
	}
	delete(payload, a.opts.IDField)
	if created {
		payload[FieldCreatedAt] = database.ServerTimestamp
	}
	payload[FieldUpdatedAt] = database.ServerTimestamp
	if a.opts.Stamp != nil {
		a.opts.Stamp(payload, created)
	}
	return payload
}

// setLocations replaces the candidate order, used by the topology probe.
func (a *Accessor) setLocations(locations []database.CollectionPath) {
	a.mu.Lock()
	a.locations = append([]database.CollectionPath(nil), locations...)
	a.mu.Unlock()
	a.Invalidate()
}

// outcome collects per-location failures of a multi-location operation.
type outcome struct {
	errs *multierror.Error
}

func (o *outcome) add(logger *zap.Logger, op string, loc database.CollectionPath, id string, err error) {
	if errors.Is(err, ErrNotFound) {
		return
	}
	logger.Warn("Location rejected "+op, zap.String("location", loc.String()), zap.String("id", id), zap.Error(err))
	o.errs = multierror.Append(o.errs, err)
}

// err is ErrNotFound when every location simply lacked the document.
func (o *outcome) err(entity, id string) error {
	if o.errs != nil {
		return fmt.Errorf("%s %q: %w", entity, id, o.errs)
	}
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}
