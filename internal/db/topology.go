package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/configs"
	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

// Resolution is the probe result for one entity.
type Resolution struct {
	Entity    string                    `json:"entity"`
	Locations []database.CollectionPath `json:"locations"`
	Resolved  database.CollectionPath   `json:"resolved,omitempty"`
	Probed    bool                      `json:"probed"`
}

// Topology maps each entity to its ordered candidate locations. Probe
// resolves multi-location entities once so the populated location is tried first.
type Topology struct {
	mu       sync.RWMutex
	entities map[string]configs.Entity
	order    map[string][]database.CollectionPath
	resolved map[string]database.CollectionPath
	probed   bool
	logger   *zap.Logger
}

// NewTopology validates the collections table.
func NewTopology(cfg *configs.Collections, logger *zap.Logger) (*Topology, error) {
	t := &Topology{
		entities: map[string]configs.Entity{},
		order:    map[string][]database.CollectionPath{},
		resolved: map[string]database.CollectionPath{},
		logger:   logger,
	}
	for name, entity := range cfg.Entities {
		if len(entity.Locations) == 0 {
			return nil, fmt.Errorf("%w: entity %q has no locations", ErrInvalidInput, name)
		}
		paths := make([]database.CollectionPath, 0, len(entity.Locations))
		for _, loc := range entity.Locations {
			p := database.CollectionPath(loc)
			if !p.Valid() {
				return nil, fmt.Errorf("entity %q: %w: %q", name, database.ErrInvalidPath, loc)
			}
			paths = append(paths, p)
		}
		t.entities[name] = entity
		t.order[name] = paths
	}
	return t, nil
}

// Locations returns the entity's candidates in current priority order.
func (t *Topology) Locations(entity string) []database.CollectionPath {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]database.CollectionPath(nil), t.order[entity]...)
}

// Resolved returns the location the probe found populated.
func (t *Topology) Resolved(entity string) (database.CollectionPath, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.resolved[entity]
	return p, ok
}

// Options builds accessor options for entity. Zero TTLs in the table fall back
// to the given defaults.
func (t *Topology) Options(entity string, listTTL, itemTTL time.Duration) (Options, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entities[entity]
	if !ok {
		return Options{}, fmt.Errorf("%w: unknown entity %q", ErrInvalidInput, entity)
	}
	opts := Options{
		Entity:         entity,
		IDField:        e.IDField,
		Locations:      append([]database.CollectionPath(nil), t.order[entity]...),
		ListTTL:        listTTL,
		ItemTTL:        itemTTL,
		Subcollections: append([]string(nil), e.Subcollections...),
	}
	if e.ListTTL > 0 {
		opts.ListTTL = e.ListTTL
	}
	if e.ItemTTL > 0 {
		opts.ItemTTL = e.ItemTTL
	}
	return opts, nil
}

// Probe checks every multi-location entity once and promotes the first
// populated candidate to the front. Store failures leave the configured order
// untouched and are returned together.
func (t *Topology) Probe(ctx context.Context, store database.DocumentStore) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs *multierror.Error
	for _, name := range t.namesLocked() {
		candidates := t.order[name]
		if len(candidates) < 2 {
			continue
		}
		for i, loc := range candidates {
			ok, err := store.Probe(ctx, loc)
			if err != nil {
				t.logger.Warn("Topology probe failed", zap.String("entity", name), zap.String("location", loc.String()), zap.Error(err))
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", loc, err))
				break
			}
			if !ok {
				continue
			}
			reordered := make([]database.CollectionPath, 0, len(candidates))
			reordered = append(reordered, loc)
			reordered = append(reordered, candidates[:i]...)
			reordered = append(reordered, candidates[i+1:]...)
			t.order[name] = reordered
			t.resolved[name] = loc
			t.logger.Info("Topology resolved", zap.String("entity", name), zap.String("location", loc.String()))
			break
		}
	}
	t.probed = true
	return errs.ErrorOrNil()
}

// Apply pushes the current order into accessors built before the probe.
func (t *Topology) Apply(accessors ...*Accessor) {
	for _, a := range accessors {
		if locs := t.Locations(a.Entity()); len(locs) > 0 {
			a.setLocations(locs)
		}
	}
}

// Snapshot reports every entity's order and probe result.
func (t *Topology) Snapshot() []Resolution {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Resolution, 0, len(t.order))
	for _, name := range t.namesLocked() {
		out = append(out, Resolution{
			Entity:    name,
			Locations: append([]database.CollectionPath(nil), t.order[name]...),
			Resolved:  t.resolved[name],
			Probed:    t.probed,
		})
	}
	return out
}

func (t *Topology) namesLocked() []string {
	names := make([]string, 0, len(t.order))
	for name := range t.order {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
