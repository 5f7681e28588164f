package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

// Journal records which sub-collections of a parent document have been fully
// deleted, so an interrupted cascade resumes where it stopped.
type Journal struct {
	mu       sync.Mutex
	progress map[string]map[string]bool
}

func NewJournal() *Journal {
	return &Journal{progress: map[string]map[string]bool{}}
}

func (j *Journal) done(key, sub string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.progress[key][sub]
}

func (j *Journal) mark(key, sub string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.progress[key] == nil {
		j.progress[key] = map[string]bool{}
	}
	j.progress[key][sub] = true
}

func (j *Journal) forget(key string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.progress, key)
}

// Finished returns the sub-collections already emptied for key.
func (j *Journal) Finished(key string) []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	subs := make([]string, 0, len(j.progress[key]))
	for sub := range j.progress[key] {
		subs = append(subs, sub)
	}
	sort.Strings(subs)
	return subs
}

// Pending lists the parents whose cascade started but did not finish.
func (j *Journal) Pending() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	keys := make([]string, 0, len(j.progress))
	for k := range j.progress {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Cascade deletes a document together with its owned sub-collections:
// every child first, in sub-collection order, then the parent.
type Cascade struct {
	store          database.DocumentStore
	subcollections []string
	journal        *Journal
	logger         *zap.Logger
}

func NewCascade(store database.DocumentStore, subcollections []string, logger *zap.Logger) *Cascade {
	return &Cascade{
		store:          store,
		subcollections: append([]string(nil), subcollections...),
		journal:        NewJournal(),
		logger:         logger,
	}
}

func (c *Cascade) Journal() *Journal { return c.journal }

// JournalKey identifies a parent document in the journal.
func JournalKey(parent database.CollectionPath, id string) string {
	return parent.String() + "/" + id
}

// Delete runs the saga for parent/id. A failure leaves the parent in place and
// keeps the journal entry; calling Delete again resumes at the first
// unfinished sub-collection.
func (c *Cascade) Delete(ctx context.Context, parent database.CollectionPath, id string) error {
	key := JournalKey(parent, id)

	for _, sub := range c.subcollections {
		if c.journal.done(key, sub) {
			continue
		}
		path := parent.Sub(id, sub)
		docs, err := c.store.List(ctx, path)
		if err != nil {
			return fmt.Errorf("list %s: %w", path, err)
		}
		for _, doc := range docs {
			if err := c.store.Delete(ctx, path, doc.ID); err != nil && !errors.Is(err, database.ErrNotFound) {
				c.logger.Error("Cascade stopped; parent kept",
					zap.String("location", path.String()),
					zap.String("id", doc.ID),
					zap.String("parent", key),
					zap.Error(err))
				return fmt.Errorf("delete %s/%s: %w", path, doc.ID, err)
			}
		}
		c.journal.mark(key, sub)
	}

	if err := c.store.Delete(ctx, parent, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.journal.forget(key)
		}
		return err
	}
	c.journal.forget(key)
	return nil
}
