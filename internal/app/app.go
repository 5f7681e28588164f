// Package app wires configuration, the document store and the entity services
// shared by the server and the command line tools.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/configs"
	"github.com/aicuratorhub/curatorhub-admin/internal/config"
	"github.com/aicuratorhub/curatorhub-admin/internal/core"
	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/internal/firebase"
	"github.com/aicuratorhub/curatorhub-admin/pkg/cache"
	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

// App holds the wired services and the resources to release on shutdown.
type App struct {
	Config   *config.Config
	Store    database.DocumentStore
	Services *core.Services

	provider *firebase.ClientProvider
	logger   *zap.Logger
}

// Option adjusts how New builds the App.
type Option func(*options)

type options struct {
	store   database.DocumentStore
	factory firebase.ClientFactory
}

// WithStore uses store instead of the configured backend.
func WithStore(store database.DocumentStore) Option {
	return func(o *options) { o.store = store }
}

// WithClientFactory replaces the Firestore client factory of the firestore backend.
func WithClientFactory(factory firebase.ClientFactory) Option {
	return func(o *options) { o.factory = factory }
}

// New builds the store, resolves the collection topology and creates the services.
// Topology probe failures are logged and leave the configured order in place.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Store: o.store, logger: logger}
	if a.Store == nil {
		switch cfg.StoreBackend {
		case config.BackendMemory:
			logger.Warn("Using the in-memory store; data is lost on exit")
			a.Store = database.NewMemoryStore()
		default:
			a.provider = firebase.NewClientProvider(logger, cfg.FirebaseProjectID, o.factory, firebase.SourcesFromConfig(cfg)...)
			a.Store = database.NewFirestoreService(a.provider)
		}
	}

	collections, err := configs.LoadCollections(cfg.CollectionsFile)
	if err != nil {
		return nil, err
	}
	if collections.Source == "" {
		logger.Info("Using built-in collection topology")
	} else {
		logger.Info("Collection topology loaded", zap.String("file", collections.Source))
	}
	topology, err := db.NewTopology(collections, logger)
	if err != nil {
		return nil, fmt.Errorf("collection topology: %w", err)
	}
	if cfg.ProbeTopology {
		if err := topology.Probe(ctx, a.Store); err != nil {
			logger.Warn("Topology probe incomplete; keeping configured order", zap.Error(err))
		}
	}

	a.Services, err = core.NewServices(a.Store, topology, cache.NewRegistry(), logger, core.Settings{
		ListTTL:  cfg.CacheListTTL,
		ItemTTL:  cfg.CacheItemTTL,
		Actor:    cfg.AdminActor,
		Location: cfg.Location(),
	})
	if err != nil {
		return nil, err
	}
	a.Services.ApplyTopology()
	return a, nil
}

// Provider returns the Firestore client provider, nil for other backends.
func (a *App) Provider() *firebase.ClientProvider {
	return a.provider
}

// Close stops cache expiry and releases the Firestore client.
func (a *App) Close() error {
	a.Services.Registry.Stop()
	if a.provider == nil {
		return nil
	}
	if err := a.provider.Close(); err != nil {
		a.logger.Error("Failed to close Firestore client", zap.Error(err))
		return err
	}
	return nil
}
