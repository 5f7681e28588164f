package core

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/configs"
	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/pkg/cache"
	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

// Settings tune the services built by NewServices.
type Settings struct {
	ListTTL time.Duration
	ItemTTL time.Duration
	// Actor is written to createdBy/updatedBy of translations.
	Actor string
	Now   func() time.Time
	// Location is the zone for stored times without an offset, UTC when nil.
	Location *time.Location
}

// Services bundles one service per entity over a shared store and cache registry.
type Services struct {
	Tools               *ToolService
	Users               *UserService
	Recipes             *RecipeService
	PublicRecipes       *PublicRecipeService
	Categories          *CategoryService
	Translations        *TranslationService
	ToolTranslations    *ToolTranslationService
	Banners             *BannerService
	ToolRegistrations   *ApplicationService
	PaidServiceRequests *ApplicationService
	PaidServices        *db.Accessor
	Dashboard           *DashboardService

	Registry *cache.Registry
	Topology *db.Topology
}

// NewServices builds every entity service from the topology table.
func NewServices(store database.DocumentStore, topology *db.Topology, registry *cache.Registry, logger *zap.Logger, settings Settings) (*Services, error) {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.Location != nil {
		clock, loc := settings.Now, settings.Location
		settings.Now = func() time.Time { return clock().In(loc) }
	}
	if settings.Actor == "" {
		settings.Actor = "admin"
	}
	if registry == nil {
		registry = cache.NewRegistry()
	}

	build := func(entity string, stamp func(map[string]any, bool)) (*db.Accessor, error) {
		opts, err := topology.Options(entity, settings.ListTTL, settings.ItemTTL)
		if err != nil {
			return nil, err
		}
		opts.Stamp = stamp
		a, err := db.NewAccessor(store, registry, logger, opts)
		if err != nil {
			return nil, fmt.Errorf("accessor %s: %w", entity, err)
		}
		return a, nil
	}

	accessors := map[string]*db.Accessor{}
	for _, entity := range []string{
		configs.EntityTools, configs.EntityUsers, configs.EntityRecipes, configs.EntityPublicRecipes,
		configs.EntityCategories, configs.EntityBanners, configs.EntityToolRegistrations,
		configs.EntityPaidServiceRequests, configs.EntityPaidServices,
	} {
		a, err := build(entity, nil)
		if err != nil {
			return nil, err
		}
		accessors[entity] = a
	}
	for _, entity := range []string{configs.EntityTranslations, configs.EntityToolTranslations} {
		a, err := build(entity, actorStamp(settings.Actor))
		if err != nil {
			return nil, err
		}
		accessors[entity] = a
	}

	s := &Services{
		Tools:               &ToolService{Accessor: accessors[configs.EntityTools]},
		Users:               &UserService{Accessor: accessors[configs.EntityUsers]},
		Recipes:             &RecipeService{Reviewable{accessors[configs.EntityRecipes]}},
		PublicRecipes:       &PublicRecipeService{Reviewable{accessors[configs.EntityPublicRecipes]}},
		Translations:        &TranslationService{Accessor: accessors[configs.EntityTranslations]},
		ToolTranslations:    &ToolTranslationService{Accessor: accessors[configs.EntityToolTranslations]},
		Banners:             &BannerService{Accessor: accessors[configs.EntityBanners], now: settings.Now},
		ToolRegistrations:   &ApplicationService{Reviewable{accessors[configs.EntityToolRegistrations]}},
		PaidServiceRequests: &ApplicationService{Reviewable{accessors[configs.EntityPaidServiceRequests]}},
		PaidServices:        accessors[configs.EntityPaidServices],
		Registry:            registry,
		Topology:            topology,
	}
	s.Categories = &CategoryService{Accessor: accessors[configs.EntityCategories], tools: s.Tools, logger: logger}
	s.Dashboard = &DashboardService{
		tools:         s.Tools,
		users:         s.Users,
		recipes:       s.Recipes,
		publicRecipes: s.PublicRecipes,
		categories:    s.Categories,
		now:           settings.Now,
		logger:        logger,
	}
	return s, nil
}

// Entities returns the services exposed through generic CRUD, keyed by entity name.
func (s *Services) Entities() map[string]EntityService {
	return map[string]EntityService{
		configs.EntityTools:               s.Tools,
		configs.EntityUsers:               s.Users,
		configs.EntityRecipes:             s.Recipes,
		configs.EntityPublicRecipes:       s.PublicRecipes,
		configs.EntityTranslations:        s.Translations,
		configs.EntityBanners:             s.Banners,
		configs.EntityToolRegistrations:   s.ToolRegistrations,
		configs.EntityPaidServiceRequests: s.PaidServiceRequests,
		configs.EntityPaidServices:        s.PaidServices,
	}
}

// Reviewers returns the services that support approve and reject.
func (s *Services) Reviewers() map[string]ReviewService {
	return map[string]ReviewService{
		configs.EntityRecipes:             s.Recipes,
		configs.EntityPublicRecipes:       s.PublicRecipes,
		configs.EntityToolRegistrations:   s.ToolRegistrations,
		configs.EntityPaidServiceRequests: s.PaidServiceRequests,
	}
}

// Accessors returns every accessor, for topology updates.
func (s *Services) Accessors() []*db.Accessor {
	return []*db.Accessor{
		s.Tools.Accessor, s.Users.Accessor, s.Recipes.Accessor, s.PublicRecipes.Accessor,
		s.Categories.Accessor, s.Translations.Accessor, s.ToolTranslations.Accessor,
		s.Banners.Accessor, s.ToolRegistrations.Accessor, s.PaidServiceRequests.Accessor,
		s.PaidServices,
	}
}

// ApplyTopology pushes the probed location order into every accessor.
func (s *Services) ApplyTopology() {
	s.Topology.Apply(s.Accessors()...)
}
