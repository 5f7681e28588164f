package configs

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Entity describes where one entity type lives in the document store.
type Entity struct {
	// Locations are candidate collection paths in priority order. The first
	// one is the primary location that receives creates.
	Locations      []string      `yaml:"locations"`
	IDField        string        `yaml:"idField"`
	Subcollections []string      `yaml:"subcollections,omitempty"`
	ListTTL        time.Duration `yaml:"listTTL,omitempty"`
	ItemTTL        time.Duration `yaml:"itemTTL,omitempty"`
}

// Collections is the collection topology table.
type Collections struct {
	Entities map[string]Entity `yaml:"entities"`
	// Source is the file the table was read from, empty for built-in defaults.
	Source string `yaml:"-"`
}

// Entity names used as keys of the topology table.
const (
	EntityTools               = "tools"
	EntityUsers               = "users"
	EntityRecipes             = "recipes"
	EntityPublicRecipes       = "public-recipes"
	EntityCategories          = "categories"
	EntityTranslations        = "translations"
	EntityToolTranslations    = "tool-translations"
	EntityBanners             = "banners"
	EntityToolRegistrations   = "tool-registrations"
	EntityPaidServiceRequests = "paid-service-requests"
	EntityPaidServices        = "paid-services"
)

// DefaultCollections returns the built-in topology.
func DefaultCollections() *Collections {
	return &Collections{Entities: map[string]Entity{
		EntityTools:            {Locations: []string{"ai-tools"}, IDField: "id"},
		EntityUsers:            {Locations: []string{"users"}, IDField: "uid", Subcollections: []string{"favorites", "reviews", "my-ai-sets"}},
		EntityRecipes:          {Locations: []string{"my_recipe"}, IDField: "id"},
		EntityPublicRecipes:    {Locations: []string{"public_recipe_collection"}, IDField: "id"},
		EntityCategories:       {Locations: []string{"categories"}, IDField: "id"},
		EntityTranslations:     {Locations: []string{"translations"}, IDField: "key"},
		EntityToolTranslations: {Locations: []string{"tool_translations"}, IDField: "id"},
		EntityBanners:          {Locations: []string{"banners"}, IDField: "id"},
		EntityToolRegistrations: {
			Locations: []string{"tool-registrations", "applications/tool-registrations/requests"},
			IDField:   "id",
		},
		EntityPaidServiceRequests: {
			Locations: []string{"paid-service-requests", "applications/paid-service-requests/requests"},
			IDField:   "id",
		},
		EntityPaidServices: {Locations: []string{"paid-services"}, IDField: "id"},
	}}
}

// LoadCollections reads the topology table from path. A missing file yields
// the built-in defaults; entities absent from the file keep their defaults.
func LoadCollections(path string) (*Collections, error) {
	cfg := DefaultCollections()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collections file %s: %w", path, err)
	}

	var fromFile Collections
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("failed to parse collections file %s: %w", path, err)
	}
	for name, entity := range fromFile.Entities {
		if len(entity.Locations) == 0 {
			return nil, fmt.Errorf("entity %q in %s has no locations", name, path)
		}
		if entity.IDField == "" {
			entity.IDField = "id"
		}
		cfg.Entities[name] = entity
	}
	cfg.Source = path
	return cfg, nil
}

// Entity returns the topology entry for name.
func (c *Collections) Entity(name string) (Entity, bool) {
	e, ok := c.Entities[name]
	return e, ok
}
