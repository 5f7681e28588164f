package core

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
)

// RecipeService manages personal recipes. The owner is stored under userId
// by newer clients and under author by older ones.
type RecipeService struct {
	Reviewable
}

var recipeOwnerFields = []string{"userId", "author"}

// ByUser returns the recipes owned by uid.
func (s *RecipeService) ByUser(ctx context.Context, uid string) ([]db.Record, error) {
	if uid == "" {
		return []db.Record{}, fmt.Errorf("%w: empty user id", db.ErrInvalidInput)
	}
	out := make([]db.Record, 0)
	seen := map[string]bool{}
	var errs *multierror.Error
	for _, field := range recipeOwnerFields {
		recipes, err := s.Find(ctx, field, uid)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		for _, r := range recipes {
			id := r.String(s.IDField())
			if !seen[id] {
				seen[id] = true
				out = append(out, r)
			}
		}
	}
	if errs != nil && len(errs.Errors) == len(recipeOwnerFields) {
		return out, errs
	}
	return out, nil
}

// UserRecipe returns recipe id if uid owns it, ErrNotFound otherwise.
func (s *RecipeService) UserRecipe(ctx context.Context, uid, id string) (db.Record, error) {
	recipe, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, field := range recipeOwnerFields {
		if recipe.String(field) == uid {
			return recipe, nil
		}
	}
	return nil, fmt.Errorf("recipe %q of user %q: %w", id, uid, db.ErrNotFound)
}

// PublicRecipeService manages the shared recipe collection.
type PublicRecipeService struct {
	Reviewable
}
