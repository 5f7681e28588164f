package core

import (
	"context"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
)

// Sub-collections owned by a user document, removed before the user itself.
const (
	SubFavorites = "favorites"
	SubReviews   = "reviews"
	SubAISets    = "my-ai-sets"
)

// UserSubcollections lists the owned sub-collections in deletion order.
var UserSubcollections = []string{SubFavorites, SubReviews, SubAISets}

type UserService struct {
	*db.Accessor
}

func (s *UserService) Favorites(ctx context.Context, uid string) ([]db.Record, error) {
	return s.ListSub(ctx, uid, SubFavorites)
}

func (s *UserService) Reviews(ctx context.Context, uid string) ([]db.Record, error) {
	return s.ListSub(ctx, uid, SubReviews)
}

func (s *UserService) AISets(ctx context.Context, uid string) ([]db.Record, error) {
	return s.ListSub(ctx, uid, SubAISets)
}
