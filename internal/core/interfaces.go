package core

import (
	"context"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
)

// EntityService is the CRUD surface shared by every collection. *db.Accessor
// implements it; entity services add their own operations on top.
type EntityService interface {
	Entity() string
	GetAll(ctx context.Context) ([]db.Record, error)
	GetByID(ctx context.Context, id string) (db.Record, error)
	Create(ctx context.Context, id string, data map[string]any) (string, error)
	Update(ctx context.Context, id string, patch map[string]any) error
	Delete(ctx context.Context, id string) error
	Invalidate()
}

// ReviewService is implemented by entities that go through approval.
type ReviewService interface {
	EntityService
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id, reason string) error
}

// IDDeriver is implemented by entities whose ids are derived from a name.
type IDDeriver interface {
	IDFor(name string) string
}
