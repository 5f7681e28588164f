package core

import (
	"context"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

// Reviewable adds approve and reject to an accessor.
type Reviewable struct {
	*db.Accessor
}

func (r Reviewable) Approve(ctx context.Context, id string) error {
	return r.Update(ctx, id, map[string]any{
		"status":     models.StatusApproved,
		"approvedAt": database.ServerTimestamp,
	})
}

func (r Reviewable) Reject(ctx context.Context, id, reason string) error {
	return r.Update(ctx, id, map[string]any{
		"status":          models.StatusRejected,
		"rejectedAt":      database.ServerTimestamp,
		"rejectionReason": reason,
	})
}

// ApplicationService serves tool registrations and paid-service requests.
// Both may live in a flat collection or under the shared applications document.
type ApplicationService struct {
	Reviewable
}
