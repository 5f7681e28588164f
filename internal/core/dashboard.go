package core

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

// RecentWindow is how far back the dashboard counts new tools and users, in days.
const RecentWindow = 7

type DashboardService struct {
	tools         *ToolService
	users         *UserService
	recipes       *RecipeService
	publicRecipes *PublicRecipeService
	categories    *CategoryService
	now           func() time.Time
	logger        *zap.Logger
}

// Summary computes the dashboard figures. Entities that cannot be read count
// as empty and are listed in Degraded; the error joins their failures.
func (s *DashboardService) Summary(ctx context.Context) (models.Dashboard, error) {
	var errs *multierror.Error
	read := func(svc EntityService, d *models.Dashboard) []db.Record {
		records, err := svc.GetAll(ctx)
		if err != nil {
			s.logger.Warn("Dashboard source degraded", zap.String("entity", svc.Entity()), zap.Error(err))
			d.Degraded = append(d.Degraded, svc.Entity())
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", svc.Entity(), err))
		}
		return records
	}

	d := models.Dashboard{ToolsByStatus: map[string]int{}}
	tools := read(s.tools, &d)
	// Statistics reads the tools again; that failure is already reported.
	toolsDegraded := len(d.Degraded) > 0
	users := read(s.users, &d)
	d.Tools = len(tools)
	d.Users = len(users)
	d.Recipes = len(read(s.recipes, &d))
	d.PublicRecipes = len(read(s.publicRecipes, &d))

	now := s.now()
	for _, t := range tools {
		status := t.String("status")
		if status == "" {
			status = "unknown"
		}
		d.ToolsByStatus[status]++
		if status == models.StatusActive {
			d.ActiveTools++
		}
		if t.Bool("verified") {
			d.VerifiedTools++
		}
		if t.Bool("featured") {
			d.FeaturedTools++
		}
		if recent(t, db.FieldCreatedAt, now) {
			d.RecentTools++
		}
	}
	for _, u := range users {
		if recent(u, "registeredDate", now) {
			d.RecentUsers++
		}
	}

	stats, err := s.categories.Statistics(ctx)
	if err != nil && !toolsDegraded {
		s.logger.Warn("Dashboard source degraded", zap.String("entity", "categories"), zap.Error(err))
		d.Degraded = append(d.Degraded, "categories")
		errs = multierror.Append(errs, fmt.Errorf("categories: %w", err))
	}
	d.Categories = stats
	return d, errs.ErrorOrNil()
}

// recent reports whether field holds a time less than RecentWindow+1 whole days before now.
func recent(r db.Record, field string, now time.Time) bool {
	t, ok := r.TimeIn(field, now.Location())
	if !ok {
		return false
	}
	return int(now.Sub(t).Hours()/24) <= RecentWindow
}
