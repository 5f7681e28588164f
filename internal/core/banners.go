package core

import (
	"context"
	"sort"
	"time"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

type BannerService struct {
	*db.Accessor
	now func() time.Time
}

// BySpot returns the banners placed in spot, lowest priority first. Banners
// without a priority sort last; equal priorities keep their stored order.
func (s *BannerService) BySpot(ctx context.Context, spot string) ([]db.Record, error) {
	all, err := s.GetAll(ctx)
	out := make([]db.Record, 0)
	for _, b := range all {
		if spot == "" || b.String("spotId") == spot {
			out = append(out, b)
		}
	}
	SortByPriority(out)
	return out, err
}

// SortByPriority orders banners by priority, stable for ties.
func SortByPriority(banners []db.Record) {
	sort.SliceStable(banners, func(i, j int) bool {
		return banners[i].Float("priority", models.DefaultBannerPriority) < banners[j].Float("priority", models.DefaultBannerPriority)
	})
}

// Status derives the display state of a banner at now. A start in the future
// schedules it and an end in the past turns it off, whatever the stored flag
// says. Otherwise the stored flag is used, "off" when unset. Times without a
// zone are read in the location of now.
func Status(banner db.Record, now time.Time) string {
	if start, ok := banner.TimeIn("displayStart", now.Location()); ok && start.After(now) {
		return models.BannerScheduled
	}
	if end, ok := banner.TimeIn("displayEnd", now.Location()); ok && end.Before(now) {
		return models.BannerOff
	}
	if flag := banner.String("status"); flag != "" {
		return flag
	}
	return models.BannerOff
}

// Status derives the display state of banner id now.
func (s *BannerService) Status(ctx context.Context, id string) (string, error) {
	banner, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return Status(banner, s.now()), nil
}

// WithStatus copies banners adding the derived state under displayStatus.
func (s *BannerService) WithStatus(banners []db.Record) []db.Record {
	now := s.now()
	out := make([]db.Record, len(banners))
	for i, b := range banners {
		c := b.Clone()
		c["displayStatus"] = Status(b, now)
		out[i] = c
	}
	return out
}

func (s *BannerService) SetPriority(ctx context.Context, id string, priority int) error {
	return s.Update(ctx, id, map[string]any{"priority": priority})
}
