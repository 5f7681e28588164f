package core

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

// CategoryService combines the static category table with per-category
// overrides stored in the categories collection.
type CategoryService struct {
	*db.Accessor
	tools  *ToolService
	logger *zap.Logger
}

// Statistics counts tools per category id. A tool counts once for a matching
// primaryCategory and once more for every matching entry of its categories list.
func (s *CategoryService) Statistics(ctx context.Context) (map[string]int, error) {
	tools, err := s.tools.GetAll(ctx)
	stats := make(map[string]int, len(models.Categories))
	for _, c := range models.Categories {
		stats[c.ID] = 0
	}
	stats[models.CategoryAll] = len(tools)

	for _, tool := range tools {
		if primary := tool.String("primaryCategory"); primary != "" {
			lower := strings.ToLower(primary)
			for _, c := range models.Categories[1:] {
				if c.Name == primary || strings.Contains(lower, c.ID) {
					stats[c.ID]++
					break
				}
			}
		}
		for _, entry := range tool.Strings("categories") {
			lower := strings.ToLower(entry)
			for _, c := range models.Categories[1:] {
				if strings.Contains(lower, c.ID) || strings.Contains(lower, strings.ToLower(c.Name)) {
					stats[c.ID]++
				}
			}
		}
	}
	return stats, err
}

// List returns the categories in display order with tool counts. Stored
// documents override the name, English name, icon and color.
func (s *CategoryService) List(ctx context.Context) ([]models.CategoryView, error) {
	stats, err := s.Statistics(ctx)
	stored := map[string]db.Record{}
	records, storedErr := s.GetAll(ctx)
	if storedErr != nil {
		s.logger.Warn("Category overrides unavailable", zap.Error(storedErr))
	}
	for _, r := range records {
		stored[r.String(s.IDField())] = r
	}

	views := make([]models.CategoryView, 0, len(models.Categories)-1)
	for i, c := range models.Categories {
		if c.ID == models.CategoryAll {
			continue
		}
		view := models.CategoryView{Category: c, NameKr: c.Name, NameEn: c.Name, ToolCount: stats[c.ID], Order: i}
		if r, ok := stored[c.ID]; ok {
			override(&view.Name, r.String("name"))
			override(&view.NameKr, r.String("nameKr"))
			override(&view.NameEn, r.String("nameEn"))
			override(&view.Icon, r.String("icon"))
			override(&view.Color, r.String("color"))
		}
		views = append(views, view)
	}
	return views, err
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ToolsByCategory returns the tools in category id.
func (s *CategoryService) ToolsByCategory(ctx context.Context, id string) ([]db.Record, error) {
	return s.tools.ByCategory(ctx, id)
}

// Save merges data into the stored category document, creating it when missing.
func (s *CategoryService) Save(ctx context.Context, id string, data map[string]any) error {
	return s.Merge(ctx, id, data)
}
