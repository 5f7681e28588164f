package core

import (
	"context"
	"regexp"
	"strings"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

var (
	idPunctuation = regexp.MustCompile(`[().·•]`)
	idSpaces      = regexp.MustCompile(`\s+`)
	idInvalid     = regexp.MustCompile(`[^a-z0-9\-]`)
)

// NormalizeID turns a display name into a document id: lower case, spaces to
// dashes, anything outside [a-z0-9-] dropped.
func NormalizeID(name string) string {
	id := strings.ToLower(name)
	id = idPunctuation.ReplaceAllString(id, "")
	id = idSpaces.ReplaceAllString(id, "-")
	return idInvalid.ReplaceAllString(id, "")
}

type ToolService struct {
	*db.Accessor
}

func (s *ToolService) IDFor(name string) string { return NormalizeID(name) }

// ByCategory returns the tools whose primaryCategory names the category or
// whose categories list mentions it.
func (s *ToolService) ByCategory(ctx context.Context, categoryID string) ([]db.Record, error) {
	tools, err := s.GetAll(ctx)
	if err != nil {
		return tools, err
	}
	if categoryID == models.CategoryAll {
		return tools, nil
	}
	cat, ok := models.CategoryByID(categoryID)
	if !ok {
		return []db.Record{}, nil
	}

	out := make([]db.Record, 0)
	for _, tool := range tools {
		if tool.String("primaryCategory") == cat.Name {
			out = append(out, tool)
			continue
		}
		for _, c := range tool.Strings("categories") {
			if strings.Contains(c, cat.Name) || strings.Contains(strings.ToLower(c), cat.ID) {
				out = append(out, tool)
				break
			}
		}
	}
	return out, nil
}
