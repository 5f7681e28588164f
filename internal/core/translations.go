package core

import (
	"context"
	"errors"
	"sort"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

// actorStamp records who wrote a translation.
func actorStamp(actor string) func(map[string]any, bool) {
	return func(data map[string]any, created bool) {
		if created {
			data["createdBy"] = actor
		}
		data["updatedBy"] = actor
	}
}

// TranslationService manages UI text translations. The document id is the
// translation key and each language is a field named by its code.
type TranslationService struct {
	*db.Accessor
}

// Text returns the value of lang in a translation document, "" when missing.
func Text(doc db.Record, lang string) string {
	return doc.String(lang)
}

// Upsert sets lang of key, creating the document with type "other" when it
// does not exist. It reports whether a document was created.
func (s *TranslationService) Upsert(ctx context.Context, key, lang string, value any) (bool, error) {
	_, err := s.GetByID(ctx, key)
	switch {
	case err == nil:
		return false, s.Update(ctx, key, map[string]any{lang: value})
	case errors.Is(err, db.ErrNotFound):
		_, err = s.Create(ctx, key, map[string]any{lang: value, "type": models.TranslationOther})
		return err == nil, err
	default:
		return false, err
	}
}

// SeedMenu writes the admin menu labels as menu.<page> documents, updating
// the ones that already exist.
func (s *TranslationService) SeedMenu(ctx context.Context) (models.SeedReport, error) {
	var report models.SeedReport
	pages := make([]string, 0, len(models.MenuTranslations))
	for page := range models.MenuTranslations {
		pages = append(pages, page)
	}
	sort.Strings(pages)

	for _, page := range pages {
		labels := models.MenuTranslations[page]
		id := "menu." + page
		_, err := s.GetByID(ctx, id)
		switch {
		case err == nil:
			if err := s.Update(ctx, id, map[string]any{"ko": labels["ko"], "en": labels["en"]}); err != nil {
				return report, err
			}
			report.Updated++
		case errors.Is(err, db.ErrNotFound):
			data := map[string]any{"type": models.TranslationMenu, "ko": labels["ko"], "en": labels["en"]}
			if _, err := s.Create(ctx, id, data); err != nil {
				return report, err
			}
			report.Created++
		default:
			return report, err
		}
	}
	return report, nil
}
