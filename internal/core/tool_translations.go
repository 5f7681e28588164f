package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
)

// Field status written when a value arrives without one.
const FieldStatusAIGenerated = "ai_generated"

// ToolTranslationFields are the translated fields every document carries;
// "name" is written too but may stay empty.
var ToolTranslationFields = []string{"shortDescription", "description", "intro", "pros", "cons", "name"}

// ToolTranslationService manages per-language tool content. Documents are
// keyed {toolId}_{lang}.
type ToolTranslationService struct {
	*db.Accessor
}

func ToolTranslationID(toolID, lang string) string {
	return toolID + "_" + lang
}

// NormalizeFields converts fields to {text, status} entries. Every known field
// is present; unknown map-valued fields are kept, anything else is dropped.
func NormalizeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(ToolTranslationFields))
	for _, key := range ToolTranslationFields {
		switch v := fields[key].(type) {
		case map[string]any:
			if text, ok := v["text"]; ok {
				if text == nil {
					text = ""
				}
				out[key] = fieldEntry(text, v["status"])
				continue
			}
		case string, []any, []string:
			out[key] = fieldEntry(v, nil)
			continue
		}
		out[key] = fieldEntry("", nil)
	}
	for key, val := range fields {
		if _, known := out[key]; known {
			continue
		}
		if m, ok := val.(map[string]any); ok {
			text, ok := m["text"]
			if !ok {
				text = ""
			}
			out[key] = fieldEntry(text, m["status"])
		}
	}
	return out
}

func fieldEntry(text, status any) map[string]any {
	if s, ok := status.(string); ok && s != "" {
		return map[string]any{"text": text, "status": s}
	}
	return map[string]any{"text": text, "status": FieldStatusAIGenerated}
}

func (s *ToolTranslationService) Get(ctx context.Context, toolID, lang string) (db.Record, error) {
	return s.GetByID(ctx, ToolTranslationID(toolID, lang))
}

// ByTool returns every language of a tool, sorted by language code.
func (s *ToolTranslationService) ByTool(ctx context.Context, toolID string) ([]db.Record, error) {
	out, err := s.filter(ctx, "toolId", toolID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].String("lang") < out[j].String("lang") })
	return out, err
}

// ByLanguage returns the translations of every tool into lang.
func (s *ToolTranslationService) ByLanguage(ctx context.Context, lang string) ([]db.Record, error) {
	return s.filter(ctx, "lang", lang)
}

func (s *ToolTranslationService) filter(ctx context.Context, field, value string) ([]db.Record, error) {
	all, err := s.GetAll(ctx)
	out := make([]db.Record, 0)
	for _, r := range all {
		if r.String(field) == value {
			out = append(out, r)
		}
	}
	return out, err
}

// CreateFor writes the translation of toolID into lang.
func (s *ToolTranslationService) CreateFor(ctx context.Context, toolID, lang string, data map[string]any) (string, error) {
	if toolID == "" || lang == "" {
		return "", fmt.Errorf("%w: tool id and language are required", db.ErrInvalidInput)
	}
	payload := withFields(data)
	payload["toolId"] = toolID
	payload["lang"] = lang
	return s.Create(ctx, ToolTranslationID(toolID, lang), payload)
}

// UpdateFor patches the translation of toolID into lang.
func (s *ToolTranslationService) UpdateFor(ctx context.Context, toolID, lang string, patch map[string]any) error {
	return s.Update(ctx, ToolTranslationID(toolID, lang), withFields(patch))
}

func withFields(data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+2)
	for k, v := range data {
		out[k] = v
	}
	if raw, ok := out["fields"]; ok {
		fields, _ := raw.(map[string]any)
		out["fields"] = NormalizeFields(fields)
	}
	return out
}
