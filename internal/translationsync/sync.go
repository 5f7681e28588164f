// Package translationsync exchanges UI translations with the front end's
// per-language JSON files (<lang>.json, a flat key to text object).
package translationsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

// ErrNoDirectory is returned when the exchange directory does not exist.
var ErrNoDirectory = errors.New("translation directory does not exist")

// Store is the translation collection as seen by the sync.
type Store interface {
	// IDField names the record field holding the translation key.
	IDField() string
	GetAll(ctx context.Context) ([]db.Record, error)
	// Upsert sets one language of key and reports whether the document was created.
	Upsert(ctx context.Context, key, lang string, value any) (bool, error)
}

// Report summarizes an export or import.
type Report struct {
	Files   []string `json:"files"`
	Keys    int      `json:"keys"`
	Updated int      `json:"updated"`
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
}

type Syncer struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Syncer {
	return &Syncer{store: store, logger: logger}
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNoDirectory, dir)
	}
	return nil
}

// Export writes one file per supported language. Every file holds the same
// key set; a language missing from a document is written as "".
func (s *Syncer) Export(ctx context.Context, dir string) (Report, error) {
	var report Report
	if err := checkDir(dir); err != nil {
		return report, err
	}
	docs, err := s.store.GetAll(ctx)
	if err != nil {
		return report, fmt.Errorf("read translations: %w", err)
	}

	langs := models.LanguageCodes()
	byLang := make(map[string]map[string]any, len(langs))
	for _, lang := range langs {
		byLang[lang] = map[string]any{}
	}
	for _, doc := range docs {
		key := doc.String(s.store.IDField())
		if key == "" {
			continue
		}
		report.Keys++
		for _, lang := range langs {
			if v, ok := doc[lang]; ok && v != nil {
				byLang[lang][key] = v
			} else {
				byLang[lang][key] = ""
			}
		}
	}

	for _, lang := range langs {
		name := lang + ".json"
		data, err := encode(byLang[lang])
		if err != nil {
			return report, fmt.Errorf("encode %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return report, fmt.Errorf("write %s: %w", name, err)
		}
		report.Files = append(report.Files, name)
		s.logger.Debug("Exported language file", zap.String("file", name), zap.Int("keys", len(byLang[lang])))
	}
	return report, nil
}

// encode renders m with sorted keys, two-space indent and no HTML escaping.
func encode(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Import reads every language file present in dir and writes each key into
// the translation collection: existing documents get the language field
// updated, unknown keys become new documents. Files that are not JSON
// objects are skipped. Per-key failures do not stop the import.
func (s *Syncer) Import(ctx context.Context, dir string) (Report, error) {
	var report Report
	if err := checkDir(dir); err != nil {
		return report, err
	}

	var errs *multierror.Error
	for _, lang := range models.LanguageCodes() {
		name := lang + ".json"
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("read %s: %w", name, err))
			continue
		}
		var values map[string]any
		if err := json.Unmarshal(raw, &values); err != nil {
			s.logger.Warn("Skipping language file that is not a JSON object", zap.String("file", name), zap.Error(err))
			continue
		}
		report.Files = append(report.Files, name)

		keys := make([]string, 0, len(values))
		for k := range values {
			if strings.TrimSpace(k) != "" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			created, err := s.store.Upsert(ctx, key, lang, values[key])
			if err != nil {
				report.Failed++
				errs = multierror.Append(errs, fmt.Errorf("%s %q: %w", lang, key, err))
				continue
			}
			if created {
				report.Created++
			} else {
				report.Updated++
			}
			s.logger.Debug("Imported key", zap.String("lang", lang), zap.String("key", key), zap.Bool("created", created))
		}
		report.Keys += len(keys)
	}
	return report, errs.ErrorOrNil()
}

// ExportMessage and ImportMessage render a report for operators.
func ExportMessage(r Report) string {
	return fmt.Sprintf("export complete: %d files (%s), %d keys", len(r.Files), strings.Join(r.Files, ", "), r.Keys)
}

func ImportMessage(r Report) string {
	msg := fmt.Sprintf("import complete: %d updated, %d created", r.Updated, r.Created)
	if r.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", r.Failed)
	}
	return msg
}
