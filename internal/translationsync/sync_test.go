package translationsync

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/configs"
	"github.com/aicuratorhub/curatorhub-admin/internal/core"
	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
	"github.com/aicuratorhub/curatorhub-admin/pkg/database/storetest"
)

func newTranslations(t *testing.T, store database.DocumentStore) *core.TranslationService {
	t.Helper()
	topo, err := db.NewTopology(configs.DefaultCollections(), zap.NewNop())
	require.NoError(t, err)
	svc, err := core.NewServices(store, topo, nil, zap.NewNop(), core.Settings{ListTTL: time.Minute, ItemTTL: time.Minute})
	require.NoError(t, err)
	return svc.Translations
}

func readLang(t *testing.T, dir, lang string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, lang+".json"))
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "translations", "nav.home", map[string]any{"ko": "홈", "en": "Home <b>", "id": "Beranda", "type": "menu"}))
	require.NoError(t, store.Set(ctx, "translations", "nav.about", map[string]any{"ko": "소개"}))
	s := New(newTranslations(t, store), zap.NewNop())
	dir := t.TempDir()

	report, err := s.Export(ctx, dir)
	require.NoError(t, err)
	assert.Len(t, report.Files, len(models.Languages))
	assert.Equal(t, 2, report.Keys)
	assert.Contains(t, ExportMessage(report), "13 files")

	assert.Equal(t, map[string]any{"nav.home": "홈", "nav.about": "소개"}, readLang(t, dir, "ko"))
	assert.Equal(t, map[string]any{"nav.home": "Home <b>", "nav.about": ""}, readLang(t, dir, "en"))
	assert.Equal(t, map[string]any{"nav.home": "", "nav.about": ""}, readLang(t, dir, "ms"))
	assert.Equal(t, map[string]any{"nav.home": "Beranda", "nav.about": ""}, readLang(t, dir, "id"), "Indonesian is not confused with the key")

	raw, err := os.ReadFile(filepath.Join(dir, "en.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"nav.about\": \"\",\n  \"nav.home\": \"Home <b>\"\n}\n", string(raw))
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "translations", "nav.home", map[string]any{"ko": "홈", "en": "Home", "ja": "ホーム"}))
	require.NoError(t, store.Set(ctx, "translations", "nav.tools", map[string]any{"ko": "도구", "ar": "أدوات"}))
	require.NoError(t, store.Set(ctx, "translations", "footer.copy", map[string]any{"en": "© 2024 & more"}))
	s := New(newTranslations(t, store), zap.NewNop())

	first := t.TempDir()
	_, err := s.Export(ctx, first)
	require.NoError(t, err)

	report, err := s.Import(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 3*len(models.Languages), report.Updated)

	second := t.TempDir()
	_, err = s.Export(ctx, second)
	require.NoError(t, err)
	for _, lang := range models.LanguageCodes() {
		a, err := os.ReadFile(filepath.Join(first, lang+".json"))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, lang+".json"))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), lang)
	}
}

func TestImportCreatesAndUpdates(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "translations", "nav.home", map[string]any{"ko": "홈"}))
	s := New(newTranslations(t, store), zap.NewNop())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"nav.home": "Home", "nav.new": "New", "": "skipped"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ja.json"), []byte(`["not", "an", "object"]`), 0o644))

	report, err := s.Import(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"en.json"}, report.Files)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, "import complete: 1 updated, 1 created", ImportMessage(report))

	home, err := store.Get(ctx, "translations", "nav.home")
	require.NoError(t, err)
	assert.Equal(t, "홈", home.String("ko"))
	assert.Equal(t, "Home", home.String("en"))

	created, err := store.Get(ctx, "translations", "nav.new")
	require.NoError(t, err)
	assert.Equal(t, "New", created.String("en"))
	assert.Equal(t, models.TranslationOther, created.String("type"))
}

func TestImportAggregatesFailures(t *testing.T) {
	ctx := context.Background()
	store := storetest.Wrap(nil)
	store.Fail(storetest.OpSet, "translations", errors.New("quota"))
	s := New(newTranslations(t, store), zap.NewNop())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ko.json"), []byte(`{"a": "1", "b": "2"}`), 0o644))

	report, err := s.Import(ctx, dir)
	require.Error(t, err)
	assert.Equal(t, 2, report.Failed)
	assert.Contains(t, err.Error(), "quota")
	assert.Contains(t, ImportMessage(report), "2 failed")
}

func TestMissingDirectory(t *testing.T) {
	ctx := context.Background()
	s := New(newTranslations(t, database.NewMemoryStore()), zap.NewNop())
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := s.Export(ctx, missing)
	assert.ErrorIs(t, err, ErrNoDirectory)
	_, err = s.Import(ctx, missing)
	assert.ErrorIs(t, err, ErrNoDirectory)
}

func TestExportStoreUnavailable(t *testing.T) {
	store := storetest.Wrap(nil)
	store.Fail(storetest.OpList, "translations", database.ErrUnavailable)
	s := New(newTranslations(t, store), zap.NewNop())

	_, err := s.Export(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, database.ErrUnavailable)
}
