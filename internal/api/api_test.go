package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/configs"
	"github.com/aicuratorhub/curatorhub-admin/internal/core"
	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	services *core.Services
	store    database.DocumentStore
}

// mockConnection is a mock implementation of StoreConnection.
type mockConnection struct {
	mock.Mock
}

func (m *mockConnection) Reset() { m.Called() }

func (m *mockConnection) Reconnect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockConnection) Source() string  { return m.Called().String(0) }
func (m *mockConnection) Connected() bool { return m.Called().Bool(0) }

func newTestServer(t *testing.T, store database.DocumentStore) *testServer {
	return newTestServerWithConn(t, store, nil)
}

func newTestServerWithConn(t *testing.T, store database.DocumentStore, conn StoreConnection) *testServer {
	t.Helper()
	if store == nil {
		store = database.NewMemoryStore().WithClock(func() time.Time { return testNow.Add(-time.Hour) })
	}
	topo, err := db.NewTopology(configs.DefaultCollections(), zap.NewNop())
	require.NoError(t, err)
	services, err := core.NewServices(store, topo, nil, zap.NewNop(), core.Settings{
		ListTTL: time.Minute,
		ItemTTL: time.Minute,
		Now:     func() time.Time { return testNow },
	})
	require.NoError(t, err)

	router := gin.New()
	SetupRoutes(router, services, conn, zap.NewNop())
	return &testServer{router: router, services: services, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func items(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out struct {
		Items []map[string]any `json:"items"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	require.Len(t, out.Items, out.Count)
	return out.Items
}

func ids(records []map[string]any, field string) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		s, _ := r[field].(string)
		out = append(out, s)
	}
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEntity_CRUD(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/tools", map[string]any{
		"name": "Gen-2 • Runway",
		"data": map[string]any{"primaryCategory": "video", "status": "active"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "gen-2-runway", decode(t, rec)["data"].(map[string]any)["id"])

	rec = srv.do(t, http.MethodGet, "/api/v1/tools/gen-2-runway", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tool := decode(t, rec)
	assert.Equal(t, "Gen-2 • Runway", tool["name"])
	assert.Equal(t, "gen-2-runway", tool["id"])
	assert.NotEmpty(t, tool["createdAt"])

	rec = srv.do(t, http.MethodPatch, "/api/v1/tools/gen-2-runway", map[string]any{"data": map[string]any{"verified": true}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/v1/tools/gen-2-runway", nil)
	assert.Equal(t, true, decode(t, rec)["verified"], "update is visible at once")

	rec = srv.do(t, http.MethodGet, "/api/v1/tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"gen-2-runway"}, ids(items(t, rec), "id"))

	rec = srv.do(t, http.MethodDelete, "/api/v1/tools/gen-2-runway", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/v1/tools/gen-2-runway", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decode(t, rec)["error"])
}

func TestEntity_CreateWithoutDerivableID(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/banners", map[string]any{"name": "Summer", "data": map[string]any{}})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["data"].(map[string]any)["id"].(string)
	assert.NotEqual(t, "summer", id, "banners get generated ids")

	rec = srv.do(t, http.MethodGet, "/api/v1/banners/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Summer", decode(t, rec)["name"])
}

func TestEntity_BadRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/tools", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/v1/tools", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "data is required")
	rec = srv.do(t, http.MethodPatch, "/api/v1/tools/missing", map[string]any{"data": map[string]any{"a": 1}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = srv.do(t, http.MethodDelete, "/api/v1/users/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReview_ApproveAndReject(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()
	nested := database.CollectionPath("applications/tool-registrations/requests")
	require.NoError(t, srv.store.Set(ctx, nested, "req1", map[string]any{"toolName": "Foo", "status": "pending"}))
	require.NoError(t, srv.store.Set(ctx, "tool-registrations", "req2", map[string]any{"toolName": "Bar", "status": "pending"}))

	rec := srv.do(t, http.MethodPost, "/api/v1/tool-registrations/req1/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	doc, err := srv.store.Get(ctx, nested, "req1")
	require.NoError(t, err)
	assert.Equal(t, "approved", doc.Data["status"])

	rec = srv.do(t, http.MethodPost, "/api/v1/tool-registrations/req2/reject", map[string]any{"reason": "duplicate"})
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err = srv.store.Get(ctx, "tool-registrations", "req2")
	require.NoError(t, err)
	assert.Equal(t, "rejected", doc.Data["status"])
	assert.Equal(t, "duplicate", doc.Data["rejectionReason"])

	rec = srv.do(t, http.MethodPost, "/api/v1/tool-registrations/req1/reject", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "the reason is optional")

	rec = srv.do(t, http.MethodPost, "/api/v1/paid-service-requests/none/approve", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers_Views(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()
	require.NoError(t, srv.store.Set(ctx, "users", "u1", map[string]any{"email": "a@example.com"}))
	require.NoError(t, srv.store.Set(ctx, database.CollectionPath("users").Sub("u1", "favorites"), "f1", map[string]any{"toolId": "chatgpt"}))
	require.NoError(t, srv.store.Set(ctx, "my_recipe", "r1", map[string]any{"userId": "u1"}))
	require.NoError(t, srv.store.Set(ctx, "my_recipe", "r2", map[string]any{"userId": "u2"}))
	require.NoError(t, srv.store.Set(ctx, "my_recipe", "r3", map[string]any{"author": "u1"}))

	rec := srv.do(t, http.MethodGet, "/api/v1/users/u1/favorites", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"f1"}, ids(items(t, rec), "id"))

	rec = srv.do(t, http.MethodGet, "/api/v1/users/u1/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, items(t, rec))

	rec = srv.do(t, http.MethodGet, "/api/v1/users/u1/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"r1", "r3"}, ids(items(t, rec), "id"))

	rec = srv.do(t, http.MethodGet, "/api/v1/users/u1/recipes/r2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "recipes of other users are hidden")

	rec = srv.do(t, http.MethodGet, "/api/v1/users/u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", decode(t, rec)["uid"])
}

func TestBanners_ListAndStatus(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()
	past := testNow.Add(-24 * time.Hour).Format(time.RFC3339)
	future := testNow.Add(24 * time.Hour).Format(time.RFC3339)
	require.NoError(t, srv.store.Set(ctx, "banners", "b1", map[string]any{"spotId": "web_top", "priority": 2, "status": "live"}))
	require.NoError(t, srv.store.Set(ctx, "banners", "b2", map[string]any{"spotId": "web_top", "priority": 1, "status": "live", "displayStart": future}))
	require.NoError(t, srv.store.Set(ctx, "banners", "b3", map[string]any{"spotId": "mobile_top", "status": "live", "displayEnd": past}))

	rec := srv.do(t, http.MethodGet, "/api/v1/banners?spot=web_top", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	banners := items(t, rec)
	assert.Equal(t, []string{"b2", "b1"}, ids(banners, "id"))
	assert.Equal(t, []string{"scheduled", "live"}, ids(banners, "displayStatus"))

	rec = srv.do(t, http.MethodGet, "/api/v1/banners", nil)
	assert.Len(t, items(t, rec), 3)

	rec = srv.do(t, http.MethodGet, "/api/v1/banners/b3/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"b3","status":"off"}`, rec.Body.String())

	rec = srv.do(t, http.MethodPut, "/api/v1/banners/b1/priority", map[string]any{"priority": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = srv.do(t, http.MethodGet, "/api/v1/banners?spot=web_top", nil)
	assert.Equal(t, []string{"b1", "b2"}, ids(items(t, rec), "id"))

	rec = srv.do(t, http.MethodPut, "/api/v1/banners/b1/priority", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/v1/banners/missing/status", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategories(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()
	require.NoError(t, srv.store.Set(ctx, "ai-tools", "copilot", map[string]any{"name": "Copilot", "primaryCategory": "code"}))
	require.NoError(t, srv.store.Set(ctx, "ai-tools", "cursor", map[string]any{"name": "Cursor", "categories": []any{"code"}}))

	rec := srv.do(t, http.MethodGet, "/api/v1/categories/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)
	assert.Equal(t, float64(2), stats["all"])
	assert.Equal(t, float64(2), stats["code"])

	rec = srv.do(t, http.MethodGet, "/api/v1/categories/code/tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"cursor"}, ids(items(t, rec), "id"), "listing matches the display name of a primary category")

	rec = srv.do(t, http.MethodPut, "/api/v1/categories/code", map[string]any{"data": map[string]any{"nameEn": "Coding"}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	views := items(t, rec)
	require.Len(t, views, 12, "the all pseudo category is not listed")
	assert.Equal(t, "text-generation", views[0]["id"])
	assert.Equal(t, "code", views[4]["id"])
	assert.Equal(t, "Coding", views[4]["nameEn"])

	rec = srv.do(t, http.MethodPut, "/api/v1/categories/nope", map[string]any{"data": map[string]any{}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToolTranslations(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/tool-translations/chatgpt/en", map[string]any{
		"fields": map[string]any{"shortDescription": "Chat assistant"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "chatgpt_en", decode(t, rec)["data"].(map[string]any)["id"])

	rec = srv.do(t, http.MethodPost, "/api/v1/tool-translations/chatgpt/ja", map[string]any{"data": map[string]any{}})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/tool-translations/chatgpt/en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode(t, rec)
	fields := doc["fields"].(map[string]any)
	assert.Equal(t, map[string]any{"text": "Chat assistant", "status": "ai_generated"}, fields["shortDescription"])
	assert.Equal(t, map[string]any{"text": "", "status": "ai_generated"}, fields["name"])
	assert.Equal(t, "chatgpt", doc["toolId"])

	rec = srv.do(t, http.MethodPut, "/api/v1/tool-translations/chatgpt/en", map[string]any{
		"fields": map[string]any{"name": map[string]any{"text": "ChatGPT", "status": "reviewed"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/v1/tool-translations/chatgpt/en", nil)
	fields = decode(t, rec)["fields"].(map[string]any)
	assert.Equal(t, map[string]any{"text": "ChatGPT", "status": "reviewed"}, fields["name"])

	rec = srv.do(t, http.MethodGet, "/api/v1/tool-translations?toolId=chatgpt", nil)
	assert.Equal(t, []string{"en", "ja"}, ids(items(t, rec), "lang"))
	rec = srv.do(t, http.MethodGet, "/api/v1/tool-translations?toolId=chatgpt&lang=ja", nil)
	assert.Equal(t, []string{"chatgpt_ja"}, ids(items(t, rec), "id"))
	rec = srv.do(t, http.MethodGet, "/api/v1/tool-translations?lang=en", nil)
	assert.Equal(t, []string{"chatgpt_en"}, ids(items(t, rec), "id"))

	rec = srv.do(t, http.MethodPost, "/api/v1/tool-translations/chatgpt/xx", map[string]any{"data": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/v1/tool-translations/chatgpt/fr", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_SeedMenuCacheAndTopology(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/translations/seed-menu", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(9), report["created"])

	rec = srv.do(t, http.MethodGet, "/api/v1/translations/menu.dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "menu.dashboard", decode(t, rec)["key"])

	rec = srv.do(t, http.MethodPost, "/api/v1/cache/clear", map[string]any{"names": []string{"tools.all", "bogus"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cleared":["tools.all"],"unknown":["bogus"]}`, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/api/v1/cache/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared CacheClearResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cleared))
	assert.Equal(t, srv.services.Registry.Names(), cleared.Cleared)

	rec = srv.do(t, http.MethodGet, "/api/v1/cache", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var caches struct {
		Items []string `json:"items"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &caches))
	assert.Len(t, caches.Items, 22)
	assert.Equal(t, 22, caches.Count)
	assert.Contains(t, caches.Items, "tools.all")

	rec = srv.do(t, http.MethodGet, "/api/v1/topology", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot []db.Resolution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Len(t, snapshot, 11)
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()
	require.NoError(t, srv.store.Set(ctx, "ai-tools", "chatgpt", map[string]any{"status": "active", "createdAt": testNow.Add(-time.Hour).Format(time.RFC3339)}))
	require.NoError(t, srv.store.Set(ctx, "users", "u1", map[string]any{}))

	rec := srv.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode(t, rec)
	assert.Equal(t, float64(1), d["tools"])
	assert.Equal(t, float64(1), d["users"])
	assert.Equal(t, float64(1), d["recentTools"])
	assert.NotContains(t, d, "degraded")
}

func TestStoreUnavailable(t *testing.T) {
	store := database.NewFirestoreService(database.ClientSourceFunc(func(context.Context) (*firestore.Client, error) {
		return nil, errors.New("no credentials")
	}))
	srv := newTestServer(t, store)

	rec := srv.do(t, http.MethodGet, "/api/v1/tools", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Service Unavailable", decode(t, rec)["error"])

	rec = srv.do(t, http.MethodGet, "/api/v1/tools/chatgpt", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, "the dashboard degrades instead of failing")
	d := decode(t, rec)
	assert.Equal(t, float64(0), d["tools"])
	assert.Equal(t, []any{"tools", "users", "recipes", "public-recipes"}, d["degraded"])
}

func TestStoreStatusAndReconnect(t *testing.T) {
	conn := &mockConnection{}
	conn.On("Source").Return("").Once()
	conn.On("Connected").Return(false).Once()
	conn.On("Reconnect", mock.Anything).Return(nil).Once()
	conn.On("Source").Return("key file").Once()
	conn.On("Connected").Return(true).Once()
	conn.On("Reset").Return().Once()
	srv := newTestServerWithConn(t, nil, conn)
	ctx := context.Background()

	rec := srv.do(t, http.MethodGet, "/api/v1/store", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"backend":"firestore","connected":false}`, rec.Body.String())

	_, err := srv.services.Tools.GetAll(ctx)
	require.NoError(t, err)
	require.NoError(t, srv.store.Set(ctx, "ai-tools", "chatgpt", map[string]any{"name": "ChatGPT"}))

	rec = srv.do(t, http.MethodPost, "/api/v1/store/reconnect", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "key file", data["source"])
	assert.Equal(t, true, data["connected"])

	rec = srv.do(t, http.MethodGet, "/api/v1/tools", nil)
	assert.Equal(t, []string{"chatgpt"}, ids(items(t, rec), "id"), "reconnect drops cached reads")

	rec = srv.do(t, http.MethodPost, "/api/v1/cache/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	conn.AssertExpectations(t)
}

func TestStoreReconnectFailure(t *testing.T) {
	conn := &mockConnection{}
	conn.On("Reconnect", mock.Anything).Return(fmt.Errorf("%w: key file missing", database.ErrUnavailable))
	srv := newTestServerWithConn(t, nil, conn)

	rec := srv.do(t, http.MethodPost, "/api/v1/store/reconnect", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decode(t, rec)["details"], "key file missing")
	conn.AssertExpectations(t)
	conn.AssertNotCalled(t, "Source")
}

func TestStoreReconnectWithoutConnection(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/api/v1/store", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"backend":"memory","connected":true}`, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/api/v1/store/reconnect", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
