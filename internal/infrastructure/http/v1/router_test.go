package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/domain/catalogs/reference"
	v1 "hobbyshop/internal/infrastructure/http/v1"
	"hobbyshop/internal/infrastructure/http/v1/handlers"
	"hobbyshop/internal/infrastructure/http/v1/middleware"
	"hobbyshop/internal/infrastructure/storage/memory"
	"hobbyshop/pkg/logger"
)

type testServer struct {
	handler http.Handler
	store   *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	store.Insert(item.DemoItems()...)
	repo := memory.NewItemRepo(store)
	txm := memory.NewTxManager(store)

	resolver, err := reference.LoadResolver(context.Background(), memory.NewReferenceRepo(store), txm)
	require.NoError(t, err)

	router := v1.NewRouter(v1.RouterConfig{
		Logger:      logger.NewNop(),
		Manager:     item.NewManager(repo, txm, item.NewQueryEngine(repo, txm)),
		Resolver:    resolver,
		Idempotency: memory.NewIdempotencyStore(time.Hour),
		Health:      handlers.NewHealthHandler("hobbyshop", "test", nil, store.Ping),
	})
	return &testServer{handler: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

const validItem = `{
	"setName": "Metal Raiders",
	"itemName": "Red-Eyes Black Dragon",
	"description": "Near mint single.",
	"price": "12.50",
	"stock": 3,
	"categoryId": 1,
	"conditionId": 2
}`

func TestListItems(t *testing.T) {
	srv := newTestServer(t)

	w, body := srv.do(t, http.MethodGet, "/api/v1/catalog/items", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, body["totalCount"])
	assert.EqualValues(t, 1, body["totalPages"])
	assert.Equal(t, true, body["isFirstPage"])
	assert.Equal(t, true, body["isLastPage"])

	items := body["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "Legend of Blue Eyes White Dragon", first["itemName"])
	assert.Equal(t, "Collectable Cards", first["categoryName"])
	assert.Equal(t, "No Condition", first["conditionName"])
	assert.Equal(t, "New Arrival", first["tagName"])
}

func TestListItems_Query(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCount float64
	}{
		{"search is case-insensitive", "?search=blue%20eyes", http.StatusOK, 2},
		{"search without match", "?search=pikachu", http.StatusOK, 0},
		{"inactive is empty", "?historical=true", http.StatusOK, 0},
		{"all", "?historical=All", http.StatusOK, 2},
		{"page beyond the end is clamped", "?page=7", http.StatusOK, 2},
		{"unknown filter", "?historical=maybe", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := srv.do(t, http.MethodGet, "/api/v1/catalog/items"+tt.query, "")
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				assert.Equal(t, apperror.CodeInvalidInput, body["code"])
				return
			}
			assert.Equal(t, tt.wantCount, body["totalCount"])
			assert.EqualValues(t, 1, body["currentPage"])
		})
	}
}

func TestGetItem(t *testing.T) {
	srv := newTestServer(t)

	w, body := srv.do(t, http.MethodGet, "/api/v1/catalog/items/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Blue Eyes White Dragon", body["itemName"])
	assert.Equal(t, "Perfect", body["conditionName"])
	assert.Equal(t, "Singles", body["tagName"])
	assert.Equal(t, "349.99", body["price"])

	w, body = srv.do(t, http.MethodGet, "/api/v1/catalog/items/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, body["code"])

	w, _ = srv.do(t, http.MethodGet, "/api/v1/catalog/items/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateItem(t *testing.T) {
	srv := newTestServer(t)

	w, body := srv.do(t, http.MethodPost, "/api/v1/catalog/items/validate", `{"itemName":"x","price":"abc"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["canSave"])
	assert.Equal(t, []any{item.FieldDescription, item.FieldPrice, item.FieldStock}, body["failures"])

	w, body = srv.do(t, http.MethodPost, "/api/v1/catalog/items/validate", validItem)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["canSave"])
	assert.Empty(t, body["failures"])

	_, ok := srv.store.Peek(3)
	assert.False(t, ok, "validate must not write")
}

func TestCreateItem(t *testing.T) {
	srv := newTestServer(t)

	w, body := srv.do(t, http.MethodPost, "/api/v1/catalog/items", validItem)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 3, body["id"])
	assert.Equal(t, false, body["historical"])
	assert.Equal(t, "Near Mint", body["conditionName"])
	assert.Equal(t, "No Tag", body["tagName"])

	stored, ok := srv.store.Peek(3)
	require.True(t, ok)
	assert.Equal(t, "12.5", stored.Price.String())
	assert.Equal(t, 3, *stored.Stock)
}

func TestCreateItem_CannotBeSaved(t *testing.T) {
	srv := newTestServer(t)

	w, body := srv.do(t, http.MethodPost, "/api/v1/catalog/items", `{"itemName":"Dark Magician","stock":"many"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeCannotSave, body["code"])

	details := body["details"].(map[string]any)
	assert.Equal(t, false, details["canSave"])
	assert.Equal(t, []any{item.FieldDescription, item.FieldPrice, item.FieldStock}, details["failures"])

	_, ok := srv.store.Peek(3)
	assert.False(t, ok)
}

func TestUpdateItem(t *testing.T) {
	srv := newTestServer(t)

	w, body := srv.do(t, http.MethodPut, "/api/v1/catalog/items/1", `{
		"setName": "LOB",
		"itemName": "Booster Box",
		"description": "",
		"stock": "5"
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Booster Box", body["itemName"])
	assert.Nil(t, body["price"])
	assert.Equal(t, false, body["historical"], "absent flag keeps the stored one")

	stored, _ := srv.store.Peek(1)
	assert.Equal(t, "Booster Box", stored.ItemName)
	assert.Nil(t, stored.CategoryID)

	w, _ = srv.do(t, http.MethodPut, "/api/v1/catalog/items/99", validItem)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleHistorical(t *testing.T) {
	srv := newTestServer(t)

	w, body := srv.do(t, http.MethodPost, "/api/v1/catalog/items/1/historical", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["historical"])

	_, list := srv.do(t, http.MethodGet, "/api/v1/catalog/items", "")
	assert.EqualValues(t, 1, list["totalCount"])
	_, list = srv.do(t, http.MethodGet, "/api/v1/catalog/items?historical=true", "")
	assert.EqualValues(t, 1, list["totalCount"])

	w, body = srv.do(t, http.MethodPost, "/api/v1/catalog/items/1/historical", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["historical"])

	w, _ = srv.do(t, http.MethodPost, "/api/v1/catalog/items/42/historical", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemHistory_NotImplementedInMemory(t *testing.T) {
	srv := newTestServer(t)

	w, _ := srv.do(t, http.MethodGet, "/api/v1/catalog/items/1/history", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestReferenceLists(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path  string
		count int
		first string
	}{
		{"/api/v1/catalog/categories", 5, "Collectable Cards"},
		{"/api/v1/catalog/conditions", 6, "Perfect"},
		{"/api/v1/catalog/tags", 4, "New Arrival"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, _ := srv.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code)

			var rows []map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
			require.Len(t, rows, tt.count)
			assert.EqualValues(t, 1, rows[0]["id"])
			assert.Equal(t, tt.first, rows[0]["name"])
		})
	}
}

func TestIdempotentCreate(t *testing.T) {
	srv := newTestServer(t)
	key := []string{middleware.HeaderIdempotencyKey, "create-1"}

	w1, first := srv.do(t, http.MethodPost, "/api/v1/catalog/items", validItem, key...)
	require.Equal(t, http.StatusCreated, w1.Code)

	w2, second := srv.do(t, http.MethodPost, "/api/v1/catalog/items", validItem, key...)
	require.Equal(t, http.StatusCreated, w2.Code)
	assert.Equal(t, first, second)

	_, ok := srv.store.Peek(4)
	assert.False(t, ok, "replay must not create a second item")

	w3, body := srv.do(t, http.MethodPost, "/api/v1/catalog/items", `{"itemName":"other"}`, key...)
	assert.Equal(t, http.StatusConflict, w3.Code)
	assert.Equal(t, apperror.CodeIdempotency, body["code"])
}

func TestIdempotentCreate_ReplaysFailure(t *testing.T) {
	srv := newTestServer(t)
	key := []string{middleware.HeaderIdempotencyKey, "create-2"}
	incomplete := `{"itemName":"Dark Magician"}`

	w1, first := srv.do(t, http.MethodPost, "/api/v1/catalog/items", incomplete, key...)
	require.Equal(t, http.StatusUnprocessableEntity, w1.Code)

	w2, second := srv.do(t, http.MethodPost, "/api/v1/catalog/items", incomplete, key...)
	assert.Equal(t, http.StatusUnprocessableEntity, w2.Code)
	assert.Equal(t, first, second)
}

func TestStoreUnavailable(t *testing.T) {
	srv := newTestServer(t)
	srv.store.SetUnavailable(true)

	w, body := srv.do(t, http.MethodGet, "/api/v1/catalog/items", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, apperror.CodeUnavailable, body["code"])

	w, _ = srv.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = srv.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTraceHeaders(t *testing.T) {
	srv := newTestServer(t)

	w, _ := srv.do(t, http.MethodGet, "/health/live", "", middleware.HeaderRequestID, "req-123")
	assert.Equal(t, "req-123", w.Header().Get(middleware.HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderTraceID))
}
