package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/ganaderia/internal/config"
	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/repository"
	"github.com/mamadbah2/ganaderia/internal/repository/memory"
	"github.com/mamadbah2/ganaderia/internal/server/handlers"
	"github.com/mamadbah2/ganaderia/internal/service/backup"
	"github.com/mamadbah2/ganaderia/internal/service/dashboard"
	"github.com/mamadbah2/ganaderia/internal/service/herd"
	"github.com/mamadbah2/ganaderia/internal/service/importer"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	return newEngineWithStore(t, memory.NewStore())
}

func newEngineWithStore(t *testing.T, store repository.Store) *gin.Engine {
	t.Helper()
	now := func() time.Time { return fixedNow }

	herdSvc := herd.NewService(store, now, nil)
	require.NoError(t, herdSvc.SeedUsers(context.Background()))

	h := handlers.New(
		herdSvc,
		dashboard.NewService(store, now, nil),
		backup.NewService(store, now, nil),
		importer.New(now, nil),
		nil,
	)
	return New(h, config.ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}}, nil)
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	w := do(t, newEngine(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHerdFlow(t *testing.T) {
	r := newEngine(t)

	w := do(t, r, http.MethodPost, "/api/animals", map[string]any{"tag": "403", "name": "Indira", "farm": "Guadalupe"})
	require.Equal(t, http.StatusCreated, w.Code)
	animal := decode[models.Animal](t, w)

	w = do(t, r, http.MethodPost, "/api/milk", map[string]any{"animalId": animal.ID, "date": "2026-10-19", "morning": 2, "evening": 1.5})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 3.5, decode[models.MilkEntry](t, w).Total)

	w = do(t, r, http.MethodPost, "/api/health-events", map[string]any{
		"animalId": animal.ID, "procedure": "Aftosa", "refDates": []string{"2026-10-18"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[struct {
		Boosters []models.Booster `json:"boosters"`
	}](t, w)
	require.Len(t, created.Boosters, 1)
	boosterID := created.Boosters[0].ID

	w = do(t, r, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[dashboard.Dashboard](t, w)
	assert.Equal(t, 1, d.Metrics.Boosters.Overdue)
	assert.Equal(t, 1, d.Metrics.LowMilk)
	assert.Equal(t, "403 • Indira", d.Ranking[0].Label)

	w = do(t, r, http.MethodPost, "/api/boosters/"+boosterID+"/done", map[string]any{"doneBy": "user_1"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodPost, "/api/boosters/"+boosterID+"/done", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_1", decode[models.Booster](t, w).DoneBy)

	w = do(t, r, http.MethodGet, "/api/boosters?filter=done", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dashboard.BoosterRow](t, w), 1)

	w = do(t, r, http.MethodDelete, "/api/animals/"+animal.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/api/milk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[[]map[string]any](t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, models.Placeholder, rows[0]["animalLabel"])
}

func TestErrorMapping(t *testing.T) {
	r := newEngine(t)

	w := do(t, r, http.MethodPost, "/api/milk", map[string]any{"morning": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "animal is required")

	w = do(t, r, http.MethodPost, "/api/boosters/boo_missing/done", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/boosters?filter=soon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodDelete, "/api/finance/cows/x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/animals", bytes.NewBufferString("{"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// nilListStore leaves list targets untouched, the way the mongo driver does
// for an empty collection.
type nilListStore struct {
	repository.Store
}

func (nilListStore) FetchAll(context.Context, string, any) error { return nil }

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	r := newEngineWithStore(t, nilListStore{Store: memory.NewStore()})

	for _, path := range []string{"/api/users", "/api/animals", "/api/brutos", "/api/meds", "/api/milk", "/api/health-events", "/api/boosters", "/api/repro"} {
		w := do(t, r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `[]`, w.Body.String(), path)
	}

	w := do(t, r, http.MethodGet, "/api/finance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, []any{}, body["sales"])
	assert.Equal(t, []any{}, body["ledger"])
}

func TestFinanceRoutes(t *testing.T) {
	r := newEngine(t)

	w := do(t, r, http.MethodPost, "/api/finance/sales", map[string]any{"client": "Tienda", "pounds": 10, "pricePerPound": 15000})
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(t, r, http.MethodPost, "/api/finance/fixed-costs", map[string]any{"concept": "Luz", "monthlyValue": 50000})
	require.Equal(t, http.StatusCreated, w.Code)
	fixed := decode[models.FixedCost](t, w)

	w = do(t, r, http.MethodGet, "/api/finance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, "100000", summary["utility"])

	w = do(t, r, http.MethodDelete, "/api/finance/fixed-costs/"+fixed.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBackupRoundTrip(t *testing.T) {
	r := newEngine(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/animals", map[string]any{"tag": "9"}).Code)

	w := do(t, r, http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ganaderia_backup_2026-10-19.json")
	doc := decode[backup.Document](t, w)
	require.Len(t, doc.Data.Animals, 1)

	target := newEngine(t)
	w = do(t, target, http.MethodPost, "/api/backup", doc)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode[map[string]any](t, w)["total"])
}

func TestImportBrowserBackup(t *testing.T) {
	r := newEngine(t)
	body := `{"exportedAt":"2025-10-01T10:00:00.000Z","data":{
		"animals":[{"id":"ani_1","arete":"403","name":"Indira","sexo":"Hembra","createdAt":1759312800000}],
		"repro":[{"id":"rep_1","animalId":"ani_1","parto":"2025-01-01","pre":"SI","createdAt":1759312800000}]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/backup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 2, decode[map[string]any](t, w)["total"])

	w = do(t, r, http.MethodGet, "/api/repro", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[[]dashboard.ReproRow](t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, models.PregnancyYes, rows[0].Record.Pregnancy)
	assert.Equal(t, "2025-01-01", rows[0].Record.Parturition)
	assert.Equal(t, "403 • Indira", rows[0].AnimalLabel)
}

func TestImportWorkbook(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet(importer.SheetAnimals)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(importer.SheetAnimals, "A1", &[]any{"Arete", "Nombre"}))
	require.NoError(t, f.SetSheetRow(importer.SheetAnimals, "A2", &[]any{"403", "Indira"}))
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "ganaderia.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := newEngine(t)
	req := httptest.NewRequest(http.MethodPost, "/api/import/workbook", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/animals", nil)
	animals := decode[[]models.Animal](t, w)
	require.Len(t, animals, 1)
	assert.Equal(t, "ani_import_1", animals[0].ID)

	w = do(t, r, http.MethodPost, "/api/import/workbook", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	r := newEngine(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
