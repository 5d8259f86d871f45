package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkore/open-calls-api/internal/models"
	"github.com/kolkore/open-calls-api/internal/service"
)

type adminRepoStub struct {
	calls     []models.Call
	created   *models.Call
	updated   *models.Call
	updateErr error
	seenID    int64
	seen      map[string]interface{}
}

func (s *adminRepoStub) List(context.Context, models.CallFilters, models.SortParams, models.PageParams) ([]models.Call, error) {
	return s.calls, nil
}

func (s *adminRepoStub) GetByID(_ context.Context, id int64) (*models.Call, error) {
	return s.updated, nil
}

func (s *adminRepoStub) Create(_ context.Context, call models.Call) (*models.Call, error) {
	created := call
	created.ID = 11
	created.CreatedAt = time.Now()
	s.created = &created
	return &created, nil
}

func (s *adminRepoStub) Update(_ context.Context, id int64, fields map[string]interface{}) (*models.Call, error) {
	s.seenID = id
	s.seen = fields
	return s.updated, s.updateErr
}

func adminRouter(repo *adminRepoStub) *gin.Engine {
	svc := service.NewAdminCallService(repo, nil, nil, nil, 0)
	h := NewAdminCallHandler(svc)

	r := gin.New()
	r.GET("/admin/calls", h.List)
	r.POST("/admin/calls", h.Create)
	r.GET("/admin/calls/export", h.Export)
	r.PATCH("/admin/calls/:id", h.Update)
	r.POST("/admin/calls/:id/archive", h.Archive)
	return r
}

func adminCall(id int64, title string) models.Call {
	return models.Call{ID: id, Title: title, CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
}

func TestAdminCallHandlerListIncludesArchivedShape(t *testing.T) {
	archivedAt := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	archived := adminCall(2, "Archived call")
	archived.ArchivedAt = &archivedAt
	repo := &adminRepoStub{calls: []models.Call{adminCall(1, "Active call"), archived}}
	r := adminRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/calls?archived=true", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Contains(t, body.Data[1], "archivedAt")
}

func TestAdminCallHandlerCreate(t *testing.T) {
	repo := &adminRepoStub{}
	r := adminRouter(repo)

	payload := `{"title":"קול קורא","requirements":["portfolio"],"deadline":"2025-12-01T00:00:00Z"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/calls", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, repo.created)
	assert.Equal(t, "קול קורא", repo.created.Title)
	assert.Equal(t, []string{"portfolio"}, repo.created.Requirements)
}

func TestAdminCallHandlerCreateMissingTitle(t *testing.T) {
	r := adminRouter(&adminRepoStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/calls", strings.NewReader(`{"location":"Haifa"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCallHandlerCreateMalformedBody(t *testing.T) {
	r := adminRouter(&adminRepoStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/calls", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCallHandlerUpdate(t *testing.T) {
	updated := adminCall(5, "Renamed")
	repo := &adminRepoStub{updated: &updated}
	r := adminRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/admin/calls/5", strings.NewReader(`{"title":"Renamed","link":null}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), repo.seenID)
	assert.Len(t, repo.seen, 2)
	assert.Equal(t, "Renamed", repo.seen["title"])
}

func TestAdminCallHandlerUpdateEmptyBody(t *testing.T) {
	r := adminRouter(&adminRepoStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/admin/calls/5", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "EMPTY_UPDATE", body.Error.Code)
}

func TestAdminCallHandlerUpdateBadID(t *testing.T) {
	r := adminRouter(&adminRepoStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/admin/calls/abc", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCallHandlerArchive(t *testing.T) {
	updated := adminCall(7, "Call")
	repo := &adminRepoStub{updated: &updated}
	r := adminRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/calls/7/archive", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.seen, 1)
	archivedAt, ok := repo.seen["archivedAt"].(*time.Time)
	require.True(t, ok)
	assert.NotNil(t, archivedAt)
}

func TestAdminCallHandlerUnarchive(t *testing.T) {
	updated := adminCall(7, "Call")
	repo := &adminRepoStub{updated: &updated}
	r := adminRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/calls/7/archive", strings.NewReader(`{"unarchive":true}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	archivedAt, ok := repo.seen["archivedAt"].(*time.Time)
	require.True(t, ok)
	assert.Nil(t, archivedAt)
}

func TestAdminCallHandlerExportCSV(t *testing.T) {
	repo := &adminRepoStub{calls: []models.Call{adminCall(1, "Call")}}
	r := adminRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/calls/export", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="calls.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Call")
}

func TestAdminCallHandlerExportUnknownFormat(t *testing.T) {
	repo := &adminRepoStub{}
	r := adminRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/calls/export?format=xlsx", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
