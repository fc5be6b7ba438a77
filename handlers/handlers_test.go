package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-dashboard/likes"
	"procurement-dashboard/loader"
	"procurement-dashboard/models"
	"procurement-dashboard/query"
	"procurement-dashboard/session"
	"procurement-dashboard/view"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) (*gin.Engine, *likes.MemorySurface) {
	t.Helper()

	ds := &loader.Dataset{
		Articles: []models.Article{
			{ID: "A", Title: "Acquisition reform", Source: "Gov", URL: "https://gov.example/a", Date: "2024-01-10T00:00:00+00:00", RelevanceScore: 0.5, Tags: []string{"AI"}},
			{ID: "B", Title: "Cyber spend", Source: "Press", Date: "2024-03-01T00:00:00+00:00", RelevanceScore: 0.2, Tags: []string{"Cyber"}},
		},
		Themes: &models.Themes{
			Themes:       []models.ThemeCount{{Name: "AI", Count: 2}},
			TopSolutions: []models.SolutionCount{{Text: "Adopt open standards", Count: 1}},
		},
	}
	mem := likes.NewMemorySurface()
	s := session.New(ds, likes.New(mem, likes.DefaultKey))
	return NewRouter(New(s, nil, nil)), mem
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, view.Model) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var m view.Model
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	}
	return w, m
}

func rowIDs(m view.Model) []string {
	out := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Article.ID
	}
	return out
}

func TestRoot_Redirects(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestDashboard_Renders(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Acquisition reform")
	assert.Contains(t, body, "Mar 01, 2024")
	assert.Contains(t, body, "Theme mentions")
	assert.Contains(t, body, `action="/api/likes"`)
	assert.Contains(t, body, `name="id" value="A"`)
	assert.Less(t, strings.Index(body, "Cyber spend"), strings.Index(body, "Acquisition reform"), "newest first")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestAPI_View(t *testing.T) {
	r, _ := setupRouter(t)

	w, m := doJSON(t, r, http.MethodGet, "/api/view", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"B", "A"}, rowIDs(m))
	assert.Equal(t, query.DefaultState(), m.State)
	require.NotNil(t, m.Charts)
	assert.Equal(t, "Adopt open standards", m.Charts.Solutions[0].Label)
}

func TestAPI_Events(t *testing.T) {
	r, _ := setupRouter(t)

	_, m := doJSON(t, r, http.MethodPost, "/api/recommended", `{"enabled":true}`)
	assert.Equal(t, []string{"A"}, rowIDs(m))

	_, m = doJSON(t, r, http.MethodPost, "/api/recommended", `{"enabled":false}`)
	assert.Equal(t, []string{"B", "A"}, rowIDs(m))

	_, m = doJSON(t, r, http.MethodPost, "/api/search", `{"text":"ai"}`)
	assert.Equal(t, []string{"A"}, rowIDs(m))
	assert.Equal(t, "ai", m.State.Search)

	doJSON(t, r, http.MethodPost, "/api/search", `{"text":""}`)
	_, m = doJSON(t, r, http.MethodPost, "/api/tag", `{"tag":"Cyber"}`)
	assert.Equal(t, []string{"B"}, rowIDs(m))
}

func TestAPI_SortClick(t *testing.T) {
	r, _ := setupRouter(t)

	_, m := doJSON(t, r, http.MethodPost, "/api/sort/date", "")
	assert.Equal(t, query.Asc, m.State.SortDir)
	assert.Equal(t, []string{"A", "B"}, rowIDs(m))

	_, m = doJSON(t, r, http.MethodPost, "/api/sort/source", "")
	assert.Equal(t, query.KeySource, m.State.SortKey)
	assert.Equal(t, query.Desc, m.State.SortDir)

	w, _ := doJSON(t, r, http.MethodPost, "/api/sort/colour", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown sort key")
}

func TestAPI_LikeToggle(t *testing.T) {
	r, mem := setupRouter(t)

	_, m := doJSON(t, r, http.MethodPost, "/api/likes", `{"id":"A"}`)
	assert.True(t, m.Rows[1].Liked)

	raw, _, err := mem.Get(context.Background(), likes.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["A"]`, raw)

	_, m = doJSON(t, r, http.MethodPost, "/api/likes", `{"id":"A"}`)
	assert.False(t, m.Rows[1].Liked)
}

func TestAPI_LikeToggle_OpaqueIDs(t *testing.T) {
	ds := &loader.Dataset{
		Articles: []models.Article{
			{ID: "feed/42", Title: "Slashed", Date: "2024-02-01"},
			{ID: "q?x=1#frag", Title: "Query-like", Date: "2024-01-01"},
		},
	}
	mem := likes.NewMemorySurface()
	r := NewRouter(New(session.New(ds, likes.New(mem, likes.DefaultKey)), nil, nil))

	w, m := doJSON(t, r, http.MethodPost, "/api/likes", `{"id":"feed/42"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, m.Rows[0].Liked)

	form := url.Values{"id": {"q?x=1#frag"}}
	req := httptest.NewRequest(http.MethodPost, "/api/likes", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	raw, _, err := mem.Get(context.Background(), likes.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["feed/42","q?x=1#frag"]`, raw)

	page := httptest.NewRecorder()
	r.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Contains(t, page.Body.String(), `name="id" value="feed/42"`)
}

func TestAPI_LikeToggle_MissingID(t *testing.T) {
	r, _ := setupRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/likes", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_BadBody(t *testing.T) {
	r, _ := setupRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/search", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_FormPostRedirects(t *testing.T) {
	r, _ := setupRouter(t)

	form := url.Values{"tag": {"AI"}}
	req := httptest.NewRequest(http.MethodPost, "/api/tag", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	var st query.State
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &st))
	assert.Equal(t, "AI", st.Tag)
}

func TestAPI_StatsTagsCharts(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	var stats view.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Recommended)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags", nil))
	var tags []view.TagOption
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	assert.Equal(t, []view.TagOption{{Tag: "AI", Count: 1}, {Tag: "Cyber", Count: 1}}, tags)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/charts", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoadFailure(t *testing.T) {
	loadErr := fmt.Errorf("%w: articles: both sources unreadable", loader.ErrLoadFailed)
	r := NewRouter(New(nil, loadErr, nil))

	tests := []struct {
		path   string
		accept string
	}{
		{"/dashboard", "text/html"},
		{"/api/view", "application/json"},
		{"/healthz", "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Accept", tt.accept)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.NotContains(t, w.Body.String(), "articlesTable")
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "dataset load failed")
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	doJSON(t, r, http.MethodPost, "/api/search", `{"text":"x"}`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `dashboard_events_total{event="search_changed"}`)
}

func TestRequestID_Propagates(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
}
