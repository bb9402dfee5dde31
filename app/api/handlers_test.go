package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/lysyi3m/headline-comb/app/database"
	"github.com/lysyi3m/headline-comb/app/ingest"
	"github.com/lysyi3m/headline-comb/app/metrics"
	"github.com/lysyi3m/headline-comb/app/news"
	"github.com/lysyi3m/headline-comb/app/query"
)

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type fakeQueryService struct {
	page  query.Page
	count int
	err   error
	panic bool
}

func (f *fakeQueryService) Query(ctx context.Context, params query.Params) (query.Page, error) {
	if f.panic {
		panic("boom")
	}
	return f.page, f.err
}

func (f *fakeQueryService) Count(ctx context.Context) (int, error) {
	return f.count, f.err
}

type fakeRunner struct {
	result ingest.Result
	err    error
	calls  int
}

func (f *fakeRunner) RunAll(ctx context.Context) (ingest.Result, error) {
	f.calls++
	return f.result, f.err
}

func seededQueryRouter() *gin.Engine {
	store := database.NewMemoryStore(
		news.Article{ID: "a", Title: "Older", PublishedAt: "2025-03-14T07:00:00.000Z", Source: "Reuters", Author: "Unknown"},
		news.Article{ID: "b", Title: "Newer", PublishedAt: "2025-03-14T09:00:00.000Z", Source: "Reuters", Author: "Unknown"},
		news.Article{ID: "c", Title: "Other", PublishedAt: "2025-03-14T08:00:00.000Z", Source: "BBC News", Author: "Unknown"},
	)
	svc := query.NewService(store, nil, func() time.Time { return fixedNow })
	return newTestQueryRouter(svc)
}

func newTestQueryRouter(svc QueryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewQueryServer(NewHandler(svc, nil, func() time.Time { return fixedNow }), metrics.New())
}

func newTestIngestRouter(svc QueryService, runner IngestRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewIngestServer(NewHandler(svc, runner, func() time.Time { return fixedNow }), metrics.New())
}

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func assertCORS(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.NotEqual(t, "", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestGetNews_ReturnsNewestFirst(t *testing.T) {
	w := serve(seededQueryRouter(), http.MethodGet, "/news")

	assert.Equal(t, http.StatusOK, w.Code)
	assertCORS(t, w)
	assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, true, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))

	var page query.Page
	json.Unmarshal(w.Body.Bytes(), &page)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 3, len(page.Articles))
	assert.Equal(t, "b", page.Articles[0].ID)
	assert.Equal(t, "2025-03-14T10:00:00.000Z", page.LastUpdated)
}

func TestGetNews_ResponseShape(t *testing.T) {
	w := serve(seededQueryRouter(), http.MethodGet, "/news?limit=1")

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)

	_, hasArticles := body["articles"]
	_, hasCount := body["count"]
	_, hasLastUpdated := body["lastUpdated"]
	assert.Equal(t, true, hasArticles)
	assert.Equal(t, true, hasCount)
	assert.Equal(t, true, hasLastUpdated)

	articles := body["articles"].([]interface{})
	first := articles[0].(map[string]interface{})
	for _, key := range []string{"id", "publishedAt", "title", "url", "urlToImage", "source", "author", "createdAt"} {
		_, ok := first[key]
		assert.Equal(t, true, ok)
	}
}

func TestGetNews_LimitAndSource(t *testing.T) {
	r := seededQueryRouter()

	w := serve(r, http.MethodGet, "/news?limit=1")
	var page query.Page
	json.Unmarshal(w.Body.Bytes(), &page)
	assert.Equal(t, 1, len(page.Articles))
	assert.Equal(t, 3, page.Count)

	w = serve(r, http.MethodGet, "/news?source=Reuters&limit=abc")
	page = query.Page{}
	json.Unmarshal(w.Body.Bytes(), &page)
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, "b", page.Articles[0].ID)

	w = serve(r, http.MethodGet, "/news?source=BBC%20News")
	page = query.Page{}
	json.Unmarshal(w.Body.Bytes(), &page)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "c", page.Articles[0].ID)
}

func TestGetNews_EmptyStore(t *testing.T) {
	svc := query.NewService(database.NewMemoryStore(), nil, nil)
	w := serve(newTestQueryRouter(svc), http.MethodGet, "/news")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, strings.Contains(w.Body.String(), `"articles":[]`))
	assert.Equal(t, true, strings.Contains(w.Body.String(), `"count":0`))
}

func TestGetNews_QueryError(t *testing.T) {
	svc := &fakeQueryService{err: &news.QueryError{Op: "scan articles", Err: fmt.Errorf("connection refused")}}
	w := serve(newTestQueryRouter(svc), http.MethodGet, "/news")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assertCORS(t, w)

	var res ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Internal Server Error", res.Error)
	assert.Equal(t, "failed to scan articles: connection refused", res.Details)
}

func TestGetNews_PanicBecomesJSON500(t *testing.T) {
	w := serve(newTestQueryRouter(&fakeQueryService{panic: true}), http.MethodGet, "/news")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var res ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Internal Server Error", res.Error)
	assert.Equal(t, "boom", res.Details)
}

func TestOptions_AnyPath(t *testing.T) {
	r := seededQueryRouter()

	for _, path := range []string{"/news", "/anything/else"} {
		w := serve(r, http.MethodOptions, path)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "", w.Body.String())
		assertCORS(t, w)
	}
}

func TestUnknownRoute_NotFound(t *testing.T) {
	r := seededQueryRouter()

	for _, req := range [][2]string{
		{http.MethodGet, "/unknown"},
		{http.MethodPost, "/news"},
		{http.MethodDelete, "/news"},
	} {
		w := serve(r, req[0], req[1])
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, `{"error":"Not Found"}`, w.Body.String())
		assertCORS(t, w)
	}
}

func TestGetHealth(t *testing.T) {
	w := serve(seededQueryRouter(), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)

	var res HealthResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, 3, res.Articles)
	assert.Equal(t, "2025-03-14T10:00:00.000Z", res.Timestamp)
}

func TestGetHealth_StoreDown(t *testing.T) {
	w := serve(newTestQueryRouter(&fakeQueryService{err: fmt.Errorf("connection refused")}), http.MethodGet, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var res HealthResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "unavailable", res.Status)
}

func TestGetMetrics(t *testing.T) {
	w := serve(seededQueryRouter(), http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, strings.Contains(w.Body.String(), "go_goroutines"))
}

func TestPostIngest_Success(t *testing.T) {
	runner := &fakeRunner{result: ingest.Result{Stored: 17, Duplicates: 3}}
	w := serve(newTestIngestRouter(&fakeQueryService{}, runner), http.MethodPost, "/ingest")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, `{"message":"Successfully processed 17 articles"}`, w.Body.String())
}

func TestPostIngest_SourceError(t *testing.T) {
	runner := &fakeRunner{err: &news.SourceError{Source: "newsapi", Status: "error", Message: "rate limited"}}
	w := serve(newTestIngestRouter(&fakeQueryService{}, runner), http.MethodPost, "/ingest")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var res ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Failed to fetch news", res.Error)
	assert.Equal(t, "source newsapi: news API error: error - rate limited", res.Details)
}

func TestPostIngest_NotOnQueryServer(t *testing.T) {
	w := serve(seededQueryRouter(), http.MethodPost, "/ingest")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
