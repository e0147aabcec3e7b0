package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etymograph/dailyverse/internal/handler"
	"github.com/etymograph/dailyverse/internal/limiter"
	"github.com/etymograph/dailyverse/internal/model"
	"github.com/etymograph/dailyverse/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubWords struct{}

func (stubWords) Words(context.Context) ([]model.Word, error) {
	return []model.Word{{Text: "light", Type: model.Noun, Score: 500, Source: model.SourceEmergency}}, nil
}

func (stubWords) Refresh(context.Context) (model.DailyWords, error) {
	return model.DailyWords{Words: []model.Word{{Text: "light"}}, ComputedAt: time.Now()}, nil
}

func (stubWords) Status() service.WordsStatus {
	return service.WordsStatus{}
}

type stubPoems struct{}

func (stubPoems) PoemOfTheDay(context.Context) (model.Poem, error) {
	return model.Poem{Title: "Night", Author: "William Blake"}, nil
}

func newTestRouter(refreshLimit int64) *gin.Engine {
	logger := zap.NewNop()
	return newRouter(
		handler.NewWordHandler(stubWords{}, logger),
		handler.NewPoemHandler(stubPoems{}, logger),
		limiter.New(limiter.NewMemoryCounter(), refreshLimit, time.Minute),
		nil,
		logger,
	)
}

func do(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(5)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/scheduler/status", http.StatusOK},
		{http.MethodGet, "/api/words", http.StatusOK},
		{http.MethodGet, "/api/words/status", http.StatusOK},
		{http.MethodPost, "/api/words/refresh", http.StatusOK},
		{http.MethodGet, "/api/poem", http.StatusOK},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.status, do(r, tt.method, tt.path).Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	w := do(newTestRouter(5), http.MethodOptions, "/api/words")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSchedulerStatusWhenDisabled(t *testing.T) {
	w := do(newTestRouter(5), http.MethodGet, "/scheduler/status")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"enabled":false,"message":"Scheduler is disabled"}`, w.Body.String())
}

func TestRefreshIsRateLimited(t *testing.T) {
	r := newTestRouter(1)

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/words/refresh").Code)

	w := do(r, http.MethodPost, "/api/words/refresh")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"message"`)

	// Reads are not limited.
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/words").Code)
}

func TestRefreshLimitIgnoresForwardedFor(t *testing.T) {
	r := newTestRouter(1)

	refresh := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/words/refresh", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, refresh("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, refresh("198.51.100.2"))
}
