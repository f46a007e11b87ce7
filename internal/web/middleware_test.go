package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranavsangichetty/portfolio/internal/analytics"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
		wantEmpty bool
	}{
		{name: "ok", path: "/", status: http.StatusOK, wantLevel: "level=INFO"},
		{name: "client error", path: "/missing", status: http.StatusNotFound, wantLevel: "level=WARN"},
		{name: "server error", path: "/boom", status: http.StatusInternalServerError, wantLevel: "level=ERROR"},
		{name: "skipped", path: "/healthz", status: http.StatusOK, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			r := gin.New()
			r.Use(requestLogger(logger, "/healthz"))
			r.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.status, w.Code)

			if tt.wantEmpty {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.wantLevel)
			assert.Contains(t, buf.String(), "path="+tt.path)
		})
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(recovery(logger))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "Panic recovered")
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestUntracked(t *testing.T) {
	assert.True(t, untracked("/blobs/abc"))
	assert.True(t, untracked("/resumes/ds.pdf"))
	assert.True(t, untracked("/healthz"))
	assert.False(t, untracked("/"))
	assert.False(t, untracked("/api/resumes"))
}

func TestVisitorTracking(t *testing.T) {
	tracker, err := analytics.Open(context.Background(), analytics.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracker.Close() })

	cl := newClient(t, newTestServer(t, testOptions{tracker: tracker}))

	cl.get("/")
	req := newRequest(http.MethodGet, "/api/resumes")
	req.Header.Set("DNT", "1")
	cl.do(req)
	cl.get("/healthz")

	require.Eventually(t, func() bool {
		stats, err := tracker.Stats(context.Background())
		return err == nil && stats.TotalVisitors == 1
	}, 2*time.Second, 10*time.Millisecond)

	w := cl.get("/stats")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[analytics.Stats](t, w)
	require.Len(t, stats.RecentVisitors, 1)
	assert.Equal(t, "/", stats.RecentVisitors[0].Path)
}

func TestStats_DisabledWithoutTracker(t *testing.T) {
	cl := newClient(t, newTestServer(t, testOptions{}))
	assert.Equal(t, http.StatusNotFound, cl.get("/stats").Code)
}

func TestHealth(t *testing.T) {
	cl := newClient(t, newTestServer(t, testOptions{}))
	cl.get("/")

	w := cl.get("/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[healthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.Equal(t, 1, resp.Sessions)
}
