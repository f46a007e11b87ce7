package session

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranavsangichetty/portfolio/internal/content"
)

func testManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	seed := &content.Seed{
		Resumes: []content.Resume{{ID: 1, Title: "R1", Type: "DS", URL: "/r1.pdf"}},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(Config{TTL: ttl, SweepInterval: time.Minute}, seed, content.NewMockDeliverer(logger), logger)
}

func TestManager_GetReusesLiveSession(t *testing.T) {
	m := testManager(t, time.Hour)

	s := m.Get("")
	again := m.Get(s.ID)

	assert.Same(t, s, again)
	assert.Equal(t, 1, m.Len())
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := testManager(t, time.Hour)
	a := m.Get("")
	b := m.Get("")

	require.NoError(t, a.Do(func(st *content.Store) error {
		st.Resumes.Remove(1)
		_, err := st.Certificates.BulkAppend([]content.File{{Name: "c.pdf", Content: []byte("%PDF-1.4")}})
		return err
	}))

	require.NoError(t, b.Do(func(st *content.Store) error {
		assert.Len(t, st.Resumes.List(), 1)
		assert.Empty(t, st.Certificates.List())
		return nil
	}))
	assert.Equal(t, 1, a.Blobs.Len())
	assert.Zero(t, b.Blobs.Len())
}

func TestManager_SweepExpires(t *testing.T) {
	m := testManager(t, time.Minute)
	base := time.Now()
	m.now = func() time.Time { return base }

	s := m.Get("")
	require.NoError(t, s.Do(func(st *content.Store) error {
		_, err := st.Projects.BulkAppend(content.CategoryDataScience, []content.File{{Name: "a.csv"}})
		return err
	}))

	assert.Zero(t, m.Sweep(base.Add(30*time.Second)))
	assert.Equal(t, 1, m.Sweep(base.Add(2*time.Minute)))
	assert.Zero(t, m.Len())
	assert.Zero(t, s.Blobs.Len())
}

func TestManager_ExpiredIDStartsFresh(t *testing.T) {
	m := testManager(t, time.Minute)
	base := time.Now()
	m.now = func() time.Time { return base }
	old := m.Get("")

	m.now = func() time.Time { return base.Add(time.Hour) }
	fresh := m.Get(old.ID)

	assert.NotEqual(t, old.ID, fresh.ID)
	assert.Equal(t, 1, m.Len())
}

func TestManager_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := testManager(t, time.Hour)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", func(c *gin.Context) {
		s := FromContext(c)
		require.NotNil(t, s)
		c.String(http.StatusOK, s.ID)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, w.Body.String(), cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, cookies[0].Value, w2.Body.String())
	refreshed := w2.Result().Cookies()
	require.Len(t, refreshed, 1)
	assert.Equal(t, cookies[0].Value, refreshed[0].Value)
	assert.Equal(t, int(time.Hour.Seconds()), refreshed[0].MaxAge)
	assert.Equal(t, 1, m.Len())
}

func TestManager_MaxSessionsEvictsLeastRecentlySeen(t *testing.T) {
	m := testManager(t, time.Hour)
	m.cfg.MaxSessions = 3
	base := time.Now()
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first := m.Get("")
	second := m.Get("")
	third := m.Get("")
	m.Get(first.ID)

	fourth := m.Get("")

	assert.Equal(t, 3, m.Len())
	assert.Same(t, first, m.Get(first.ID))
	assert.Same(t, third, m.Get(third.ID))
	assert.Same(t, fourth, m.Get(fourth.ID))
	assert.NotEqual(t, second.ID, m.Get(second.ID).ID)

	for i := 0; i < 500; i++ {
		m.Get("")
	}
	assert.Equal(t, 3, m.Len())
}

func TestManager_SweepDoesNotBlockOnBusySession(t *testing.T) {
	m := testManager(t, time.Minute)
	base := time.Now()
	m.now = func() time.Time { return base }
	busy := m.Get("")

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = busy.Do(func(*content.Store) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	swept := make(chan int, 1)
	go func() { swept <- m.Sweep(base.Add(time.Hour)) }()

	select {
	case n := <-swept:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("sweep waited on a session's store lock")
	}

	got := make(chan *Session, 1)
	go func() { got <- m.Get(busy.ID) }()
	select {
	case s := <-got:
		assert.NotEqual(t, busy.ID, s.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("get waited on a session's store lock")
	}
}
