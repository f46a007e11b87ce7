package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Pranavsangichetty/portfolio/internal/analytics"
	"github.com/Pranavsangichetty/portfolio/internal/content"
	"github.com/Pranavsangichetty/portfolio/internal/session"
)

type testOptions struct {
	strict        bool
	deliverer     content.Deliverer
	tracker       *analytics.Tracker
	maxUploadSize int64
	uploadQuota   int64
	maxSessions   int
}

func testSeed() *content.Seed {
	return &content.Seed{
		Profile: content.Profile{
			Name:     "Pranav Sangichetty",
			Headline: "Aspiring Data Scientist & LLM Enthusiast",
			Skills:   []string{"Python", "SQL"},
		},
		Resumes: []content.Resume{
			{ID: 1, Title: "R1", Type: "DS", URL: "/r1.pdf"},
			{ID: 2, Title: "R2", Type: "DA", URL: "/r2.pdf"},
		},
		Projects: map[string][]content.Project{
			"data-science": {{ID: 1, Title: "House Price Prediction", Description: "Regression."}},
		},
		Certificates: []content.Certificate{
			{ID: 1, Name: "Deloitte Data Analytics Job Simulation", URL: "/certificates/delo_DA.pdf"},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, opts testOptions) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := discardLogger()
	deliverer := opts.deliverer
	if deliverer == nil {
		deliverer = content.NewMockDeliverer(logger)
	}
	maxSize := opts.maxUploadSize
	if maxSize == 0 {
		maxSize = 1 << 20
	}

	sessions := session.NewManager(session.Config{
		TTL:              time.Hour,
		SweepInterval:    time.Minute,
		MaxSessions:      opts.maxSessions,
		UploadQuota:      opts.uploadQuota,
		StrictCategories: opts.strict,
	}, testSeed(), deliverer, logger)

	return New(Options{
		Sessions:      sessions,
		Tracker:       opts.tracker,
		Logger:        logger,
		MaxUploadSize: maxSize,
		StatsEnabled:  opts.tracker != nil,
		Version:       "test",
	})
}

// client replays the session cookie like a browser would.
type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func newClient(t *testing.T, srv *Server) *client {
	return &client{t: t, srv: srv}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	cl.t.Helper()
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	w := httptest.NewRecorder()
	cl.srv.Handler().ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			cl.cookie = c
		}
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(newRequest(http.MethodGet, path))
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) sendJSON(method, path string, body any) *httptest.ResponseRecorder {
	cl.t.Helper()
	data, err := json.Marshal(body)
	require.NoError(cl.t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return cl.do(req)
}

func (cl *client) upload(path string, files map[string][]byte, order ...string) *httptest.ResponseRecorder {
	cl.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range order {
		part, err := mw.CreateFormFile(uploadField, name)
		require.NoError(cl.t, err)
		_, err = part.Write(files[name])
		require.NoError(cl.t, err)
	}
	require.NoError(cl.t, mw.WriteField("note", "ignored"))
	require.NoError(cl.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return cl.do(req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type failingDeliverer struct{}

func (failingDeliverer) Deliver(context.Context, content.ContactDraft) error {
	return errors.New("smtp unreachable")
}
