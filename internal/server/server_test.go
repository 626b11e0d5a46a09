package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"countrydash/internal/dashboard"
	"countrydash/internal/dataset"
	"countrydash/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWith(t, Options{Addr: ":0", DevMode: true})
}

func newTestServerWith(t *testing.T, opts Options) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ds, _, err := dataset.Load(context.Background(), dataset.Source{
		FilePath: filepath.Join("..", "..", "testdata", "gapminder_sample.csv"),
	})
	require.NoError(t, err)
	dash, err := dashboard.New(ds, dashboard.Options{Controls: dashboard.DefaultControls()})
	require.NoError(t, err)

	st, err := store.New(filepath.Join(t.TempDir(), "countrydash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return NewServer(dash, st, opts)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServesEmbeddedPage(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "<title>Country Dashboard</title>")

	w = get(t, s, "/assets/app.js")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "/callback")
	require.Contains(t, w.Body.String(), "state: state.controls")

	// 前端路由回退到首页
	w = get(t, s, "/some/page")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Country Dashboard")
}

func TestUnknownAPIPathIsJSON404(t *testing.T) {
	s := newTestServer(t)
	w := get(t, s, "/api/nope")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestAPIMounted(t *testing.T) {
	s := newTestServer(t)
	w := get(t, s, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/callback", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestShutdownWithoutRun(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Shutdown(context.Background()))
	require.NotNil(t, s.GetStore())
}

func TestDevProxyRedirectsPages(t *testing.T) {
	s := newTestServerWith(t, Options{Addr: ":0", DevMode: true, DevProxy: "http://localhost:5173/"})

	w := get(t, s, "/assets/app.js?v=2")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Equal(t, "http://localhost:5173/assets/app.js?v=2", w.Header().Get("Location"))

	// API 不转发
	w = get(t, s, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)
	w = get(t, s, "/api/nope")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDevProxyIgnoredOutsideDevMode(t *testing.T) {
	s := newTestServerWith(t, Options{Addr: ":0", DevProxy: "http://localhost:5173"})
	w := get(t, s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Country Dashboard")
}
