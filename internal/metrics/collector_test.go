package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelliview/intelliview-api/internal/middleware"
)

func newRouter(m *Metrics) http.Handler {
	logger, _ := test.NewNullLogger()

	r := chi.NewRouter()
	r.Use(middleware.RequestLogging(logger, middleware.WithObserver(m)))
	r.Get("/api/interviews/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/api/interviews", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

func TestObserveRequest_UsesRoutePattern(t *testing.T) {
	m := New("intelliview")
	h := newRouter(m)

	for _, id := range []string{"1", "2", "3"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/interviews/"+id, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/interviews", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/interviews/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/api/interviews", "201")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestObserveRequest_Unmatched(t *testing.T) {
	m := New("intelliview")
	h := newRouter(m)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")))
}

func TestObserveRequest_UnsetStatus(t *testing.T) {
	m := New("intelliview")
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	m.ObserveRequest(req, middleware.RequestRecord{Method: "GET", Path: "/x", Status: middleware.StatusUnset})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", unmatchedRoute, "-")))
}

func TestSetDependency(t *testing.T) {
	m := New("intelliview")
	m.SetDependency("database", true)
	m.SetDependency("redis", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DependencyUp.WithLabelValues("database")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DependencyUp.WithLabelValues("redis")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New("intelliview")
	m.SetDependency("database", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `intelliview_dependency_up{dependency="database"} 1`))
	assert.Contains(t, string(body), "go_goroutines")
}
