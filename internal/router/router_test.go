package router

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelliview/intelliview-api/internal/controllers"
	"github.com/intelliview/intelliview-api/internal/metrics"
	"github.com/intelliview/intelliview-api/internal/middleware"
	"github.com/intelliview/intelliview-api/pkg/auth"
	apitest "github.com/intelliview/intelliview-api/pkg/testing"
)

const signingKey = "router-test-signing-key-0123456789"

type fixture struct {
	handler http.Handler
	hook    *test.Hook
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, mutate func(*Options)) fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()

	validator, err := auth.NewValidator(auth.JWTConfig{Key: signingKey})
	require.NoError(t, err)

	m := metrics.New("intelliview")
	opts := Options{
		Logger:    logger,
		Validator: validator,
		Metrics:   m,
		HealthChecks: []controllers.HealthCheck{
			{Name: "database", Check: func(context.Context) error { return nil }},
		},
		Version: "test",
	}
	if mutate != nil {
		mutate(&opts)
	}

	return fixture{handler: New(opts), hook: hook, metrics: m}
}

func token(t *testing.T, roles ...string) string {
	return apitest.SignToken(t, signingKey, apitest.Claims("user-7", roles...))
}

func TestHealth_Healthy(t *testing.T) {
	f := newFixture(t, nil)

	resp := apitest.NewTestRequest(http.MethodGet, "/api/health").
		Send(f.handler).
		AssertStatus(t, http.StatusOK).
		AssertJSON(t).
		AssertJSONPath(t, "success", true).
		AssertJSONPath(t, "data.status", "Healthy").
		AssertJSONPath(t, "data.checks.database.status", "Healthy")

	assert.NotEmpty(t, resp.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DependencyUp.WithLabelValues("database")))
}

func TestHealth_Unhealthy(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.HealthChecks = append(o.HealthChecks, controllers.HealthCheck{
			Name:  "redis",
			Check: func(context.Context) error { return errors.New("connection refused") },
		})
	})

	apitest.NewTestRequest(http.MethodGet, "/api/health").
		Send(f.handler).
		AssertStatus(t, http.StatusServiceUnavailable).
		AssertJSON(t).
		AssertJSONPath(t, "data.status", "Unhealthy").
		AssertJSONPath(t, "data.checks.redis.error", "connection refused").
		AssertJSONPath(t, "data.checks.database.status", "Healthy")

	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.DependencyUp.WithLabelValues("redis")))
}

func TestMe(t *testing.T) {
	f := newFixture(t, nil)

	apitest.NewTestRequest(http.MethodGet, "/api/auth/me").
		Send(f.handler).
		AssertProblem(t, http.StatusUnauthorized)

	apitest.NewTestRequest(http.MethodGet, "/api/auth/me").
		WithBearer(token(t, "Admin")).
		Send(f.handler).
		AssertProblem(t, http.StatusForbidden)

	apitest.NewTestRequest(http.MethodGet, "/api/auth/me").
		WithBearer(token(t, "Company")).
		Send(f.handler).
		AssertStatus(t, http.StatusOK).
		AssertJSONPath(t, "data.id", "user-7")
}

func TestRequestsAreLogged(t *testing.T) {
	f := newFixture(t, nil)

	apitest.NewTestRequest(http.MethodGet, "/api/health").Send(f.handler)
	apitest.NewTestRequest(http.MethodGet, "/api/auth/me").Send(f.handler)

	entries := f.hook.AllEntries()
	require.Len(t, entries, 2)
	assert.True(t, strings.HasPrefix(entries[0].Message, "HTTP GET /api/health responded 200 in "))
	assert.True(t, strings.HasPrefix(entries[1].Message, "HTTP GET /api/auth/me responded 401 in "))

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RequestsTotal.WithLabelValues("GET", "/api/health", "200")))
}

func TestLogEndpoints_FiltersRequests(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.LogEndpoints = []string{"AUTH"} })

	apitest.NewTestRequest(http.MethodGet, "/api/health").Send(f.handler).AssertStatus(t, http.StatusOK)
	apitest.NewTestRequest(http.MethodGet, "/api/auth/me").Send(f.handler)

	entries := f.hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "/api/auth/me")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	f := newFixture(t, nil)

	apitest.NewTestRequest(http.MethodGet, "/api/nope").
		Send(f.handler).
		AssertProblem(t, http.StatusNotFound).
		AssertJSONPath(t, "instance", "/api/nope")

	apitest.NewTestRequest(http.MethodPost, "/api/health").
		Send(f.handler).
		AssertProblem(t, http.StatusMethodNotAllowed)
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>IntelliView</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	f := newFixture(t, func(o *Options) { o.StaticDir = dir })

	resp := apitest.NewTestRequest(http.MethodGet, "/app.js").Send(f.handler).AssertStatus(t, http.StatusOK)
	assert.Equal(t, "console.log(1)", resp.GetBody())

	resp = apitest.NewTestRequest(http.MethodGet, "/").Send(f.handler).AssertStatus(t, http.StatusOK)
	assert.Contains(t, resp.GetBody(), "IntelliView")

	apitest.NewTestRequest(http.MethodGet, "/missing.css").Send(f.handler).AssertProblem(t, http.StatusNotFound)
	apitest.NewTestRequest(http.MethodGet, "/../etc/passwd").Send(f.handler).AssertStatus(t, http.StatusNotFound)
}

func TestStaticDirMissing(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.StaticDir = filepath.Join(t.TempDir(), "wwwroot") })
	apitest.NewTestRequest(http.MethodGet, "/").Send(f.handler).AssertProblem(t, http.StatusNotFound)
}

func TestRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	f := newFixture(t, func(o *Options) { o.RateLimiter = limiter })

	apitest.NewTestRequest(http.MethodGet, "/api/health").Send(f.handler).AssertStatus(t, http.StatusOK)
	apitest.NewTestRequest(http.MethodGet, "/api/health").Send(f.handler).AssertProblem(t, http.StatusTooManyRequests)

	// reddedilen istek de loglanır
	entries := f.hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[1].Message, "responded 429")
}

func TestCORSHeaders(t *testing.T) {
	f := newFixture(t, nil)

	apitest.NewTestRequest(http.MethodGet, "/api/health").
		WithHeader("Origin", "https://app.example").
		Send(f.handler).
		AssertHeader(t, "Access-Control-Allow-Origin", "*")
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.MetricsPath = "/internal/metrics" })

	apitest.NewTestRequest(http.MethodGet, "/api/health").Send(f.handler)
	resp := apitest.NewTestRequest(http.MethodGet, "/internal/metrics").Send(f.handler).AssertStatus(t, http.StatusOK)
	assert.Contains(t, resp.GetBody(), "intelliview_http_requests_total")
}
