// Package router, HTTP pipeline'ını ve route tablosunu kurar.
//
// Middleware sırası (dıştan içe):
//
//	PanicRecovery → RequestID → Tracing → CORS → RequestTimer → RateLimit → routes
//
// Route'lara uymayan GET/HEAD istekleri statik dosyalardan karşılanır.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/intelliview/intelliview-api/internal/controllers"
	"github.com/intelliview/intelliview-api/internal/http/response"
	"github.com/intelliview/intelliview-api/internal/metrics"
	"github.com/intelliview/intelliview-api/internal/middleware"
	"github.com/intelliview/intelliview-api/pkg/auth"
)

// Options, router'ın bağımlılıklarıdır. nil alanlar ilgili özelliği kapatır.
type Options struct {
	Logger    logrus.FieldLogger
	Validator middleware.TokenValidator

	// LogEndpoints doluysa yalnızca bu fragment'ları içeren path'ler loglanır.
	LogEndpoints []string
	TimerOptions []middleware.TimerOption

	CORS        middleware.CORSOptions
	Tracing     middleware.Middleware
	RateLimiter *middleware.RateLimiter

	Metrics     *metrics.Metrics
	MetricsPath string

	HealthChecks []controllers.HealthCheck
	Version      string
	StaticDir    string
}

// New, yapılandırılmış http.Handler'ı döndürür.
func New(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.PanicRecovery(opts.Logger))
	r.Use(middleware.RequestID())
	if opts.Tracing != nil {
		r.Use(opts.Tracing)
	}
	r.Use(middleware.CORS(opts.CORS))
	r.Use(requestTimer(opts))
	if opts.RateLimiter != nil {
		r.Use(middleware.RateLimit(opts.RateLimiter))
	}

	var recorder controllers.DependencyRecorder
	if opts.Metrics != nil {
		recorder = opts.Metrics
	}
	health := controllers.NewHealthController(opts.HealthChecks, recorder, opts.Version)
	authController := controllers.NewAuthController()
	static := controllers.NewStaticController(opts.StaticDir)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Check)

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Authenticate(opts.Validator),
				middleware.Authorize(auth.UserOrCompanyPolicy()),
			)
			r.Get("/auth/me", authController.Me)
		})
	})

	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.Metrics.Handler())
	}

	r.NotFound(static.Serve)
	r.MethodNotAllowed(response.MethodNotAllowed)

	return r
}

// requestTimer, LogEndpoints'e göre tüm istekleri ya da yalnızca eşleşenleri
// loglayan timer'ı seçer. Metrikler açıksa timer kayıtları onlara da iletilir.
func requestTimer(opts Options) middleware.Middleware {
	timerOpts := opts.TimerOptions
	if opts.Metrics != nil {
		timerOpts = append(timerOpts, middleware.WithObserver(opts.Metrics))
	}

	if len(opts.LogEndpoints) > 0 {
		return middleware.EndpointLogging(opts.Logger, opts.LogEndpoints, timerOpts...)
	}
	return middleware.RequestLogging(opts.Logger, timerOpts...)
}
