// -----------------------------------------------------------------------------
// Bootstrap Package
// -----------------------------------------------------------------------------
// Uygulamanın bağımlılıklarını DI container'a kaydeder ve HTTP handler'ını
// kurar. Kayıt sırası:
//
//	config → logger → telemetry → database → redis → validator → metrics
//	→ rate limiter → handler
//
// Veritabanı havuzu ve Redis client'ı ağa çıkmadan oluşturulur; bağlantılar
// ilk kullanımda açılır. Sunucuya ulaşılamıyorsa uygulama yine ayağa kalkar
// ve /api/health "Unhealthy" döner. Redis log sink'i açıksa Redis
// başlangıçta ping'lenir ve ulaşılamıyorsa Build hata döner.
// -----------------------------------------------------------------------------

package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/intelliview/intelliview-api/internal/config"
	"github.com/intelliview/intelliview-api/internal/controllers"
	"github.com/intelliview/intelliview-api/internal/logging"
	"github.com/intelliview/intelliview-api/internal/metrics"
	"github.com/intelliview/intelliview-api/internal/middleware"
	"github.com/intelliview/intelliview-api/internal/router"
	"github.com/intelliview/intelliview-api/internal/telemetry"
	"github.com/intelliview/intelliview-api/pkg/auth"
	"github.com/intelliview/intelliview-api/pkg/container"
	"github.com/intelliview/intelliview-api/pkg/database"
)

// metricsNamespace, Prometheus metriklerinin önekidir.
const metricsNamespace = "intelliview"

// startupPingTimeout, Redis log sink'i için başlangıç ping süresidir.
const startupPingTimeout = 5 * time.Second

// Options, Build'in davranışını belirler.
type Options struct {
	Version string
	// LogOutput nil ise os.Stdout kullanılır.
	LogOutput io.Writer
}

// App, kurulmuş uygulamadır.
type App struct {
	Container *container.Container
	Config    *config.Config
	Logger    *logrus.Logger
	Handler   http.Handler
}

// Build, servisleri kaydeder ve handler'ı oluşturur. Hata durumunda o ana
// kadar oluşturulan servisler kapatılır.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	c := container.New()
	container.Instance(c, cfg)

	app, err := build(ctx, c, cfg, opts)
	if err != nil {
		_ = c.Close(context.Background())
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, c *container.Container, cfg *config.Config, opts Options) (*App, error) {
	register(ctx, c, cfg, opts)

	logger, err := container.Resolve[*logrus.Logger](c)
	if err != nil {
		return nil, err
	}
	if _, err := container.Resolve[*telemetry.Telemetry](c); err != nil {
		return nil, err
	}
	if cfg.Logging.Redis.Enabled {
		redisClient, err := container.Resolve[*database.RedisClient](c)
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
		err = redisClient.Ping(pingCtx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("redis log sink: %w", err)
		}
		logger.AddHook(logging.NewRedisHook(redisClient.Client(), cfg.Logging.Redis.Key, cfg.Logging.Redis.MaxLen))
	}

	routerOpts, err := RouterOptions(c, opts.Version)
	if err != nil {
		return nil, err
	}

	return &App{
		Container: c,
		Config:    cfg,
		Logger:    logger,
		Handler:   router.New(routerOpts),
	}, nil
}

// register, servis fabrikalarını container'a ekler.
func register(ctx context.Context, c *container.Container, cfg *config.Config, opts Options) {
	// ========================================
	// LOGGER
	// ========================================
	container.Provide(c, func(*container.Container) (*logrus.Logger, error) {
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: opts.LogOutput,
		})
		if err != nil {
			return nil, err
		}
		logger.AddHook(telemetry.NewLogrusHook())
		return logger, nil
	})

	// ========================================
	// TELEMETRY
	// ========================================
	container.Provide(c, func(*container.Container) (*telemetry.Telemetry, error) {
		return telemetry.New(ctx, telemetry.Config{
			Enabled:     cfg.Telemetry.Enabled,
			ServiceName: cfg.Telemetry.ServiceName,
			Version:     opts.Version,
			Environment: cfg.App.Env,
			Endpoint:    cfg.Telemetry.Endpoint,
			Insecure:    cfg.Telemetry.Insecure,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
	})

	// ========================================
	// DATABASE
	// ========================================
	container.Provide(c, func(c *container.Container) (*sql.DB, error) {
		dbCfg := database.DefaultConfig(cfg.Database.ConnectionString)
		if cfg.Database.MaxOpenConns > 0 {
			dbCfg.MaxOpenConns = cfg.Database.MaxOpenConns
		}
		if cfg.Database.MaxIdleConns > 0 {
			dbCfg.MaxIdleConns = cfg.Database.MaxIdleConns
		}
		if cfg.Database.ConnMaxLifetime > 0 {
			dbCfg.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
		}
		return database.Open(dbCfg, container.GetLogger(c))
	})

	// ========================================
	// REDIS
	// ========================================
	if cfg.Redis.Enabled {
		container.Provide(c, func(c *container.Container) (*database.RedisClient, error) {
			redisCfg := database.DefaultRedisConfig(cfg.Redis.Addr)
			redisCfg.Password = cfg.Redis.Password
			redisCfg.DB = cfg.Redis.DB
			return database.NewRedisClient(redisCfg, container.GetLogger(c)), nil
		})
	}

	// ========================================
	// AUTH
	// ========================================
	container.Provide(c, func(*container.Container) (*auth.Validator, error) {
		return auth.NewValidator(auth.JWTConfig{
			Key:      cfg.JWT.Key,
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
			Duration: cfg.JWT.Duration(),
		})
	})

	// ========================================
	// METRICS & RATE LIMITING
	// ========================================
	if cfg.Metrics.Enabled {
		container.Provide(c, func(*container.Container) (*metrics.Metrics, error) {
			return metrics.New(metricsNamespace), nil
		})
	}
	if cfg.RateLimit.Enabled {
		container.Provide(c, func(*container.Container) (*middleware.RateLimiter, error) {
			return middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window), nil
		})
	}
}

// RouterOptions, container'daki servislerden router.Options üretir.
// Veritabanı ve Redis burada çözülmez; health check'ler her çağrıda
// container'dan ister ve kendi context'leriyle ping'ler.
func RouterOptions(c *container.Container, version string) (router.Options, error) {
	cfg := container.GetConfig(c)

	logger, err := container.Resolve[*logrus.Logger](c)
	if err != nil {
		return router.Options{}, err
	}
	validator, err := container.Resolve[*auth.Validator](c)
	if err != nil {
		return router.Options{}, err
	}

	opts := router.Options{
		Logger:       logger,
		Validator:    validator,
		LogEndpoints: cfg.Logging.Endpoints,
		CORS: middleware.CORSOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MaxAge:         cfg.CORS.MaxAge,
		},
		MetricsPath:  cfg.Metrics.Path,
		HealthChecks: healthChecks(c, cfg),
		Version:      version,
		StaticDir:    cfg.Static.Dir,
	}

	if container.Has[*metrics.Metrics](c) {
		opts.Metrics = container.GetMetrics(c)
	}
	if container.Has[*middleware.RateLimiter](c) {
		if opts.RateLimiter, err = container.Resolve[*middleware.RateLimiter](c); err != nil {
			return router.Options{}, err
		}
	}
	if container.Has[*telemetry.Telemetry](c) {
		if tel := container.GetTelemetry(c); tel.IsEnabled() {
			opts.Tracing = telemetry.HTTPMiddleware(tel.ServiceName(), nil)
		}
	}

	return opts, nil
}

func healthChecks(c *container.Container, cfg *config.Config) []controllers.HealthCheck {
	checks := []controllers.HealthCheck{{
		Name: "database",
		Check: func(ctx context.Context) error {
			db, err := container.Resolve[*sql.DB](c)
			if err != nil {
				return fmt.Errorf("database unavailable: %w", err)
			}
			return db.PingContext(ctx)
		},
	}}

	if cfg.Redis.Enabled {
		checks = append(checks, controllers.HealthCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				client, err := container.Resolve[*database.RedisClient](c)
				if err != nil {
					return fmt.Errorf("redis unavailable: %w", err)
				}
				return client.Ping(ctx)
			},
		})
	}
	return checks
}
