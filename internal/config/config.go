// -----------------------------------------------------------------------------
// Config Package
// -----------------------------------------------------------------------------
// Bu dosya, uygulamanın merkezi konfigürasyon yönetimini sağlar. Ayarlar üç
// kaynaktan, artan öncelik sırasıyla okunur:
//
//  1. Varsayılan değerler
//  2. Opsiyonel config dosyası (yaml/json/toml, --config)
//  3. Ortam değişkenleri (.env dosyası dahil)
//
// Bazı ayarlar birden fazla ortam değişkeni adıyla okunabilir; ilk boş
// olmayan değer kazanır. Örneğin JWT anahtarı hem "JWT__Key" hem "JWT_KEY"
// ile verilebilir.
// -----------------------------------------------------------------------------

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/intelliview/intelliview-api/internal/logging"
)

// Ortam isimleri.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Zorunlu ayar hataları.
var (
	ErrMissingJWTKey           = errors.New("config: JWT key is required")
	ErrMissingConnectionString = errors.New("config: connection string is required")
)

// minProductionKeyLength, production'da JWT anahtarının minimum uzunluğudur.
const minProductionKeyLength = 32

// dotEnvSearchDepth, .env dosyası için kaç üst dizine bakılacağıdır.
const dotEnvSearchDepth = 5

// Config, uygulamanın merkezi yapılandırma nesnesidir.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Static    StaticConfig    `mapstructure:"static"`
}

// AppConfig, uygulama genel ayarlarıdır.
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// ServerConfig, HTTP sunucu ayarlarıdır.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr, http.Server için dinleme adresidir.
func (s ServerConfig) Addr() string {
	if strings.Contains(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

// DatabaseConfig, MySQL bağlantı ayarlarıdır.
type DatabaseConfig struct {
	ConnectionString string        `mapstructure:"connection_string"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
}

// JWTConfig, bearer token doğrulama ayarlarıdır.
type JWTConfig struct {
	Key               string `mapstructure:"key"`
	Issuer            string `mapstructure:"issuer"`
	Audience          string `mapstructure:"audience"`
	DurationInMinutes int    `mapstructure:"duration_in_minutes"`
}

// Duration, token ömrünü döndürür.
func (j JWTConfig) Duration() time.Duration {
	return time.Duration(j.DurationInMinutes) * time.Minute
}

// RedisConfig, Redis bağlantı ayarlarıdır.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CORSConfig, CORS ayarlarıdır. Boş origin listesi her origin'e izin verir.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxAge         int      `mapstructure:"max_age"`
}

// LoggingConfig, log ayarlarıdır.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Endpoints doluysa yalnızca path'i bu fragment'lardan birini içeren
	// istekler zamanlanıp loglanır.
	Endpoints []string        `mapstructure:"endpoints"`
	Redis     RedisSinkConfig `mapstructure:"redis"`
}

// RedisSinkConfig, log kayıtlarının Redis listesine de yazılması içindir.
type RedisSinkConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Key     string `mapstructure:"key"`
	MaxLen  int64  `mapstructure:"max_len"`
}

// RateLimitConfig, IP bazlı rate limiting ayarlarıdır.
type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// MetricsConfig, Prometheus ayarlarıdır.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TelemetryConfig, OpenTelemetry tracing ayarlarıdır.
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// StaticConfig, statik dosya sunumu ayarlarıdır.
type StaticConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoadOptions, Load'un davranışını belirler.
type LoadOptions struct {
	// ConfigFile, opsiyonel config dosyasının yoludur.
	ConfigFile string
	// EnvFile, yüklenecek .env dosyasıdır. Boşsa çalışma dizininden
	// başlayarak üst dizinlerde ".env" aranır.
	EnvFile string
	// SkipDotEnv, .env yüklemesini tamamen kapatır.
	SkipDotEnv bool
}

// defaults, tüm anahtarların varsayılan değerleridir.
var defaults = map[string]interface{}{
	"app.name": "IntelliView API",
	"app.env":  EnvDevelopment,

	"server.port":             "8080",
	"server.read_timeout":     15 * time.Second,
	"server.write_timeout":    30 * time.Second,
	"server.idle_timeout":     60 * time.Second,
	"server.shutdown_timeout": 10 * time.Second,

	"database.connection_string": "",
	"database.max_open_conns":    25,
	"database.max_idle_conns":    25,
	"database.conn_max_lifetime": 5 * time.Minute,

	"jwt.key":                 "",
	"jwt.issuer":              "",
	"jwt.audience":            "",
	"jwt.duration_in_minutes": 60,

	"redis.enabled":  false,
	"redis.addr":     "127.0.0.1:6379",
	"redis.password": "",
	"redis.db":       0,

	"cors.allowed_origins": []string{},
	"cors.max_age":         300,

	"logging.level":         "info",
	"logging.format":        logging.FormatConsole,
	"logging.endpoints":     []string{},
	"logging.redis.enabled": false,
	"logging.redis.key":     "intelliview:logs",
	"logging.redis.max_len": int64(10000),

	"rate_limit.enabled":      true,
	"rate_limit.max_requests": 100,
	"rate_limit.window":       time.Minute,

	"metrics.enabled": true,
	"metrics.path":    "/metrics",

	"telemetry.enabled":      false,
	"telemetry.service_name": "intelliview-api",
	"telemetry.endpoint":     "localhost:4317",
	"telemetry.insecure":     true,
	"telemetry.sample_ratio": 1.0,

	"static.dir": "wwwroot",
}

// envBindings, anahtar başına ortam değişkeni adlarıdır. İlk boş olmayan
// değer kullanılır.
var envBindings = map[string][]string{
	"app.name": {"APP_NAME"},
	"app.env":  {"APP_ENV", "ASPNETCORE_ENVIRONMENT"},

	"server.port":             {"PORT", "SERVER_PORT"},
	"server.read_timeout":     {"SERVER_READ_TIMEOUT"},
	"server.write_timeout":    {"SERVER_WRITE_TIMEOUT"},
	"server.idle_timeout":     {"SERVER_IDLE_TIMEOUT"},
	"server.shutdown_timeout": {"SERVER_SHUTDOWN_TIMEOUT"},

	"database.connection_string": {"ConnectionStrings__Default", "CONNECTION_STRING", "DB_DSN"},
	"database.max_open_conns":    {"DB_MAX_OPEN_CONNS"},
	"database.max_idle_conns":    {"DB_MAX_IDLE_CONNS"},
	"database.conn_max_lifetime": {"DB_CONN_MAX_LIFETIME"},

	"jwt.key":                 {"JWT__Key", "JWT_KEY"},
	"jwt.issuer":              {"JWT__Issuer", "JWT_ISSUER"},
	"jwt.audience":            {"JWT__Audience", "JWT_AUDIENCE"},
	"jwt.duration_in_minutes": {"JWT__DurationInMinutes", "JWT_DURATION_MINUTES"},

	"redis.enabled":  {"REDIS_ENABLED"},
	"redis.addr":     {"REDIS_ADDR"},
	"redis.password": {"REDIS_PASSWORD"},
	"redis.db":       {"REDIS_DB"},

	"cors.allowed_origins": {"CORS_ALLOWED_ORIGINS"},
	"cors.max_age":         {"CORS_MAX_AGE"},

	"logging.level":         {"LOG_LEVEL"},
	"logging.format":        {"LOG_FORMAT"},
	"logging.endpoints":     {"LOG_ENDPOINTS"},
	"logging.redis.enabled": {"LOG_REDIS_ENABLED"},
	"logging.redis.key":     {"LOG_REDIS_KEY"},
	"logging.redis.max_len": {"LOG_REDIS_MAX_LEN"},

	"rate_limit.enabled":      {"RATE_LIMIT_ENABLED"},
	"rate_limit.max_requests": {"RATE_LIMIT_MAX_REQUESTS"},
	"rate_limit.window":       {"RATE_LIMIT_WINDOW"},

	"metrics.enabled": {"METRICS_ENABLED"},
	"metrics.path":    {"METRICS_PATH"},

	"telemetry.enabled":      {"OTEL_ENABLED"},
	"telemetry.service_name": {"OTEL_SERVICE_NAME"},
	"telemetry.endpoint":     {"OTEL_EXPORTER_OTLP_ENDPOINT"},
	"telemetry.insecure":     {"OTEL_EXPORTER_OTLP_INSECURE"},
	"telemetry.sample_ratio": {"OTEL_TRACES_SAMPLER_ARG"},

	"static.dir": {"STATIC_DIR"},
}

// Load, ayarları okuyup doğrular.
//
// Örnek kullanım:
//
//	cfg, err := config.Load(config.LoadOptions{ConfigFile: "config.yaml"})
//	if err != nil {
//	    return err
//	}
func Load(opts LoadOptions) (*Config, error) {
	if err := loadDotEnv(opts); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("config: bind env for %s: %w", key, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", opts.ConfigFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(opts LoadOptions) error {
	if opts.SkipDotEnv {
		return nil
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return fmt.Errorf("config: load env file %s: %w", opts.EnvFile, err)
		}
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil
	}
	if path, ok := FindDotEnv(wd); ok {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load env file %s: %w", path, err)
		}
	}
	return nil
}

// FindDotEnv, start dizininden başlayarak üst dizinlerde ".env" arar.
func FindDotEnv(start string) (string, bool) {
	dir := start
	for i := 0; i <= dotEnvSearchDepth; i++ {
		path := filepath.Join(dir, ".env")
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// normalize, liste ayarlarındaki boşlukları ve boş elemanları temizler.
func (c *Config) normalize() {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Endpoints = splitList(c.Logging.Endpoints)
	c.CORS.AllowedOrigins = splitList(c.CORS.AllowedOrigins)
}

// splitList, "a, b" biçimindeki elemanları da ayırır.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate, config değerlerinin geçerliliğini kontrol eder.
//
// Kontroller:
// - JWT anahtarı ve veritabanı bağlantısı zorunludur
// - Production'da JWT anahtarı en az 32 karakter olmalıdır
// - Log seviyesi ve formatı bilinen değerler olmalıdır
func (c *Config) Validate() error {
	if c.JWT.Key == "" {
		return fmt.Errorf("%w (JWT__Key or JWT_KEY)", ErrMissingJWTKey)
	}
	if c.Database.ConnectionString == "" {
		return fmt.Errorf("%w (ConnectionStrings__Default, CONNECTION_STRING or DB_DSN)", ErrMissingConnectionString)
	}
	if c.IsProduction() && len(c.JWT.Key) < minProductionKeyLength {
		return fmt.Errorf("config: JWT key must be at least %d characters in production", minProductionKeyLength)
	}
	if c.JWT.DurationInMinutes <= 0 {
		return errors.New("config: JWT duration must be positive")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: invalid log level %q", c.Logging.Level)
	}
	if c.Logging.Format != logging.FormatConsole && c.Logging.Format != logging.FormatJSON {
		return fmt.Errorf("config: invalid log format %q (console or json)", c.Logging.Format)
	}
	if c.RateLimit.Enabled && (c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0) {
		return errors.New("config: rate limit requires positive max_requests and window")
	}
	if c.Logging.Redis.Enabled && !c.Redis.Enabled {
		return errors.New("config: redis log sink requires redis to be enabled")
	}
	return nil
}

// IsProduction, uygulamanın production ortamında çalışıp çalışmadığını kontrol eder.
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// IsDevelopment, uygulamanın development ortamında çalışıp çalışmadığını kontrol eder.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}
