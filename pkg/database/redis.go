// -----------------------------------------------------------------------------
// Redis Connection Pool
// -----------------------------------------------------------------------------
// Redis bağlantı havuzu ve connection yönetimi. Health check ve Redis log
// sink'i bu client'ı kullanır.
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisConfig, Redis bağlantı yapılandırması.
type RedisConfig struct {
	Addr         string        // host:port
	Password     string        // opsiyonel
	DB           int           // database numarası (0-15)
	PoolSize     int           // connection pool boyutu
	MinIdleConns int           // minimum idle connection sayısı
	MaxRetries   int           // -1 retry'ı kapatır
	DialTimeout  time.Duration // bağlantı timeout süresi
	ReadTimeout  time.Duration // okuma timeout süresi
	WriteTimeout time.Duration // yazma timeout süresi
}

// DefaultRedisConfig, varsayılan Redis yapılandırması.
func DefaultRedisConfig(addr string) RedisConfig {
	return RedisConfig{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// RedisClient, redis.Client'ı sarar.
type RedisClient struct {
	client *redis.Client
	logger logrus.FieldLogger
}

// NewRedisClient, yeni bir Redis client oluşturur. Bağlantılar ilk
// komutta açılır; erişilebilirlik Ping ile kontrol edilir.
func NewRedisClient(config RedisConfig, logger logrus.FieldLogger) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	r := &RedisClient{
		client: client,
		logger: logger.WithField("component", "redis"),
	}
	r.logger.WithFields(logrus.Fields{"addr": config.Addr, "db": config.DB}).Info("Redis client configured")
	return r
}

// Client, raw redis.Client instance döndürür.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

// Ping, Redis sunucusunun erişilebilir olup olmadığını kontrol eder.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close, Redis bağlantısını kapatır.
func (r *RedisClient) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.WithError(err).Error("Redis close failed")
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}
