package logging

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ListPusher, RedisHook'un kullandığı Redis komutlarıdır. *redis.Client bu
// arayüzü sağlar.
type ListPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
}

// RedisHook, log girdilerini JSON olarak bir Redis listesine ekler. Liste
// MaxLen ile sınırlanır; en eski girdiler kırpılır. Harici bir log
// collector bu listeyi tüketir.
type RedisHook struct {
	client    ListPusher
	key       string
	maxLen    int64
	timeout   time.Duration
	levels    []logrus.Level
	formatter logrus.Formatter
}

// NewRedisHook, yeni bir hook oluşturur. levels boşsa Info ve üstü
// seviyeler gönderilir. maxLen <= 0 ise liste kırpılmaz.
func NewRedisHook(client ListPusher, key string, maxLen int64, levels ...logrus.Level) *RedisHook {
	if len(levels) == 0 {
		levels = []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
			logrus.WarnLevel,
			logrus.InfoLevel,
		}
	}

	return &RedisHook{
		client:    client,
		key:       key,
		maxLen:    maxLen,
		timeout:   500 * time.Millisecond,
		levels:    levels,
		formatter: &logrus.JSONFormatter{},
	}
}

// Levels, logrus.Hook arayüzünü sağlar.
func (h *RedisHook) Levels() []logrus.Level {
	return h.levels
}

// Fire, girdiyi listeye ekler. logrus hook'ları eşzamanlı çağırabilir;
// redis client goroutine-safe olduğu için ek kilit gerekmez.
func (h *RedisHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("redis hook: format entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.client.RPush(ctx, h.key, string(bytes.TrimRight(line, "\n"))).Err(); err != nil {
		return fmt.Errorf("redis hook: push to %s: %w", h.key, err)
	}

	if h.maxLen > 0 {
		if err := h.client.LTrim(ctx, h.key, -h.maxLen, -1).Err(); err != nil {
			return fmt.Errorf("redis hook: trim %s: %w", h.key, err)
		}
	}

	return nil
}
