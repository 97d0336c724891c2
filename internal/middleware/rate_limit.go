package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/intelliview/intelliview-api/internal/http/response"
	"golang.org/x/time/rate"
)

// -----------------------------------------------------------------------------
// Rate Limiting Middleware
// -----------------------------------------------------------------------------
// İstemci IP'si başına token bucket (golang.org/x/time/rate). Uzun süre
// görülmeyen istemcilerin limiter'ları periyodik olarak temizlenir; cleanup
// goroutine'i Stop ile durdurulur.
// -----------------------------------------------------------------------------

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter, anahtar bazlı limiter'ları yönetir.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientLimiter
	maxRequests int
	window      time.Duration
	limit       rate.Limit
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewRateLimiter, window süresinde en fazla maxRequests isteğe izin veren
// bir limiter oluşturur. Bucket dolu başlar.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	rl := &RateLimiter{
		clients:     make(map[string]*clientLimiter),
		maxRequests: maxRequests,
		window:      window,
		limit:       rate.Limit(float64(maxRequests) / window.Seconds()),
		ctx:         ctx,
		cancel:      cancel,
	}

	rl.wg.Add(1)
	go rl.cleanupLoop(10 * time.Minute)

	return rl
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	defer rl.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.ctx.Done():
			return
		}
	}
}

// cleanup, iki window boyunca görülmeyen istemcileri siler.
func (rl *RateLimiter) cleanup(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > 2*rl.window {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// Stop, cleanup goroutine'ini durdurur. Birden fazla çağrılabilir.
func (rl *RateLimiter) Stop() {
	rl.cancel()
	rl.wg.Wait()
}

// Close, io.Closer için Stop'u çağırır.
func (rl *RateLimiter) Close() error {
	rl.Stop()
	return nil
}

// Allow, key için bir isteğe izin verilip verilmediğini, kalan istek
// sayısını ve reddedildiyse bekleme süresini döndürür.
func (rl *RateLimiter) Allow(key string) (bool, int, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.maxRequests)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	rl.mu.Unlock()

	if c.limiter.AllowN(now, 1) {
		return true, int(c.limiter.TokensAt(now)), 0
	}

	retryAfter := time.Duration(math.Ceil(1/float64(rl.limit))) * time.Second
	return false, 0, retryAfter
}

// RateLimit, istemci IP'si başına rate limiting middleware'i döndürür.
// Limit aşılırsa 429 problem dokümanı ve Retry-After header'ı döner.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, retryAfter := limiter.Allow(clientIP(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.maxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				response.TooManyRequests(w, r, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP, RemoteAddr'dan port'u ayırır. chi'nin RealIP middleware'i
// önce çalıştıysa RemoteAddr zaten istemci IP'sidir.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
