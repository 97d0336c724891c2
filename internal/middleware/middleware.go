// -----------------------------------------------------------------------------
// Middleware Package
// -----------------------------------------------------------------------------
// Bu paket, HTTP istek yaşam döngüsüne müdahale eden cross-cutting katmanları
// içerir: request timing/logging, panic recovery, CORS, JWT authentication,
// role tabanlı authorization, rate limiting ve request ID.
//
// Tüm middleware'ler aynı sözleşmeyi kullanır: bir http.Handler alır ve onu
// saran yeni bir http.Handler döndürür. Böylece chi router'ın Use() zincirine
// veya tek bir route'a doğrudan takılabilirler.
// -----------------------------------------------------------------------------

package middleware

import (
	"net/http"
)

// Middleware, bir sonraki http.Handler'ı alıp onu yeni bir handler olarak
// saran fonksiyon tipidir. chi'nin Use() imzasıyla birebir uyumludur.
type Middleware func(next http.Handler) http.Handler

// Chain, middleware listesini verilen sırayla uygular: ilk eleman en dışta
// çalışır.
//
// Örnek:
//
//	h := middleware.Chain(Recovery(logger), CORS(origins))(mux)
func Chain(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
