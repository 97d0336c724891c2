// -----------------------------------------------------------------------------
// CORS Middleware
// -----------------------------------------------------------------------------
// Bu dosya, CORS (Cross-Origin Resource Sharing) yönetimini sağlar. Frontend
// ve API farklı origin'lerde çalıştığında tarayıcı preflight (OPTIONS)
// istekleri gönderir; go-chi/cors bu istekleri yanıtlar ve gerekli
// "Access-Control-Allow-*" başlıklarını ekler.
//
// Varsayılan policy ("CorsPolicy") her origin, method ve header'a izin verir.
// -----------------------------------------------------------------------------

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSPolicyName, varsayılan policy'nin adıdır.
const CORSPolicyName = "CorsPolicy"

// CORSOptions, CORS ayarlarıdır. Boş alanlar "her şeye izin ver" anlamına gelir.
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         int // saniye
}

// CORS, verilen ayarlarla CORS middleware'i döndürür.
func CORS(opts CORSOptions) Middleware {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         opts.MaxAge,
	})

	return Middleware(handler)
}

// AllowAnyCORS, her origin/method/header'a izin veren policy'dir.
func AllowAnyCORS() Middleware {
	return CORS(CORSOptions{})
}
