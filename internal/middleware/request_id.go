package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader, istek kimliğinin taşındığı header'dır.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID, her isteğe bir kimlik atar. İstemci geçerli bir X-Request-ID
// gönderdiyse o kullanılır, aksi halde yeni bir UUID üretilir. Kimlik
// response header'ına da yazılır.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext, context'teki istek kimliğini döndürür; yoksa "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
