// -----------------------------------------------------------------------------
// Authentication Middleware
// -----------------------------------------------------------------------------
// Bu middleware, Authorization header'ındaki bearer token'ı doğrular ve
// kullanıcıyı request context'ine ekler. Doğrulama başarısızsa 401 problem
// dokümanı döner ve WWW-Authenticate header'ı set edilir.
// -----------------------------------------------------------------------------

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/intelliview/intelliview-api/internal/http/response"
	"github.com/intelliview/intelliview-api/pkg/auth"
)

type userContextKey struct{}

// TokenValidator, bearer token doğrulayıcısıdır. *auth.Validator bu
// arayüzü sağlar.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Authenticate, JWT bearer authentication middleware'ini döndürür.
//
// Context'e eklenen değer:
//   - *auth.AuthenticatedUser (UserFromContext ile okunur)
//
// Kullanım:
//
//	r.With(middleware.Authenticate(validator)).Get("/api/auth/me", handler)
func Authenticate(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearerToken(r.Header.Get("Authorization"))
			if err != nil {
				challenge(w, "")
				response.Unauthorized(w, r, "")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				challenge(w, tokenErrorDescription(err))
				response.Unauthorized(w, r, "Invalid or expired token")
				return
			}

			ctx := WithUser(r.Context(), claims.User())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser, kullanıcıyı context'e ekler.
func WithUser(ctx context.Context, user *auth.AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext, context'teki doğrulanmış kullanıcıyı döndürür.
func UserFromContext(ctx context.Context) (*auth.AuthenticatedUser, bool) {
	user, ok := ctx.Value(userContextKey{}).(*auth.AuthenticatedUser)
	return user, ok && user != nil
}

func challenge(w http.ResponseWriter, description string) {
	value := `Bearer`
	if description != "" {
		value += ` error="invalid_token", error_description="` + description + `"`
	}
	w.Header().Set("WWW-Authenticate", value)
}

func tokenErrorDescription(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "The token expired"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "The issuer is invalid"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "The audience is invalid"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "The signature is invalid"
	default:
		return "The token is invalid"
	}
}
