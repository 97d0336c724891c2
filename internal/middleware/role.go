// -----------------------------------------------------------------------------
// Role-Based Authorization Middleware
// -----------------------------------------------------------------------------
// Bu middleware, kullanıcının bir policy'yi karşılayıp karşılamadığını
// kontrol eder. Authenticate'ten sonra çalışmalıdır; context'te kullanıcı
// yoksa 401, kullanıcı var ama rolü uymuyorsa 403 döner.
// -----------------------------------------------------------------------------

package middleware

import (
	"net/http"

	"github.com/intelliview/intelliview-api/internal/http/response"
	"github.com/intelliview/intelliview-api/pkg/auth"
)

// Authorize, policy tabanlı yetkilendirme middleware'i döndürür.
//
// Örnek:
//
//	r.With(
//	    middleware.Authenticate(validator),
//	    middleware.Authorize(auth.UserOrCompanyPolicy()),
//	).Get("/api/auth/me", handler)
func Authorize(policy auth.Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, r, "")
				return
			}

			if !policy.Allows(user) {
				response.Forbidden(w, r, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Role, verilen rollerden birine sahip kullanıcılara izin verir.
func Role(allowedRoles ...string) Middleware {
	return Authorize(auth.NewPolicy("roles", allowedRoles...))
}

// UserOrCompany, User veya Company rolü isteyen policy'nin kısayoludur.
func UserOrCompany() Middleware {
	return Authorize(auth.UserOrCompanyPolicy())
}
