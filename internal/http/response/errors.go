// -----------------------------------------------------------------------------
// Problem Details Responses
// -----------------------------------------------------------------------------
// RFC 7807 problem dokümanları. Global exception handler, authentication,
// authorization ve rate limit hataları bu biçimi kullanır; böylece istemci
// tüm hata yanıtlarını tek bir şemayla okuyabilir.
// -----------------------------------------------------------------------------

package response

import (
	"net/http"
)

// ProblemContentType, problem dokümanlarının media type'ıdır.
const ProblemContentType = "application/problem+json"

// ProblemDetails, RFC 7807 problem dokümanıdır.
type ProblemDetails struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// NewProblem, status için varsayılan type ve title ile problem oluşturur.
func NewProblem(status int, detail string) ProblemDetails {
	return ProblemDetails{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// Problem, isteğe ait problem dokümanını yazar. instance olarak istek path'i
// kullanılır.
func Problem(w http.ResponseWriter, r *http.Request, status int, detail string) error {
	p := NewProblem(status, detail)
	if r != nil {
		p.Instance = r.URL.Path
	}
	p.RequestID = w.Header().Get("X-Request-ID")
	return WriteProblem(w, p)
}

// WriteProblem, hazır bir problem dokümanını yazar.
func WriteProblem(w http.ResponseWriter, p ProblemDetails) error {
	return writeJSON(w, p.Status, ProblemContentType, p)
}

// Unauthorized, 401 problem yazar.
func Unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	if detail == "" {
		detail = "Authentication required"
	}
	_ = Problem(w, r, http.StatusUnauthorized, detail)
}

// Forbidden, 403 problem yazar.
func Forbidden(w http.ResponseWriter, r *http.Request, detail string) {
	if detail == "" {
		detail = "You do not have permission to perform this action"
	}
	_ = Problem(w, r, http.StatusForbidden, detail)
}

// NotFound, 404 problem yazar.
func NotFound(w http.ResponseWriter, r *http.Request) {
	_ = Problem(w, r, http.StatusNotFound, "")
}

// MethodNotAllowed, 405 problem yazar.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = Problem(w, r, http.StatusMethodNotAllowed, "")
}

// ServerError, 500 problem yazar. İç hata detayı istemciye sızdırılmaz.
func ServerError(w http.ResponseWriter, r *http.Request) {
	_ = Problem(w, r, http.StatusInternalServerError, "An unexpected error occurred")
}

// TooManyRequests, 429 problem yazar.
func TooManyRequests(w http.ResponseWriter, r *http.Request, detail string) {
	if detail == "" {
		detail = "Rate limit exceeded"
	}
	_ = Problem(w, r, http.StatusTooManyRequests, detail)
}
