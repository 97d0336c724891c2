package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/intelliview/intelliview-api/internal/http/response"
	"github.com/sirupsen/logrus"
)

// PanicRecovery, bir handler'da panic oluştuğunda sunucunun çökmesini engeller
// ve istemciye 500 problem dokümanı döndürür. Panic değeri ve stack trace
// error seviyesinde loglanır.
//
// http.ErrAbortHandler yeniden fırlatılır; net/http bağlantıyı sessizce
// kapatır.
func PanicRecovery(logger logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				fields := logrus.Fields{
					"component": "recovery",
					"method":    r.Method,
					"path":      r.URL.Path,
					"stack":     string(debug.Stack()),
				}
				if id := RequestIDFromContext(r.Context()); id != "" {
					fields["request_id"] = id
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				logger.WithFields(fields).WithError(err).Error("An unhandled exception has occurred while executing the request")

				response.ServerError(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
