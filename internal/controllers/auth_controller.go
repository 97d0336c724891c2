package controllers

import (
	"net/http"

	"github.com/intelliview/intelliview-api/internal/http/response"
	"github.com/intelliview/intelliview-api/internal/middleware"
)

// AuthController, doğrulanmış kullanıcıya ait endpoint'leri sunar.
type AuthController struct{}

// NewAuthController, yeni bir AuthController oluşturur.
func NewAuthController() *AuthController {
	return &AuthController{}
}

// Me handles GET /api/auth/me. Authenticate middleware'inden sonra çalışır.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, r, "")
		return
	}

	_ = response.Success(w, http.StatusOK, user, nil)
}
