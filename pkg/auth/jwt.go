// -----------------------------------------------------------------------------
// JWT (JSON Web Token) Package
// -----------------------------------------------------------------------------
// Bu dosya, Authorization header'ında gelen bearer token'ların doğrulanmasını
// sağlar. Token üretimi identity servisinin sorumluluğundadır; API yalnızca
// doğrular.
//
// Doğrulama kuralları:
//   - İmza: HMAC (HS256/HS384/HS512), yapılandırılmış symmetric key ile
//   - Issuer ve Audience: yapılandırılmışsa birebir eşleşmeli
//   - Lifetime: exp zorunlu, clock skew toleransı yok
// -----------------------------------------------------------------------------

package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken, Authorization header'ı yok veya bearer değilse döner.
	ErrMissingToken = errors.New("auth: missing bearer token")
	// ErrInvalidToken, token doğrulanamadığında döner. Asıl neden wrap edilir.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrMissingKey, imzalama anahtarı yapılandırılmamışsa döner.
	ErrMissingKey = errors.New("auth: signing key is not configured")
)

// JWTConfig, token doğrulama ayarlarıdır.
type JWTConfig struct {
	Key      string        // symmetric signing key
	Issuer   string        // beklenen iss (boşsa kontrol edilmez)
	Audience string        // beklenen aud (boşsa kontrol edilmez)
	Duration time.Duration // token ömrü; token'ı üreten taraf kullanır
}

// MicrosoftRoleClaim, ASP.NET Identity'nin ürettiği token'lardaki rol
// claim tipidir.
const MicrosoftRoleClaim = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"

// RoleList, rol claim'idir. Hem tek string hem dizi biçimini kabul eder.
type RoleList []string

// UnmarshalJSON, "User" ve ["User","Company"] biçimlerini çözer.
func (r *RoleList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = RoleList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("roles claim: %w", err)
	}
	*r = many
	return nil
}

// Claims, API'nin okuduğu token içeriğidir. Roller "roles", "role" ve
// MicrosoftRoleClaim claim'lerinden okunur.
type Claims struct {
	UserID         string   `json:"uid,omitempty"`
	Email          string   `json:"email,omitempty"`
	Roles          RoleList `json:"roles,omitempty"`
	Role           RoleList `json:"role,omitempty"`
	MicrosoftRoles RoleList `json:"http://schemas.microsoft.com/ws/2008/06/identity/claims/role,omitempty"`
	jwt.RegisteredClaims
}

// AllRoles, üç rol claim'inin birleşimini tekrarsız döndürür.
func (c *Claims) AllRoles() []string {
	var roles []string
	seen := make(map[string]struct{})
	for _, list := range []RoleList{c.Roles, c.Role, c.MicrosoftRoles} {
		for _, role := range list {
			if _, ok := seen[role]; ok || role == "" {
				continue
			}
			seen[role] = struct{}{}
			roles = append(roles, role)
		}
	}
	return roles
}

// User, claims'ten AuthenticatedUser üretir. uid yoksa sub kullanılır.
func (c *Claims) User() *AuthenticatedUser {
	id := c.UserID
	if id == "" {
		id = c.Subject
	}
	return &AuthenticatedUser{
		ID:    id,
		Email: c.Email,
		Roles: c.AllRoles(),
	}
}

// Validator, bearer token'ları doğrular. Goroutine-safe'tir.
type Validator struct {
	key    []byte
	parser *jwt.Parser
}

// NewValidator, config'e göre bir Validator oluşturur.
func NewValidator(cfg JWTConfig) (*Validator, error) {
	if cfg.Key == "" {
		return nil, ErrMissingKey
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(0),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Validator{
		key:    []byte(cfg.Key),
		parser: jwt.NewParser(opts...),
	}, nil
}

// Validate, token'ı doğrular ve claims'i döndürür. Hata her zaman
// ErrInvalidToken'ı sarar; errors.Is ile jwt.ErrTokenExpired gibi asıl
// nedenler de kontrol edilebilir.
func (v *Validator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractBearerToken, "Bearer <token>" header değerinden token'ı çıkarır.
// Şema adı büyük/küçük harfe duyarsızdır.
func ExtractBearerToken(authHeader string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
