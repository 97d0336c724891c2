// -----------------------------------------------------------------------------
// Auth Guard System
// -----------------------------------------------------------------------------
// Bu dosya, doğrulanmış kullanıcıyı ve rol tabanlı yetkilendirme
// policy'lerini tanımlar.
//
// Policy nedir?
// Policy, bir endpoint'e erişebilecek rollerin isimlendirilmiş kümesidir.
// Kullanıcı listedeki rollerden herhangi birine sahipse yetkilidir.
//
// Kullanım Örneği:
//   policy := auth.UserOrCompanyPolicy()
//   if !policy.Allows(user) { ... 403 ... }
// -----------------------------------------------------------------------------

package auth

const (
	// RoleUser, bireysel kullanıcı rolüdür.
	RoleUser = "User"
	// RoleCompany, kurumsal hesap rolüdür.
	RoleCompany = "Company"

	// PolicyUserOrCompany, User veya Company rolünü kabul eden policy adıdır.
	PolicyUserOrCompany = "UserOrCompany"
)

// AuthenticatedUser, doğrulanmış token'dan türetilen kullanıcıdır.
type AuthenticatedUser struct {
	ID    string   `json:"id"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles"`
}

// HasRole, kullanıcının verilen role sahip olup olmadığını döndürür.
// Rol isimleri büyük/küçük harfe duyarlıdır.
func (u *AuthenticatedUser) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole, kullanıcı rollerden en az birine sahipse true döner.
func (u *AuthenticatedUser) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// Policy, isimlendirilmiş rol gereksinimidir.
type Policy struct {
	Name  string
	Roles []string
}

// NewPolicy, yeni bir policy oluşturur.
func NewPolicy(name string, roles ...string) Policy {
	return Policy{Name: name, Roles: roles}
}

// UserOrCompanyPolicy, User veya Company rolünü gerektiren policy'dir.
func UserOrCompanyPolicy() Policy {
	return NewPolicy(PolicyUserOrCompany, RoleUser, RoleCompany)
}

// Allows, kullanıcının policy'yi karşılayıp karşılamadığını döndürür.
// Rol listesi boş policy yalnızca doğrulanmış kullanıcı ister.
func (p Policy) Allows(u *AuthenticatedUser) bool {
	if u == nil {
		return false
	}
	if len(p.Roles) == 0 {
		return true
	}
	return u.HasAnyRole(p.Roles...)
}
