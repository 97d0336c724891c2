package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apitest "github.com/intelliview/intelliview-api/pkg/testing"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(JWTConfig{
		Key:      testKey,
		Issuer:   "intelliview",
		Audience: "intelliview-clients",
	})
	require.NoError(t, err)
	return v
}

func validClaims(roles ...string) jwt.MapClaims {
	claims := apitest.Claims("user-42", roles...)
	claims["iss"] = "intelliview"
	claims["aud"] = "intelliview-clients"
	claims["email"] = "jane@example.com"
	return claims
}

func TestNewValidator_RequiresKey(t *testing.T) {
	_, err := NewValidator(JWTConfig{})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestValidator_AcceptsValidToken(t *testing.T) {
	v := newTestValidator(t)
	token := apitest.SignToken(t, testKey, validClaims(RoleUser, RoleCompany))

	claims, err := v.Validate(token)
	require.NoError(t, err)

	user := claims.User()
	assert.Equal(t, "user-42", user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, []string{RoleUser, RoleCompany}, user.Roles)
}

func TestValidator_SingleRoleString(t *testing.T) {
	v := newTestValidator(t)
	claims := validClaims()
	claims["roles"] = RoleCompany
	claims["uid"] = "company-7"

	parsed, err := v.Validate(apitest.SignToken(t, testKey, claims))
	require.NoError(t, err)
	assert.Equal(t, RoleList{RoleCompany}, parsed.Roles)
	assert.Equal(t, "company-7", parsed.User().ID)
}

func TestValidator_RoleClaimAliases(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name  string
		claim string
		value interface{}
		want  []string
	}{
		{name: "role string", claim: "role", value: RoleUser, want: []string{RoleUser}},
		{name: "role array", claim: "role", value: []string{RoleUser, RoleCompany}, want: []string{RoleUser, RoleCompany}},
		{name: "microsoft role uri", claim: MicrosoftRoleClaim, value: RoleCompany, want: []string{RoleCompany}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			claims[tt.claim] = tt.value

			parsed, err := v.Validate(apitest.SignToken(t, testKey, claims))
			require.NoError(t, err)

			user := parsed.User()
			assert.Equal(t, tt.want, user.Roles)
			assert.True(t, UserOrCompanyPolicy().Allows(user))
		})
	}
}

func TestClaims_AllRolesMergesAndDeduplicates(t *testing.T) {
	c := &Claims{
		Roles:          RoleList{RoleUser},
		Role:           RoleList{RoleUser, RoleCompany},
		MicrosoftRoles: RoleList{"Admin", ""},
	}
	assert.Equal(t, []string{RoleUser, RoleCompany, "Admin"}, c.AllRoles())
	assert.Nil(t, (&Claims{}).AllRoles())
}

func TestValidator_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
		key    string
		cause  error
	}{
		{
			name:   "expired",
			mutate: func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Second).Unix() },
			cause:  jwt.ErrTokenExpired,
		},
		{
			name:   "missing expiry",
			mutate: func(c jwt.MapClaims) { delete(c, "exp") },
			cause:  jwt.ErrTokenRequiredClaimMissing,
		},
		{
			name:   "wrong issuer",
			mutate: func(c jwt.MapClaims) { c["iss"] = "someone-else" },
			cause:  jwt.ErrTokenInvalidIssuer,
		},
		{
			name:   "wrong audience",
			mutate: func(c jwt.MapClaims) { c["aud"] = "other-app" },
			cause:  jwt.ErrTokenInvalidAudience,
		},
		{
			name:  "wrong key",
			key:   "another-key-another-key-another-key",
			cause: jwt.ErrTokenSignatureInvalid,
		},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims(RoleUser)
			if tt.mutate != nil {
				tt.mutate(claims)
			}
			key := testKey
			if tt.key != "" {
				key = tt.key
			}

			_, err := v.Validate(apitest.SignToken(t, key, claims))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestValidator_RejectsNonHMAC(t *testing.T) {
	v := newTestValidator(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims(RoleUser)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidator_RejectsGarbage(t *testing.T) {
	_, err := newTestValidator(t).Validate("not-a-jwt")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		err    error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc", "abc", nil},
		{"  Bearer   abc  ", "abc", nil},
		{"", "", ErrMissingToken},
		{"Bearer", "", ErrMissingToken},
		{"Basic dXNlcjpwYXNz", "", ErrMissingToken},
	}

	for _, tt := range tests {
		token, err := ExtractBearerToken(tt.header)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.token, token)
	}
}

func TestPolicy_UserOrCompany(t *testing.T) {
	policy := UserOrCompanyPolicy()

	assert.True(t, policy.Allows(&AuthenticatedUser{Roles: []string{RoleUser}}))
	assert.True(t, policy.Allows(&AuthenticatedUser{Roles: []string{"Admin", RoleCompany}}))
	assert.False(t, policy.Allows(&AuthenticatedUser{Roles: []string{"Admin"}}))
	assert.False(t, policy.Allows(&AuthenticatedUser{Roles: []string{"user"}}))
	assert.False(t, policy.Allows(nil))
	assert.True(t, NewPolicy("authenticated").Allows(&AuthenticatedUser{}))
}
