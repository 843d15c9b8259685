package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "cleansweep/internal/errors"
	"cleansweep/internal/model"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.Issue("user-1", model.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTService("test-secret", time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("user-1", model.RoleUser)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	_, err = svc.Verify(token)
	assert.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	other := NewJWTService("other-secret", time.Hour)

	foreign, err := other.Issue("user-1", model.RoleUser)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		ID:   "user-1",
		Role: model.RoleSuperadmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{ID: "user-1", Role: model.RoleUser}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		ID:   "user-1",
		Role: "root",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"alg none":     unsigned,
		"missing exp":  noExpiry,
		"unknown role": badRole,
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)
	assert.True(t, CheckPassword(hash, "pw123456"))
	assert.False(t, CheckPassword(hash, "pw1234567"))
}

func TestRejectPassword(t *testing.T) {
	for _, pw := range []string{"", "pw123456", "cleansweep-unknown-account"} {
		assert.False(t, RejectPassword(pw))
	}
	require.NotEmpty(t, dummyHash)
	cost, err := bcrypt.Cost(dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcryptCost, cost)
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		role    model.Role
		perm    Permission
		allowed bool
	}{
		{model.RoleSuperadmin, PermPromoteAdmin, true},
		{model.RoleAdmin, PermPromoteAdmin, false},
		{model.RoleUser, PermPromoteAdmin, false},
		{model.RoleAdmin, PermAdminDashboard, true},
		{model.RoleSuperadmin, PermAdminDashboard, true},
		{model.RoleUser, PermAdminDashboard, false},
		{model.RoleUser, PermCreateReport, true},
		{model.RoleUser, PermListReports, true},
		{model.RoleUser, Permission("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.perm), func(t *testing.T) {
			err := Authorize(tt.role, tt.perm)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		})
	}
}
