package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService("test-secret", "1h", "24h")
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService("secret", "soon", "24h")
	assert.Error(t, err)
}

func TestAccessTokenClaimsRoundTrip(t *testing.T) {
	svc := newService(t)

	token, expiresAt, err := svc.GenerateAccessToken(Claims{EmployeeID: "emp-1", DepartmentID: "field", Role: employee.RoleDeptHead})
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), parsed, nil)
	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, Claims{EmployeeID: "emp-1", DepartmentID: "field", Role: employee.RoleDeptHead}, claims)
}

func TestWithClaims_OverridesTokenClaims(t *testing.T) {
	svc := newService(t)

	token, _, err := svc.GenerateAccessToken(Claims{EmployeeID: "emp-1", DepartmentID: "field", Role: employee.RoleDeptHead})
	require.NoError(t, err)
	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	ctx := WithClaims(jwtauth.NewContext(context.Background(), parsed, nil), Claims{EmployeeID: "emp-1", DepartmentID: "office", Role: employee.RoleWorker})
	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, employee.RoleWorker, claims.Role)
	assert.Equal(t, "office", claims.DepartmentID)
}

func TestRefreshAndSSETokensAreNotInterchangeable(t *testing.T) {
	svc := newService(t)

	refresh, _, err := svc.GenerateRefreshToken("emp-1")
	require.NoError(t, err)
	other, _, err := svc.GenerateRefreshToken("emp-1")
	require.NoError(t, err)
	assert.NotEqual(t, refresh, other)

	sse, expiresIn, err := svc.GenerateSSEToken("emp-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	id, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", id)

	id, err = svc.ValidateSSEToken(sse)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", id)

	_, err = svc.ParseRefreshToken(sse)
	assert.Error(t, err)
	_, err = svc.ValidateSSEToken(refresh)
	assert.Error(t, err)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), refresh)
	require.NoError(t, err)
	_, err = ClaimsFromContext(jwtauth.NewContext(context.Background(), parsed, nil))
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
