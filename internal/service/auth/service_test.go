package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
	testPhone      = "081234567890"
	testPassword   = "password123"
)

var testSession = auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}

func newAuthService(t *testing.T) (auth.AuthService, jwt.Service) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	store := memory.NewStore()
	_, err = store.Roster().Save(context.Background(), roster.Snapshot{}, roster.NewSnapshot(
		[]employee.Employee{{
			ID:           "emp-1",
			FullName:     "Ani",
			PhoneNumber:  testPhone,
			DepartmentID: "field",
			Role:         employee.RoleSupervisor,
			PasswordHash: string(hash),
		}},
		[]department.Department{{ID: "field", Name: "Field"}},
		0,
	))
	require.NoError(t, err)

	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	require.NoError(t, err)
	return NewAuthService(store.Employees(), store.Tokens(), jwtService), jwtService
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	authService, jwtService := newAuthService(t)

	response, err := authService.Login(ctx, auth.LoginRequest{PhoneNumber: testPhone, Password: testPassword}, testSession)
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)
	assert.Greater(t, response.AccessTokenExpiresIn, int64(0))
	assert.Greater(t, response.RefreshTokenExpiresIn, int64(0))

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), response.AccessToken)
	require.NoError(t, err)
	claims, err := jwt.ClaimsFromContext(jwtauth.NewContext(ctx, token, nil))
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims.EmployeeID)
	assert.Equal(t, "field", claims.DepartmentID)
	assert.Equal(t, employee.RoleSupervisor, claims.Role)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	authService, _ := newAuthService(t)

	_, err := authService.Login(ctx, auth.LoginRequest{PhoneNumber: testPhone, Password: "wrongpassword"}, testSession)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidCredentials))

	_, err = authService.Login(ctx, auth.LoginRequest{PhoneNumber: "089999999999", Password: testPassword}, testSession)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_ValidationError(t *testing.T) {
	authService, _ := newAuthService(t)

	_, err := authService.Login(context.Background(), auth.LoginRequest{}, testSession)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	authService, _ := newAuthService(t)

	tokens, err := authService.Login(ctx, auth.LoginRequest{PhoneNumber: testPhone, Password: testPassword}, testSession)
	require.NoError(t, err)

	refreshed, err := authService.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// an access token is not a refresh token
	_, err = authService.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = authService.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Logout_RevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	authService, _ := newAuthService(t)

	tokens, err := authService.Login(ctx, auth.LoginRequest{PhoneNumber: testPhone, Password: testPassword}, testSession)
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, tokens.RefreshToken))
	require.NoError(t, authService.Logout(ctx, tokens.RefreshToken))

	_, err = authService.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_SSEToken(t *testing.T) {
	ctx := context.Background()
	authService, jwtService := newAuthService(t)

	resp, err := authService.SSEToken(ctx, "emp-1")
	require.NoError(t, err)
	id, err := jwtService.ValidateSSEToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", id)

	_, err = authService.SSEToken(ctx, "ghost")
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)
}
