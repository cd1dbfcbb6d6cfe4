package jwt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	TypeSSE     = "sse"

	sseTokenLifetime = 5 * time.Minute
)

var ErrInvalidClaims = errors.New("token claims are missing or invalid")

// Claims is what an access token says about its bearer.
type Claims struct {
	EmployeeID   string
	DepartmentID string
	Role         employee.Role
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateRefreshToken(employeeID string) (token string, expiresAt int64, err error)
	// ParseRefreshToken verifies signature, expiry and type and returns the subject.
	ParseRefreshToken(token string) (employeeID string, err error)
	GenerateSSEToken(employeeID string) (token string, expiresIn int, err error)
	ValidateSSEToken(token string) (employeeID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	tokenAuth              *jwtauth.JWTAuth
	now                    func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string) (Service, error) {
	access, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, errors.Join(errors.New("invalid access token expiration"), err)
	}
	refresh, err := time.ParseDuration(refreshTokenExpirationTime)
	if err != nil {
		return nil, errors.Join(errors.New("invalid refresh token expiration"), err)
	}

	return &JWTService{
		accessTokenExpiration:  access,
		refreshTokenExpiration: refresh,
		tokenAuth:              jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                    time.Now,
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]any{
		"sub":           claims.EmployeeID,
		"employee_id":   claims.EmployeeID,
		"department_id": claims.DepartmentID,
		"role":          string(claims.Role),
		"type":          TypeAccess,
		"exp":           expiresAt,
	})
	return token, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(employeeID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTokenExpiration).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]any{
		"jti":  uuid.NewString(),
		"sub":  employeeID,
		"type": TypeRefresh,
		"exp":  expiresAt,
	})
	return token, expiresAt, err
}

func (j *JWTService) ParseRefreshToken(tokenString string) (string, error) {
	return j.subjectOf(tokenString, TypeRefresh)
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

// GenerateSSEToken issues a short-lived token for the event stream, which
// takes it from the query string since EventSource cannot set headers.
func (j *JWTService) GenerateSSEToken(employeeID string) (token string, expiresIn int, err error) {
	_, token, err = j.tokenAuth.Encode(map[string]any{
		"sub":  employeeID,
		"type": TypeSSE,
		"exp":  j.now().Add(sseTokenLifetime).Unix(),
	})
	if err != nil {
		return "", 0, err
	}
	return token, int(sseTokenLifetime.Seconds()), nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (string, error) {
	return j.subjectOf(tokenString, TypeSSE)
}

func (j *JWTService) subjectOf(tokenString, wantType string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != wantType {
		return "", jwt.ErrInvalidJWT()
	}
	if token.Subject() == "" {
		return "", jwt.ErrInvalidJWT()
	}
	return token.Subject(), nil
}

type claimsKey struct{}

// WithClaims replaces the token claims seen by ClaimsFromContext, for callers
// that re-read the bearer's role and department from the roster.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext reads the claims set by WithClaims, falling back to the
// access token claims placed in ctx by the jwtauth verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	if claims, ok := ctx.Value(claimsKey{}).(Claims); ok {
		return claims, nil
	}

	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}

	if t, _ := raw["type"].(string); t != TypeAccess {
		return Claims{}, ErrInvalidClaims
	}
	employeeID, _ := raw["employee_id"].(string)
	departmentID, _ := raw["department_id"].(string)
	role, _ := raw["role"].(string)
	if employeeID == "" || !employee.Role(role).Valid() {
		return Claims{}, ErrInvalidClaims
	}

	return Claims{
		EmployeeID:   employeeID,
		DepartmentID: departmentID,
		Role:         employee.Role(role),
	}, nil
}
