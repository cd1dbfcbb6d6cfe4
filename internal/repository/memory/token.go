package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/auth"
)

type TokenRepository struct {
	store *Store
}

func (r *TokenRepository) CreateRefreshToken(ctx context.Context, employeeID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.refreshTokens[token] = refreshToken{employeeID: employeeID, expiresAt: expiresAt}
	return nil
}

func (r *TokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.refreshTokens[token]
	if !ok {
		return true, nil
	}
	return t.revoked || t.expiresAt <= time.Now().Unix(), nil
}

func (r *TokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if t, ok := r.store.refreshTokens[token]; ok {
		t.revoked = true
		r.store.refreshTokens[token] = t
	}
	return nil
}
