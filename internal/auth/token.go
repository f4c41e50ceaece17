package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/kstack-dev/content-service/internal/domain"
)

// TokenManager issues and validates the signed access tokens handed to HTTP
// clients. A token carries the id of a server-side session; the session row
// stays authoritative, so invalidating it revokes the token immediately.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Claims describes the JWT payload.
type Claims struct {
	StaffID   string           `json:"sub"`
	SessionID string           `json:"sid"`
	Role      domain.StaffRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs an access token bound to the given session.
func (tm *TokenManager) GenerateToken(session *domain.Session, role domain.StaffRole) (string, error) {
	claims := &Claims{
		StaffID:   session.StaffID,
		SessionID: session.ID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.StaffID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
