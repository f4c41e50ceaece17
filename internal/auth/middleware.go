package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/kstack-dev/content-service/internal/domain"
	"github.com/kstack-dev/content-service/internal/repository"
	apperrors "github.com/kstack-dev/content-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated staff caller.
type Principal struct {
	Staff   *domain.Staff
	Session *domain.Session
}

// AuthMiddleware validates bearer tokens against the session store and loads
// the staff principal.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions repository.SessionRepository
	staff    repository.StaffRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions repository.SessionRepository, staff repository.StaffRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions, staff: staff}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	session, err := m.sessions.GetByID(c.Context(), claims.SessionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("session not found")
		}
		return err
	}
	if !session.Active(time.Now()) {
		return apperrors.NewUnauthorized("session expired or revoked")
	}

	staff, err := m.staff.GetByID(c.Context(), session.StaffID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("staff not found")
		}
		return err
	}
	if staff.Status != domain.StaffStatusActive {
		return apperrors.NewForbidden("staff account inactive")
	}

	c.Locals(principalKey, &Principal{Staff: staff, Session: session})
	return c.Next()
}

// PrincipalFromContext extracts the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}
