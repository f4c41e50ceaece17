package service

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/kstack-dev/content-service/internal/domain"
	"github.com/kstack-dev/content-service/internal/repository"
)

// Decision is the structured result of an authorization check. Expected
// denials come back as a result, not an error, so callers can render the
// reason without exception handling.
type Decision struct {
	Permitted bool
	Reason    string
	Status    int
}

func permitted() Decision {
	return Decision{Permitted: true, Status: http.StatusOK}
}

func denied(reason string, status int) Decision {
	return Decision{Permitted: false, Reason: reason, Status: status}
}

// AuthzService gates every mutating content operation. Both checks fail
// closed: a lookup miss or inactive account short-circuits before role and
// permission evaluation.
type AuthzService struct {
	staff repository.StaffRepository
}

// NewAuthzService builds the gate.
func NewAuthzService(staff repository.StaffRepository) *AuthzService {
	return &AuthzService{staff: staff}
}

// CanCreateOrEdit permits active staff with an editor-grade role holding
// either the CREATE or UPDATE permission.
func (s *AuthzService) CanCreateOrEdit(ctx context.Context, staffID string) (Decision, error) {
	staff, decision, err := s.lookup(ctx, staffID)
	if err != nil || !decision.Permitted {
		return decision, err
	}

	switch staff.Role {
	case domain.StaffRoleSuperAdmin, domain.StaffRoleAdmin, domain.StaffRoleEditor:
	default:
		return denied("insufficient role", http.StatusForbidden), nil
	}
	if !staff.HasAnyPermission(domain.PermissionCreate, domain.PermissionUpdate) {
		return denied("missing create or update permission", http.StatusForbidden), nil
	}
	return permitted(), nil
}

// CanDelete permits active admins holding the DELETE permission.
func (s *AuthzService) CanDelete(ctx context.Context, staffID string) (Decision, error) {
	staff, decision, err := s.lookup(ctx, staffID)
	if err != nil || !decision.Permitted {
		return decision, err
	}

	switch staff.Role {
	case domain.StaffRoleSuperAdmin, domain.StaffRoleAdmin:
	default:
		return denied("insufficient role", http.StatusForbidden), nil
	}
	if !staff.HasPermission(domain.PermissionDelete) {
		return denied("missing delete permission", http.StatusForbidden), nil
	}
	return permitted(), nil
}

func (s *AuthzService) lookup(ctx context.Context, staffID string) (*domain.Staff, Decision, error) {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, denied("staff not found", http.StatusNotFound), nil
		}
		return nil, denied("staff lookup failed", http.StatusInternalServerError), err
	}
	if staff.Status != domain.StaffStatusActive {
		return nil, denied("staff account inactive", http.StatusForbidden), nil
	}
	return staff, permitted(), nil
}
