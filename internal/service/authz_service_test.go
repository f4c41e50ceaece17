package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/kstack-dev/content-service/internal/domain"
)

func gateStaff(role domain.StaffRole, status domain.StaffStatus, perms ...domain.Permission) *domain.Staff {
	return &domain.Staff{
		ID:          "staff-1",
		Email:       "a@example.com",
		Role:        role,
		Status:      status,
		Permissions: perms,
	}
}

func TestCanCreateOrEdit(t *testing.T) {
	cases := []struct {
		name       string
		staff      *domain.Staff
		permitted  bool
		wantStatus int
	}{
		{
			name:      "editor with create",
			staff:     gateStaff(domain.StaffRoleEditor, domain.StaffStatusActive, domain.PermissionCreate),
			permitted: true,
		},
		{
			name:      "admin with update",
			staff:     gateStaff(domain.StaffRoleAdmin, domain.StaffStatusActive, domain.PermissionUpdate),
			permitted: true,
		},
		{
			name:      "super admin with both",
			staff:     gateStaff(domain.StaffRoleSuperAdmin, domain.StaffStatusActive, domain.PermissionCreate, domain.PermissionUpdate),
			permitted: true,
		},
		{
			name:       "viewer role rejected",
			staff:      gateStaff(domain.StaffRoleViewer, domain.StaffStatusActive, domain.PermissionCreate, domain.PermissionUpdate),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "editor without write permissions",
			staff:      gateStaff(domain.StaffRoleEditor, domain.StaffStatusActive, domain.PermissionRead),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "inactive admin",
			staff:      gateStaff(domain.StaffRoleAdmin, domain.StaffStatusInactive, domain.PermissionCreate),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown staff",
			staff:      nil,
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeStaffRepo()
			if tc.staff != nil {
				repo.staff[tc.staff.ID] = tc.staff
			}
			gate := NewAuthzService(repo)

			decision, err := gate.CanCreateOrEdit(context.Background(), "staff-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if decision.Permitted != tc.permitted {
				t.Fatalf("expected permitted=%v, got %+v", tc.permitted, decision)
			}
			if !tc.permitted {
				if decision.Status != tc.wantStatus {
					t.Fatalf("expected status %d, got %d", tc.wantStatus, decision.Status)
				}
				if decision.Reason == "" {
					t.Fatal("expected a denial reason")
				}
			}
		})
	}
}

func TestCanDelete(t *testing.T) {
	cases := []struct {
		name       string
		staff      *domain.Staff
		permitted  bool
		wantStatus int
	}{
		{
			name:      "admin with delete",
			staff:     gateStaff(domain.StaffRoleAdmin, domain.StaffStatusActive, domain.PermissionDelete),
			permitted: true,
		},
		{
			name:      "super admin with delete",
			staff:     gateStaff(domain.StaffRoleSuperAdmin, domain.StaffStatusActive, domain.PermissionDelete),
			permitted: true,
		},
		{
			name:       "editor with delete permission still rejected",
			staff:      gateStaff(domain.StaffRoleEditor, domain.StaffStatusActive, domain.PermissionDelete),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin without delete permission",
			staff:      gateStaff(domain.StaffRoleAdmin, domain.StaffStatusActive, domain.PermissionCreate, domain.PermissionUpdate),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "inactive super admin",
			staff:      gateStaff(domain.StaffRoleSuperAdmin, domain.StaffStatusInactive, domain.PermissionDelete),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown staff",
			staff:      nil,
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeStaffRepo()
			if tc.staff != nil {
				repo.staff[tc.staff.ID] = tc.staff
			}
			gate := NewAuthzService(repo)

			decision, err := gate.CanDelete(context.Background(), "staff-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if decision.Permitted != tc.permitted {
				t.Fatalf("expected permitted=%v, got %+v", tc.permitted, decision)
			}
			if !tc.permitted && decision.Status != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, decision.Status)
			}
		})
	}
}
