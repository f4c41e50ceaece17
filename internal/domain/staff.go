package domain

import "time"

// StaffRole enumerates back-office operator roles.
type StaffRole string

const (
	StaffRoleSuperAdmin StaffRole = "SUPER_ADMIN"
	StaffRoleAdmin      StaffRole = "ADMIN"
	StaffRoleEditor     StaffRole = "EDITOR"
	StaffRoleViewer     StaffRole = "VIEWER"
)

// StaffStatus enumerates account states.
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "ACTIVE"
	StaffStatusInactive StaffStatus = "INACTIVE"
)

// Permission enumerates granular capabilities attached to a staff account.
type Permission string

const (
	PermissionRead   Permission = "READ"
	PermissionWrite  Permission = "WRITE"
	PermissionCreate Permission = "CREATE"
	PermissionDelete Permission = "DELETE"
	PermissionUpdate Permission = "UPDATE"
	PermissionManage Permission = "MANAGE"
)

// Staff models a back-office operator account. The content core reads staff
// records but never mutates them, apart from the password hash during reset.
type Staff struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	Status       StaffStatus
	Permissions  []Permission
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasAnyPermission reports whether the staff holds at least one of the given
// permissions.
func (s *Staff) HasAnyPermission(wanted ...Permission) bool {
	for _, have := range s.Permissions {
		for _, want := range wanted {
			if have == want {
				return true
			}
		}
	}
	return false
}

// HasPermission reports whether the staff holds the given permission.
func (s *Staff) HasPermission(want Permission) bool {
	return s.HasAnyPermission(want)
}
