package domain

import "time"

// VerificationRecord is the one-time-code artifact used for OTP sign-in and as
// a gate for password reset. A fresh code always creates a fresh record; prior
// active records are marked superseded rather than mutated in place.
type VerificationRecord struct {
	ID                   string
	StaffID              string
	Code                 string
	Verified             bool
	Superseded           bool
	CodeExpiresAt        time.Time
	ResetWindowExpiresAt *time.Time
	CreatedAt            time.Time
}

// CodeUsable reports whether the code can still be verified at the given
// instant.
func (v *VerificationRecord) CodeUsable(now time.Time) bool {
	return !v.Superseded && now.Before(v.CodeExpiresAt)
}

// WithinResetWindow reports whether a successful verification is still inside
// its reset-password window.
func (v *VerificationRecord) WithinResetWindow(now time.Time) bool {
	return v.Verified && v.ResetWindowExpiresAt != nil && now.Before(*v.ResetWindowExpiresAt)
}
