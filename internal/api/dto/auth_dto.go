package dto

import "time"

// LoginRequest payload for password sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OTPRequestPayload asks for a fresh one-time code.
type OTPRequestPayload struct {
	StaffID string `json:"staff_id"`
}

// OTPVerifyRequest verifies a one-time code.
type OTPVerifyRequest struct {
	StaffID string `json:"staff_id"`
	Code    string `json:"code"`
}

// OTPLoginRequest signs in with a verified one-time code.
type OTPLoginRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResetPasswordRequest sets a new password after code verification.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// ResetTokenRequest asks for a single-use reset token.
type ResetTokenRequest struct {
	Email string `json:"email"`
}

// RedeemResetTokenRequest consumes a reset token.
type RedeemResetTokenRequest struct {
	Token string `json:"token"`
}

// AuthResponse carries the issued access token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StaffResponse is the public view of a staff account.
type StaffResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Status      string   `json:"status"`
	Permissions []string `json:"permissions"`
}
