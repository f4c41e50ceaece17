package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kstack-dev/content-service/internal/api/dto"
	"github.com/kstack-dev/content-service/internal/auth"
	"github.com/kstack-dev/content-service/internal/domain"
	"github.com/kstack-dev/content-service/internal/service"
)

// AuthHandler exposes the credential and session lifecycle endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/staff/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	staff, session, token, err := h.authService.SignInWithPassword(c.Context(), req.Email, req.Password, sessionMeta(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("signed in", fiber.Map{
		"staff": staffResponse(staff),
		"auth":  dto.AuthResponse{Token: token, ExpiresAt: session.ExpiresAt},
	}))
}

// RequestCode handles POST /auth/staff/otp/request.
func (h *AuthHandler) RequestCode(c *fiber.Ctx) error {
	var req dto.OTPRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.StaffID == "" {
		return fiber.NewError(http.StatusBadRequest, "staff_id required")
	}

	record, err := h.authService.RequestCode(c.Context(), req.StaffID)
	if err != nil {
		return err
	}
	// The code itself travels out of band; only the expiry is returned.
	return c.Status(http.StatusAccepted).JSON(dto.OK("code issued", fiber.Map{
		"expires_at": record.CodeExpiresAt,
	}))
}

// VerifyCode handles POST /auth/staff/otp/verify.
func (h *AuthHandler) VerifyCode(c *fiber.Ctx) error {
	var req dto.OTPVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.StaffID == "" || req.Code == "" {
		return fiber.NewError(http.StatusBadRequest, "staff_id and code required")
	}

	if err := h.authService.VerifyCode(c.Context(), req.StaffID, req.Code); err != nil {
		return err
	}
	return c.JSON(dto.OK("code verified", nil))
}

// LoginWithOTP handles POST /auth/staff/otp/login.
func (h *AuthHandler) LoginWithOTP(c *fiber.Ctx) error {
	var req dto.OTPLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Code == "" {
		return fiber.NewError(http.StatusBadRequest, "email and code required")
	}

	staff, session, token, err := h.authService.SignInWithOTP(c.Context(), req.Email, req.Code, sessionMeta(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("signed in", fiber.Map{
		"staff": staffResponse(staff),
		"auth":  dto.AuthResponse{Token: token, ExpiresAt: session.ExpiresAt},
	}))
}

// ResetPassword handles POST /auth/password/reset.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "email and new password required")
	}

	if err := h.authService.ResetPassword(c.Context(), req.Email, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.OK("password reset", nil))
}

// IssueResetToken handles POST /auth/password/reset/token.
func (h *AuthHandler) IssueResetToken(c *fiber.Ctx) error {
	var req dto.ResetTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	token, err := h.authService.IssueResetToken(c.Context(), req.Email)
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(dto.OK("reset token issued", fiber.Map{
		"reset_token": token.Token,
		"expires_at":  token.ExpiresAt,
	}))
}

// RedeemResetToken handles POST /auth/password/reset/redeem.
func (h *AuthHandler) RedeemResetToken(c *fiber.Ctx) error {
	var req dto.RedeemResetTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	staffID, err := h.authService.RedeemResetToken(c.Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("token redeemed", fiber.Map{"staff_id": staffID}))
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	if err := h.authService.SignOut(c.Context(), principal.Session.ID); err != nil {
		return err
	}
	return c.JSON(dto.OK("signed out", nil))
}

func sessionMeta(c *fiber.Ctx) service.SessionMetadata {
	return service.SessionMetadata{
		UserAgent: c.Get("User-Agent"),
		IPAddress: c.IP(),
	}
}

func staffResponse(staff *domain.Staff) dto.StaffResponse {
	permissions := make([]string, len(staff.Permissions))
	for i, p := range staff.Permissions {
		permissions[i] = string(p)
	}
	return dto.StaffResponse{
		ID:          staff.ID,
		Name:        staff.Name,
		Email:       staff.Email,
		Role:        string(staff.Role),
		Status:      string(staff.Status),
		Permissions: permissions,
	}
}
