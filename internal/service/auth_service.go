package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/kstack-dev/content-service/internal/auth"
	"github.com/kstack-dev/content-service/internal/config"
	"github.com/kstack-dev/content-service/internal/domain"
	"github.com/kstack-dev/content-service/internal/events"
	"github.com/kstack-dev/content-service/internal/repository"
	apperrors "github.com/kstack-dev/content-service/pkg/util"
)

// RateLimiter throttles one-time-code issuance per staff.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// SessionMetadata carries request-layer details recorded on the session row.
type SessionMetadata struct {
	UserAgent string
	IPAddress string
}

// AuthService coordinates the credential and session lifecycle: password and
// one-time-code sign-in, session issuance and invalidation, and the
// password-reset flow.
type AuthService struct {
	staff         repository.StaffRepository
	sessions      repository.SessionRepository
	verifications repository.VerificationRepository
	resets        repository.PasswordResetRepository
	limiter       RateLimiter
	dispatcher    events.Dispatcher
	tokenMgr      *auth.TokenManager
	logger        *zap.Logger
	bcryptCost    int
	codeLength    int
	codeTTL       time.Duration
	resetWindow   time.Duration
	resetTokenTTL time.Duration
	sessionTTL    time.Duration
	otpPerMinute  int
	now           func() time.Time
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	StaffRepo        repository.StaffRepository
	SessionRepo      repository.SessionRepository
	VerificationRepo repository.VerificationRepository
	ResetRepo        repository.PasswordResetRepository
	Limiter          RateLimiter
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		staff:         deps.StaffRepo,
		sessions:      deps.SessionRepo,
		verifications: deps.VerificationRepo,
		resets:        deps.ResetRepo,
		limiter:       deps.Limiter,
		dispatcher:    deps.Dispatcher,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret),
		logger:        deps.Logger,
		bcryptCost:    cfg.Auth.BcryptCost,
		codeLength:    cfg.Auth.OTPCodeLength,
		codeTTL:       cfg.Auth.OTPCodeTTL(),
		resetWindow:   cfg.Auth.ResetWindow(),
		resetTokenTTL: cfg.Auth.ResetTokenTTL(),
		sessionTTL:    cfg.Auth.SessionTTL(),
		otpPerMinute:  cfg.Auth.OTPRequestsPerMinute,
		now:           time.Now,
	}
}

// RequestCode issues a fresh one-time code for the staff, superseding any
// prior unverified code.
func (s *AuthService) RequestCode(ctx context.Context, staffID string) (*domain.VerificationRecord, error) {
	if s.limiter != nil && s.otpPerMinute > 0 {
		allowed, err := s.limiter.Allow(ctx, "otp:"+staffID, s.otpPerMinute, time.Minute)
		if err != nil {
			s.logger.Warn("otp rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return nil, apperrors.NewTooManyRequests("too many code requests")
		}
	}

	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("staff", nil)
		}
		return nil, err
	}
	if staff.Status != domain.StaffStatusActive {
		return nil, apperrors.NewForbidden("staff account inactive")
	}

	code, err := auth.NewNumericCode(s.codeLength)
	if err != nil {
		return nil, err
	}

	record := &domain.VerificationRecord{
		StaffID:       staff.ID,
		Code:          code,
		CodeExpiresAt: s.now().Add(s.codeTTL),
	}
	if err := s.verifications.Create(ctx, record); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:  events.EventCodeIssued,
		Actor: staff.ID,
		Payload: events.CodeIssuedPayload{
			StaffID: staff.ID,
			TTL:     auth.FormatCodeTTL(int(s.codeTTL.Seconds())),
		},
	})
	return record, nil
}

// VerifyCode checks the supplied code against the staff's active record. On
// success the record is marked verified and the reset-password window opens.
// Retrying an already-verified code within its window succeeds again.
func (s *AuthService) VerifyCode(ctx context.Context, staffID, code string) error {
	record, err := s.verifications.GetLatestByStaff(ctx, staffID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewInvalidCode()
		}
		return err
	}

	now := s.now()
	if !record.CodeUsable(now) {
		return apperrors.NewExpired("verification code")
	}
	if record.Code != code {
		return apperrors.NewInvalidCode()
	}
	if record.Verified {
		return nil
	}
	return s.verifications.MarkVerified(ctx, record.ID, now.Add(s.resetWindow))
}

// SignInWithPassword authenticates by email and password and issues a session.
// Unknown email and mismatched password produce the same error.
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string, meta SessionMetadata) (*domain.Staff, *domain.Session, string, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, "", apperrors.NewInvalidCredentials()
		}
		return nil, nil, "", err
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, nil, "", apperrors.NewInvalidCredentials()
	}
	if staff.Status != domain.StaffStatusActive {
		return nil, nil, "", apperrors.NewForbidden("staff account inactive")
	}

	return s.issueSession(ctx, staff, meta, "password")
}

// SignInWithOTP authenticates with a previously verified one-time code still
// inside its window and issues a session.
func (s *AuthService) SignInWithOTP(ctx context.Context, email, code string, meta SessionMetadata) (*domain.Staff, *domain.Session, string, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, "", apperrors.NewInvalidCode()
		}
		return nil, nil, "", err
	}

	record, err := s.verifications.GetLatestByStaff(ctx, staff.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, "", apperrors.NewInvalidCode()
		}
		return nil, nil, "", err
	}
	if record.Code != code || !record.WithinResetWindow(s.now()) {
		return nil, nil, "", apperrors.NewInvalidCode()
	}
	if staff.Status != domain.StaffStatusActive {
		return nil, nil, "", apperrors.NewForbidden("staff account inactive")
	}

	return s.issueSession(ctx, staff, meta, "otp")
}

func (s *AuthService) issueSession(ctx context.Context, staff *domain.Staff, meta SessionMetadata, method string) (*domain.Staff, *domain.Session, string, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, nil, "", err
	}

	session := &domain.Session{
		StaffID:   staff.ID,
		Token:     token,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		ExpiresAt: s.now().Add(s.sessionTTL),
		Valid:     true,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, "", err
	}

	signed, err := s.tokenMgr.GenerateToken(session, staff.Role)
	if err != nil {
		return nil, nil, "", err
	}

	s.publish(ctx, events.Event{
		Type:  events.EventStaffSignedIn,
		Actor: staff.ID,
		Payload: events.SignedInPayload{
			StaffID:   staff.ID,
			SessionID: session.ID,
			Method:    method,
		},
	})
	return staff, session, signed, nil
}

// ResetPassword replaces the password for a staff whose code verification is
// still inside its reset window, then revokes all outstanding sessions and
// reset tokens.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("staff", nil)
		}
		return err
	}

	record, err := s.verifications.GetLatestByStaff(ctx, staff.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewForbidden("code verification required")
		}
		return err
	}
	if !record.WithinResetWindow(s.now()) {
		return apperrors.NewForbidden("code verification required")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.staff.UpdatePasswordHash(ctx, staff.ID, hash); err != nil {
		return err
	}

	if err := s.sessions.InvalidateAllForStaff(ctx, staff.ID); err != nil {
		return err
	}
	return s.resets.InvalidateAllForStaff(ctx, staff.ID)
}

// IssueResetToken mints a single-use reset token for a staff whose code
// verification is still inside its window.
func (s *AuthService) IssueResetToken(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("staff", nil)
		}
		return nil, err
	}

	record, err := s.verifications.GetLatestByStaff(ctx, staff.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewForbidden("code verification required")
		}
		return nil, err
	}
	if !record.WithinResetWindow(s.now()) {
		return nil, apperrors.NewForbidden("code verification required")
	}

	token := &repository.PasswordResetToken{
		StaffID:   staff.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.resetTokenTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// RedeemResetToken consumes a reset token exactly once and returns the owning
// staff id.
func (s *AuthService) RedeemResetToken(ctx context.Context, token string) (string, error) {
	return s.resets.Redeem(ctx, token)
}

// SignOut invalidates the given session.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.sessions.Invalidate(ctx, sessionID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("session", nil)
		}
		return err
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
