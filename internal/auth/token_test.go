package auth

import (
	"testing"
	"time"

	"github.com/kstack-dev/content-service/internal/domain"
)

func testSession(expiresAt time.Time) *domain.Session {
	return &domain.Session{
		ID:        "sess-1",
		StaffID:   "staff-1",
		Token:     "opaque",
		ExpiresAt: expiresAt,
		Valid:     true,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("round-trip-secret")
	session := testSession(time.Now().Add(time.Hour))

	signed, err := tm.GenerateToken(session, domain.StaffRoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := tm.ParseToken(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.StaffID != "staff-1" || claims.SessionID != "sess-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Role != domain.StaffRoleAdmin {
		t.Fatalf("expected role ADMIN, got %s", claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	signed, err := NewTokenManager("secret-a").GenerateToken(testSession(time.Now().Add(time.Hour)), domain.StaffRoleEditor)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenManager("secret-b").ParseToken(signed); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("expiry-secret")
	signed, err := tm.GenerateToken(testSession(time.Now().Add(-time.Minute)), domain.StaffRoleEditor)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tm.ParseToken(signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := NewTokenManager("secret").ParseToken("not-a-token"); err == nil {
		t.Fatal("expected parse failure")
	}
}
