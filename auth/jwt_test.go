package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestParseTokenRoundTrip(t *testing.T) {
	token := signToken(t, &Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin-1"},
	})
	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != RoleAdmin || claims.Subject != "admin-1" {
		t.Errorf("claims = %+v, want admin-1/admin", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token := signToken(t, &Claims{Role: RoleAdmin})
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseTokenUnknownRole(t *testing.T) {
	token := signToken(t, &Claims{Role: "superuser"})
	if _, err := ParseToken(testSecret, token); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestParseTokenRiderNeedsRiderID(t *testing.T) {
	token := signToken(t, &Claims{Role: RoleRider})
	if _, err := ParseToken(testSecret, token); err == nil {
		t.Error("expected error for rider token without rider_id")
	}

	token = signToken(t, &Claims{Role: RoleRider, RiderID: "rider-1"})
	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.RiderID != "rider-1" {
		t.Errorf("rider_id = %q, want rider-1", claims.RiderID)
	}
}

func TestParseTokenExpired(t *testing.T) {
	claims := &Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := ParseToken(testSecret, s); err == nil {
		t.Error("expected error for expired token")
	}
}
