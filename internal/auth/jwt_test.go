package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/thali-menu/api/internal/auth"
)

func TestGenerateAndValidateSessionToken(t *testing.T) {
	secret := "test-secret"
	sessionID := uuid.New()

	token, err := auth.GenerateSessionToken(secret, sessionID, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := auth.ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	if claims.SessionID != sessionID {
		t.Errorf("session ID: got %v, want %v", claims.SessionID, sessionID)
	}
	if claims.Subject != sessionID.String() {
		t.Errorf("subject: got %v, want %v", claims.Subject, sessionID)
	}
}

func TestValidateTokenWithWrongSecret(t *testing.T) {
	token, err := auth.GenerateSessionToken("secret-a", uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := auth.ValidateToken("secret-b", token); err == nil {
		t.Fatal("expected error validating with wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := auth.GenerateSessionToken("secret", uuid.New(), -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := auth.ValidateToken("secret", token); err == nil {
		t.Fatal("expected error validating expired token")
	}
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	claims := auth.Claims{
		SessionID:        uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := auth.ValidateToken("secret", token); err == nil {
		t.Fatal("expected error validating token from another issuer")
	}
}

func TestValidateTokenWithInvalidString(t *testing.T) {
	if _, err := auth.ValidateToken("secret", "not-a-jwt"); err == nil {
		t.Fatal("expected error validating invalid token string")
	}
}
