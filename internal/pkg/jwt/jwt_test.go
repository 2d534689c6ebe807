package jwt_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codemart/codemart-api/internal/pkg/jwt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := jwt.NewService("secret", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "seller")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.Role != "seller" {
		t.Errorf("expected role seller, got %s", claims.Role)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	svc := jwt.NewService("secret", time.Minute, time.Hour)

	token, err := svc.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, jwt.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := jwt.NewService("secret", -time.Minute, time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), "buyer")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, jwt.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := jwt.NewService("secret-a", time.Minute, time.Hour)
	verifier := jwt.NewService("secret-b", time.Minute, time.Hour)

	token, err := issuer.GenerateAccessToken(uuid.New(), "buyer")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := verifier.ValidateAccessToken(token); !errors.Is(err, jwt.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
