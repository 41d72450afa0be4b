package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/example/kethai/internal/models"
)

func TestGenerateAndParseToken(t *testing.T) {
	id := uuid.New()

	token, err := GenerateToken("secret", id, "9811111111", 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	parsedID, phone, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if parsedID != id {
		t.Fatalf("uid claim mismatch: got %s want %s", parsedID, id)
	}
	if phone != "9811111111" {
		t.Fatalf("subject mismatch: got %s", phone)
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), "9811111111", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	_, _, err = ParseToken("secret", token)
	if err != models.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), "9811111111", time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, _, err := ParseToken("other", token); err != models.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, _, err := ParseToken("secret", "not.a.token"); err != models.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
