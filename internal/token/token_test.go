package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCreateVerifyRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	userID := uuid.New()

	tok, err := issuer.Create(userID)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := issuer.Verify(tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != userID {
		t.Errorf("got user %s, want %s", claims.UserID, userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := NewIssuer("secret-one", time.Hour).Create(uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewIssuer("secret-two", time.Hour).Verify(tok); err == nil {
		t.Error("expected verification failure with a different secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	tok, err := issuer.Create(uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := issuer.Verify(tok); err == nil {
		t.Error("expected verification failure for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	if _, err := issuer.Verify("not.a.token"); err == nil {
		t.Error("expected verification failure for malformed token")
	}
}
