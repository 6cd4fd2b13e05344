package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/clinic-management/internal/model"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	loginAt := time.Now().UTC().Truncate(time.Second)
	sess := model.Session{
		UserID:   7,
		Email:    "amira@clinic.test",
		Username: "amira",
		Role:     "patient",
		FullName: "Amira K",
		LoginAt:  loginAt,
	}

	raw, err := NewSessionToken("secret", sess, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := ParseSessionToken("secret", raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.UserID != 7 || got.Email != sess.Email || got.Username != sess.Username ||
		got.Role != sess.Role || got.FullName != sess.FullName {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if !got.LoginAt.Equal(loginAt) {
		t.Fatalf("login time mismatch: %v", got.LoginAt)
	}
	if !got.Alive() {
		t.Fatalf("reconstructed session must be alive")
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	sess := model.Session{UserID: 7, LoginAt: time.Now().UTC()}
	raw, err := NewSessionToken("secret", sess, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseSessionToken("other-secret", raw); err == nil {
		t.Fatalf("wrong secret must be rejected")
	}
}

func TestParseSessionTokenRejectsTampering(t *testing.T) {
	sess := model.Session{UserID: 7, LoginAt: time.Now().UTC()}
	raw, err := NewSessionToken("secret", sess, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", raw)
	}
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	if _, err := ParseSessionToken("secret", strings.Join(parts, ".")); err == nil {
		t.Fatalf("tampered payload must be rejected")
	}

	if _, err := ParseSessionToken("secret", "garbage"); err == nil {
		t.Fatalf("non-token input must be rejected")
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	sess := model.Session{UserID: 7, LoginAt: time.Now().UTC().Add(-2 * time.Hour)}
	raw, err := NewSessionToken("secret", sess, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseSessionToken("secret", raw); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestNewResetTokenShape(t *testing.T) {
	tok, err := NewResetToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(tok.Raw) != 64 {
		t.Fatalf("raw token should encode 32 bytes as hex, got %d chars", len(tok.Raw))
	}
	if len(tok.Hash) != 64 || tok.Hash == tok.Raw {
		t.Fatalf("hash must be a distinct sha256 digest, got %q", tok.Hash)
	}
	until := time.Until(tok.ExpiresAt)
	if until < 23*time.Hour || until > 25*time.Hour {
		t.Fatalf("expiry should be about 24h out, got %v", until)
	}

	other, err := NewResetToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if other.Raw == tok.Raw {
		t.Fatalf("tokens must not repeat")
	}
}
