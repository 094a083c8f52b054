package session

import (
	"strings"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	mgr := NewManager(NewHS256Strategy([]byte("test-secret"), time.Hour))

	sess, err := mgr.Create("account-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.Token == "" || sess.RefreshToken == "" {
		t.Fatal("expected access and refresh tokens")
	}

	validated, err := mgr.Validate(sess.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if validated.AccountID != "account-1" {
		t.Errorf("expected account-1, got %s", validated.AccountID)
	}
}

func TestSessionRefresh(t *testing.T) {
	mgr := NewManager(NewHS256Strategy([]byte("test-secret"), time.Hour))

	sess, err := mgr.Create("account-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	renewed, err := mgr.Refresh(sess.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if renewed.AccountID != "account-1" {
		t.Errorf("expected account-1, got %s", renewed.AccountID)
	}

	// A refresh token is not an access token.
	if _, err := mgr.Validate(sess.RefreshToken); err == nil {
		t.Error("refresh token must not validate as an access token")
	}
}

func TestSessionExpired(t *testing.T) {
	mgr := NewManager(NewHS256Strategy([]byte("test-secret"), -time.Minute))

	sess, err := mgr.Create("account-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := mgr.Validate(sess.Token); err == nil {
		t.Error("expired session should not validate")
	}
}

func TestSessionTampered(t *testing.T) {
	mgr := NewManager(NewHS256Strategy([]byte("test-secret"), time.Hour))
	other := NewManager(NewHS256Strategy([]byte("other-secret"), time.Hour))

	sess, err := other.Create("account-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := mgr.Validate(sess.Token); err == nil {
		t.Error("foreign-key session should not validate")
	}

	own, _ := mgr.Create("account-1")
	parts := strings.Split(own.Token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("x", len(parts[2]))
	if _, err := mgr.Validate(tampered); err == nil {
		t.Error("tampered session should not validate")
	}
}
