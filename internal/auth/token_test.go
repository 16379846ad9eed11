package auth

import (
	"strings"
	"testing"
	"time"
)

func TestCallerTokenRoundTrip(t *testing.T) {
	secret := []byte("secret")
	token, err := SignCallerToken("addr:u1", secret, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	address, err := VerifyCallerToken(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if address != "addr:u1" {
		t.Fatalf("expected addr:u1, got %s", address)
	}
}

func TestCallerTokenRejectsTampering(t *testing.T) {
	secret := []byte("secret")
	token, err := SignCallerToken("addr:u1", secret, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA"
	if _, err := VerifyCallerToken(tampered, secret); err == nil {
		t.Fatal("expected tampered token to fail")
	}

	if _, err := VerifyCallerToken(token, []byte("other")); err == nil {
		t.Fatal("expected wrong secret to fail")
	}
}

func TestCallerTokenExpiry(t *testing.T) {
	secret := []byte("secret")
	token, err := SignCallerToken("addr:u1", secret, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyCallerToken(token, secret); err == nil {
		t.Fatal("expected expired token to fail")
	}
}
