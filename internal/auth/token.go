package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var b64 = base64.RawURLEncoding

// SignCallerToken issues a compact HS256 token asserting the caller address.
// In production the platform fronting this service signs these; the helper is
// shared so tests mint callers the same way the platform does.
func SignCallerToken(address string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := map[string]any{
		"sub": address,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return signHS256(claims, secret)
}

// VerifyCallerToken verifies the token signature and expiry and returns the
// asserted caller address.
func VerifyCallerToken(token string, secret []byte) (string, error) {
	claims, err := parseAndVerifyHS256(token, secret)
	if err != nil {
		return "", err
	}
	if exp, ok := claims["exp"].(float64); ok && time.Now().Unix() > int64(exp) {
		return "", errors.New("token expired")
	}
	address, _ := claims["sub"].(string)
	if address == "" {
		return "", errors.New("token missing subject")
	}
	return address, nil
}

func signHS256(claims map[string]any, secret []byte) (string, error) {
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	unsigned := b64.EncodeToString(header) + "." + b64.EncodeToString(payload)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(unsigned))
	return unsigned + "." + b64.EncodeToString(mac.Sum(nil)), nil
}

func parseAndVerifyHS256(token string, secret []byte) (map[string]any, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid token format")
	}
	unsigned := parts[0] + "." + parts[1]
	sig, err := b64.DecodeString(parts[2])
	if err != nil {
		return nil, errors.New("invalid signature encoding")
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(unsigned))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, errors.New("signature mismatch")
	}
	payload, err := b64.DecodeString(parts[1])
	if err != nil {
		return nil, errors.New("invalid payload encoding")
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("invalid claims json: %w", err)
	}
	return claims, nil
}
