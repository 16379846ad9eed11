package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-pay/custodia/internal/auth"
)

const testSecret = "test-secret"

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Use(CallerAuth(testSecret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"caller": Caller(c)})
	})
	return app
}

func TestCallerAuthRejectsMissingToken(t *testing.T) {
	app := newAuthApp()

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCallerAuthRejectsBadSignature(t *testing.T) {
	app := newAuthApp()

	token, err := auth.SignCallerToken("addr:u1", []byte("other-secret"), time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCallerAuthSetsCaller(t *testing.T) {
	app := newAuthApp()

	token, err := auth.SignCallerToken("addr:u1", []byte(testSecret), time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
