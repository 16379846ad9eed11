package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-pay/custodia/internal/auth"
)

const callerLocalKey = "caller_address"

// CallerAuth validates the platform-signed bearer token and records the
// asserted caller address for downstream handlers.
func CallerAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		address, err := auth.VerifyCallerToken(tokenStr, []byte(secret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		c.Locals(callerLocalKey, address)
		return c.Next()
	}
}

// Caller returns the authenticated caller address stored by CallerAuth, or an
// empty string for unauthenticated requests.
func Caller(c *fiber.Ctx) string {
	address, _ := c.Locals(callerLocalKey).(string)
	return address
}
