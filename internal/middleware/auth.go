package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/utils"
)

const (
	verifiedEmailKey = "verifiedEmail"
	verifiedOTPKey   = "verifiedOTPID"
)

// VerifiedEmail requires a Bearer verification token issued by a successful
// OTP verification and stores the verified email in the context.
func VerifiedEmail(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		email, otpID, err := utils.ParseVerificationToken(secret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(verifiedEmailKey, email)
		c.Locals(verifiedOTPKey, otpID)
		return c.Next()
	}
}

// GetVerifiedEmail extracts the email stored by VerifiedEmail.
func GetVerifiedEmail(c *fiber.Ctx) (string, uuid.UUID, bool) {
	email, ok := c.Locals(verifiedEmailKey).(string)
	if !ok || email == "" {
		return "", uuid.Nil, false
	}
	otpID, _ := c.Locals(verifiedOTPKey).(uuid.UUID)
	return email, otpID, true
}
