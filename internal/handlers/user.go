package handlers

import (
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/validation"
)

// UserHandler serves registration, lookup and OTP endpoints.
type UserHandler struct {
	users    *services.UserService
	otps     *services.OTPService
	validate *validatorv10.Validate
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *services.UserService, otps *services.OTPService, validate *validatorv10.Validate) *UserHandler {
	return &UserHandler{users: users, otps: otps, validate: validate}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := validation.Bind(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.users.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, user)
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, users)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, user)
}

func (h *UserHandler) GetUserByEmail(c *fiber.Ctx) error {
	user, err := h.users.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return ok(c, user)
}

type generateOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// GenerateOTP issues a code. When delivery failed the code is included in the
// response so an operator can pass it on.
func (h *UserHandler) GenerateOTP(c *fiber.Ctx) error {
	var req generateOTPRequest
	if err := validation.Bind(c, h.validate, &req); err != nil {
		return err
	}

	issued, err := h.otps.Issue(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	data := fiber.Map{
		"otp_id":     issued.OTPID,
		"email":      issued.Email,
		"expires_at": issued.ExpiresAt,
		"delivered":  issued.Delivered,
	}
	message := "OTP sent successfully"
	if !issued.Delivered {
		message = "OTP generated, delivery unavailable"
		data["code"] = issued.Code
	}

	return c.JSON(fiber.Map{"success": true, "message": message, "data": data})
}

type verifyOTPRequest struct {
	OTPID   uuid.UUID `json:"otp_id" validate:"required"`
	OTPCode string    `json:"otp_code" validate:"required,len=6,numeric"`
}

// VerifyOTP answers every failure, a malformed request included, with the
// same "invalid or expired OTP" error.
func (h *UserHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := validation.Bind(c, h.validate, &req); err != nil {
		return apperr.InvalidArgument(apperr.ErrMsgInvalidOTP)
	}

	result, err := h.otps.Verify(c.UserContext(), req.OTPID, req.OTPCode)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "OTP verified successfully", "data": result})
}

// Verification echoes the email proven by the caller's verification token.
func (h *UserHandler) Verification(c *fiber.Ctx) error {
	email, otpID, found := middleware.GetVerifiedEmail(c)
	if !found {
		return fiber.NewError(fiber.StatusUnauthorized, "not verified")
	}
	return ok(c, fiber.Map{"email": email, "otp_id": otpID})
}
