package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/service"
)

const birthdayFormat = "2006-01-02"

type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

type RegisterRequest struct {
	LoginID  string `json:"login_id" validate:"required,min=4,max=255"`
	Nickname string `json:"nickname" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Birthday string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var request RegisterRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationFailed(c, err)
	}

	var birthday *time.Time
	if request.Birthday != "" {
		parsed, _ := time.Parse(birthdayFormat, request.Birthday)
		birthday = &parsed
	}

	user, err := h.authService.RegisterUser(c.Context(), service.RegisterUserDTO{
		LoginID:  request.LoginID,
		Nickname: request.Nickname,
		Email:    request.Email,
		Password: request.Password,
		Birthday: birthday,
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Login ID or email already exists"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not register user"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

type LoginRequest struct {
	LoginID  string `json:"login_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationFailed(c, err)
	}

	token, err := h.authService.LoginUser(c.Context(), request.LoginID, request.Password)

	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not log in"})
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	err := h.authService.LogoutUser(c.Context(), AuthTokenString(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not log out"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Successfully logged out"})
}

type PasswordResetEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var request PasswordResetEmailRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.RequestPasswordReset(c.Context(), request.Email); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not send password reset mail"})
	}

	// Same answer whether or not the address is registered.
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "If the address is registered, a reset mail has been sent"})
}

type PasswordResetRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var request PasswordResetRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationFailed(c, err)
	}

	err := h.authService.ResetPassword(c.Context(), request.Token, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not reset password"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password has been reset"})
}
