package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/s3"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/service"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	presigner   *s3.AvatarPresigner
}

func NewUserHandler(userService service.UserService, presigner *s3.AvatarPresigner) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
		presigner:   presigner,
	}
}

type UserProfileResponse struct {
	ID              uuid.UUID  `json:"id"`
	LoginID         string     `json:"login_id"`
	Nickname        string     `json:"nickname"`
	Email           string     `json:"email"`
	Birthday        *string    `json:"birthday,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := AuthUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var birthday *string
	if user.Birthday != nil {
		b := user.Birthday.Format(birthdayFormat)
		birthday = &b
	}

	return c.Status(fiber.StatusOK).JSON(UserProfileResponse{
		ID:              user.ID,
		LoginID:         user.LoginID,
		Nickname:        user.Nickname,
		Email:           user.Email,
		Birthday:        birthday,
		EmailVerifiedAt: user.EmailVerifiedAt,
		CreatedAt:       user.CreatedAt,
	})
}

type UpdateProfileRequest struct {
	Nickname *string `json:"nickname,omitempty" validate:"omitempty,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Birthday *string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := AuthUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request UpdateProfileRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationFailed(c, err)
	}

	var birthday *time.Time
	if request.Birthday != nil {
		parsed, _ := time.Parse(birthdayFormat, *request.Birthday)
		birthday = &parsed
	}

	updated, err := h.userService.UpdateProfile(c.Context(), user.ID, service.UpdateProfileDTO{
		Nickname: request.Nickname,
		Email:    request.Email,
		Birthday: birthday,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update profile"})
	}

	var respBirthday *string
	if updated.Birthday != nil {
		b := updated.Birthday.Format(birthdayFormat)
		respBirthday = &b
	}

	return c.Status(fiber.StatusOK).JSON(UserProfileResponse{
		ID:              updated.ID,
		LoginID:         updated.LoginID,
		Nickname:        updated.Nickname,
		Email:           updated.Email,
		Birthday:        respBirthday,
		EmailVerifiedAt: updated.EmailVerifiedAt,
		CreatedAt:       updated.CreatedAt,
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	user, err := AuthUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request ChangePasswordRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationFailed(c, err)
	}

	err = h.userService.ChangePassword(c.Context(), user.ID, request.CurrentPassword, request.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Current password is incorrect"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not change password"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password updated successfully"})
}

func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	user, err := AuthUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.userService.DeleteAccount(c.Context(), user.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete account"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Account deleted"})
}

type RegisterDeviceTokenRequest struct {
	DeviceToken string `json:"device_token" validate:"required"`
}

func (h *UserHandler) RegisterDeviceToken(c *fiber.Ctx) error {
	user, err := AuthUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request RegisterDeviceTokenRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationFailed(c, err)
	}

	if err := h.userService.RegisterDeviceToken(c.Context(), user.ID, request.DeviceToken); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not register device token"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Device token registered successfully"})
}

func (h *UserHandler) GetAvatarUploadURL(c *fiber.Ctx) error {
	user, err := AuthUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	uploadURL, finalURL, err := h.presigner.AvatarUploadURL(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate upload URL"})
	}

	return c.JSON(fiber.Map{
		"upload_url":      uploadURL,
		"final_image_url": finalURL,
	})
}
