package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/service"
)

const achievementTimeFormat = "2006-01-02 15:04:05"

type AchievementHandler struct {
	achievementService service.AchievementService
	validate           *validator.Validate
}

func NewAchievementHandler(achievementService service.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
		validate:           validator.New(),
	}
}

type AchievementResponse struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	StartTime  string  `json:"start_time"`
	EndTime    *string `json:"end_time,omitempty"`
	AchievedAt string  `json:"achieved_at"`
}

func achievementResponse(a *model.Achievement) AchievementResponse {
	var endTime *string
	if a.EndTime != nil {
		e := a.EndTime.Format(achievementTimeFormat)
		endTime = &e
	}

	return AchievementResponse{
		ID:         a.ID,
		Title:      a.Title,
		StartTime:  a.StartTime.Format(achievementTimeFormat),
		EndTime:    endTime,
		AchievedAt: a.AchievedAt.Format(achievementTimeFormat),
	}
}

func (h *AchievementHandler) ListAchievements(c *fiber.Ctx) error {
	user, err := AuthUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	achievements, err := h.achievementService.ListAchievements(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch achievements"})
	}

	responses := make([]AchievementResponse, 0, len(achievements))
	for i := range achievements {
		responses = append(responses, achievementResponse(&achievements[i]))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"achievements": responses})
}

type CreateAchievementRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	StartTime string `json:"start_time" validate:"required,datetime=2006-01-02 15:04:05"`
	EndTime   string `json:"end_time,omitempty" validate:"omitempty,datetime=2006-01-02 15:04:05"`
}

func (h *AchievementHandler) CreateAchievement(c *fiber.Ctx) error {
	user, err := AuthUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request CreateAchievementRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationFailed(c, err)
	}

	startTime, _ := time.Parse(achievementTimeFormat, request.StartTime)

	var endTime *time.Time
	if request.EndTime != "" {
		parsed, _ := time.Parse(achievementTimeFormat, request.EndTime)
		endTime = &parsed
	}

	achievement, err := h.achievementService.CreateAchievement(c.Context(), user.ID, service.CreateAchievementDTO{
		Title:     request.Title,
		StartTime: startTime,
		EndTime:   endTime,
	})

	if err != nil {
		if errors.Is(err, service.ErrEndBeforeStart) {
			return fieldError(c, "end_time", "must be on or after start_time")
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create achievement"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Achievement created successfully",
		"achievement": achievementResponse(achievement),
	})
}
