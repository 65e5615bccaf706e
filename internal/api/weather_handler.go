package api

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/weather"
)

type WeatherHandler struct {
	client   *weather.Client
	validate *validator.Validate
}

func NewWeatherHandler(client *weather.Client) *WeatherHandler {
	return &WeatherHandler{
		client:   client,
		validate: validator.New(),
	}
}

type weatherQuery struct {
	Lat string `query:"lat" validate:"required,latitude"`
	Lon string `query:"lon" validate:"required,longitude"`
}

// GetCurrentWeather relays the third-party provider's response for the
// dashboard; the body passes through untouched.
func (h *WeatherHandler) GetCurrentWeather(c *fiber.Ctx) error {
	var query weatherQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse query"})
	}

	if err := h.validate.Struct(&query); err != nil {
		return validationFailed(c, err)
	}

	status, body, err := h.client.CurrentByCoords(c.UserContext(), query.Lat, query.Lon)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "weather upstream call failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Weather service unavailable"})
	}

	c.Status(status)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
