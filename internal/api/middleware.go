package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/service"
)

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
)

// BearerAuth resolves the Authorization header against the stored token
// table and puts the authenticated user on the request context. Every
// failure mode (missing header, unknown token, expired token) produces the
// same 401 and ends the request.
func BearerAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization header format"})
		}
		tokenString := parts[1]

		user, err := authService.Authenticate(c.Context(), tokenString)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not authenticate request"})
		}

		c.Locals("authUser", user)
		c.Locals("authToken", tokenString)

		return c.Next()
	}
}

// AuthUser returns the user resolved by BearerAuth for this request.
func AuthUser(c *fiber.Ctx) (*model.User, error) {
	user, ok := c.Locals("authUser").(*model.User)
	if !ok || user == nil {
		return nil, errors.New("authenticated user not found in context")
	}
	return user, nil
}

// AuthTokenString returns the raw bearer token the request authenticated
// with. Only logout needs it.
func AuthTokenString(c *fiber.Ctx) string {
	token, _ := c.Locals("authToken").(string)
	return token
}

func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start).Seconds()
		statusCode := c.Response().StatusCode()

		if err != nil {
			var e *fiber.Error

			if errors.As(err, &e) {
				statusCode = e.Code
			} else {
				statusCode = fiber.StatusInternalServerError
			}
		}

		method := c.Method()
		path := c.Path()
		statusStr := fmt.Sprintf("%d", statusCode)

		httpRequestTotal.WithLabelValues(method, path, statusStr).Inc()
		httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		return err
	}
}
