package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/service"
)

type NoticeHandler struct {
	noticeService service.NoticeService
	validate      *validator.Validate
}

func NewNoticeHandler(noticeService service.NoticeService) *NoticeHandler {
	return &NoticeHandler{
		noticeService: noticeService,
		validate:      validator.New(),
	}
}

type NoticeResponse struct {
	ID        int64     `json:"id"`
	IsRead    bool      `json:"isRead"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *NoticeHandler) ListNotices(c *fiber.Ctx) error {
	user, err := AuthUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	notices, unreadCount, err := h.noticeService.List(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch notices"})
	}

	responses := make([]NoticeResponse, 0, len(notices))
	for _, n := range notices {
		responses = append(responses, NoticeResponse{
			ID:        n.ID,
			IsRead:    n.IsRead(),
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"numberOfUnreadNotices": unreadCount,
		"notices":               responses,
	})
}

type MarkNoticesReadRequest struct {
	NoticeIDs []int64 `json:"notice_ids" validate:"required,min=1,dive,min=1"`
}

// MarkNoticesRead flips the listed notices to read for the requesting user.
// Ids that do not exist or belong to someone else are ignored; the response
// reports how many notices actually transitioned.
func (h *NoticeHandler) MarkNoticesRead(c *fiber.Ctx) error {
	user, err := AuthUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request MarkNoticesReadRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationFailed(c, err)
	}

	updated, err := h.noticeService.MarkRead(c.Context(), user.ID, request.NoticeIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not mark notices as read"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Notices marked as read",
		"updated": updated,
	})
}
