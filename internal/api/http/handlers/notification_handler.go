package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/niftrix/referral-admin/internal/api/dto"
	"github.com/niftrix/referral-admin/internal/service"
)

const attachmentsField = "attachments"

// NotificationHandler serves the email broadcast.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler constructs handler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Send POST /admin-api/users/send-notification.
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var req dto.NotificationRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	files, err := attachments(c, attachmentsField)
	if err != nil {
		return err
	}

	result, err := h.notifications.Broadcast(c.UserContext(), service.BroadcastInput{
		Message:       req.Message,
		RecipientType: req.RecipientType,
		Attachments:   files,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewNotificationResponse(result))
}
