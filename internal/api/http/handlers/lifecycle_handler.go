package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/niftrix/referral-admin/internal/api/dto"
	"github.com/niftrix/referral-admin/internal/service"
)

// LifecycleHandler exposes the member status transitions.
type LifecycleHandler struct {
	lifecycle *service.LifecycleService
}

// NewLifecycleHandler constructs handler.
func NewLifecycleHandler(lifecycle *service.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{lifecycle: lifecycle}
}

// Verify POST /admin-api/users/set-user-verified.
func (h *LifecycleHandler) Verify(c *fiber.Ctx) error {
	req, err := dto.ParseUserIDRequest(c)
	if err != nil {
		return err
	}
	result, err := h.lifecycle.VerifyUser(c.UserContext(), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVerifyResponse(result))
}

// Suspend POST /admin-api/users/suspend-user.
func (h *LifecycleHandler) Suspend(c *fiber.Ctx) error {
	req, err := dto.ParseUserIDRequest(c)
	if err != nil {
		return err
	}
	result, err := h.lifecycle.SuspendUser(c.UserContext(), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.SuspendResponse{Success: true, UserID: result.UserID, Status: result.Status})
}
