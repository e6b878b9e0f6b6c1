package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/niftrix/referral-admin/internal/api/dto"
	"github.com/niftrix/referral-admin/internal/service"
)

// AuditHandler exposes the admin actions recorded against a member.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// History POST /admin-api/users/audit-history.
func (h *AuditHandler) History(c *fiber.Ctx) error {
	id, page, err := userPageRequest(c)
	if err != nil {
		return err
	}
	result, err := h.audit.History(c.UserContext(), id, page)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(result, dto.NewAuditEntryResponse))
}
