package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/niftrix/referral-admin/internal/api/dto"
	"github.com/niftrix/referral-admin/internal/service"
)

// PremiumHandler serves payment and banner listings.
type PremiumHandler struct {
	payments *service.PaymentService
}

// NewPremiumHandler constructs handler.
func NewPremiumHandler(payments *service.PaymentService) *PremiumHandler {
	return &PremiumHandler{payments: payments}
}

// Payments POST /admin-api/premium/fetch-payments.
func (h *PremiumHandler) Payments(c *fiber.Ctx) error {
	var req dto.PaymentsRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	page, err := h.payments.ListPayments(c.UserContext(), req.Criteria, pageRequest(req.PageQuery))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(page, dto.NewPaymentRow))
}

// Banners POST /admin-api/content/fetch-all-banners.
func (h *PremiumHandler) Banners(c *fiber.Ctx) error {
	var req dto.PageQuery
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	page, err := h.payments.ListBanners(c.UserContext(), pageRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(page, dto.NewBannerRow))
}
