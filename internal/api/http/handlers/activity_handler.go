package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/niftrix/referral-admin/internal/api/dto"
	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/repository"
	"github.com/niftrix/referral-admin/internal/service"
)

// ActivityHandler serves a member's referral and premium activity.
type ActivityHandler struct {
	activity *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// History POST /admin-api/users/activity-history.
func (h *ActivityHandler) History(c *fiber.Ctx) error {
	id, err := dto.ParseUserIDRequest(c)
	if err != nil {
		return err
	}
	var req dto.ActivityHistoryRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	history, err := h.activity.History(c.UserContext(), id.UserID, service.HistoryRequest{
		Given:     service.PageRequest{Page: req.PageGiven, Limit: req.LimitGiven},
		Received:  service.PageRequest{Page: req.PageReceived, Limit: req.LimitReceived},
		Converted: service.PageRequest{Page: req.PageConverted, Limit: req.LimitConverted},
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewActivityHistoryResponse(history))
}

// PremiumBanners POST /admin-api/users/premium-banner-activity.
func (h *ActivityHandler) PremiumBanners(c *fiber.Ctx) error {
	return premiumActivity(c, h.activity, domain.PremiumKindBanner, dto.NewPremiumBannerRow)
}

// TrendingBanners POST /admin-api/users/trending-banner-activity.
func (h *ActivityHandler) TrendingBanners(c *fiber.Ctx) error {
	return premiumActivity(c, h.activity, domain.PremiumKindTrendingBanner, dto.NewTrendingBannerRow)
}

// FeaturedProfiles POST /admin-api/users/featured-profile-activity.
func (h *ActivityHandler) FeaturedProfiles(c *fiber.Ctx) error {
	return premiumActivity(c, h.activity, domain.PremiumKindFeaturedProfile, dto.NewPremiumSimpleRow)
}

// SearchPreferences POST /admin-api/users/search-preference-activity.
func (h *ActivityHandler) SearchPreferences(c *fiber.Ctx) error {
	return premiumActivity(c, h.activity, domain.PremiumKindSearchPreference, dto.NewPremiumSimpleRow)
}

// ReferralsGiven POST /admin-api/users/referrals-given-activity.
func (h *ActivityHandler) ReferralsGiven(c *fiber.Ctx) error {
	id, page, err := userPageRequest(c)
	if err != nil {
		return err
	}
	result, err := h.activity.Referrals(c.UserContext(), id, repository.ReferralsGiven, page)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(result, dto.GivenReferralMapper(id)))
}

// ReferralsReceived POST /admin-api/users/referrals-received-activity.
func (h *ActivityHandler) ReferralsReceived(c *fiber.Ctx) error {
	id, page, err := userPageRequest(c)
	if err != nil {
		return err
	}
	result, err := h.activity.Referrals(c.UserContext(), id, repository.ReferralsReceived, page)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(result, dto.NewReceivedReferral))
}

func premiumActivity[T any](c *fiber.Ctx, svc *service.ActivityService, kind domain.PremiumKind, fn func(domain.PremiumService) T) error {
	id, page, err := userPageRequest(c)
	if err != nil {
		return err
	}
	result, err := svc.Premium(c.UserContext(), id, kind, page)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(result, fn))
}

// userPageRequest reads {userId, page, limit}.
func userPageRequest(c *fiber.Ctx) (int64, service.PageRequest, error) {
	id, err := dto.ParseUserIDRequest(c)
	if err != nil {
		return 0, service.PageRequest{}, err
	}
	var q dto.PageQuery
	if err := dto.Bind(c, &q); err != nil {
		return 0, service.PageRequest{}, err
	}
	return id.UserID, pageRequest(q), nil
}
