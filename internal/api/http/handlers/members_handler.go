package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/niftrix/referral-admin/internal/api/dto"
	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/service"
)

// MembersHandler serves the member listing, search and profile endpoints.
type MembersHandler struct {
	users    *service.UserQueryService
	profiles *service.ProfileService
}

// NewMembersHandler constructs handler.
func NewMembersHandler(users *service.UserQueryService, profiles *service.ProfileService) *MembersHandler {
	return &MembersHandler{users: users, profiles: profiles}
}

// List POST /admin-api/users/fetch-all-users.
func (h *MembersHandler) List(c *fiber.Ctx) error {
	var req dto.ListUsersRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	var status *domain.UserStatus
	if req.Status != "" {
		s := domain.UserStatus(req.Status)
		status = &s
	}

	page, err := h.users.ListUsers(c.UserContext(), status, pageRequest(req.PageQuery))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(page, dto.NewUserResponse))
}

// Search POST /admin-api/users/search-profiles.
func (h *MembersHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	page, err := h.users.SearchUsers(c.UserContext(), req.SearchAttribute, req.SearchQuery, pageRequest(req.PageQuery))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSearchResponse(page))
}

// Detail GET /admin-api/users/fetch-user-detail?userId=.
func (h *MembersHandler) Detail(c *fiber.Ctx) error {
	req, err := dto.ParseUserIDQuery(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.UserContext(), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(profile))
}

func pageRequest(q dto.PageQuery) service.PageRequest {
	return service.PageRequest{Page: q.Page, Limit: q.Limit}
}
