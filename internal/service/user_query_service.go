package service

import (
	"context"
	"strings"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/repository"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

// UserQueryService serves member listings and search.
type UserQueryService struct {
	users repository.UserRepository
}

// NewUserQueryService builds the service.
func NewUserQueryService(users repository.UserRepository) *UserQueryService {
	return &UserQueryService{users: users}
}

// ListUsers pages through members, optionally filtered by status.
func (s *UserQueryService) ListUsers(ctx context.Context, status *domain.UserStatus, req PageRequest) (*PageResult[domain.User], error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*status)})
	}
	req = req.Normalize(DefaultLimit)

	users, total, err := s.users.List(ctx, repository.UserFilter{Status: status, Page: req.window()})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return newPageResult(req, total, users), nil
}

// SearchUsers matches one whitelisted attribute against the query.
func (s *UserQueryService) SearchUsers(ctx context.Context, attribute, query string, req PageRequest) (*PageResult[domain.User], error) {
	attribute = strings.TrimSpace(attribute)
	query = strings.TrimSpace(query)
	if query == "" || !repository.IsSearchable(attribute) {
		return nil, apperrors.NewValidationError("searchQuery and a valid searchAttribute are required", nil)
	}
	req = req.Normalize(DefaultSearchLimit)

	users, total, err := s.users.Search(ctx, repository.UserSearch{
		Attribute: attribute,
		Query:     query,
		Page:      req.window(),
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return newPageResult(req, total, users), nil
}
