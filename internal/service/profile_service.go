package service

import (
	"context"
	"strings"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/repository"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

// ProfileService aggregates everything shown on a member profile.
type ProfileService struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	referrals repository.ReferralRepository
	baseURL   string
}

// NewProfileService builds the service. baseURL prefixes relative asset paths.
func NewProfileService(users repository.UserRepository, profiles repository.ProfileRepository, referrals repository.ReferralRepository, baseURL string) *ProfileService {
	return &ProfileService{
		users:     users,
		profiles:  profiles,
		referrals: referrals,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// GetProfile loads the member, its optional detail rows and referral KPIs.
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	if userID <= 0 {
		return nil, apperrors.NewValidationError("invalid userId", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	detail, err := s.profiles.GetDetail(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	business, err := s.profiles.GetDataCollection(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	stats, err := s.referrals.Stats(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	detail.ProfileImage = s.absolute(detail.ProfileImage)
	business.ProfilePicture = s.absolute(business.ProfilePicture)
	business.BusinessLogo = s.absolute(business.BusinessLogo)

	return &domain.Profile{
		User:     *user,
		Detail:   detail,
		Business: business,
		Stats:    stats,
	}, nil
}

// absolute resolves a stored asset path against the public file host.
func (s *ProfileService) absolute(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	p := *path
	lower := strings.ToLower(p)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || s.baseURL == "" {
		return &p
	}
	abs := s.baseURL + "/" + strings.TrimLeft(p, "/")
	return &abs
}
