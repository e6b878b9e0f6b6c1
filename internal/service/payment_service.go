package service

import (
	"context"
	"strings"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/repository"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

// PaymentService lists premium purchases across all members.
type PaymentService struct {
	premium repository.PremiumRepository
}

// NewPaymentService builds the service.
func NewPaymentService(premium repository.PremiumRepository) *PaymentService {
	return &PaymentService{premium: premium}
}

// ListPayments filters by criteria. Unknown criteria list everything.
func (s *PaymentService) ListPayments(ctx context.Context, criteria string, req PageRequest) (*PageResult[domain.PremiumService], error) {
	c := repository.PaymentCriteria(strings.ToLower(strings.TrimSpace(criteria)))
	if c == "" {
		c = repository.PaymentCriteriaAll
	}
	req = req.Normalize(DefaultLimit)

	rows, total, err := s.premium.ListPayments(ctx, c, req.window())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return newPageResult(req, total, rows), nil
}

// ListBanners pages premium and trending banner purchases.
func (s *PaymentService) ListBanners(ctx context.Context, req PageRequest) (*PageResult[domain.PremiumService], error) {
	req = req.Normalize(DefaultLimit)

	rows, total, err := s.premium.ListBanners(ctx, req.window())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return newPageResult(req, total, rows), nil
}
