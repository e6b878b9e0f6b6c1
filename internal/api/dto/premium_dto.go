package dto

import (
	"encoding/json"
	"time"

	"github.com/niftrix/referral-admin/internal/domain"
)

// PremiumBannerRow is a banner purchase of one member.
type PremiumBannerRow struct {
	PremiumID            int64           `json:"premiumId"`
	UserID               *int64          `json:"userId"`
	BannerImageURL       *string         `json:"bannerImageUrl"`
	Dates                json.RawMessage `json:"dates"`
	Amount               *float64        `json:"amount"`
	Currency             *string         `json:"currency"`
	IsSuccessful         bool            `json:"isSuccessful"`
	CreatedAt            *time.Time      `json:"createdAt"`
	UpdatedAt            *time.Time      `json:"updatedAt"`
	OrderID              *string         `json:"orderId"`
	TrendingBannerSlotNo *int64          `json:"trendingBannerSlotNo,omitempty"`
}

// NewPremiumBannerRow maps a premium banner.
func NewPremiumBannerRow(p domain.PremiumService) PremiumBannerRow {
	return PremiumBannerRow{
		PremiumID:      p.ID,
		UserID:         p.UserID,
		BannerImageURL: p.BannerURL,
		Dates:          p.Dates,
		Amount:         p.Amount,
		Currency:       p.Currency,
		IsSuccessful:   p.IsSuccessful,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		OrderID:        p.OrderID,
	}
}

// NewTrendingBannerRow maps a trending banner with its slot.
func NewTrendingBannerRow(p domain.PremiumService) PremiumBannerRow {
	row := NewPremiumBannerRow(p)
	row.TrendingBannerSlotNo = p.TrendingBannerSlotNo
	return row
}

// PremiumSimpleRow is a featured-profile or search-preference purchase.
type PremiumSimpleRow struct {
	PremiumID int64           `json:"premiumId"`
	UserID    *int64          `json:"userId"`
	Dates     json.RawMessage `json:"dates"`
	CreatedAt *time.Time      `json:"createdAt"`
	UpdatedAt *time.Time      `json:"updatedAt"`
}

// NewPremiumSimpleRow maps a non-banner purchase.
func NewPremiumSimpleRow(p domain.PremiumService) PremiumSimpleRow {
	return PremiumSimpleRow{
		PremiumID: p.ID,
		UserID:    p.UserID,
		Dates:     p.Dates,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PaymentRow is one purchase in fetch-payments.
type PaymentRow struct {
	UserID       *int64          `json:"userId"`
	Username     string          `json:"username"`
	ServiceType  *string         `json:"serviceType"`
	Currency     *string         `json:"currency"`
	Amount       *float64        `json:"amount"`
	Dates        json.RawMessage `json:"dates"`
	IsSuccessful bool            `json:"isSuccessful"`
	CreatedAt    *time.Time      `json:"createdAt"`
}

// NewPaymentRow maps a purchase with its owner.
func NewPaymentRow(p domain.PremiumService) PaymentRow {
	return PaymentRow{
		UserID:       p.UserID,
		Username:     p.OwnerDisplayName(),
		ServiceType:  p.ServiceType(),
		Currency:     p.Currency,
		Amount:       p.Amount,
		Dates:        p.Dates,
		IsSuccessful: p.IsSuccessful,
		CreatedAt:    p.CreatedAt,
	}
}

// BannerRow is one banner in fetch-all-banners.
type BannerRow struct {
	UserID               *int64          `json:"userId"`
	Username             string          `json:"username"`
	BannerType           *string         `json:"bannerType"`
	Currency             *string         `json:"currency"`
	Amount               *float64        `json:"amount"`
	CreatedAt            *time.Time      `json:"createdAt"`
	UpdatedAt            *time.Time      `json:"updatedAt"`
	SelectedDates        json.RawMessage `json:"selectedDates"`
	BannerImageURL       *string         `json:"bannerImageUrl"`
	TrendingBannerSlotNo *int64          `json:"trendingBannerSlotNo"`
	IsSuccessful         bool            `json:"isSuccessful"`
}

// NewBannerRow maps a banner with its owner.
func NewBannerRow(p domain.PremiumService) BannerRow {
	return BannerRow{
		UserID:               p.UserID,
		Username:             p.OwnerDisplayName(),
		BannerType:           p.BannerType(),
		Currency:             p.Currency,
		Amount:               p.Amount,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
		SelectedDates:        p.Dates,
		BannerImageURL:       p.BannerURL,
		TrendingBannerSlotNo: p.TrendingBannerSlotNo,
		IsSuccessful:         p.IsSuccessful,
	}
}
