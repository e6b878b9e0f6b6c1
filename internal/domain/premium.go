package domain

import (
	"encoding/json"
	"time"
)

// PremiumService is a row of the premium table. One purchase may carry
// several service flags.
type PremiumService struct {
	ID                   int64
	UserID               *int64
	Dates                json.RawMessage
	BannerURL            *string
	Amount               *float64
	Currency             *string
	IsSuccessful         bool
	IsPremiumBanner      bool
	IsTrendingBanner     bool
	IsSearchPreference   bool
	IsFeaturedProfile    bool
	TrendingBannerSlotNo *int64
	OrderID              *string
	CreatedAt            *time.Time
	UpdatedAt            *time.Time

	// Joined from users when listing across members.
	OwnerFirstName *string
	OwnerLastName  *string
	OwnerEmail     *string
}

// PremiumKind selects one service flag of the premium table.
type PremiumKind string

const (
	PremiumKindBanner           PremiumKind = "premium-banner"
	PremiumKindTrendingBanner   PremiumKind = "trending-banner"
	PremiumKindSearchPreference PremiumKind = "search-preference"
	PremiumKindFeaturedProfile  PremiumKind = "featured-profile"
)

// ServiceType groups the flags into banner, profile or preference.
func (p PremiumService) ServiceType() *string {
	var t string
	switch {
	case p.IsPremiumBanner || p.IsTrendingBanner:
		t = "banner"
	case p.IsFeaturedProfile:
		t = "profile"
	case p.IsSearchPreference:
		t = "preference"
	default:
		return nil
	}
	return &t
}

// BannerType reports trending-banner before premium-banner.
func (p PremiumService) BannerType() *string {
	var t string
	switch {
	case p.IsTrendingBanner:
		t = string(PremiumKindTrendingBanner)
	case p.IsPremiumBanner:
		t = string(PremiumKindBanner)
	default:
		return nil
	}
	return &t
}

// OwnerDisplayName falls back from full name to email to "User <id>".
func (p PremiumService) OwnerDisplayName() string {
	name := JoinName(deref(p.OwnerFirstName), deref(p.OwnerLastName))
	if name != "" {
		return name
	}
	if email := deref(p.OwnerEmail); email != "" {
		return email
	}
	if p.UserID != nil {
		return "User " + itoa(*p.UserID)
	}
	return "Unknown"
}
