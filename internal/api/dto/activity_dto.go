package dto

import (
	"encoding/json"
	"time"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/service"
)

// GivenReferral is a referral the member passed to someone else.
type GivenReferral struct {
	ID              int64      `json:"id"`
	ToUserID        *int64     `json:"toUserId"`
	ToUsername      *string    `json:"toUsername"`
	Type            *string    `json:"type"`
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	PhoneNumber     *string    `json:"phoneNumber"`
	WhatsappNumber  *string    `json:"whatsappNumber"`
	Urgency         *string    `json:"urgency"`
	CompletionDate  *time.Time `json:"completionDate"`
	BusinessValue   *float64   `json:"businessValue"`
	ToUserDecision  string     `json:"toUserDecision"`
	YourDecision    *string    `json:"yourDecision"`
	YourTestimonial *int64     `json:"yourTestimonial"`
	CreatedAt       *time.Time `json:"createdAt"`
}

// ReceivedReferral is a referral someone passed to the member.
type ReceivedReferral struct {
	ID                  int64      `json:"id"`
	FromUserID          *int64     `json:"fromUserId"`
	FromUsername        *string    `json:"fromUsername"`
	Type                *string    `json:"type"`
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	PhoneNumber         *string    `json:"phoneNumber"`
	WhatsappNumber      *string    `json:"whatsappNumber"`
	Urgency             *string    `json:"urgency"`
	CompletionDate      *time.Time `json:"completionDate"`
	BusinessValue       *float64   `json:"businessValue"`
	YouDecision         string     `json:"youDecision"`
	FromUserDecision    *string    `json:"fromUserDecision"`
	ReceivedTestimonial *int64     `json:"receivedTestimonial"`
	CreatedAt           *time.Time `json:"createdAt"`
}

// GivenReferralMapper decides "yourDecision" from the member's point of view.
func GivenReferralMapper(userID int64) func(domain.Referral) GivenReferral {
	return func(r domain.Referral) GivenReferral {
		return GivenReferral{
			ID:              r.ID,
			ToUserID:        r.ToUserID,
			ToUsername:      r.ToUsername,
			Type:            r.Type,
			Title:           r.Title,
			Description:     r.Description,
			PhoneNumber:     r.ToMobile,
			WhatsappNumber:  r.ToWhatsapp,
			Urgency:         r.Urgency,
			CompletionDate:  r.CompletionDate,
			BusinessValue:   r.BusinessValue,
			ToUserDecision:  r.RecipientDecision(),
			YourDecision:    r.ActorDecision(&userID),
			YourTestimonial: r.TestimonialGivenID,
			CreatedAt:       r.CreatedAt,
		}
	}
}

// NewReceivedReferral maps a received referral; the sender is the actor.
func NewReceivedReferral(r domain.Referral) ReceivedReferral {
	return ReceivedReferral{
		ID:                  r.ID,
		FromUserID:          r.FromUserID,
		FromUsername:        r.FromUsername,
		Type:                r.Type,
		Title:               r.Title,
		Description:         r.Description,
		PhoneNumber:         r.FromMobile,
		WhatsappNumber:      r.FromWhatsapp,
		Urgency:             r.Urgency,
		CompletionDate:      r.CompletionDate,
		BusinessValue:       r.BusinessValue,
		YouDecision:         r.RecipientDecision(),
		FromUserDecision:    r.ActorDecision(r.FromUserID),
		ReceivedTestimonial: r.TestimonialGivenID,
		CreatedAt:           r.CreatedAt,
	}
}

// NewConvertedReferral maps a converted referral, accepted by definition.
func NewConvertedReferral(r domain.Referral) ReceivedReferral {
	out := NewReceivedReferral(r)
	out.YouDecision = domain.DecisionAccepted
	return out
}

// ReferralPage is one paginated referral list inside activity-history.
type ReferralPage[T any] struct {
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalValue *float64 `json:"totalValue,omitempty"`
	Results    []T      `json:"results"`
}

// PremiumBannerActivity is a banner purchase in activity-history.
type PremiumBannerActivity struct {
	BannerURL    *string         `json:"bannerUrl"`
	Dates        json.RawMessage `json:"dates"`
	Amount       *float64        `json:"amount"`
	Currency     *string         `json:"currency"`
	IsSuccessful bool            `json:"isSuccessful"`
	CreatedAt    *time.Time      `json:"createdAt"`
}

// PremiumSimpleActivity is a profile or preference purchase in activity-history.
type PremiumSimpleActivity struct {
	Dates     json.RawMessage `json:"dates"`
	CreatedAt *time.Time      `json:"createdAt"`
}

// CountedList is a full list with its length.
type CountedList[T any] struct {
	Total   int `json:"total"`
	Results []T `json:"results"`
}

// ActivityHistoryResponse is returned by activity-history.
type ActivityHistoryResponse struct {
	Success   bool  `json:"success"`
	UserID    int64 `json:"userId"`
	Referrals struct {
		Given     ReferralPage[GivenReferral]    `json:"given"`
		Received  ReferralPage[ReceivedReferral] `json:"received"`
		Converted ReferralPage[ReceivedReferral] `json:"converted"`
	} `json:"referrals"`
	Banners struct {
		Premium  []PremiumBannerActivity `json:"premium"`
		Trending []PremiumBannerActivity `json:"trending"`
	} `json:"banners"`
	FeaturedProfiles  CountedList[PremiumSimpleActivity] `json:"featuredProfiles"`
	SearchPreferences CountedList[PremiumSimpleActivity] `json:"searchPreferences"`
}

// NewActivityHistoryResponse maps the aggregated history.
func NewActivityHistoryResponse(h *service.ActivityHistory) ActivityHistoryResponse {
	var out ActivityHistoryResponse
	out.Success = true
	out.UserID = h.UserID
	out.Referrals.Given = referralPage(h.Given, GivenReferralMapper(h.UserID))
	out.Referrals.Received = referralPage(h.Received, NewReceivedReferral)
	out.Referrals.Converted = referralPage(h.Converted, NewConvertedReferral)
	value := h.ConvertedValue
	out.Referrals.Converted.TotalValue = &value

	out.Banners.Premium = mapAll(h.Premium.Banners, newPremiumBannerActivity)
	out.Banners.Trending = mapAll(h.Premium.TrendingBanners, newPremiumBannerActivity)
	out.FeaturedProfiles = countedList(mapAll(h.Premium.FeaturedProfiles, newPremiumSimpleActivity))
	out.SearchPreferences = countedList(mapAll(h.Premium.SearchPreferences, newPremiumSimpleActivity))
	return out
}

func referralPage[T any](p *service.PageResult[domain.Referral], fn func(domain.Referral) T) ReferralPage[T] {
	return ReferralPage[T]{
		Total:   p.Total,
		Page:    p.Page,
		Limit:   p.Limit,
		Results: mapAll(p.Results, fn),
	}
}

func countedList[T any](items []T) CountedList[T] {
	return CountedList[T]{Total: len(items), Results: items}
}

func newPremiumBannerActivity(p domain.PremiumService) PremiumBannerActivity {
	return PremiumBannerActivity{
		BannerURL:    p.BannerURL,
		Dates:        p.Dates,
		Amount:       p.Amount,
		Currency:     p.Currency,
		IsSuccessful: p.IsSuccessful,
		CreatedAt:    p.CreatedAt,
	}
}

func newPremiumSimpleActivity(p domain.PremiumService) PremiumSimpleActivity {
	return PremiumSimpleActivity{Dates: p.Dates, CreatedAt: p.CreatedAt}
}

// AuditEntryResponse is one row of audit-history.
type AuditEntryResponse struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"eventId"`
	EventType string    `json:"eventType"`
	AdminID   *int64    `json:"adminId"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAuditEntryResponse maps a stored audit entry.
func NewAuditEntryResponse(e domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID,
		EventID:   e.EventID,
		EventType: e.EventType,
		AdminID:   e.AdminID,
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	}
}
