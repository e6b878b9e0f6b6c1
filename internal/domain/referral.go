package domain

import "time"

// Referral is a row of referral_page. From* describe the member who passed
// the referral, To* the member who received it.
type Referral struct {
	ID                 int64
	FromUserID         *int64
	FromUsername       *string
	FromMobile         *string
	FromWhatsapp       *string
	ToUserID           *int64
	ToUsername         *string
	ToMobile           *string
	ToWhatsapp         *string
	Type               *string
	Title              *string
	Description        *string
	Urgency            *string
	CompletionDate     *time.Time
	BusinessValue      *float64
	IsApproved         bool
	IsRejected         bool
	AcceptedBy         *int64
	RejectedBy         *int64
	TestimonialGivenID *int64
	CreatedAt          *time.Time
}

// Decision derived from approval flags.
const (
	DecisionAccepted = "accepted"
	DecisionRejected = "rejected"
	DecisionPending  = "pending"
	DecisionConfirm  = "confirm"
	DecisionCancel   = "cancel"
)

// RecipientDecision maps approval flags to accepted/rejected/pending.
func (r Referral) RecipientDecision() string {
	switch {
	case r.IsApproved:
		return DecisionAccepted
	case r.IsRejected:
		return DecisionRejected
	default:
		return DecisionPending
	}
}

// ActorDecision returns "confirm" when actor accepted, "cancel" when actor
// rejected, nil otherwise.
func (r Referral) ActorDecision(actor *int64) *string {
	if actor == nil {
		return nil
	}
	if r.AcceptedBy != nil && *r.AcceptedBy == *actor {
		d := DecisionConfirm
		return &d
	}
	if r.RejectedBy != nil && *r.RejectedBy == *actor {
		d := DecisionCancel
		return &d
	}
	return nil
}

// ReferralStats are the referral KPIs shown on a profile.
type ReferralStats struct {
	Given            int
	Received         int
	Converted        int
	RevenueGenerated float64
}
