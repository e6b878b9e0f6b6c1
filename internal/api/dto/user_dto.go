package dto

import (
	"strconv"
	"time"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/service"
)

// UserResponse is a member row as listed by the admin panel.
type UserResponse struct {
	UserID       int64             `json:"user_id"`
	FirstName    string            `json:"firstname"`
	LastName     string            `json:"lastname"`
	Email        string            `json:"email"`
	MobileNumber string            `json:"mobile_number"`
	DistrictID   *int64            `json:"district_id"`
	ClubName     string            `json:"club_name"`
	RotaryID     string            `json:"rotary_id"`
	Status       domain.UserStatus `json:"status"`
	CreatedAt    *time.Time        `json:"created_at"`
	UpdatedAt    *time.Time        `json:"updated_at"`
}

// NewUserResponse maps a member.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		UserID:       u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		MobileNumber: u.MobileNumber,
		DistrictID:   u.DistrictID,
		ClubName:     u.ClubName,
		RotaryID:     u.RotaryID,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// VerifyResponse is returned by set-user-verified.
type VerifyResponse struct {
	Success    bool              `json:"success"`
	UserID     int64             `json:"userId"`
	Status     domain.UserStatus `json:"status"`
	EmailSent  bool              `json:"emailSent"`
	PreviewURL *string           `json:"previewUrl"`
}

// NewVerifyResponse maps a verification result.
func NewVerifyResponse(r *service.VerifyResult) VerifyResponse {
	return VerifyResponse{
		Success:    true,
		UserID:     r.UserID,
		Status:     r.Status,
		EmailSent:  r.NotificationSent,
		PreviewURL: nullable(r.PreviewURL),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SuspendResponse is returned by suspend-user.
type SuspendResponse struct {
	Success bool              `json:"success"`
	UserID  int64             `json:"userId"`
	Status  domain.UserStatus `json:"status"`
}

// PageResponse is the standard listing envelope.
type PageResponse[T any] struct {
	Success    bool `json:"success"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	Results    []T  `json:"results"`
}

// NewPageResponse maps every result of a page with fn.
func NewPageResponse[S, T any](p *service.PageResult[S], fn func(S) T) PageResponse[T] {
	return PageResponse[T]{
		Success:    true,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		Results:    mapAll(p.Results, fn),
	}
}

// SearchResponse is returned by search-profiles.
type SearchResponse struct {
	Success    bool           `json:"success"`
	Users      []UserResponse `json:"users"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// NewSearchResponse maps a search page.
func NewSearchResponse(p *service.PageResult[domain.User]) SearchResponse {
	return SearchResponse{
		Success:    true,
		Users:      mapAll(p.Results, NewUserResponse),
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

// ProfileResponse is returned by fetch-user-detail.
type ProfileResponse struct {
	Success  bool              `json:"success"`
	UserID   int64             `json:"userId"`
	Status   domain.UserStatus `json:"status"`
	Profile  ProfileSection    `json:"profile"`
	Business BusinessSection   `json:"business"`
	Activity ActivitySection   `json:"activity"`
	Social   SocialSection     `json:"social"`
}

// ProfileSection is the personal part of a profile.
type ProfileSection struct {
	DP          *string `json:"dp"`
	Name        string  `json:"name"`
	EmailID     string  `json:"emailId"`
	PhoneNo     string  `json:"phoneNo"`
	District    string  `json:"district"`
	ClubName    string  `json:"clubName"`
	Designation string  `json:"designation"`
	Bio         string  `json:"bio"`
}

// BusinessSection describes the member's business.
type BusinessSection struct {
	CompanyLogo  *string `json:"companyLogo"`
	BusinessName string  `json:"businessName"`
	Description  string  `json:"description"`
	Industry     string  `json:"industry"`
	Category     string  `json:"category"`
	Headquarters string  `json:"headquarters"`
}

// ActivitySection holds the referral KPIs.
type ActivitySection struct {
	ReferralsGiven    int     `json:"referralsGiven"`
	ReferralsReceived int     `json:"referralsReceived"`
	BusinessConverted int     `json:"businessConverted"`
	RevenueGenerated  float64 `json:"revenueGenerated"`
}

// SocialSection lists public links.
type SocialSection struct {
	Facebook *string `json:"facebook"`
	LinkedIn *string `json:"linkedIn"`
	Website  *string `json:"website"`
}

// NewProfileResponse maps an aggregated profile. The picture from the
// business form wins over the profile image; the district name falls back to
// the numeric district.
func NewProfileResponse(p *domain.Profile) ProfileResponse {
	dp := p.Business.ProfilePicture
	if dp == nil {
		dp = p.Detail.ProfileImage
	}
	district := str(p.Detail.DistrictName)
	if district == "" && p.User.DistrictID != nil {
		district = strconv.FormatInt(*p.User.DistrictID, 10)
	}
	club := str(p.Detail.ClubName)
	if club == "" {
		club = p.User.ClubName
	}

	return ProfileResponse{
		Success: true,
		UserID:  p.User.ID,
		Status:  p.User.Status,
		Profile: ProfileSection{
			DP:          dp,
			Name:        p.User.FullName(),
			EmailID:     p.User.Email,
			PhoneNo:     p.User.MobileNumber,
			District:    district,
			ClubName:    club,
			Designation: str(p.Detail.Designation),
			Bio:         str(p.Business.PersonalBio),
		},
		Business: BusinessSection{
			CompanyLogo:  p.Business.BusinessLogo,
			BusinessName: str(p.Business.LegalBusinessName),
			Description:  str(p.Business.BusinessDescription),
			Industry:     str(p.Business.BusinessIndustry),
			Category:     str(p.Business.BusinessCategory),
			Headquarters: str(p.Business.Headquarters),
		},
		Activity: ActivitySection{
			ReferralsGiven:    p.Stats.Given,
			ReferralsReceived: p.Stats.Received,
			BusinessConverted: p.Stats.Converted,
			RevenueGenerated:  p.Stats.RevenueGenerated,
		},
		Social: SocialSection{
			Facebook: nonEmpty(p.Detail.FacebookURL),
			LinkedIn: nonEmpty(p.Detail.LinkedInURL),
			Website:  nonEmpty(p.Detail.Website),
		},
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func mapAll[S, T any](in []S, fn func(S) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
