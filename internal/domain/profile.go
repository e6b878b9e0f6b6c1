package domain

import "strconv"

// ProfileDetail is the optional profile_detail row of a member.
type ProfileDetail struct {
	ProfileImage *string
	DistrictName *string
	ClubName     *string
	Designation  *string
	FacebookURL  *string
	LinkedInURL  *string
	Website      *string
}

// DataCollection is the optional data_collection row (bio and business).
type DataCollection struct {
	ProfilePicture      *string
	PersonalBio         *string
	LegalBusinessName   *string
	BusinessIndustry    *string
	BusinessCategory    *string
	Headquarters        *string
	BusinessLogo        *string
	BusinessDescription *string
}

// Profile aggregates everything the admin "view profile" page shows.
type Profile struct {
	User     User
	Detail   ProfileDetail
	Business DataCollection
	Stats    ReferralStats
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
