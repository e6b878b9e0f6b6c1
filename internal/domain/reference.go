package domain

import "time"

// Club is a district_master row.
type Club struct {
	DistrictID string
	ClubName   string
	ZoneName   *string
	ClubID     *string
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

// Industry is a category_classification row.
type Industry struct {
	Industry       string
	Classification string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}
