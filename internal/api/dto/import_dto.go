package dto

import (
	"github.com/niftrix/referral-admin/internal/csvimport"
	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/service"
)

// UserImportResponse is returned by add-users-from-csv.
type UserImportResponse struct {
	Success                   bool                 `json:"success"`
	TotalRowsInCSV            int                  `json:"totalRowsInCSV"`
	Attempted                 int                  `json:"attempted"`
	Inserted                  int                  `json:"inserted"`
	SkippedExistingOrConflict int                  `json:"skippedExistingOrConflict"`
	InvalidCount              int                  `json:"invalidCount"`
	InvalidRows               []csvimport.RowIssue `json:"invalidRows"`
	FailedCount               int                  `json:"failedCount"`
	FailedRows                []csvimport.RowIssue `json:"failedRows"`
}

// NewUserImportResponse maps an import report.
func NewUserImportResponse(r *service.UserImportReport) UserImportResponse {
	return UserImportResponse{
		Success:                   true,
		TotalRowsInCSV:            r.TotalRows,
		Attempted:                 r.Attempted,
		Inserted:                  r.Inserted,
		SkippedExistingOrConflict: r.Skipped,
		InvalidCount:              r.InvalidCount,
		InvalidRows:               r.InvalidRows,
		FailedCount:               r.FailedCount,
		FailedRows:                r.FailedRows,
	}
}

// ReferenceImportResponse is the file mode of add-club and add-industry.
type ReferenceImportResponse struct {
	Success           bool                 `json:"success"`
	Mode              string               `json:"mode"`
	TotalRowsInCSV    int                  `json:"totalRowsInCSV"`
	Inserted          int                  `json:"inserted"`
	SkippedDuplicates int                  `json:"skippedDuplicates"`
	InvalidCount      int                  `json:"invalidCount"`
	InvalidRows       []csvimport.RowIssue `json:"invalidRows"`
	FailedCount       int                  `json:"failedCount"`
	FailedRows        []csvimport.RowIssue `json:"failedRows"`
}

// NewReferenceImportResponse maps a reference import report.
func NewReferenceImportResponse(r *service.ReferenceImportReport) ReferenceImportResponse {
	return ReferenceImportResponse{
		Success:           true,
		Mode:              "file",
		TotalRowsInCSV:    r.TotalRows,
		Inserted:          r.Inserted,
		SkippedDuplicates: r.SkippedDuplicates,
		InvalidCount:      r.InvalidCount,
		InvalidRows:       r.InvalidRows,
		FailedCount:       r.FailedCount,
		FailedRows:        r.FailedRows,
	}
}

// ManualResponse is the manual mode of add-club and add-industry.
type ManualResponse[T any] struct {
	Success bool   `json:"success"`
	Mode    string `json:"mode"`
	Data    T      `json:"data"`
}

// ClubResponse is a district_master row.
type ClubResponse struct {
	DistrictID string  `json:"district_id"`
	ClubName   string  `json:"club_name"`
	ZoneName   *string `json:"zone_name"`
	ClubID     *string `json:"club_id"`
}

// NewClubResponse wraps an inserted club.
func NewClubResponse(c *domain.Club) ManualResponse[ClubResponse] {
	return ManualResponse[ClubResponse]{
		Success: true,
		Mode:    "manual",
		Data: ClubResponse{
			DistrictID: c.DistrictID,
			ClubName:   c.ClubName,
			ZoneName:   c.ZoneName,
			ClubID:     c.ClubID,
		},
	}
}

// IndustryResponse is a category_classification row.
type IndustryResponse struct {
	Industry       string `json:"industry"`
	Classification string `json:"classification"`
}

// NewIndustryResponse wraps an inserted industry.
func NewIndustryResponse(i *domain.Industry) ManualResponse[IndustryResponse] {
	return ManualResponse[IndustryResponse]{
		Success: true,
		Mode:    "manual",
		Data:    IndustryResponse{Industry: i.Industry, Classification: i.Classification},
	}
}

// ToClub converts the manual form.
func (r ClubRequest) ToClub() domain.Club {
	club := domain.Club{DistrictID: r.DistrictID, ClubName: r.ClubName}
	if r.ClubID != "" {
		club.ClubID = &r.ClubID
	}
	if r.ZoneName != "" {
		club.ZoneName = &r.ZoneName
	}
	return club
}

// ToIndustry converts the manual form.
func (r IndustryRequest) ToIndustry() domain.Industry {
	return domain.Industry{Industry: r.Industry, Classification: r.Classification}
}
