package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/niftrix/referral-admin/internal/csvimport"
	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/events"
	"github.com/niftrix/referral-admin/internal/repository"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

const insertFailed = "insert failed"

// UserImportReport summarizes a member CSV upload.
type UserImportReport struct {
	TotalRows    int
	Attempted    int
	Inserted     int
	Skipped      int
	InvalidCount int
	InvalidRows  []csvimport.RowIssue
	FailedCount  int
	FailedRows   []csvimport.RowIssue
}

// ReferenceImportReport summarizes a club or industry CSV upload.
type ReferenceImportReport struct {
	TotalRows         int
	Inserted          int
	SkippedDuplicates int
	InvalidCount      int
	InvalidRows       []csvimport.RowIssue
	FailedCount       int
	FailedRows        []csvimport.RowIssue
}

// ImportService loads members and reference data from CSV or single entries.
type ImportService struct {
	users      repository.UserRepository
	reference  repository.ReferenceRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewImportService builds the service. dispatcher may be nil.
func NewImportService(users repository.UserRepository, reference repository.ReferenceRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{users: users, reference: reference, dispatcher: dispatcher, logger: logger}
}

type preparedUser struct {
	line int
	user domain.NewUser
}

// ImportUsers inserts every valid row as a NEW member. Rows already present
// in the database are skipped by the insert itself.
func (s *ImportService) ImportUsers(ctx context.Context, r io.Reader) (*UserImportReport, error) {
	records, err := parseCSV(r)
	if err != nil {
		return nil, err
	}

	var invalid []csvimport.RowIssue
	prepared := make([]preparedUser, 0, len(records))
	seenEmail := map[string]struct{}{}
	seenMobile := map[string]struct{}{}

	for _, rec := range records {
		email := rec.Pick("email", "mail", "email_id")
		mobile := rec.Pick("mobile_number", "mobilenumber", "mobile", "phone", "phone_number")
		if email == "" && mobile == "" {
			invalid = append(invalid, csvimport.RowIssue{Row: rec.Line, Reason: "Missing both email and mobile_number"})
			continue
		}

		emailKey := strings.ToLower(email)
		mobileKey := strings.ToLower(mobile)
		if _, dup := seenEmail[emailKey]; emailKey != "" && dup {
			invalid = append(invalid, csvimport.RowIssue{Row: rec.Line, Reason: "Duplicate email within CSV"})
			continue
		}
		if _, dup := seenMobile[mobileKey]; mobileKey != "" && dup {
			invalid = append(invalid, csvimport.RowIssue{Row: rec.Line, Reason: "Duplicate mobile_number within CSV"})
			continue
		}
		if emailKey != "" {
			seenEmail[emailKey] = struct{}{}
		}
		if mobileKey != "" {
			seenMobile[mobileKey] = struct{}{}
		}

		prepared = append(prepared, preparedUser{
			line: rec.Line,
			user: domain.NewUser{
				FirstName:    optional(rec.Pick("firstname", "first_name", "fname", "first")),
				LastName:     optional(rec.Pick("lastname", "last_name", "lname", "last")),
				Email:        optional(email),
				MobileNumber: optional(mobile),
				DistrictID:   parseDistrict(rec.Pick("district_id", "districtid", "district")),
				ClubName:     optional(rec.Pick("club_name", "clubname", "club")),
				RotaryID:     optional(rec.Pick("rotary_id", "rotaryid", "rotary")),
			},
		})
	}

	if len(prepared) == 0 {
		return nil, apperrors.NewValidationError("No valid rows to insert", map[string]any{
			"invalidCount": len(invalid),
			"invalidRows":  csvimport.Capped(invalid),
		})
	}

	report := &UserImportReport{TotalRows: len(records), Attempted: len(prepared)}
	var failed []csvimport.RowIssue
	for _, p := range prepared {
		ok, err := s.users.InsertIgnoringConflicts(ctx, p.user)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, apperrors.NewDependencyFailure("operation timed out", ctxErr)
			}
			s.logger.Warn("csv user insert failed", zap.Int("row", p.line), zap.Error(err))
			failed = append(failed, csvimport.RowIssue{Row: p.line, Reason: insertFailed})
			continue
		}
		if ok {
			report.Inserted++
		} else {
			report.Skipped++
		}
	}

	report.InvalidCount = len(invalid)
	report.InvalidRows = csvimport.Capped(invalid)
	report.FailedCount = len(failed)
	report.FailedRows = csvimport.Capped(failed)
	s.logger.Info("users imported",
		zap.Int("rows", report.TotalRows),
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped),
		zap.Int("invalid", report.InvalidCount),
		zap.Int("failed", report.FailedCount),
	)
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type: events.EventUsersImported,
		Payload: events.ImportPayload{
			Inserted: report.Inserted,
			Skipped:  report.Skipped,
			Invalid:  report.InvalidCount,
			Failed:   report.FailedCount,
		},
	})
	return report, nil
}

// AddClub inserts one club unless the district already has it.
func (s *ImportService) AddClub(ctx context.Context, club domain.Club) (*domain.Club, error) {
	club = normalizeClub(club)
	if club.DistrictID == "" || club.ClubName == "" {
		return nil, apperrors.NewValidationError("districtId and clubName are required", nil)
	}

	exists, err := s.reference.ClubExists(ctx, club.DistrictID, club.ClubName, club.ClubID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("Club already exists", nil)
	}
	if err := s.reference.InsertClub(ctx, club); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &club, nil
}

// ImportClubs inserts clubs from CSV, skipping duplicates.
func (s *ImportService) ImportClubs(ctx context.Context, r io.Reader) (*ReferenceImportReport, error) {
	records, err := parseCSV(r)
	if err != nil {
		return nil, err
	}

	return s.importReference(ctx, records, "Missing required districtId/clubName", func(rec csvimport.Record) (func() (bool, error), bool) {
		club := normalizeClub(domain.Club{
			DistrictID: rec.Pick("district_id", "districtid", "district"),
			ClubName:   rec.Pick("club_name", "clubname", "club"),
			ClubID:     optional(rec.Pick("club_id")),
			ZoneName:   optional(rec.Pick("zone_name", "zone")),
		})
		if club.DistrictID == "" || club.ClubName == "" {
			return nil, false
		}
		return func() (bool, error) {
			exists, err := s.reference.ClubExists(ctx, club.DistrictID, club.ClubName, club.ClubID)
			if err != nil || exists {
				return false, err
			}
			return true, s.reference.InsertClub(ctx, club)
		}, true
	})
}

// AddIndustry inserts one industry/classification pair.
func (s *ImportService) AddIndustry(ctx context.Context, industry domain.Industry) (*domain.Industry, error) {
	industry = normalizeIndustry(industry)
	if industry.Industry == "" || industry.Classification == "" {
		return nil, apperrors.NewValidationError("industry and classification are required", nil)
	}

	exists, err := s.reference.IndustryExists(ctx, industry.Industry, industry.Classification)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("Industry/classification already exists", nil)
	}
	if err := s.reference.InsertIndustry(ctx, industry); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &industry, nil
}

// ImportIndustries inserts industry/classification pairs from CSV.
func (s *ImportService) ImportIndustries(ctx context.Context, r io.Reader) (*ReferenceImportReport, error) {
	records, err := parseCSV(r)
	if err != nil {
		return nil, err
	}

	return s.importReference(ctx, records, "Missing required industry/classification", func(rec csvimport.Record) (func() (bool, error), bool) {
		industry := normalizeIndustry(domain.Industry{
			Industry:       rec.Pick("industry"),
			Classification: rec.Pick("classification", "class", "category", "type"),
		})
		if industry.Industry == "" || industry.Classification == "" {
			return nil, false
		}
		return func() (bool, error) {
			exists, err := s.reference.IndustryExists(ctx, industry.Industry, industry.Classification)
			if err != nil || exists {
				return false, err
			}
			return true, s.reference.InsertIndustry(ctx, industry)
		}, true
	})
}

// importReference runs insert for every record prepare accepts. insert
// reports false for a duplicate.
func (s *ImportService) importReference(ctx context.Context, records []csvimport.Record, missing string, prepare func(csvimport.Record) (func() (bool, error), bool)) (*ReferenceImportReport, error) {
	report := &ReferenceImportReport{TotalRows: len(records)}
	var invalid, failed []csvimport.RowIssue

	for _, rec := range records {
		insert, ok := prepare(rec)
		if !ok {
			invalid = append(invalid, csvimport.RowIssue{Row: rec.Line, Reason: missing})
			continue
		}
		inserted, err := insert()
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, apperrors.NewDependencyFailure("operation timed out", ctxErr)
			}
			s.logger.Warn("csv reference insert failed", zap.Int("row", rec.Line), zap.Error(err))
			failed = append(failed, csvimport.RowIssue{Row: rec.Line, Reason: insertFailed})
		case inserted:
			report.Inserted++
		default:
			report.SkippedDuplicates++
		}
	}

	report.InvalidCount = len(invalid)
	report.InvalidRows = csvimport.Capped(invalid)
	report.FailedCount = len(failed)
	report.FailedRows = csvimport.Capped(failed)
	return report, nil
}

func parseCSV(r io.Reader) ([]csvimport.Record, error) {
	records, err := csvimport.Parse(r)
	switch {
	case err == nil:
		return records, nil
	case errors.Is(err, csvimport.ErrNoRows):
		return nil, apperrors.NewValidationError(csvimport.ErrNoRows.Error(), nil)
	case errors.Is(err, csvimport.ErrInvalidFormat):
		return nil, apperrors.NewValidationError(csvimport.ErrInvalidFormat.Error(), nil)
	default:
		return nil, apperrors.NewInternalError(err)
	}
}

func normalizeClub(c domain.Club) domain.Club {
	c.DistrictID = strings.TrimSpace(c.DistrictID)
	c.ClubName = strings.TrimSpace(c.ClubName)
	c.ClubID = optionalPtr(c.ClubID)
	c.ZoneName = optionalPtr(c.ZoneName)
	return c
}

func normalizeIndustry(i domain.Industry) domain.Industry {
	i.Industry = strings.TrimSpace(i.Industry)
	i.Classification = strings.TrimSpace(i.Classification)
	return i
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(*s)
}

func parseDistrict(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(leadingInt(s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// leadingInt keeps an optional sign and the digits that follow it, so
// "3190 North" parses as 3190.
func leadingInt(s string) string {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
