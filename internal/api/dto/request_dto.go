package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

var errInvalidUserID = apperrors.NewValidationError("Invalid userId", nil)

// UserIDRequest carries the member a lifecycle or activity call targets.
type UserIDRequest struct {
	UserID int64 `validate:"gt=0"`
}

// ParseUserIDRequest reads userId from a JSON body, where it must be an
// integer literal, or from a form field holding only digits. Strings,
// fractions, objects and non-positive values are rejected.
func ParseUserIDRequest(c *fiber.Ctx) (UserIDRequest, error) {
	var req UserIDRequest
	if isJSON(c) {
		var body struct {
			UserID json.RawMessage `json:"userId"`
		}
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return req, apperrors.NewValidationError("invalid payload", nil)
		}
		id, ok := parseJSONInt(body.UserID)
		if !ok {
			return req, errInvalidUserID
		}
		req.UserID = id
	} else {
		id, ok := parseDigits(c.FormValue("userId"))
		if !ok {
			return req, errInvalidUserID
		}
		req.UserID = id
	}
	if err := validate.Struct(req); err != nil {
		return req, errInvalidUserID
	}
	return req, nil
}

// ParseUserIDQuery reads userId from the query string.
func ParseUserIDQuery(c *fiber.Ctx) (UserIDRequest, error) {
	id, ok := parseDigits(c.Query("userId"))
	if !ok || id <= 0 {
		return UserIDRequest{}, errInvalidUserID
	}
	return UserIDRequest{UserID: id}, nil
}

// PageQuery is the pagination part of a listing request.
type PageQuery struct {
	Page  int `json:"page" form:"page" validate:"gte=0"`
	Limit int `json:"limit" form:"limit" validate:"gte=0"`
}

// ListUsersRequest filters the member listing.
type ListUsersRequest struct {
	Status string `json:"status" form:"status" validate:"omitempty,oneof=NEW ACTIVE SUSPENDED"`
	PageQuery
}

// SearchRequest matches one attribute of the member table.
type SearchRequest struct {
	SearchQuery     string `json:"searchQuery" form:"searchQuery"`
	SearchAttribute string `json:"searchAttribute" form:"searchAttribute"`
	PageQuery
}

// ActivityHistoryRequest pages each referral list independently.
type ActivityHistoryRequest struct {
	PageGiven      int `json:"pageGiven" form:"pageGiven" validate:"gte=0"`
	LimitGiven     int `json:"limitGiven" form:"limitGiven" validate:"gte=0"`
	PageReceived   int `json:"pageReceived" form:"pageReceived" validate:"gte=0"`
	LimitReceived  int `json:"limitReceived" form:"limitReceived" validate:"gte=0"`
	PageConverted  int `json:"pageConverted" form:"pageConverted" validate:"gte=0"`
	LimitConverted int `json:"limitConverted" form:"limitConverted" validate:"gte=0"`
}

// PaymentsRequest filters the payments listing.
type PaymentsRequest struct {
	Criteria string `json:"criteria" form:"criteria"`
	PageQuery
}

// LoginRequest payload for admin login. Username is a mobile number or email.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ClubRequest is the manual form of add-club.
type ClubRequest struct {
	DistrictID string `json:"districtId" form:"districtId"`
	ClubName   string `json:"clubName" form:"clubName"`
	ClubID     string `json:"clubId" form:"clubId"`
	ZoneName   string `json:"zoneName" form:"zoneName"`
}

// IndustryRequest is the manual form of add-industry.
type IndustryRequest struct {
	Industry       string `json:"industry" form:"industry"`
	Classification string `json:"classification" form:"classification"`
}

// NotificationRequest holds the text fields of send-notification.
type NotificationRequest struct {
	Message       string `form:"message" validate:"required"`
	RecipientType string `form:"recipientType" validate:"required"`
}

// Bind parses the body into v when one is present and validates it.
func Bind(c *fiber.Ctx, v any) error {
	if len(bytes.TrimSpace(c.Body())) > 0 {
		if err := c.BodyParser(v); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	return Validate(v)
}

func isJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}

func parseJSONInt(raw json.RawMessage) (int64, bool) {
	s := string(bytes.TrimSpace(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	if s[0] != '-' && (s[0] < '0' || s[0] > '9') {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

func parseDigits(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}
