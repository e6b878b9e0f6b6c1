package handlers

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/niftrix/referral-admin/internal/api/dto"
	"github.com/niftrix/referral-admin/internal/service"
)

// ImportHandler serves the CSV imports and the reference data settings.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler constructs handler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Users POST /admin-api/users/add-users-from-csv.
func (h *ImportHandler) Users(c *fiber.Ctx) error {
	fh := csvUpload(c)
	if fh == nil {
		return errMissingCSV
	}
	var report *service.UserImportReport
	err := withUpload(fh, func(r io.Reader) (err error) {
		report, err = h.imports.ImportUsers(c.UserContext(), r)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserImportResponse(report))
}

// Club POST /admin-api/settings/add-club. A multipart file switches to
// bulk mode; otherwise the body is one club.
func (h *ImportHandler) Club(c *fiber.Ctx) error {
	if fh := csvUpload(c); fh != nil {
		return h.referenceFile(c, fh, h.imports.ImportClubs)
	}

	var req dto.ClubRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	club, err := h.imports.AddClub(c.UserContext(), req.ToClub())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewClubResponse(club))
}

// Industry POST /admin-api/settings/add-industry.
func (h *ImportHandler) Industry(c *fiber.Ctx) error {
	if fh := csvUpload(c); fh != nil {
		return h.referenceFile(c, fh, h.imports.ImportIndustries)
	}

	var req dto.IndustryRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	industry, err := h.imports.AddIndustry(c.UserContext(), req.ToIndustry())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewIndustryResponse(industry))
}

func (h *ImportHandler) referenceFile(c *fiber.Ctx, fh *multipart.FileHeader, run func(context.Context, io.Reader) (*service.ReferenceImportReport, error)) error {
	var report *service.ReferenceImportReport
	err := withUpload(fh, func(r io.Reader) (err error) {
		report, err = run(c.UserContext(), r)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReferenceImportResponse(report))
}
