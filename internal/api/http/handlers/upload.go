package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/niftrix/referral-admin/internal/mailer"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

const csvField = "file"

var errMissingCSV = apperrors.NewValidationError("CSV file is required (field name: file)", nil)

// csvUpload returns the uploaded CSV, or nil when the request carries none.
func csvUpload(c *fiber.Ctx) *multipart.FileHeader {
	fh, err := c.FormFile(csvField)
	if err != nil {
		return nil
	}
	return fh
}

// withUpload opens fh for the duration of fn.
func withUpload(fh *multipart.FileHeader, fn func(io.Reader) error) error {
	f, err := fh.Open()
	if err != nil {
		return apperrors.NewValidationError("unable to read uploaded file", nil)
	}
	defer f.Close()
	return fn(f)
}

// attachments reads every file posted under field.
func attachments(c *fiber.Ctx, field string) ([]mailer.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File[field]
	out := make([]mailer.Attachment, 0, len(files))
	for _, fh := range files {
		var content []byte
		err := withUpload(fh, func(r io.Reader) error {
			var readErr error
			content, readErr = io.ReadAll(r)
			return readErr
		})
		if err != nil {
			return nil, apperrors.NewValidationError("unable to read attachment "+fh.Filename, nil)
		}
		out = append(out, mailer.Attachment{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Content:     content,
		})
	}
	return out, nil
}
