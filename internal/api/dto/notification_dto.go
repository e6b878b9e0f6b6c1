package dto

import "github.com/niftrix/referral-admin/internal/service"

// PreviewLink points at a sandbox rendering of one delivery.
type PreviewLink struct {
	UserID     int64  `json:"userId"`
	Email      string `json:"email"`
	PreviewURL string `json:"previewUrl"`
}

// DeliveryError describes one rejected delivery.
type DeliveryError struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Error  string `json:"error"`
}

// NotificationResponse is returned by send-notification.
type NotificationResponse struct {
	Success         bool            `json:"success"`
	RecipientType   string          `json:"recipientType"`
	TotalRecipients int             `json:"totalRecipients"`
	Attempted       int             `json:"attempted"`
	Sent            int             `json:"sent"`
	Failed          int             `json:"failed"`
	Truncated       bool            `json:"truncated"`
	PreviewURLs     []PreviewLink   `json:"previewUrls"`
	Errors          []DeliveryError `json:"errors"`
}

// NewNotificationResponse maps a broadcast result.
func NewNotificationResponse(r *service.BroadcastResult) NotificationResponse {
	return NotificationResponse{
		Success:         true,
		RecipientType:   r.RecipientType,
		TotalRecipients: r.TotalRecipients,
		Attempted:       r.Attempted,
		Sent:            r.Sent,
		Failed:          r.Failed,
		Truncated:       r.Truncated,
		PreviewURLs: mapAll(r.Previews, func(p service.DeliveryPreview) PreviewLink {
			return PreviewLink{UserID: p.UserID, Email: p.Email, PreviewURL: p.PreviewURL}
		}),
		Errors: mapAll(r.Errors, func(f service.DeliveryFailure) DeliveryError {
			return DeliveryError{UserID: f.UserID, Email: f.Email, Error: f.Error}
		}),
	}
}
