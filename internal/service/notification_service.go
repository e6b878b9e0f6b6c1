package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/events"
	"github.com/niftrix/referral-admin/internal/mailer"
	"github.com/niftrix/referral-admin/internal/observability"
	"github.com/niftrix/referral-admin/internal/repository"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

// MaxReportedDeliveries caps the preview and error lists of a broadcast.
const MaxReportedDeliveries = 20

const defaultBulkMax = 500

// recipientTypes maps a recipient group to a status filter; nil means all.
var recipientTypes = map[string]*domain.UserStatus{
	"all":        nil,
	"verified":   statusPtr(domain.UserStatusActive),
	"unverified": statusPtr(domain.UserStatusNew),
	"suspended":  statusPtr(domain.UserStatusSuspended),
}

// BroadcastInput is one notification to a recipient group.
type BroadcastInput struct {
	Message       string
	RecipientType string
	Attachments   []mailer.Attachment
}

// DeliveryPreview links a sandbox message to its recipient.
type DeliveryPreview struct {
	UserID     int64
	Email      string
	PreviewURL string
}

// DeliveryFailure records a rejected recipient.
type DeliveryFailure struct {
	UserID int64
	Email  string
	Error  string
}

// BroadcastResult summarizes a broadcast.
type BroadcastResult struct {
	RecipientType   string
	TotalRecipients int
	Attempted       int
	Sent            int
	Failed          int
	Truncated       bool
	Previews        []DeliveryPreview
	Errors          []DeliveryFailure
}

// NotificationService mails free-form notifications to member groups.
type NotificationService struct {
	users      repository.UserRepository
	mail       mailer.Sender
	bulkMax    int
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Users repository.UserRepository
	Mail  mailer.Sender
	// BulkMax caps recipients per broadcast. Zero means 500.
	BulkMax    int
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bulkMax := deps.BulkMax
	if bulkMax <= 0 {
		bulkMax = defaultBulkMax
	}
	return &NotificationService{
		users:      deps.Users,
		mail:       deps.Mail,
		bulkMax:    bulkMax,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
	}
}

// Broadcast sends the message to every member of the group that has an
// email, in user id order, over one relay session. Per-recipient failures
// are counted and do not stop the run.
func (n *NotificationService) Broadcast(ctx context.Context, in BroadcastInput) (*BroadcastResult, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required", nil)
	}
	recipientType := strings.ToLower(strings.TrimSpace(in.RecipientType))
	status, ok := recipientTypes[recipientType]
	if !ok {
		return nil, apperrors.NewValidationError("Invalid recipientType", nil)
	}

	recipients, err := n.users.ListMailRecipients(ctx, status)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	result := &BroadcastResult{
		RecipientType:   recipientType,
		TotalRecipients: len(recipients),
		Previews:        []DeliveryPreview{},
		Errors:          []DeliveryFailure{},
	}
	if len(recipients) == 0 {
		return result, nil
	}
	if len(recipients) > n.bulkMax {
		recipients = recipients[:n.bulkMax]
		result.Truncated = true
	}
	result.Attempted = len(recipients)

	session, err := n.mail.OpenSession(ctx)
	if err != nil {
		n.logger.Error("mail relay unavailable", zap.Error(err))
		return nil, apperrors.NewDependencyFailure("mail relay unavailable", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			n.logger.Warn("closing mail session", zap.Error(err))
		}
	}()

	for _, user := range recipients {
		if ctx.Err() != nil {
			return nil, apperrors.NewDependencyFailure("operation timed out", ctx.Err())
		}
		sent, err := session.Send(ctx, mailer.NotificationEmail(user.Email, message, in.Attachments))
		n.metrics.RecordMail("notification", err)
		if err != nil {
			result.Failed++
			if len(result.Errors) < MaxReportedDeliveries {
				result.Errors = append(result.Errors, DeliveryFailure{UserID: user.ID, Email: user.Email, Error: err.Error()})
			}
			continue
		}
		result.Sent++
		if sent.PreviewURL != "" && len(result.Previews) < MaxReportedDeliveries {
			result.Previews = append(result.Previews, DeliveryPreview{UserID: user.ID, Email: user.Email, PreviewURL: sent.PreviewURL})
		}
	}

	n.logger.Info("notification broadcast",
		zap.String("recipient_type", recipientType),
		zap.Int("attempted", result.Attempted),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Bool("truncated", result.Truncated),
	)
	publishEvent(ctx, n.dispatcher, n.logger, events.Event{
		Type: events.EventNotificationSent,
		Payload: events.BroadcastPayload{
			RecipientType: recipientType,
			Attempted:     result.Attempted,
			Sent:          result.Sent,
			Failed:        result.Failed,
		},
	})
	return result, nil
}

func statusPtr(s domain.UserStatus) *domain.UserStatus {
	return &s
}
