package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/events"
	"github.com/niftrix/referral-admin/internal/observability"
	"github.com/niftrix/referral-admin/internal/repository"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

// AuditService records every admin-driven domain event.
type AuditService struct {
	dispatcher events.Dispatcher
	entries    repository.AuditRepository
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// AuditDependencies bundles collaborators for the audit service. Entries may
// be nil, in which case events are only logged.
type AuditDependencies struct {
	Dispatcher events.Dispatcher
	Entries    repository.AuditRepository
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(deps AuditDependencies) *AuditService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: deps.Dispatcher,
		entries:    deps.Entries,
		logger:     logger.Named("audit"),
		metrics:    deps.Metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserVerified, a.handle)
	a.dispatcher.Subscribe(events.EventUserSuspended, a.handle)
	a.dispatcher.Subscribe(events.EventNotificationSent, a.handle)
	a.dispatcher.Subscribe(events.EventUsersImported, a.handle)
}

// History pages the audit trail of one member, newest first.
func (a *AuditService) History(ctx context.Context, userID int64, req PageRequest) (*PageResult[domain.AuditEntry], error) {
	if userID <= 0 {
		return nil, apperrors.NewValidationError("invalid userId", nil)
	}
	if a.entries == nil {
		return nil, apperrors.NewDependencyFailure("audit log unavailable", nil)
	}
	req = req.Normalize(DefaultLimit)
	entries, total, err := a.entries.ListByUser(ctx, userID, req.window())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return newPageResult(req, total, entries), nil
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("admin_id", event.Actor.AdminID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	}
	if event.UserID != 0 {
		fields = append(fields, zap.Int64("user_id", event.UserID))
	}
	a.logger.Info("admin action", fields...)
	a.metrics.RecordEvent(string(event.Type))

	if a.entries == nil {
		return nil
	}
	return a.entries.Create(ctx, &domain.AuditEntry{
		EventID:   event.ID,
		EventType: string(event.Type),
		AdminID:   nonZero(event.Actor.AdminID),
		UserID:    nonZero(event.UserID),
		Payload:   event.Payload,
		CreatedAt: event.Timestamp,
	})
}

func nonZero(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
