package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/events"
	"github.com/niftrix/referral-admin/internal/mailer"
	"github.com/niftrix/referral-admin/internal/observability"
	"github.com/niftrix/referral-admin/internal/repository"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

// VerifyResult is returned by a successful verification.
type VerifyResult struct {
	UserID           int64
	Status           domain.UserStatus
	NotificationSent bool
	PreviewURL       string
}

// SuspendResult is returned by a successful suspension.
type SuspendResult struct {
	UserID int64
	Status domain.UserStatus
}

// LifecycleService owns the member status transitions.
type LifecycleService struct {
	users      repository.UserLifecycleRepository
	mail       mailer.Sender
	timeout    time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// LifecycleDependencies bundles collaborators for the lifecycle service.
type LifecycleDependencies struct {
	Users repository.UserLifecycleRepository
	Mail  mailer.Sender
	// Timeout bounds one verify or suspend call. Zero disables the bound.
	Timeout    time.Duration
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{
		users:      deps.Users,
		mail:       deps.Mail,
		timeout:    deps.Timeout,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
	}
}

// VerifyUser moves a NEW member to ACTIVE and sends the welcome email inside
// the same transaction. A mail failure rolls the status change back.
func (s *LifecycleService) VerifyUser(ctx context.Context, userID int64) (*VerifyResult, error) {
	if userID <= 0 {
		return nil, apperrors.NewValidationError("invalid userId", nil)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	result := &VerifyResult{UserID: userID, Status: domain.UserStatusActive}
	err := s.users.WithinTx(ctx, func(tx repository.UserTx) error {
		user, err := tx.GetForUpdate(ctx, userID)
		if err != nil {
			if repository.IsNoRows(err) {
				return apperrors.NewNotFound("user", nil)
			}
			return err
		}

		switch user.Status {
		case domain.UserStatusNew:
		case domain.UserStatusActive:
			return apperrors.NewConflict("already active", nil)
		default:
			return apperrors.NewConflict("only NEW users can be verified", nil)
		}

		if err := tx.SetStatus(ctx, userID, domain.UserStatusActive); err != nil {
			return err
		}

		if user.Email == "" {
			return nil
		}
		sent, err := s.mail.Send(ctx, mailer.VerificationEmail(user.Email, user.FullName()))
		s.metrics.RecordMail("verification", err)
		if err != nil {
			return apperrors.NewDependencyFailure("email failed", err)
		}
		result.NotificationSent = true
		result.PreviewURL = sent.PreviewURL
		return nil
	})
	if err != nil {
		err = s.classify(err)
		s.record("verify", err)
		s.logFailure("verify user failed", userID, err)
		return nil, err
	}

	s.record("verify", nil)
	s.logger.Info("user verified",
		zap.Int64("user_id", userID),
		zap.Bool("notification_sent", result.NotificationSent),
	)
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:   events.EventUserVerified,
		UserID: userID,
		Payload: events.StatusChangedPayload{
			OldStatus:        domain.UserStatusNew,
			NewStatus:        domain.UserStatusActive,
			NotificationSent: result.NotificationSent,
		},
	})
	return result, nil
}

// SuspendUser moves any non-suspended member to SUSPENDED with one
// conditional update.
func (s *LifecycleService) SuspendUser(ctx context.Context, userID int64) (*SuspendResult, error) {
	if userID <= 0 {
		return nil, apperrors.NewValidationError("invalid userId", nil)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	err := s.suspend(ctx, userID)
	if err != nil {
		err = s.classify(err)
		s.record("suspend", err)
		s.logFailure("suspend user failed", userID, err)
		return nil, err
	}

	s.record("suspend", nil)
	s.logger.Info("user suspended", zap.Int64("user_id", userID))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventUserSuspended,
		UserID:  userID,
		Payload: events.StatusChangedPayload{NewStatus: domain.UserStatusSuspended},
	})
	return &SuspendResult{UserID: userID, Status: domain.UserStatusSuspended}, nil
}

func (s *LifecycleService) suspend(ctx context.Context, userID int64) error {
	changed, err := s.users.SuspendUnlessSuspended(ctx, userID)
	if err != nil {
		return err
	}
	if changed {
		return nil
	}

	status, err := s.users.GetStatus(ctx, userID)
	if err != nil {
		if repository.IsNoRows(err) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	if status == domain.UserStatusSuspended {
		return apperrors.NewConflict("already suspended", nil)
	}
	return apperrors.NewInternalError(errors.New("conditional suspend matched no row for user in status " + string(status)))
}

func (s *LifecycleService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// classify keeps domain errors, turns deadlines into dependency failures and
// everything else into internal errors.
func (s *LifecycleService) classify(err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewDependencyFailure("operation timed out", err)
	}
	return apperrors.NewInternalError(err)
}

func (s *LifecycleService) record(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if de := apperrors.ToDomainError(err); de != nil {
			outcome = de.Code
		}
	}
	s.metrics.RecordTransition(operation, outcome)
}

func (s *LifecycleService) logFailure(msg string, userID int64, err error) {
	de := apperrors.ToDomainError(err)
	if de.HTTPStatus >= 500 {
		s.logger.Error(msg, zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	s.logger.Debug(msg, zap.Int64("user_id", userID), zap.String("code", de.Code))
}
