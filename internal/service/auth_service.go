package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/niftrix/referral-admin/internal/auth"
	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/repository"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

const invalidCredentials = "Invalid mobile_number or password"

// AuthService coordinates admin login, logout and profile lookups.
type AuthService struct {
	admins   repository.AdminRepository
	tokenMgr *auth.TokenManager
	revoked  auth.RevocationStore
	logger   *zap.Logger
}

// NewAuthService builds the service. revoked may be nil, in which case
// logout only clears the cookie.
func NewAuthService(admins repository.AdminRepository, tokens *auth.TokenManager, revoked auth.RevocationStore, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:   admins,
		tokenMgr: tokens,
		revoked:  revoked,
		logger:   logger,
	}
}

// Login authenticates by mobile number or email and issues a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Admin, *domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, apperrors.NewValidationError("username and password are required", nil)
	}

	admin, err := s.admins.GetByLogin(ctx, username)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		s.logger.Info("admin login rejected", zap.Int64("admin_id", admin.ID))
		return nil, nil, apperrors.NewUnauthorized(invalidCredentials)
	}

	session, err := s.tokenMgr.GenerateToken(admin)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("admin logged in", zap.Int64("admin_id", admin.ID))
	return admin, session, nil
}

// Logout revokes the token if it still parses. Invalid tokens are ignored
// so logout always clears the cookie.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" || s.revoked == nil {
		return nil
	}
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Warn("token revocation failed", zap.Error(err))
		return apperrors.NewDependencyFailure("logout failed", err)
	}
	return nil
}

// Profile returns the authenticated admin.
func (s *AuthService) Profile(ctx context.Context, adminID int64) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, apperrors.NewNotFound("admin", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return admin, nil
}

// EnsureAdmin creates a panel operator with the given credentials unless one
// already signs in with that email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, name, password string, cost int) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, apperrors.NewValidationError("bootstrap email and password are required", nil)
	}

	if _, err := s.admins.GetByLogin(ctx, email); err == nil {
		return false, nil
	} else if !repository.IsNoRows(err) {
		return false, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	admin := &domain.Admin{FirstName: name, Email: email, PasswordHash: hash}
	created, err := s.admins.Create(ctx, admin)
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	if created {
		s.logger.Info("bootstrap admin created", zap.Int64("admin_id", admin.ID))
	}
	return created, nil
}

// SessionTTL exposes the cookie lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokenMgr.TTL()
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
