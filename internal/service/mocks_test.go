package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Int(1), args.Error(2)
}

func (m *mockUserRepo) Search(ctx context.Context, filter repository.UserSearch) ([]domain.User, int, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Int(1), args.Error(2)
}

func (m *mockUserRepo) ListMailRecipients(ctx context.Context, status *domain.UserStatus) ([]domain.User, error) {
	args := m.Called(ctx, status)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) InsertIgnoringConflicts(ctx context.Context, user domain.NewUser) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

type mockReferralRepo struct {
	mock.Mock
}

func (m *mockReferralRepo) List(ctx context.Context, userID int64, dir repository.ReferralDirection, page repository.Page) ([]domain.Referral, int, error) {
	args := m.Called(ctx, userID, dir, page)
	rows, _ := args.Get(0).([]domain.Referral)
	return rows, args.Int(1), args.Error(2)
}

func (m *mockReferralRepo) ConvertedValue(ctx context.Context, userID int64) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockReferralRepo) Stats(ctx context.Context, userID int64) (domain.ReferralStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.ReferralStats), args.Error(1)
}

type mockPremiumRepo struct {
	mock.Mock
}

func (m *mockPremiumRepo) ListForUser(ctx context.Context, userID int64) ([]domain.PremiumService, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]domain.PremiumService)
	return rows, args.Error(1)
}

func (m *mockPremiumRepo) ListForUserByKind(ctx context.Context, userID int64, kind domain.PremiumKind, page repository.Page) ([]domain.PremiumService, int, error) {
	args := m.Called(ctx, userID, kind, page)
	rows, _ := args.Get(0).([]domain.PremiumService)
	return rows, args.Int(1), args.Error(2)
}

func (m *mockPremiumRepo) ListPayments(ctx context.Context, criteria repository.PaymentCriteria, page repository.Page) ([]domain.PremiumService, int, error) {
	args := m.Called(ctx, criteria, page)
	rows, _ := args.Get(0).([]domain.PremiumService)
	return rows, args.Int(1), args.Error(2)
}

func (m *mockPremiumRepo) ListBanners(ctx context.Context, page repository.Page) ([]domain.PremiumService, int, error) {
	args := m.Called(ctx, page)
	rows, _ := args.Get(0).([]domain.PremiumService)
	return rows, args.Int(1), args.Error(2)
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) GetDetail(ctx context.Context, userID int64) (domain.ProfileDetail, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.ProfileDetail), args.Error(1)
}

func (m *mockProfileRepo) GetDataCollection(ctx context.Context, userID int64) (domain.DataCollection, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.DataCollection), args.Error(1)
}

type mockReferenceRepo struct {
	mock.Mock
}

func (m *mockReferenceRepo) ClubExists(ctx context.Context, districtID, clubName string, clubID *string) (bool, error) {
	args := m.Called(ctx, districtID, clubName, clubID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReferenceRepo) InsertClub(ctx context.Context, club domain.Club) error {
	return m.Called(ctx, club).Error(0)
}

func (m *mockReferenceRepo) IndustryExists(ctx context.Context, industry, classification string) (bool, error) {
	args := m.Called(ctx, industry, classification)
	return args.Bool(0), args.Error(1)
}

func (m *mockReferenceRepo) InsertIndustry(ctx context.Context, industry domain.Industry) error {
	return m.Called(ctx, industry).Error(0)
}

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAuditRepo) ListByUser(ctx context.Context, userID int64, page repository.Page) ([]domain.AuditEntry, int, error) {
	args := m.Called(ctx, userID, page)
	entries, _ := args.Get(0).([]domain.AuditEntry)
	return entries, args.Int(1), args.Error(2)
}

func strPtr(s string) *string { return &s }
