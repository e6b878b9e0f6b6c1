package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/niftrix/referral-admin/internal/api/http/handlers"
	"github.com/niftrix/referral-admin/internal/auth"
	"github.com/niftrix/referral-admin/internal/config"
	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/events"
	"github.com/niftrix/referral-admin/internal/mailer"
	"github.com/niftrix/referral-admin/internal/observability"
	"github.com/niftrix/referral-admin/internal/repository"
	"github.com/niftrix/referral-admin/internal/service"
)

const cookieName = "token"

// fakeUsers is an in-memory member table.
type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func newFakeUsers(users ...domain.User) *fakeUsers {
	f := &fakeUsers{users: map[int64]*domain.User{}}
	for i := range users {
		u := users[i]
		f.users[u.ID] = &u
	}
	return f
}

type fakeTx struct {
	f       *fakeUsers
	pending map[int64]domain.UserStatus
}

func (t *fakeTx) GetForUpdate(_ context.Context, id int64) (*domain.User, error) {
	u, ok := t.f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (t *fakeTx) SetStatus(_ context.Context, id int64, status domain.UserStatus) error {
	t.pending[id] = status
	return nil
}

func (f *fakeUsers) WithinTx(_ context.Context, fn func(tx repository.UserTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx := &fakeTx{f: f, pending: map[int64]domain.UserStatus{}}
	if err := fn(tx); err != nil {
		return err
	}
	for id, status := range tx.pending {
		f.users[id].Status = status
	}
	return nil
}

func (f *fakeUsers) SuspendUnlessSuspended(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.Status == domain.UserStatusSuspended {
		return false, nil
	}
	u.Status = domain.UserStatusSuspended
	return true, nil
}

func (f *fakeUsers) GetStatus(_ context.Context, id int64) (domain.UserStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return u.Status, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) List(_ context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for id := int64(1); id <= int64(len(f.users)); id++ {
		u, ok := f.users[id]
		if !ok || (filter.Status != nil && u.Status != *filter.Status) {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeUsers) Search(context.Context, repository.UserSearch) ([]domain.User, int, error) {
	return nil, 0, nil
}

func (f *fakeUsers) ListMailRecipients(ctx context.Context, status *domain.UserStatus) ([]domain.User, error) {
	users, _, err := f.List(ctx, repository.UserFilter{Status: status})
	return users, err
}

func (f *fakeUsers) InsertIgnoringConflicts(context.Context, domain.NewUser) (bool, error) {
	return true, nil
}

type fakeAdmins struct {
	admin *domain.Admin
}

func (f fakeAdmins) GetByLogin(_ context.Context, login string) (*domain.Admin, error) {
	if login == f.admin.MobileNumber || login == f.admin.Email {
		return f.admin, nil
	}
	return nil, pgx.ErrNoRows
}

func (f fakeAdmins) GetByID(_ context.Context, id int64) (*domain.Admin, error) {
	if id == f.admin.ID {
		return f.admin, nil
	}
	return nil, pgx.ErrNoRows
}

func (fakeAdmins) Create(context.Context, *domain.Admin) (bool, error) { return false, nil }

type nopReferrals struct{}

func (nopReferrals) List(context.Context, int64, repository.ReferralDirection, repository.Page) ([]domain.Referral, int, error) {
	return nil, 0, nil
}
func (nopReferrals) ConvertedValue(context.Context, int64) (float64, error) { return 0, nil }
func (nopReferrals) Stats(context.Context, int64) (domain.ReferralStats, error) {
	return domain.ReferralStats{}, nil
}

type nopPremium struct{}

func (nopPremium) ListForUser(context.Context, int64) ([]domain.PremiumService, error) {
	return nil, nil
}
func (nopPremium) ListForUserByKind(context.Context, int64, domain.PremiumKind, repository.Page) ([]domain.PremiumService, int, error) {
	return nil, 0, nil
}
func (nopPremium) ListPayments(context.Context, repository.PaymentCriteria, repository.Page) ([]domain.PremiumService, int, error) {
	return nil, 0, nil
}
func (nopPremium) ListBanners(context.Context, repository.Page) ([]domain.PremiumService, int, error) {
	return nil, 0, nil
}

type nopProfiles struct{}

func (nopProfiles) GetDetail(context.Context, int64) (domain.ProfileDetail, error) {
	return domain.ProfileDetail{}, nil
}
func (nopProfiles) GetDataCollection(context.Context, int64) (domain.DataCollection, error) {
	return domain.DataCollection{}, nil
}

type fakeReference struct {
	clubs []domain.Club
}

func (f *fakeReference) ClubExists(_ context.Context, districtID, clubName string, _ *string) (bool, error) {
	for _, c := range f.clubs {
		if c.DistrictID == districtID && c.ClubName == clubName {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeReference) InsertClub(_ context.Context, club domain.Club) error {
	f.clubs = append(f.clubs, club)
	return nil
}
func (f *fakeReference) IndustryExists(context.Context, string, string) (bool, error) {
	return false, nil
}
func (f *fakeReference) InsertIndustry(context.Context, domain.Industry) error { return nil }

type fakeMail struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *fakeMail) Send(_ context.Context, msg mailer.Message) (mailer.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return mailer.Result{PreviewURL: "http://preview/" + msg.To[0]}, nil
}

func (m *fakeMail) OpenSession(context.Context) (mailer.Session, error) { return m, nil }

func (m *fakeMail) Close() error { return nil }

type memAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (m *memAudit) Create(_ context.Context, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAudit) ListByUser(_ context.Context, userID int64, _ repository.Page) ([]domain.AuditEntry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuditEntry
	for _, e := range m.entries {
		if e.UserID != nil && *e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

type fixture struct {
	app        *fiber.App
	users      *fakeUsers
	mail       *fakeMail
	dispatcher events.Dispatcher
	redis      *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := auth.HashPassword("pa55", 4)
	require.NoError(t, err)
	admin := &domain.Admin{ID: 7, FirstName: "Root", MobileNumber: "9000000000", Email: "root@x.com", PasswordHash: hash}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := newFakeUsers(
		domain.User{ID: 1, FirstName: "Asha", Email: "asha@x.com", Status: domain.UserStatusNew},
		domain.User{ID: 2, FirstName: "Ravi", Email: "ravi@x.com", Status: domain.UserStatusActive},
		domain.User{ID: 3, FirstName: "Mina", Status: domain.UserStatusSuspended},
	)
	mail := &fakeMail{}
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	audit := service.NewAuditService(service.AuditDependencies{Dispatcher: dispatcher, Entries: &memAudit{}, Metrics: metrics})
	audit.RegisterHandlers()

	tokens := auth.NewTokenManager("secret", time.Hour)
	revoked := auth.NewRedisRevocationStore(client)
	authCfg := config.AuthConfig{CookieName: cookieName}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger, metrics)})
	RegisterMiddlewares(app, config.AppConfig{CORSOrigin: "*"}, logger, metrics)
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler("referral-admin", "test",
			handlers.Dependency{Name: "postgres", Pinger: downPinger{}},
		),
		Auth: handlers.NewAuthHandler(service.NewAuthService(fakeAdmins{admin: admin}, tokens, revoked, logger), authCfg),
		Lifecycle: handlers.NewLifecycleHandler(service.NewLifecycleService(service.LifecycleDependencies{
			Users:      users,
			Mail:       mail,
			Dispatcher: dispatcher,
			Metrics:    metrics,
		})),
		Members: handlers.NewMembersHandler(
			service.NewUserQueryService(users),
			service.NewProfileService(users, nopProfiles{}, nopReferrals{}, "https://files.example.com"),
		),
		Activity:      handlers.NewActivityHandler(service.NewActivityService(nopReferrals{}, nopPremium{})),
		Premium:       handlers.NewPremiumHandler(service.NewPaymentService(nopPremium{})),
		Imports:       handlers.NewImportHandler(service.NewImportService(users, &fakeReference{}, dispatcher, logger)),
		Notifications: handlers.NewNotificationHandler(service.NewNotificationService(service.NotificationDependencies{Users: users, Mail: mail})),
		Audit:         handlers.NewAuditHandler(audit),
		Gate:          auth.NewGate(tokens, revoked, cookieName, logger),
		Metrics:       metrics,
	})
	return &fixture{app: app, users: users, mail: mail, dispatcher: dispatcher, redis: mr}
}

func (f *fixture) login(t *testing.T) string {
	t.Helper()
	resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/auth/login", `{"username":"9000000000","password":"pa55"}`), "")
	require.Equal(t, http.StatusOK, resp.code)
	for _, c := range resp.cookies {
		if c.Name == cookieName {
			return c.Value
		}
	}
	t.Fatal("login did not set the session cookie")
	return ""
}

type response struct {
	code    int
	body    map[string]any
	cookies []*http.Cookie
}

func (f *fixture) do(t *testing.T, req *http.Request, token string) response {
	t.Helper()
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{code: resp.StatusCode, cookies: resp.Cookies()}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		part, err := w.CreateFormFile(name, name+".csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestAuthFlow(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/auth/login", `{"username":"9000000000","password":"nope"}`), "")
	assert.Equal(t, http.StatusUnauthorized, resp.code)
	assert.Equal(t, false, resp.body["success"])
	assert.Equal(t, "UNAUTHORIZED", resp.body["code"])

	resp = f.do(t, jsonRequest(http.MethodPost, "/admin-api/auth/login", `{"username":"root@x.com","password":"pa55"}`), "")
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, "Login successful", resp.body["message"])
	assert.Equal(t, "Root", resp.body["firstName"])
	require.NotEmpty(t, resp.cookies)
	assert.True(t, resp.cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, resp.cookies[0].SameSite)
	token := resp.cookies[0].Value

	resp = f.do(t, httptest.NewRequest(http.MethodGet, "/admin-api/get-profile", nil), "")
	assert.Equal(t, http.StatusUnauthorized, resp.code)

	resp = f.do(t, httptest.NewRequest(http.MethodGet, "/admin-api/get-profile", nil), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, "Root", resp.body["first_name"])

	resp = f.do(t, httptest.NewRequest(http.MethodPost, "/admin-api/auth/logout", nil), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, "Logged out successfully", resp.body["message"])

	resp = f.do(t, httptest.NewRequest(http.MethodGet, "/admin-api/get-profile", nil), token)
	assert.Equal(t, http.StatusForbidden, resp.code)
}

func TestVerifyUser(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	var actors []int64
	f.dispatcher.Subscribe(events.EventUserVerified, func(_ context.Context, e events.Event) error {
		actors = append(actors, e.Actor.AdminID)
		return nil
	})

	resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/set-user-verified", `{"userId": 1}`), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, true, resp.body["success"])
	assert.Equal(t, float64(1), resp.body["userId"])
	assert.Equal(t, "ACTIVE", resp.body["status"])
	assert.Equal(t, true, resp.body["emailSent"])
	assert.Equal(t, "http://preview/asha@x.com", resp.body["previewUrl"])
	assert.Len(t, f.mail.sent, 1)
	assert.Equal(t, []int64{7}, actors)

	resp = f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/set-user-verified", `{"userId": 1}`), token)
	assert.Equal(t, http.StatusConflict, resp.code)
	assert.Equal(t, "already active", resp.body["message"])

	resp = f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/set-user-verified", `{"userId": 3}`), token)
	assert.Equal(t, http.StatusConflict, resp.code)

	resp = f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/set-user-verified", `{"userId": 99}`), token)
	assert.Equal(t, http.StatusNotFound, resp.code)
	assert.Equal(t, "user not found", resp.body["message"])
}

func TestUserIDParsing(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	for _, body := range []string{`{"userId":"abc"}`, `{"userId":"1"}`, `{}`, `{"userId":0}`, `{"userId":-5}`, `{"userId":1.5}`, `not json`} {
		t.Run(body, func(t *testing.T) {
			resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/suspend-user", body), token)
			assert.Equal(t, http.StatusBadRequest, resp.code)
			assert.Equal(t, "VALIDATION_FAILED", resp.body["code"])
		})
	}

	resp := f.do(t, formRequest("/admin-api/users/suspend-user", url.Values{"userId": {"2x"}}), token)
	assert.Equal(t, http.StatusBadRequest, resp.code)
	assert.Equal(t, "Invalid userId", resp.body["message"])

	resp = f.do(t, formRequest("/admin-api/users/suspend-user", url.Values{"userId": {"2"}}), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, "SUSPENDED", resp.body["status"])
}

func TestSuspendUser(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/suspend-user", `{"userId": 1}`), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, map[string]any{"success": true, "userId": float64(1), "status": "SUSPENDED"}, resp.body)

	resp = f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/suspend-user", `{"userId": 1}`), token)
	assert.Equal(t, http.StatusConflict, resp.code)
	assert.Equal(t, "already suspended", resp.body["message"])

	status, err := f.users.GetStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, status)

	resp = f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/audit-history", `{"userId": 1}`), token)
	require.Equal(t, http.StatusOK, resp.code)
	require.Equal(t, float64(1), resp.body["total"])
	entry := resp.body["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "user_suspended", entry["eventType"])
	assert.Equal(t, float64(7), entry["adminId"])
}

func TestFetchAllUsers(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/fetch-all-users", `{"status":"ACTIVE"}`), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, float64(1), resp.body["page"])
	assert.Equal(t, float64(10), resp.body["limit"])
	assert.Equal(t, float64(1), resp.body["total"])
	assert.Equal(t, float64(1), resp.body["totalPages"])
	assert.Len(t, resp.body["results"], 1)

	resp = f.do(t, httptest.NewRequest(http.MethodPost, "/admin-api/users/fetch-all-users", nil), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, float64(3), resp.body["total"])

	resp = f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/fetch-all-users", `{"status":"GONE"}`), token)
	assert.Equal(t, http.StatusBadRequest, resp.code)
	assert.Equal(t, "invalid status, expected one of: NEW, ACTIVE, SUSPENDED", resp.body["message"])
}

func TestSearchRequiresAttribute(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/search-profiles", `{"searchQuery":"a","searchAttribute":"password"}`), token)
	assert.Equal(t, http.StatusBadRequest, resp.code)
	assert.Equal(t, "searchQuery and a valid searchAttribute are required", resp.body["message"])

	resp = f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/search-profiles", `{"searchQuery":"a","searchAttribute":"email"}`), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, float64(100), resp.body["limit"])
	assert.Equal(t, []any{}, resp.body["users"])
}

func TestFetchUserDetail(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	resp := f.do(t, httptest.NewRequest(http.MethodGet, "/admin-api/users/fetch-user-detail?userId=2", nil), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, float64(2), resp.body["userId"])

	resp = f.do(t, httptest.NewRequest(http.MethodGet, "/admin-api/users/fetch-user-detail?userId=42", nil), token)
	assert.Equal(t, http.StatusNotFound, resp.code)

	resp = f.do(t, httptest.NewRequest(http.MethodGet, "/admin-api/users/fetch-user-detail", nil), token)
	assert.Equal(t, http.StatusBadRequest, resp.code)
}

func TestActivityEndpoints(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/activity-history", `{"userId":2,"pageGiven":2}`), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, true, resp.body["success"])

	for _, path := range []string{
		"premium-banner-activity",
		"trending-banner-activity",
		"featured-profile-activity",
		"search-preference-activity",
		"referrals-given-activity",
		"referrals-received-activity",
	} {
		t.Run(path, func(t *testing.T) {
			resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/users/"+path, `{"userId":2,"page":3,"limit":500}`), token)
			require.Equal(t, http.StatusOK, resp.code)
			assert.Equal(t, float64(3), resp.body["page"])
			assert.Equal(t, float64(100), resp.body["limit"])
			assert.Equal(t, []any{}, resp.body["results"])
		})
	}
}

func TestPremiumAndContent(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/premium/fetch-payments", `{"criteria":"payment-success"}`), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, float64(1), resp.body["totalPages"])

	resp = f.do(t, httptest.NewRequest(http.MethodPost, "/admin-api/content/fetch-all-banners", nil), token)
	require.Equal(t, http.StatusOK, resp.code)
}

func TestUserImport(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	resp := f.do(t, multipartRequest(t, "/admin-api/users/add-users-from-csv", nil, nil), token)
	assert.Equal(t, http.StatusBadRequest, resp.code)
	assert.Equal(t, "CSV file is required (field name: file)", resp.body["message"])

	csv := "Email,Mobile Number,First Name\nnew@x.com,9111111111,New\n,,Nobody\n"
	resp = f.do(t, multipartRequest(t, "/admin-api/users/add-users-from-csv", nil, map[string]string{"file": csv}), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, float64(2), resp.body["totalRowsInCSV"])
	assert.Equal(t, float64(1), resp.body["inserted"])
	assert.Equal(t, float64(1), resp.body["invalidCount"])

	resp = f.do(t, multipartRequest(t, "/admin-api/users/add-users-from-csv", nil, map[string]string{"file": "Email,First Name\n,Ghost\n"}), token)
	assert.Equal(t, http.StatusBadRequest, resp.code)
	assert.Equal(t, "No valid rows to insert", resp.body["message"])
	assert.Equal(t, float64(1), resp.body["invalidCount"])
}

func TestAddClub(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	body := `{"districtId":"3190","clubName":"Rotary Club of Indiranagar"}`
	resp := f.do(t, jsonRequest(http.MethodPost, "/admin-api/settings/add-club", body), token)
	require.Equal(t, http.StatusCreated, resp.code)
	assert.Equal(t, "manual", resp.body["mode"])

	resp = f.do(t, jsonRequest(http.MethodPost, "/admin-api/settings/add-club", body), token)
	assert.Equal(t, http.StatusConflict, resp.code)

	resp = f.do(t, jsonRequest(http.MethodPost, "/admin-api/settings/add-club", `{"clubName":"x"}`), token)
	assert.Equal(t, http.StatusBadRequest, resp.code)

	csv := "District ID,Club Name\n3190,Rotary Club of Indiranagar\n3191,Rotary Club of Mysore\n"
	resp = f.do(t, multipartRequest(t, "/admin-api/settings/add-club", nil, map[string]string{"file": csv}), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, "file", resp.body["mode"])
	assert.Equal(t, float64(1), resp.body["inserted"])
	assert.Equal(t, float64(1), resp.body["skippedDuplicates"])
}

func TestSendNotification(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	resp := f.do(t, multipartRequest(t, "/admin-api/users/send-notification", map[string]string{"message": "hello", "recipientType": "everyone"}, nil), token)
	assert.Equal(t, http.StatusBadRequest, resp.code)
	assert.Equal(t, "Invalid recipientType", resp.body["message"])

	resp = f.do(t, multipartRequest(t, "/admin-api/users/send-notification", map[string]string{"recipientType": "all"}, nil), token)
	assert.Equal(t, http.StatusBadRequest, resp.code)
	assert.Equal(t, "message is required", resp.body["message"])

	resp = f.do(t, multipartRequest(t, "/admin-api/users/send-notification",
		map[string]string{"message": "hello", "recipientType": "unverified"},
		map[string]string{"attachments": "agenda"},
	), token)
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, "unverified", resp.body["recipientType"])
	assert.Equal(t, float64(1), resp.body["sent"])
	require.Len(t, f.mail.sent, 1)
	require.Len(t, f.mail.sent[0].Attachments, 1)
	assert.Equal(t, []byte("agenda"), f.mail.sent[0].Attachments[0].Content)
}

func TestHealthAndFallbacks(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, httptest.NewRequest(http.MethodGet, "/health/live", nil), "")
	assert.Equal(t, http.StatusOK, resp.code)

	resp = f.do(t, httptest.NewRequest(http.MethodGet, "/health/ready", nil), "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.code)
	assert.Equal(t, map[string]any{"postgres": "unavailable"}, resp.body["dependencies"])

	resp = f.do(t, httptest.NewRequest(http.MethodGet, "/nowhere", nil), "")
	assert.Equal(t, http.StatusNotFound, resp.code)
	assert.Equal(t, false, resp.body["success"])
	assert.Equal(t, "NOT_FOUND", resp.body["code"])

	resp = f.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
	assert.Equal(t, http.StatusOK, resp.code)
}
