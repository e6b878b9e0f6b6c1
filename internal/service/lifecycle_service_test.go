package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/events"
	"github.com/niftrix/referral-admin/internal/mailer"
	"github.com/niftrix/referral-admin/internal/observability"
	"github.com/niftrix/referral-admin/internal/repository"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

// memUserStore emulates row locks and transactional staging over a map.
type memUserStore struct {
	mu    sync.Mutex
	rows  map[int64]domain.User
	locks map[int64]*sync.Mutex
	calls atomic.Int64
}

func newMemUserStore(users ...domain.User) *memUserStore {
	s := &memUserStore{rows: map[int64]domain.User{}, locks: map[int64]*sync.Mutex{}}
	for _, u := range users {
		s.rows[u.ID] = u
		s.locks[u.ID] = &sync.Mutex{}
	}
	return s
}

func (s *memUserStore) status(id int64) domain.UserStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id].Status
}

func (s *memUserStore) rowLock(id int64) (*sync.Mutex, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	return l, ok
}

func (s *memUserStore) WithinTx(ctx context.Context, fn func(tx repository.UserTx) error) error {
	s.calls.Add(1)
	tx := &memUserTx{store: s, staged: map[int64]domain.UserStatus{}}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, status := range tx.staged {
		row := s.rows[id]
		row.Status = status
		s.rows[id] = row
	}
	return nil
}

func (s *memUserStore) SuspendUnlessSuspended(ctx context.Context, id int64) (bool, error) {
	s.calls.Add(1)
	l, ok := s.rowLock(id)
	if !ok {
		return false, nil
	}
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.rows[id]
	if row.Status == domain.UserStatusSuspended {
		return false, nil
	}
	row.Status = domain.UserStatusSuspended
	s.rows[id] = row
	return true, nil
}

func (s *memUserStore) GetStatus(ctx context.Context, id int64) (domain.UserStatus, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return row.Status, nil
}

type memUserTx struct {
	store  *memUserStore
	staged map[int64]domain.UserStatus
	held   []*sync.Mutex
}

func (t *memUserTx) GetForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	l, ok := t.store.rowLock(id)
	if !ok {
		return nil, pgx.ErrNoRows
	}
	l.Lock()
	t.held = append(t.held, l)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	row := t.store.rows[id]
	if st, ok := t.staged[id]; ok {
		row.Status = st
	}
	return &row, nil
}

func (t *memUserTx) SetStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	t.staged[id] = status
	return nil
}

func (t *memUserTx) release() {
	for _, l := range t.held {
		l.Unlock()
	}
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []mailer.Message
	send  func(ctx context.Context, msg mailer.Message) (mailer.Result, error)
	calls int
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) (mailer.Result, error) {
	f.mu.Lock()
	f.calls++
	fn := f.send
	f.mu.Unlock()

	if fn != nil {
		res, err := fn(ctx, msg)
		if err != nil {
			return res, err
		}
		f.mu.Lock()
		f.sent = append(f.sent, msg)
		f.mu.Unlock()
		return res, nil
	}
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	return mailer.Result{MessageID: "m1", PreviewURL: "http://preview/m1"}, nil
}

func (f *fakeSender) OpenSession(ctx context.Context) (mailer.Session, error) {
	return &fakeSession{sender: f}, nil
}

type fakeSession struct {
	sender *fakeSender
	closed bool
}

func (s *fakeSession) Send(ctx context.Context, msg mailer.Message) (mailer.Result, error) {
	return s.sender.Send(ctx, msg)
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func newLifecycle(store repository.UserLifecycleRepository, sender mailer.Sender) *LifecycleService {
	return NewLifecycleService(LifecycleDependencies{
		Users:   store,
		Mail:    sender,
		Timeout: time.Second,
		Metrics: observability.NewMetrics(),
	})
}

func assertCode(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, code, de.Code)
	if message != "" {
		assert.Equal(t, message, de.Message)
	}
}

func TestVerifyUser(t *testing.T) {
	t.Run("new user with email", func(t *testing.T) {
		store := newMemUserStore(domain.User{ID: 42, Email: "a@x.com", FirstName: "Ana", Status: domain.UserStatusNew})
		sender := &fakeSender{}

		res, err := newLifecycle(store, sender).VerifyUser(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, domain.UserStatusActive, res.Status)
		assert.True(t, res.NotificationSent)
		assert.Equal(t, "http://preview/m1", res.PreviewURL)
		assert.Equal(t, domain.UserStatusActive, store.status(42))
		require.Len(t, sender.sent, 1)
		assert.Equal(t, []string{"a@x.com"}, sender.sent[0].To)
		assert.Contains(t, sender.sent[0].Text, "Dear Ana,")
	})

	t.Run("new user without email", func(t *testing.T) {
		store := newMemUserStore(domain.User{ID: 7, Status: domain.UserStatusNew})
		sender := &fakeSender{}

		res, err := newLifecycle(store, sender).VerifyUser(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, res.NotificationSent)
		assert.Empty(t, res.PreviewURL)
		assert.Equal(t, domain.UserStatusActive, store.status(7))
		assert.Zero(t, sender.calls)
	})

	t.Run("already active", func(t *testing.T) {
		store := newMemUserStore(domain.User{ID: 42, Email: "a@x.com", Status: domain.UserStatusActive})
		sender := &fakeSender{}

		_, err := newLifecycle(store, sender).VerifyUser(context.Background(), 42)
		assertCode(t, err, apperrors.CodeConflict, "already active")
		assert.Equal(t, domain.UserStatusActive, store.status(42))
		assert.Zero(t, sender.calls)
	})

	t.Run("suspended", func(t *testing.T) {
		store := newMemUserStore(domain.User{ID: 42, Email: "a@x.com", Status: domain.UserStatusSuspended})

		_, err := newLifecycle(store, &fakeSender{}).VerifyUser(context.Background(), 42)
		assertCode(t, err, apperrors.CodeConflict, "only NEW users can be verified")
		assert.Equal(t, domain.UserStatusSuspended, store.status(42))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := newLifecycle(newMemUserStore(), &fakeSender{}).VerifyUser(context.Background(), 404)
		assertCode(t, err, apperrors.CodeNotFound, "user not found")
	})

	t.Run("mail failure rolls back", func(t *testing.T) {
		store := newMemUserStore(domain.User{ID: 42, Email: "a@x.com", Status: domain.UserStatusNew})
		sender := &fakeSender{send: func(context.Context, mailer.Message) (mailer.Result, error) {
			return mailer.Result{}, errors.New("relay refused")
		}}

		_, err := newLifecycle(store, sender).VerifyUser(context.Background(), 42)
		assertCode(t, err, apperrors.CodeDependencyFailure, "email failed")
		assert.Equal(t, domain.UserStatusNew, store.status(42))
	})

	t.Run("mail timeout rolls back", func(t *testing.T) {
		store := newMemUserStore(domain.User{ID: 42, Email: "a@x.com", Status: domain.UserStatusNew})
		sender := &fakeSender{send: func(ctx context.Context, _ mailer.Message) (mailer.Result, error) {
			<-ctx.Done()
			return mailer.Result{}, ctx.Err()
		}}
		svc := NewLifecycleService(LifecycleDependencies{Users: store, Mail: sender, Timeout: 30 * time.Millisecond})

		_, err := svc.VerifyUser(context.Background(), 42)
		assertCode(t, err, apperrors.CodeDependencyFailure, "email failed")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, domain.UserStatusNew, store.status(42))
	})
}

func TestVerifyUser_MailFailureNeverCommits(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := int64(1); i <= 50; i++ {
		fail := rng.Intn(2) == 0
		store := newMemUserStore(domain.User{ID: i, Email: "u@x.com", Status: domain.UserStatusNew})
		sender := &fakeSender{send: func(context.Context, mailer.Message) (mailer.Result, error) {
			if fail {
				return mailer.Result{}, errors.New("injected")
			}
			return mailer.Result{}, nil
		}}

		_, err := newLifecycle(store, sender).VerifyUser(context.Background(), i)
		if fail {
			require.Error(t, err)
			assert.Equal(t, domain.UserStatusNew, store.status(i))
		} else {
			require.NoError(t, err)
			assert.Equal(t, domain.UserStatusActive, store.status(i))
		}
	}
}

func TestVerifyUser_ConcurrentSerializes(t *testing.T) {
	store := newMemUserStore(domain.User{ID: 42, Email: "a@x.com", Status: domain.UserStatusNew})
	sender := &fakeSender{send: func(context.Context, mailer.Message) (mailer.Result, error) {
		time.Sleep(10 * time.Millisecond)
		return mailer.Result{}, nil
	}}
	svc := newLifecycle(store, sender)

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.VerifyUser(context.Background(), 42)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assertCode(t, err, apperrors.CodeConflict, "already active")
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, sender.calls)
}

func TestSuspendUser(t *testing.T) {
	for _, from := range []domain.UserStatus{domain.UserStatusNew, domain.UserStatusActive} {
		t.Run(string(from), func(t *testing.T) {
			store := newMemUserStore(domain.User{ID: 9, Status: from})

			res, err := newLifecycle(store, &fakeSender{}).SuspendUser(context.Background(), 9)
			require.NoError(t, err)
			assert.Equal(t, domain.UserStatusSuspended, res.Status)
			assert.Equal(t, int64(9), res.UserID)
			assert.Equal(t, domain.UserStatusSuspended, store.status(9))
		})
	}

	t.Run("already suspended", func(t *testing.T) {
		store := newMemUserStore(domain.User{ID: 9, Status: domain.UserStatusSuspended})
		_, err := newLifecycle(store, &fakeSender{}).SuspendUser(context.Background(), 9)
		assertCode(t, err, apperrors.CodeConflict, "already suspended")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := newLifecycle(newMemUserStore(), &fakeSender{}).SuspendUser(context.Background(), 9)
		assertCode(t, err, apperrors.CodeNotFound, "user not found")
	})
}

func TestSuspendUser_ConcurrentExactlyOnce(t *testing.T) {
	store := newMemUserStore(domain.User{ID: 9, Status: domain.UserStatusNew})
	svc := newLifecycle(store, &fakeSender{})

	const callers = 8
	var wg sync.WaitGroup
	var successes, conflicts atomic.Int64
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SuspendUser(context.Background(), 9)
			switch {
			case err == nil:
				successes.Add(1)
			case apperrors.IsCode(err, apperrors.CodeConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), successes.Load())
	assert.Equal(t, int64(callers-1), conflicts.Load())
}

func TestLifecycle_InvalidIDsSkipStore(t *testing.T) {
	store := newMemUserStore(domain.User{ID: 1, Status: domain.UserStatusNew})
	svc := newLifecycle(store, &fakeSender{})

	for _, id := range []int64{0, -5} {
		_, err := svc.VerifyUser(context.Background(), id)
		assertCode(t, err, apperrors.CodeValidation, "")
		_, err = svc.SuspendUser(context.Background(), id)
		assertCode(t, err, apperrors.CodeValidation, "")
	}
	assert.Zero(t, store.calls.Load())
}

type mockLifecycleRepo struct {
	mock.Mock
}

func (m *mockLifecycleRepo) WithinTx(ctx context.Context, fn func(tx repository.UserTx) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func (m *mockLifecycleRepo) SuspendUnlessSuspended(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockLifecycleRepo) GetStatus(ctx context.Context, id int64) (domain.UserStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.UserStatus), args.Error(1)
}

func TestSuspendUser_UnexpectedState(t *testing.T) {
	repo := &mockLifecycleRepo{}
	repo.On("SuspendUnlessSuspended", mock.Anything, int64(9)).Return(false, nil)
	repo.On("GetStatus", mock.Anything, int64(9)).Return(domain.UserStatusActive, nil)

	_, err := newLifecycle(repo, &fakeSender{}).SuspendUser(context.Background(), 9)
	assertCode(t, err, apperrors.CodeInternal, "internal server error")
	repo.AssertExpectations(t)
}

func TestLifecycle_StoreErrorsAreInternal(t *testing.T) {
	repo := &mockLifecycleRepo{}
	repo.On("SuspendUnlessSuspended", mock.Anything, int64(9)).Return(false, errors.New("connection reset"))
	repo.On("WithinTx", mock.Anything, mock.Anything).Return(errors.New("commit failed"))

	svc := newLifecycle(repo, &fakeSender{})

	_, err := svc.SuspendUser(context.Background(), 9)
	assertCode(t, err, apperrors.CodeInternal, "")

	_, err = svc.VerifyUser(context.Background(), 9)
	assertCode(t, err, apperrors.CodeInternal, "")
	repo.AssertExpectations(t)
}

func TestLifecycle_PublishesCommittedTransitions(t *testing.T) {
	store := newMemUserStore(
		domain.User{ID: 1, Email: "a@x.com", Status: domain.UserStatusNew},
		domain.User{ID: 2, Status: domain.UserStatusActive},
	)
	dispatcher := events.NewInMemoryDispatcher()
	var got []events.Event
	record := func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	}
	dispatcher.Subscribe(events.EventUserVerified, record)
	dispatcher.Subscribe(events.EventUserSuspended, record)

	svc := NewLifecycleService(LifecycleDependencies{Users: store, Mail: &fakeSender{}, Dispatcher: dispatcher})
	ctx := events.WithActor(context.Background(), 11)

	_, err := svc.VerifyUser(ctx, 1)
	require.NoError(t, err)
	_, err = svc.SuspendUser(ctx, 2)
	require.NoError(t, err)
	_, err = svc.SuspendUser(ctx, 2)
	assertCode(t, err, apperrors.CodeConflict, "already suspended")

	require.Len(t, got, 2)
	assert.Equal(t, events.EventUserVerified, got[0].Type)
	assert.Equal(t, int64(1), got[0].UserID)
	assert.Equal(t, int64(11), got[0].Actor.AdminID)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, events.StatusChangedPayload{
		OldStatus:        domain.UserStatusNew,
		NewStatus:        domain.UserStatusActive,
		NotificationSent: true,
	}, got[0].Payload)
	assert.Equal(t, events.EventUserSuspended, got[1].Type)
	assert.Equal(t, int64(2), got[1].UserID)
}

func TestLifecycle_FailingSubscriberKeepsTransition(t *testing.T) {
	store := newMemUserStore(domain.User{ID: 1, Status: domain.UserStatusNew})
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventUserSuspended, func(context.Context, events.Event) error {
		return errors.New("audit sink down")
	})

	svc := NewLifecycleService(LifecycleDependencies{Users: store, Mail: &fakeSender{}, Dispatcher: dispatcher})
	_, err := svc.SuspendUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, store.status(1))
}
