//go:build !integration

package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/KrappRamiro/zero2prod/internal/domain"
	"github.com/KrappRamiro/zero2prod/internal/domain/model"
	"github.com/KrappRamiro/zero2prod/internal/domain/ports/adapter"
	"github.com/KrappRamiro/zero2prod/internal/domain/ports/repository"
)

// memSubscriberRepo is a small in-memory implementation used by unit tests.
// Any Func field, when set, overrides the default behavior of that method.
type memSubscriberRepo struct {
	mu     sync.RWMutex
	byID   map[string]*model.Subscriber
	tokens map[string]string // token -> subscriber id

	InsertFunc        func(ctx context.Context, tx repository.Tx, sub *model.Subscriber) error
	InsertTokenFunc   func(ctx context.Context, tx repository.Tx, token, subscriberID string) error
	MarkConfirmedFunc func(ctx context.Context, tx repository.Tx, subscriberID string) error
	ListConfirmedFunc func(ctx context.Context, tx repository.Tx) ([]string, error)
}

var _ repository.SubscriberRepository = (*memSubscriberRepo)(nil)

func newMemSubscriberRepo() *memSubscriberRepo {
	return &memSubscriberRepo{
		byID:   make(map[string]*model.Subscriber),
		tokens: make(map[string]string),
	}
}

func (m *memSubscriberRepo) Insert(ctx context.Context, tx repository.Tx, sub *model.Subscriber) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email.String() == sub.Email.String() {
			return domain.ErrAlreadyExists
		}
	}
	cp := *sub
	m.byID[sub.ID] = &cp
	return nil
}

func (m *memSubscriberRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Subscriber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.byID {
		if sub.Email.String() == email {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memSubscriberRepo) InsertToken(ctx context.Context, tx repository.Tx, token, subscriberID string) error {
	if m.InsertTokenFunc != nil {
		return m.InsertTokenFunc(ctx, tx, token, subscriberID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = subscriberID
	return nil
}

func (m *memSubscriberRepo) TokenForSubscriber(ctx context.Context, tx repository.Tx, subscriberID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for token, id := range m.tokens {
		if id == subscriberID {
			return token, nil
		}
	}
	return "", domain.ErrNotFound
}

func (m *memSubscriberRepo) SubscriberIDForToken(ctx context.Context, tx repository.Tx, token string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.tokens[token]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (m *memSubscriberRepo) MarkConfirmed(ctx context.Context, tx repository.Tx, subscriberID string) error {
	if m.MarkConfirmedFunc != nil {
		return m.MarkConfirmedFunc(ctx, tx, subscriberID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.byID[subscriberID]
	if !ok {
		return domain.ErrNotFound
	}
	sub.Status = model.SubscriberStatusConfirmed
	return nil
}

func (m *memSubscriberRepo) ListConfirmedEmails(ctx context.Context, tx repository.Tx) ([]string, error) {
	if m.ListConfirmedFunc != nil {
		return m.ListConfirmedFunc(ctx, tx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for _, sub := range m.byID {
		if sub.Status == model.SubscriberStatusConfirmed {
			out = append(out, sub.Email.String())
		}
	}
	return out, nil
}

// MockTxManager runs the transactional function directly by default; assign
// WithTxFunc to control commit/rollback behavior in a specific test.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// fakeEmailSender records every message it is asked to deliver.
type fakeEmailSender struct {
	mu       sync.Mutex
	sent     []adapter.Message
	SendFunc func(ctx context.Context, msg adapter.Message) error
}

var _ adapter.EmailSender = (*fakeEmailSender)(nil)

func (f *fakeEmailSender) Send(ctx context.Context, msg adapter.Message) error {
	if f.SendFunc != nil {
		if err := f.SendFunc(ctx, msg); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeEmailSender) messages() []adapter.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]adapter.Message, len(f.sent))
	copy(out, f.sent)
	return out
}

// memIdemStore is an in-memory adapter.IdempotencyStore.
type memIdemStore struct {
	mu    sync.Mutex
	store map[string][]byte
}

var _ adapter.IdempotencyStore = (*memIdemStore)(nil)

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{store: make(map[string][]byte)}
}

func (m *memIdemStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.store[key]
	return v, ok, nil
}

func (m *memIdemStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = value
	return nil
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
