package service

import (
	"context"
	"sync"
	"time"

	"creative-tools-api/internal/domain"
	"creative-tools-api/internal/repository"

	"github.com/supabase-community/supabase-go"
)

// MockLogger records messages for assertions
type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{messages: []string{}}
}

func (m *MockLogger) Info(msg string, args ...interface{})  { m.add("INFO: " + msg) }
func (m *MockLogger) Debug(msg string, args ...interface{}) { m.add("DEBUG: " + msg) }
func (m *MockLogger) Warn(msg string, args ...interface{})  { m.add("WARN: " + msg) }
func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	if err != nil {
		msg += " - " + err.Error()
	}
	m.add("ERROR: " + msg)
}

func (m *MockLogger) add(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, s)
}

func (m *MockLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// countingRepo wraps a real repository and counts writes.
type countingRepo struct {
	domain.SubscriptionRepository
	mu         sync.Mutex
	creates    int
	resets     int
	increments int
}

func (c *countingRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	c.mu.Lock()
	c.creates++
	c.mu.Unlock()
	return c.SubscriptionRepository.Create(ctx, sub)
}

func (c *countingRepo) ResetUsage(ctx context.Context, userID string, at time.Time) error {
	c.mu.Lock()
	c.resets++
	c.mu.Unlock()
	return c.SubscriptionRepository.ResetUsage(ctx, userID, at)
}

func (c *countingRepo) IncrementUsage(ctx context.Context, userID string, tool domain.ToolID) error {
	c.mu.Lock()
	c.increments++
	c.mu.Unlock()
	return c.SubscriptionRepository.IncrementUsage(ctx, userID, tool)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type meteringFixture struct {
	store  *repository.MemoryDocumentStore
	repo   *countingRepo
	subs   *subscriptionService
	gate   *usageGate
	clock  *fakeClock
	logger *MockLogger
}

func newMeteringFixture(locker domain.Locker) *meteringFixture {
	logger := NewMockLogger()
	store := repository.NewMemoryDocumentStore()
	repo := &countingRepo{SubscriptionRepository: repository.NewSubscriptionRepository(store, logger)}
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	subs := NewSubscriptionService(repo, logger, clock.Now)
	return &meteringFixture{
		store:  store,
		repo:   repo,
		subs:   subs,
		gate:   NewUsageGate(subs, repo, locker, logger),
		clock:  clock,
		logger: logger,
	}
}

// seed writes a raw subscription document.
func (f *meteringFixture) seed(userID string, doc domain.Document) {
	_ = f.store.Set(context.Background(), repository.SubscriptionsCollection, userID, doc, domain.SetOptions{})
}

// fakeBackend returns canned results and records requests.
type fakeBackend struct {
	mu       sync.Mutex
	result   *domain.GenerationResult
	err      error
	requests []domain.GenerationRequest
}

func (b *fakeBackend) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	if b.err != nil {
		return nil, b.err
	}
	return b.result, nil
}

func (b *fakeBackend) lastRequest() domain.GenerationRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[len(b.requests)-1]
}

// fakeGallery records saves and can be made to fail.
type fakeGallery struct {
	mu    sync.Mutex
	err   error
	saved []string
}

func (g *fakeGallery) Save(ctx context.Context, userID string, tool domain.ToolID, mediaURL, prompt string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.saved = append(g.saved, string(tool)+":"+prompt)
	return nil
}

func (g *fakeGallery) List(ctx context.Context, userID string) ([]*domain.GalleryImage, error) {
	return nil, nil
}

func (g *fakeGallery) Delete(ctx context.Context, userID, imageID string) error { return nil }

// MockSupabaseClient for testing
type MockSupabaseClient struct {
	users map[string]*domain.SupabaseUser
}

func NewMockSupabaseClient() *MockSupabaseClient {
	return &MockSupabaseClient{
		users: map[string]*domain.SupabaseUser{
			"valid-token": {ID: "user-123", Email: "test@example.com"},
		},
	}
}

func (m *MockSupabaseClient) Initialize() error { return nil }

func (m *MockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if user, ok := m.users[token]; ok {
		return user, nil
	}
	return nil, domain.ErrInvalidToken
}

func (m *MockSupabaseClient) DB() *supabase.Client { return nil }
