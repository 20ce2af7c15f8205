package tests

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"fare/internal/domain"
	"fare/internal/service"
)

// ──────────────────────────────────────────────
// MOCK ESTIMATOR
// ──────────────────────────────────────────────

// MockEstimator is a mock implementation of service.Estimator.
type MockEstimator struct {
	mu       sync.Mutex
	requests []domain.RideRequest

	// Quote returned on success.
	Quote domain.FareQuote

	// Counters for verification
	EstimateCallCount int32

	// Error injection
	EstimateError error
}

// NewMockEstimator creates a mock estimator that answers with quote.
func NewMockEstimator(quote domain.FareQuote) *MockEstimator {
	return &MockEstimator{Quote: quote}
}

func (m *MockEstimator) Estimate(ctx context.Context, req domain.RideRequest) (*domain.FareQuote, error) {
	atomic.AddInt32(&m.EstimateCallCount, 1)
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.EstimateError != nil {
		return nil, m.EstimateError
	}
	q := m.Quote
	return &q, nil
}

// Calls returns how many times Estimate was called.
func (m *MockEstimator) Calls() int {
	return int(atomic.LoadInt32(&m.EstimateCallCount))
}

// LastRequest returns the most recent request passed to Estimate.
func (m *MockEstimator) LastRequest() (domain.RideRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return domain.RideRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// ──────────────────────────────────────────────
// MOCK TRACKER
// ──────────────────────────────────────────────

// MockTracker is a mock implementation of service.Tracker.
type MockTracker struct {
	mu     sync.Mutex
	latest map[string]string

	// Counters
	BeginCallCount    int32
	IsLatestCallCount int32

	// Error injection
	BeginError    error
	IsLatestError error
}

// NewMockTracker creates a new mock tracker.
func NewMockTracker() *MockTracker {
	return &MockTracker{latest: make(map[string]string)}
}

func (m *MockTracker) Begin(ctx context.Context, sessionID string) (string, error) {
	atomic.AddInt32(&m.BeginCallCount, 1)
	if m.BeginError != nil {
		return "", m.BeginError
	}
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest[sessionID] = id
	return id, nil
}

func (m *MockTracker) IsLatest(ctx context.Context, sessionID, attemptID string) (bool, error) {
	atomic.AddInt32(&m.IsLatestCallCount, 1)
	if m.IsLatestError != nil {
		return false, m.IsLatestError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest[sessionID] == attemptID, nil
}

func (m *MockTracker) Forget(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.latest, sessionID)
	return nil
}

// Ensure mocks implement the service interfaces.
var (
	_ service.Estimator = (*MockEstimator)(nil)
	_ service.Tracker   = (*MockTracker)(nil)
)
