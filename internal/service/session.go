package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fare/internal/domain"
)

// DefaultSessionTTL is how long the latest attempt of an idle session is remembered.
const DefaultSessionTTL = 10 * time.Minute

// Tracker records the most recent estimation attempt of each session so that
// completions of older attempts can be discarded (last request wins).
type Tracker interface {
	// Begin registers a new attempt as the session's latest and returns its ID.
	Begin(ctx context.Context, sessionID string) (string, error)
	// IsLatest reports whether attemptID is still the session's latest attempt.
	IsLatest(ctx context.Context, sessionID, attemptID string) (bool, error)
	// Forget drops the session.
	Forget(ctx context.Context, sessionID string) error
}

// Ensure MemoryTracker implements Tracker.
var _ Tracker = (*MemoryTracker)(nil)

type trackedAttempt struct {
	id      string
	expires time.Time
}

// MemoryTracker is an in-process Tracker for single-instance deployments.
type MemoryTracker struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]trackedAttempt
}

// NewMemoryTracker creates a new MemoryTracker.
func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryTracker{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]trackedAttempt),
	}
}

func (t *MemoryTracker) Begin(_ context.Context, sessionID string) (string, error) {
	id := uuid.NewString()
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	for sid, a := range t.sessions {
		if now.After(a.expires) {
			delete(t.sessions, sid)
		}
	}
	t.sessions[sessionID] = trackedAttempt{id: id, expires: now.Add(t.ttl)}
	return id, nil
}

func (t *MemoryTracker) IsLatest(_ context.Context, sessionID, attemptID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.sessions[sessionID]
	return ok && a.id == attemptID, nil
}

func (t *MemoryTracker) Forget(_ context.Context, sessionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.sessions, sessionID)
	return nil
}

// Outcome is the single result delivered for a submitted attempt.
type Outcome struct {
	AttemptID string
	Quote     *domain.FareQuote
	Err       error
}

// SessionEstimator runs estimations per session and suppresses stale results.
type SessionEstimator struct {
	fares   *FareService
	tracker Tracker
	logger  *zap.Logger
}

// NewSessionEstimator creates a new SessionEstimator.
func NewSessionEstimator(fares *FareService, tracker Tracker, logger *zap.Logger) *SessionEstimator {
	return &SessionEstimator{
		fares:   fares,
		tracker: tracker,
		logger:  logger,
	}
}

// Submit registers a new attempt for sessionID and estimates raw in the
// background. The returned channel yields exactly one Outcome and is then
// closed. If a newer attempt for the same session is submitted before this
// one completes, the Outcome carries ErrSuperseded and no quote. An empty
// sessionID disables tracking.
func (s *SessionEstimator) Submit(ctx context.Context, sessionID string, raw RawRideRequest, mode Mode) (<-chan Outcome, error) {
	attemptID := uuid.NewString()
	if sessionID != "" {
		id, err := s.tracker.Begin(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("register attempt: %w", err)
		}
		attemptID = id
	}

	out := make(chan Outcome, 1)
	go func() {
		defer close(out)

		quote, err := s.fares.EstimateRaw(ctx, raw, mode)
		if sessionID != "" {
			if stale, checkErr := s.isStale(ctx, sessionID, attemptID); checkErr != nil {
				quote, err = nil, checkErr
			} else if stale {
				s.logger.Debug("discarding stale estimation",
					zap.String("session_id", sessionID),
					zap.String("attempt_id", attemptID),
				)
				quote, err = nil, ErrSuperseded
			}
		}
		out <- Outcome{AttemptID: attemptID, Quote: quote, Err: err}
	}()

	return out, nil
}

// Estimate submits raw and waits for its outcome.
func (s *SessionEstimator) Estimate(ctx context.Context, sessionID string, raw RawRideRequest, mode Mode) (*domain.FareQuote, error) {
	outc, err := s.Submit(ctx, sessionID, raw, mode)
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case outcome := <-outc:
		return outcome.Quote, outcome.Err
	}
}

// Close forgets sessionID.
func (s *SessionEstimator) Close(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.tracker.Forget(ctx, sessionID)
}

func (s *SessionEstimator) isStale(ctx context.Context, sessionID, attemptID string) (bool, error) {
	// the attempt's own context may already be cancelled by a newer submission
	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	latest, err := s.tracker.IsLatest(checkCtx, sessionID, attemptID)
	if err != nil {
		return false, fmt.Errorf("check latest attempt: %w", err)
	}
	return !latest, nil
}
