package tests

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"fare/internal/domain"
	"fare/internal/service"
)

func manhattanRaw() service.RawRideRequest {
	return service.RawRideRequest{
		PickupLatitude:   "40.7128",
		PickupLongitude:  "-74.0060",
		DropoffLatitude:  "40.7306",
		DropoffLongitude: "-73.9352",
		PassengerCount:   "2",
	}
}

func localAt(hour int) *service.LocalEstimator {
	now := time.Date(2026, 6, 1, hour, 0, 0, 0, time.UTC)
	return service.NewLocalEstimator(
		service.NewTravelTimeEstimator(service.DefaultAverageSpeedKmh),
		service.NewSurgePolicy(service.DefaultSurgeConfig()),
		service.NewFareCalculator(service.DefaultFareRates()),
		service.WithClock(func() time.Time { return now }),
		service.WithLocation(time.UTC),
	)
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ──────────────────────────────────────────────
// 1. LOCAL ESTIMATION
// ──────────────────────────────────────────────

func TestScenario_LocalOffPeak(t *testing.T) {
	t.Parallel()

	fares := service.NewFareService(localAt(12), nil, service.ModeLocal, zap.NewNop())

	quote, err := fares.EstimateRaw(context.Background(), manhattanRaw(), service.ModeLocal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !approx(quote.DistanceKm, 6.2863, 0.001) {
		t.Errorf("expected distance ~6.286 km, got %v", quote.DistanceKm)
	}
	if !approx(quote.TravelTimeMinutes, 9.4294, 0.001) {
		t.Errorf("expected travel time ~9.43 min, got %v", quote.TravelTimeMinutes)
	}
	if !approx(quote.AmountUSD, 14.7868, 0.001) {
		t.Errorf("expected fare ~14.79, got %v", quote.AmountUSD)
	}
	if quote.SurgeApplied {
		t.Error("expected no surge at noon")
	}
}

func TestScenario_LocalPeak(t *testing.T) {
	t.Parallel()

	offPeak, err := service.NewFareService(localAt(12), nil, "", zap.NewNop()).
		EstimateRaw(context.Background(), manhattanRaw(), service.ModeLocal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	peak, err := service.NewFareService(localAt(8), nil, "", zap.NewNop()).
		EstimateRaw(context.Background(), manhattanRaw(), service.ModeLocal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !peak.SurgeApplied {
		t.Error("expected surge at 08:00")
	}
	if !approx(peak.AmountUSD, offPeak.AmountUSD*1.5, 1e-9) {
		t.Errorf("expected peak fare %v, got %v", offPeak.AmountUSD*1.5, peak.AmountUSD)
	}
	if !approx(peak.AmountUSD, 22.1801, 0.001) {
		t.Errorf("expected peak fare ~22.18, got %v", peak.AmountUSD)
	}
}

// ──────────────────────────────────────────────
// 2. REMOTE ESTIMATION
// ──────────────────────────────────────────────

func TestScenario_RemoteMissingPrediction_NoQuoteNoFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	local := NewMockEstimator(domain.FareQuote{AmountUSD: 1, Source: domain.SourceLocal})
	remote := service.NewRemoteEstimator(srv.URL, time.Second,
		service.NewTravelTimeEstimator(service.DefaultAverageSpeedKmh), nil, zap.NewNop())
	fares := service.NewFareService(local, remote, service.ModeRemote, zap.NewNop())

	quote, err := fares.EstimateRaw(context.Background(), manhattanRaw(), service.ModeRemote)

	if quote != nil {
		t.Errorf("expected no quote, got %+v", quote)
	}
	var remoteErr *service.RemoteEstimationError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteEstimationError, got %v", err)
	}
	if remoteErr.Kind != service.RemoteErrorMalformed {
		t.Errorf("expected kind %q, got %q", service.RemoteErrorMalformed, remoteErr.Kind)
	}
	if local.Calls() != 0 {
		t.Errorf("expected no local fallback, local called %d times", local.Calls())
	}
}

// ──────────────────────────────────────────────
// 3. VALIDATION BEFORE ESTIMATION
// ──────────────────────────────────────────────

func TestScenario_InvalidPassengerCount_NoStrategyInvoked(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		passengers string
	}{
		{name: "too many", passengers: "9"},
		{name: "zero", passengers: "0"},
		{name: "fractional", passengers: "3.5"},
		{name: "word", passengers: "nine"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			local := NewMockEstimator(domain.FareQuote{Source: domain.SourceLocal})
			remote := NewMockEstimator(domain.FareQuote{Source: domain.SourceRemote})
			fares := service.NewFareService(local, remote, service.ModeLocal, zap.NewNop())

			raw := manhattanRaw()
			raw.PassengerCount = tc.passengers

			for _, mode := range []service.Mode{service.ModeLocal, service.ModeRemote} {
				_, err := fares.EstimateRaw(context.Background(), raw, mode)

				var verr *domain.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if verr.Field != domain.FieldPassengerCount {
					t.Errorf("expected field %q, got %q", domain.FieldPassengerCount, verr.Field)
				}
			}

			if local.Calls() != 0 || remote.Calls() != 0 {
				t.Errorf("expected no estimation, got local=%d remote=%d", local.Calls(), remote.Calls())
			}
		})
	}
}

func TestScenario_ValidRequestReachesStrategyUnchanged(t *testing.T) {
	t.Parallel()

	remote := NewMockEstimator(domain.FareQuote{AmountUSD: 20, Source: domain.SourceRemote})
	fares := service.NewFareService(localAt(12), remote, service.ModeRemote, zap.NewNop())

	if _, err := fares.EstimateRaw(context.Background(), manhattanRaw(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, ok := remote.LastRequest()
	if !ok {
		t.Fatal("expected remote strategy to be called")
	}
	if req.Pickup().Latitude != 40.7128 || req.Dropoff().Longitude != -73.9352 || req.PassengerCount() != 2 {
		t.Errorf("unexpected request forwarded: %+v %+v %d", req.Pickup(), req.Dropoff(), req.PassengerCount())
	}
}

// ──────────────────────────────────────────────
// 4. SESSION TRACKING FAILURES
// ──────────────────────────────────────────────

func TestSession_TrackerBeginError_Propagates(t *testing.T) {
	t.Parallel()

	tracker := NewMockTracker()
	tracker.BeginError = errors.New("redis down")
	local := NewMockEstimator(domain.FareQuote{Source: domain.SourceLocal})
	sessions := service.NewSessionEstimator(
		service.NewFareService(local, nil, service.ModeLocal, zap.NewNop()), tracker, zap.NewNop())

	_, err := sessions.Submit(context.Background(), "rider-1", manhattanRaw(), service.ModeLocal)
	if err == nil {
		t.Fatal("expected error when attempt cannot be registered")
	}
	if local.Calls() != 0 {
		t.Errorf("expected no estimation, got %d calls", local.Calls())
	}
}

func TestSession_TrackerCheckError_DeliversErrorNotQuote(t *testing.T) {
	t.Parallel()

	tracker := NewMockTracker()
	tracker.IsLatestError = errors.New("redis down")
	local := NewMockEstimator(domain.FareQuote{AmountUSD: 9, Source: domain.SourceLocal})
	sessions := service.NewSessionEstimator(
		service.NewFareService(local, nil, service.ModeLocal, zap.NewNop()), tracker, zap.NewNop())

	quote, err := sessions.Estimate(context.Background(), "rider-1", manhattanRaw(), service.ModeLocal)
	if err == nil {
		t.Fatal("expected error when staleness cannot be checked")
	}
	if quote != nil {
		t.Errorf("expected no quote, got %+v", quote)
	}
}

func TestSession_SequentialRequestsBothAnswered(t *testing.T) {
	t.Parallel()

	tracker := NewMockTracker()
	local := NewMockEstimator(domain.FareQuote{AmountUSD: 9, Source: domain.SourceLocal})
	sessions := service.NewSessionEstimator(
		service.NewFareService(local, nil, service.ModeLocal, zap.NewNop()), tracker, zap.NewNop())

	for i := 0; i < 3; i++ {
		if _, err := sessions.Estimate(context.Background(), "rider-1", manhattanRaw(), service.ModeLocal); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}
	if tracker.BeginCallCount != 3 || tracker.IsLatestCallCount != 3 {
		t.Errorf("expected 3 begin/check calls, got %d/%d", tracker.BeginCallCount, tracker.IsLatestCallCount)
	}
}
