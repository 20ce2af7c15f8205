package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"fare/internal/domain"
	"fare/internal/geo"
)

const (
	// DefaultPredictionTimeout bounds a single call to the prediction service.
	DefaultPredictionTimeout = 5 * time.Second

	maxPredictionBody = 1 << 20
)

// predictionRequest is the wire payload sent to the prediction service.
type predictionRequest struct {
	PickupLongitude  float64 `json:"pickup_longitude"`
	PickupLatitude   float64 `json:"pickup_latitude"`
	DropoffLongitude float64 `json:"dropoff_longitude"`
	DropoffLatitude  float64 `json:"dropoff_latitude"`
	PassengerCount   int     `json:"passenger_count"`
}

// predictionResponse is the wire payload returned by the prediction service.
type predictionResponse struct {
	PredictedFare *float64 `json:"predicted_fare"`
}

// RemoteEstimator delegates pricing to an external model-serving endpoint.
// It never retries and never falls back to the local formula.
type RemoteEstimator struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	travel   TravelTimeEstimator
	logger   *zap.Logger
}

// NewRemoteEstimator creates a new RemoteEstimator. A nil client gets a
// default one whose transport reports external segments to New Relic.
func NewRemoteEstimator(
	endpoint string,
	timeout time.Duration,
	travel TravelTimeEstimator,
	client *http.Client,
	logger *zap.Logger,
) *RemoteEstimator {
	if timeout <= 0 {
		timeout = DefaultPredictionTimeout
	}
	if client == nil {
		client = &http.Client{Transport: newrelic.NewRoundTripper(http.DefaultTransport)}
	}
	return &RemoteEstimator{
		endpoint: endpoint,
		client:   client,
		timeout:  timeout,
		travel:   travel,
		logger:   logger,
	}
}

// Estimate submits req to the prediction service and relays its prediction.
func (e *RemoteEstimator) Estimate(ctx context.Context, req domain.RideRequest) (*domain.FareQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := json.Marshal(newPredictionRequest(req))
	if err != nil {
		return nil, &RemoteEstimationError{Kind: RemoteErrorTransport, Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &RemoteEstimationError{Kind: RemoteErrorTransport, Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, e.fail(ctx, classifyTransportError(ctx, err), start)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPredictionBody))
		return nil, e.fail(ctx, &RemoteEstimationError{Kind: RemoteErrorStatus, StatusCode: resp.StatusCode}, start)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPredictionBody))
	if err != nil {
		return nil, e.fail(ctx, classifyTransportError(ctx, err), start)
	}

	amount, err := parsePrediction(raw)
	if err != nil {
		return nil, e.fail(ctx, &RemoteEstimationError{Kind: RemoteErrorMalformed, Cause: err}, start)
	}

	km := geo.Distance(req.Pickup(), req.Dropoff()).Kilometers()
	e.logger.Debug("prediction received",
		zap.String("endpoint", e.endpoint),
		zap.Float64("predicted_fare", amount),
		zap.Duration("latency", time.Since(start)),
	)

	return &domain.FareQuote{
		AmountUSD:         amount,
		DistanceKm:        km,
		TravelTimeMinutes: e.travel.EstimateMinutes(km),
		SurgeApplied:      false,
		Source:            domain.SourceRemote,
	}, nil
}

func (e *RemoteEstimator) fail(ctx context.Context, err *RemoteEstimationError, start time.Time) error {
	e.logger.Warn("prediction request failed",
		zap.String("endpoint", e.endpoint),
		zap.String("kind", string(err.Kind)),
		zap.Int("status", err.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err.Cause),
	)
	newrelic.FromContext(ctx).NoticeError(err)
	return err
}

func newPredictionRequest(req domain.RideRequest) predictionRequest {
	return predictionRequest{
		PickupLongitude:  req.Pickup().Longitude,
		PickupLatitude:   req.Pickup().Latitude,
		DropoffLongitude: req.Dropoff().Longitude,
		DropoffLatitude:  req.Dropoff().Latitude,
		PassengerCount:   req.PassengerCount(),
	}
}

// parsePrediction accepts only a JSON object with a finite, non-negative predicted_fare.
func parsePrediction(raw []byte) (float64, error) {
	var resp predictionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPrediction, err)
	}
	if resp.PredictedFare == nil {
		return 0, fmt.Errorf("%w: missing predicted_fare", ErrMalformedPrediction)
	}

	fare := *resp.PredictedFare
	if !isFinite(fare) || fare < 0 {
		return 0, fmt.Errorf("%w: predicted_fare %v out of range", ErrMalformedPrediction, fare)
	}
	return fare, nil
}

// classifyTransportError separates deadline expiry from other transport failures.
func classifyTransportError(ctx context.Context, err error) *RemoteEstimationError {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &RemoteEstimationError{Kind: RemoteErrorTimeout, Cause: ErrRemoteTimeout}
	}
	return &RemoteEstimationError{Kind: RemoteErrorTransport, Cause: err}
}
