package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMode is returned when an estimation mode is not recognised.
	ErrUnknownMode = errors.New("unknown estimation mode")

	// ErrRemoteNotConfigured is returned when remote mode is requested without a prediction endpoint.
	ErrRemoteNotConfigured = errors.New("remote estimation is not configured")

	// ErrSuperseded is returned for an attempt that a newer submission in the same session replaced.
	ErrSuperseded = errors.New("estimation superseded by a newer request")

	// ErrRemoteTimeout is the cause of a RemoteEstimationError of kind RemoteErrorTimeout.
	ErrRemoteTimeout = errors.New("prediction service timed out")

	// ErrMalformedPrediction is the cause of a RemoteEstimationError for an unusable response body.
	ErrMalformedPrediction = errors.New("malformed prediction response")
)

// RemoteErrorKind classifies a RemoteEstimationError.
type RemoteErrorKind string

const (
	RemoteErrorTransport RemoteErrorKind = "transport"
	RemoteErrorStatus    RemoteErrorKind = "status"
	RemoteErrorMalformed RemoteErrorKind = "malformed_response"
	RemoteErrorTimeout   RemoteErrorKind = "timeout"
)

// RemoteEstimationError is returned when the prediction service cannot produce a quote.
type RemoteEstimationError struct {
	Kind       RemoteErrorKind
	StatusCode int // set for RemoteErrorStatus
	Cause      error
}

func (e *RemoteEstimationError) Error() string {
	if e.Kind == RemoteErrorStatus {
		return fmt.Sprintf("remote estimation failed: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote estimation failed (%s): %v", e.Kind, e.Cause)
}

func (e *RemoteEstimationError) Unwrap() error {
	return e.Cause
}
