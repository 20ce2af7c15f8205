package domain

import (
	"fmt"
	"math"
)

// Passenger count bounds, inclusive.
const (
	MinPassengers = 1
	MaxPassengers = 8
)

// Field identifies an input field of a ride request. Values match the
// prediction wire names so error responses can point at the offending field.
type Field string

const (
	FieldPickupLatitude   Field = "pickup_latitude"
	FieldPickupLongitude  Field = "pickup_longitude"
	FieldDropoffLatitude  Field = "dropoff_latitude"
	FieldDropoffLongitude Field = "dropoff_longitude"
	FieldPassengerCount   Field = "passenger_count"
)

// ValidationError reports the first invalid field of a ride request.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field Field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RideRequest is a validated point-to-point ride request.
// The zero value is not valid; use NewRideRequest.
type RideRequest struct {
	pickup         Coordinate
	dropoff        Coordinate
	passengerCount int
}

// NewRideRequest validates the inputs and returns a RideRequest.
// Checks run in a fixed order (pickup latitude, dropoff latitude, pickup
// longitude, dropoff longitude, passenger count) and stop at the first failure.
func NewRideRequest(pickup, dropoff Coordinate, passengerCount int) (RideRequest, error) {
	if err := CheckLatitude(FieldPickupLatitude, pickup.Latitude); err != nil {
		return RideRequest{}, err
	}
	if err := CheckLatitude(FieldDropoffLatitude, dropoff.Latitude); err != nil {
		return RideRequest{}, err
	}
	if err := CheckLongitude(FieldPickupLongitude, pickup.Longitude); err != nil {
		return RideRequest{}, err
	}
	if err := CheckLongitude(FieldDropoffLongitude, dropoff.Longitude); err != nil {
		return RideRequest{}, err
	}
	if err := CheckPassengerCount(float64(passengerCount)); err != nil {
		return RideRequest{}, err
	}

	return RideRequest{
		pickup:         pickup,
		dropoff:        dropoff,
		passengerCount: passengerCount,
	}, nil
}

// Pickup returns the pickup coordinate.
func (r RideRequest) Pickup() Coordinate { return r.pickup }

// Dropoff returns the dropoff coordinate.
func (r RideRequest) Dropoff() Coordinate { return r.dropoff }

// PassengerCount returns the number of passengers.
func (r RideRequest) PassengerCount() int { return r.passengerCount }

// CheckLatitude returns a ValidationError for field when lat is not a valid latitude.
func CheckLatitude(field Field, lat float64) error {
	if !isFinite(lat) {
		return NewValidationError(field, "must be a number")
	}
	if !IsValidLatitude(lat) {
		return NewValidationError(field, "must be between -90 and 90")
	}
	return nil
}

// CheckLongitude returns a ValidationError for field when lng is not a valid longitude.
func CheckLongitude(field Field, lng float64) error {
	if !isFinite(lng) {
		return NewValidationError(field, "must be a number")
	}
	if !IsValidLongitude(lng) {
		return NewValidationError(field, "must be between -180 and 180")
	}
	return nil
}

// CheckPassengerCount accepts whole numbers in [MinPassengers, MaxPassengers].
// It takes a float so fractional input such as 3.5 can be rejected.
func CheckPassengerCount(n float64) error {
	if !isFinite(n) {
		return NewValidationError(FieldPassengerCount, "must be a number")
	}
	if n != math.Trunc(n) {
		return NewValidationError(FieldPassengerCount, "must be a whole number")
	}
	if n < MinPassengers || n > MaxPassengers {
		return NewValidationError(FieldPassengerCount,
			fmt.Sprintf("must be between %d and %d", MinPassengers, MaxPassengers))
	}
	return nil
}
