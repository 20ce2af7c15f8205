package service

import (
	"regexp"
	"strconv"
	"strings"

	"fare/internal/domain"
)

// RawRideRequest is an untrusted ride request as submitted by a form or API
// client. Every field holds the textual value exactly as received.
type RawRideRequest struct {
	PickupLatitude   string
	PickupLongitude  string
	DropoffLatitude  string
	DropoffLongitude string
	PassengerCount   string
}

// ValidateRideRequest parses and validates raw input. Fields are checked in
// the order pickup latitude, dropoff latitude, pickup longitude, dropoff
// longitude, passenger count; the first failure is returned as a
// *domain.ValidationError.
func ValidateRideRequest(raw RawRideRequest) (domain.RideRequest, error) {
	pickupLat, err := parseNumber(domain.FieldPickupLatitude, raw.PickupLatitude)
	if err != nil {
		return domain.RideRequest{}, err
	}
	if err := domain.CheckLatitude(domain.FieldPickupLatitude, pickupLat); err != nil {
		return domain.RideRequest{}, err
	}

	dropoffLat, err := parseNumber(domain.FieldDropoffLatitude, raw.DropoffLatitude)
	if err != nil {
		return domain.RideRequest{}, err
	}
	if err := domain.CheckLatitude(domain.FieldDropoffLatitude, dropoffLat); err != nil {
		return domain.RideRequest{}, err
	}

	pickupLng, err := parseNumber(domain.FieldPickupLongitude, raw.PickupLongitude)
	if err != nil {
		return domain.RideRequest{}, err
	}
	if err := domain.CheckLongitude(domain.FieldPickupLongitude, pickupLng); err != nil {
		return domain.RideRequest{}, err
	}

	dropoffLng, err := parseNumber(domain.FieldDropoffLongitude, raw.DropoffLongitude)
	if err != nil {
		return domain.RideRequest{}, err
	}
	if err := domain.CheckLongitude(domain.FieldDropoffLongitude, dropoffLng); err != nil {
		return domain.RideRequest{}, err
	}

	passengers, err := parseNumber(domain.FieldPassengerCount, raw.PassengerCount)
	if err != nil {
		return domain.RideRequest{}, err
	}
	if err := domain.CheckPassengerCount(passengers); err != nil {
		return domain.RideRequest{}, err
	}

	return domain.NewRideRequest(
		domain.Coordinate{Latitude: pickupLat, Longitude: pickupLng},
		domain.Coordinate{Latitude: dropoffLat, Longitude: dropoffLng},
		int(passengers),
	)
}

// decimalNumber matches plain decimal notation with an optional exponent.
// Hex floats, underscores, NaN and Inf do not match.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseNumber rejects blank, non-decimal, NaN and infinite input.
func parseNumber(field domain.Field, text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, domain.NewValidationError(field, "is required")
	}
	if !decimalNumber.MatchString(text) {
		return 0, domain.NewValidationError(field, "must be a number")
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || !isFinite(v) {
		return 0, domain.NewValidationError(field, "must be a number")
	}
	return v, nil
}
