package handler

import (
	"bytes"
	"encoding/json"

	"fare/internal/service"
)

// rawField accepts either a JSON string or a JSON number and keeps its text
// so that parsing and range checks happen in one place.
type rawField string

func (f *rawField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = rawField(s)
	default:
		*f = rawField(data)
	}
	return nil
}

// RideFields is the ride request as submitted by a client.
type RideFields struct {
	PickupLatitude   rawField `json:"pickup_latitude" form:"pickup_latitude"`
	PickupLongitude  rawField `json:"pickup_longitude" form:"pickup_longitude"`
	DropoffLatitude  rawField `json:"dropoff_latitude" form:"dropoff_latitude"`
	DropoffLongitude rawField `json:"dropoff_longitude" form:"dropoff_longitude"`
	PassengerCount   rawField `json:"passenger_count" form:"passenger_count"`
}

func (r RideFields) toRaw() service.RawRideRequest {
	return service.RawRideRequest{
		PickupLatitude:   string(r.PickupLatitude),
		PickupLongitude:  string(r.PickupLongitude),
		DropoffLatitude:  string(r.DropoffLatitude),
		DropoffLongitude: string(r.DropoffLongitude),
		PassengerCount:   string(r.PassengerCount),
	}
}
