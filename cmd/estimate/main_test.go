package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var manhattan = []string{
	"-pickup-lat", "40.7128", "-pickup-lon", "-74.0060",
	"-dropoff-lat", "40.7306", "-dropoff-lon", "-73.9352",
	"-passengers", "2",
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("SURGE_TIMEZONE", "UTC")
	t.Setenv("ESTIMATOR_MODE", "local")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_LocalOffPeak(t *testing.T) {
	code, out, _ := runCLI(t, append(manhattan, "-hour", "12")...)

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Estimated fare: $14.79")
	assert.Contains(t, out, "Distance: 6.29 km")
	assert.Contains(t, out, "Travel time: 9.4 min")
	assert.NotContains(t, out, "surge")
	assert.Contains(t, out, "Source: LOCAL")
}

func TestRun_LocalPeak(t *testing.T) {
	code, out, _ := runCLI(t, append(manhattan, "-hour", "8")...)

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Estimated fare: $22.18")
	assert.Contains(t, out, "Peak-hour surge applied")
}

func TestRun_InvalidInput(t *testing.T) {
	code, out, errOut := runCLI(t,
		"-pickup-lat", "95", "-pickup-lon", "-74.0060",
		"-dropoff-lat", "40.7306", "-dropoff-lon", "-73.9352",
	)

	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "invalid pickup_latitude")
}

func TestRun_UnknownMode(t *testing.T) {
	code, _, errOut := runCLI(t, append(manhattan, "-mode", "ml")...)

	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown estimation mode")
}

func TestRun_RemoteNotConfigured(t *testing.T) {
	t.Setenv("PREDICTION_URL", "")
	code, _, errOut := runCLI(t, append(manhattan, "-mode", "remote")...)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "remote estimation is not configured")
}

func TestRun_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predicted_fare": 18.5}`))
	}))
	defer srv.Close()

	code, out, _ := runCLI(t, append(manhattan, "-mode", "remote", "-remote", srv.URL)...)

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Estimated fare: $18.50")
	assert.Contains(t, out, "Source: REMOTE")
}

func TestRun_RemoteMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	code, out, errOut := runCLI(t, append(manhattan, "-mode", "remote", "-remote", srv.URL)...)

	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "malformed_response")
}
