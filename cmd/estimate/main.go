package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"fare/internal/app"
	"fare/internal/config"
	"fare/internal/domain"
	"fare/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run estimates one fare and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("estimate", flag.ContinueOnError)
	flags.SetOutput(stderr)

	pickupLat := flags.String("pickup-lat", "", "pickup latitude in degrees")
	pickupLon := flags.String("pickup-lon", "", "pickup longitude in degrees")
	dropoffLat := flags.String("dropoff-lat", "", "dropoff latitude in degrees")
	dropoffLon := flags.String("dropoff-lon", "", "dropoff longitude in degrees")
	passengers := flags.String("passengers", "1", "passenger count (1-8)")
	modeText := flags.String("mode", "", "estimation mode: local or remote (default from ESTIMATOR_MODE)")
	hour := flags.Int("hour", -1, "hour of day (0-23) used for surge in local mode; -1 uses the current hour")
	remoteURL := flags.String("remote", "", "prediction service URL (overrides PREDICTION_URL)")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %s\n", err)
		return 1
	}
	if *remoteURL != "" {
		cfg.Prediction.URL = *remoteURL
	}

	log, err := app.NewLogger("production", "error")
	if err != nil {
		fmt.Fprintf(stderr, "logger: %s\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	mode, err := service.ParseMode(*modeText, service.Mode(cfg.Prediction.Mode))
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 2
	}

	raw := service.RawRideRequest{
		PickupLatitude:   *pickupLat,
		PickupLongitude:  *pickupLon,
		DropoffLatitude:  *dropoffLat,
		DropoffLongitude: *dropoffLon,
		PassengerCount:   *passengers,
	}

	req, err := service.ValidateRideRequest(raw)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}

	if mode == service.ModeLocal && *hour >= 0 {
		printQuote(stdout, app.NewLocalEstimator(cfg.Pricing).EstimateAt(req, *hour))
		return 0
	}

	quote, err := app.NewFareService(cfg, log).Estimate(ctx, req, mode)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	printQuote(stdout, *quote)
	return 0
}

func printQuote(w io.Writer, q domain.FareQuote) {
	fmt.Fprintf(w, "Estimated fare: $%.2f\n", q.AmountUSD)
	fmt.Fprintf(w, "Distance: %.2f km\n", q.DistanceKm)
	fmt.Fprintf(w, "Travel time: %.1f min\n", q.TravelTimeMinutes)
	if q.SurgeApplied {
		fmt.Fprintln(w, "Peak-hour surge applied")
	}
	fmt.Fprintf(w, "Source: %s\n", q.Source)
}
