package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/activity"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/envutil"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/googlemaps"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

func main() {
	var (
		path        string
		asOfRaw     string
		concurrency int
		timeout     time.Duration
		noLookup    bool
	)
	flag.StringVar(&path, "file", "", "path to a Google Maps activity export (MyActivity.json)")
	flag.StringVar(&asOfRaw, "as-of", "", "evaluate the one-year window at this RFC3339 time (default now)")
	flag.IntVar(&concurrency, "concurrency", activity.DefaultEnrichConcurrency, "concurrent place lookups")
	flag.DurationVar(&timeout, "lookup-timeout", 10*time.Second, "per-lookup timeout")
	flag.BoolVar(&noLookup, "no-lookup", false, "skip place-type lookups")
	flag.Parse()

	if path == "" {
		fmt.Fprintln(os.Stderr, "-file is required")
		flag.Usage()
		os.Exit(2)
	}
	_ = godotenv.Load()

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	asOf := time.Now()
	if asOfRaw != "" {
		asOf, err = time.Parse(time.RFC3339, asOfRaw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -as-of: %v\n", err)
			os.Exit(2)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read export: %v\n", err)
		os.Exit(1)
	}

	var lookup activity.PlaceLookup = activity.NoMatchLookup{}
	if key := envutil.String("GOOGLE_MAPS_API_KEY", ""); key != "" && !noLookup {
		lookup = googlemaps.NewClient(key, &http.Client{Timeout: timeout}, log)
	} else {
		log.Info("Place lookups disabled; place types resolve to null")
	}

	resolver := activity.NewResolver(log, lookup, activity.NewOtterPlaceTypeCache(), timeout)
	res, err := activity.NewAggregator(log, resolver, concurrency).Aggregate(context.Background(), raw, asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aggregate: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
}
