// Command pinball-sim runs Monte Carlo logical error rate experiments for
// the predecoders and stores per-configuration reports.
//
// Results go to a local directory by default; set MINIO_ENDPOINT (plus
// MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_BUCKET) to write to an
// S3-compatible bucket instead, so parallel instances with distinct -sim-id
// values can share one result set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/aknapen/pinball"
	"github.com/aknapen/pinball/lattice"
	"github.com/aknapen/pinball/results"
	"github.com/aknapen/pinball/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pinball-sim:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	var (
		distancesFlag  = flag.String("distances", "3,5,7", "comma-separated code distances (odd)")
		errorRatesFlag = flag.String("error-rates", "0.001,0.002,0.005,0.01", "comma-separated physical error rates")
		predecoderFlag = flag.String("predecoder", "pinball", "predecoder to run: clique, pinball, or none")
		shots          = flag.Uint64("shots", 100000, "shots per configuration")
		workers        = flag.Int("workers", 0, "parallel workers (0 = GOMAXPROCS)")
		seed           = flag.Int64("seed", 0, "base RNG seed (0 = time-based)")
		simID          = flag.Int("sim-id", 0, "simulation instance id, part of the result key")
		output         = flag.String("output", "results", "local output directory (ignored with MinIO configured)")
		verbose        = flag.Bool("v", false, "verbose progress logging")
	)
	flag.Parse()

	distances, err := parseInts(*distancesFlag)
	if err != nil {
		return fmt.Errorf("invalid -distances: %w", err)
	}
	errorRates, err := parseFloats(*errorRatesFlag)
	if err != nil {
		return fmt.Errorf("invalid -error-rates: %w", err)
	}

	logger := pinball.NoopLogger()
	if *verbose {
		logger = pinball.NewTextLogger(slog.LevelInfo)
	}

	store, err := newStore(*output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.New()
	log := logger.WithRunID(runID.String())
	log.Info("starting simulation",
		"predecoder", *predecoderFlag,
		"distances", distances,
		"error_rates", errorRates,
		"shots", *shots,
		"sim_id", *simID,
	)

	for _, d := range distances {
		for _, rate := range errorRates {
			if err := runConfiguration(ctx, config{
				distance:   d,
				errorRate:  rate,
				predecoder: *predecoderFlag,
				shots:      *shots,
				workers:    *workers,
				seed:       *seed,
				simID:      *simID,
				runID:      runID,
			}, store, log); err != nil {
				return err
			}
		}
	}
	return nil
}

type config struct {
	distance   int
	errorRate  float64
	predecoder string
	shots      uint64
	workers    int
	seed       int64
	simID      int
	runID      uuid.UUID
}

func runConfiguration(ctx context.Context, cfg config, store results.Store, logger *pinball.Logger) error {
	lat, err := lattice.New(cfg.distance)
	if err != nil {
		return err
	}

	// One more round than the distance, matching the experiment setup the
	// decoders were tuned for.
	rounds := cfg.distance + 1

	var dec pinball.Predecoder
	switch cfg.predecoder {
	case "clique":
		dec, err = pinball.NewClique(cfg.distance, rounds)
	case "pinball":
		dec, err = pinball.NewPinball(cfg.distance, rounds)
	case "none":
	default:
		err = fmt.Errorf("unknown predecoder %q", cfg.predecoder)
	}
	if err != nil {
		return err
	}

	log := logger.WithDistance(cfg.distance).WithErrorRate(cfg.errorRate)
	log.Info("running configuration", "shots", cfg.shots)

	opts := []sim.Option{
		sim.WithWorkers(cfg.workers),
		sim.WithLogger(log),
	}
	if dec != nil {
		opts = append(opts, sim.WithPredecoder(dec))
	}
	if cfg.seed != 0 {
		opts = append(opts, sim.WithSeed(cfg.seed))
	}

	noise := sim.Noise{Data: cfg.errorRate, Measurement: cfg.errorRate}
	runner := sim.NewRunner(lat, rounds, noise, cfg.shots, opts...)

	start := time.Now()
	stats, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	report, err := stats.Report()
	if err != nil {
		return err
	}
	log.Info("configuration finished",
		"elapsed", time.Since(start),
		"logical_error_rate", report.LogicalErrorRate,
		"escalation_rate", report.EscalationRate,
	)

	rec := results.Record{
		RunID:         cfg.runID,
		SimID:         cfg.simID,
		Predecoder:    cfg.predecoder,
		Distance:      cfg.distance,
		DataErrorRate: cfg.errorRate,
		MeasErrorRate: cfg.errorRate,
		Report:        report,
		CreatedAt:     time.Now().UTC(),
	}
	return store.Put(ctx, rec)
}

// newStore picks a result store from the environment: MinIO when
// MINIO_ENDPOINT is set, otherwise a local directory.
func newStore(output string) (results.Store, error) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		return results.NewLocalStore(output)
	}

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("MINIO_BUCKET must be set when MINIO_ENDPOINT is")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: os.Getenv("MINIO_USE_SSL") == "true",
	})
	if err != nil {
		return nil, err
	}
	return results.NewMinioStore(client, bucket, os.Getenv("MINIO_PREFIX")), nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
