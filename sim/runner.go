package sim

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/aknapen/pinball"
	"github.com/aknapen/pinball/lattice"
)

// Fallback is the exact decoder an escalated batch is deferred to. It
// receives the shot with its pristine (unmutated) detector rounds and
// returns the predicted observable flip.
//
// The exact decoder itself is an external collaborator; runs without a
// Fallback simply count escalations.
type Fallback interface {
	PredictFlip(shot Shot) bool
}

// Runner drives a Monte Carlo decoding experiment: sample shots, skip
// trivial ones, predecode the rest, validate committed corrections, and
// defer complex batches.
type Runner struct {
	lat    lattice.Lattice
	rounds int
	noise  Noise
	shots  uint64

	dec      pinball.Predecoder
	fallback Fallback
	workers  int
	seed     int64
	logger   *pinball.Logger
	progress *rate.Limiter
}

// Option configures a Runner.
type Option func(*Runner)

// WithPredecoder sets the local decoder. Without one, every non-trivial
// shot escalates (the "no predecoder" baseline of the experiments).
func WithPredecoder(dec pinball.Predecoder) Option {
	return func(r *Runner) { r.dec = dec }
}

// WithFallback sets the exact decoder for escalated batches.
func WithFallback(f Fallback) Option {
	return func(r *Runner) { r.fallback = f }
}

// WithWorkers sets the number of parallel workers. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSeed sets the base RNG seed; worker w samples with seed+w.
func WithSeed(seed int64) Option {
	return func(r *Runner) { r.seed = seed }
}

// WithLogger sets the progress logger. Defaults to a no-op logger.
func WithLogger(l *pinball.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner for the given lattice, batch length, noise
// model, and shot count.
func NewRunner(lat lattice.Lattice, rounds int, noise Noise, shots uint64, opts ...Option) *Runner {
	r := &Runner{
		lat:     lat,
		rounds:  rounds,
		noise:   noise,
		shots:   shots,
		workers: runtime.GOMAXPROCS(0),
		seed:    time.Now().UnixNano(),
		logger:  pinball.NoopLogger(),
		// Progress lines at most once per second across all workers.
		progress: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the experiment, dividing shots across workers and merging
// their statistics. Cancelling ctx stops the run early with ctx's error.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	workers := r.workers
	if uint64(workers) > r.shots && r.shots > 0 {
		workers = int(r.shots)
	}
	if workers < 1 {
		workers = 1
	}

	perWorker := r.shots / uint64(workers)
	remainder := r.shots % uint64(workers)

	results := make([]*Stats, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		count := perWorker
		if w == workers-1 {
			// The last worker picks up the leftover shots.
			count += remainder
		}
		base := uint64(w) * perWorker

		w := w
		g.Go(func() error {
			stats, err := r.runWorker(ctx, w, base, count)
			if err != nil {
				return err
			}
			results[w] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := NewStats()
	for _, stats := range results {
		total.Merge(stats)
	}
	return total, nil
}

func (r *Runner) runWorker(ctx context.Context, worker int, base, count uint64) (*Stats, error) {
	sampler := NewSampler(r.lat, r.rounds, r.noise, r.seed+int64(worker))
	stats := NewStats()

	for i := uint64(0); i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		shot := sampler.Sample()
		stats.Shots++

		if shot.Trivial() {
			stats.Trivial++
			continue
		}
		stats.SyndromeWeights = append(stats.SyndromeWeights, float64(shot.SyndromeWeight()))

		var pristine []pinball.Bits
		if r.fallback != nil {
			pristine = shot.CloneRounds()
		}

		decoded := false
		if r.dec != nil {
			corrections, complex, err := r.dec.DecodeBatch(shot.Rounds)
			if err != nil {
				return nil, err
			}
			if !complex {
				decoded = true
				stats.Local++
				if r.dec.IsLogicalError(shot.Errors, corrections, shot.ObservableFlip) {
					stats.LocalErrors++
				}
			}
		}

		if !decoded {
			stats.Escalations++
			stats.Escalated.Add(uint32(base + i))

			if r.fallback != nil {
				shot.Rounds = pristine
				stats.FallbackShots++
				if r.fallback.PredictFlip(shot) != shot.ObservableFlip {
					stats.FallbackErrors++
				}
			}
		}

		if r.progress.Allow() {
			r.logger.Info("simulation progress",
				"worker", worker,
				"completed", i+1,
				"assigned", count,
				"escalations", stats.Escalations,
			)
		}
	}

	return stats, nil
}
