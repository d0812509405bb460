package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aknapen/pinball"
	"github.com/aknapen/pinball/lattice"
)

func TestRunnerNoiselessRunIsAllTrivial(t *testing.T) {
	lat := lattice.MustNew(3)
	dec, err := pinball.NewPinball(3, 4)
	require.NoError(t, err)

	r := NewRunner(lat, 4, Noise{}, 100,
		WithPredecoder(dec),
		WithWorkers(4),
		WithSeed(1),
	)

	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(100), stats.Shots)
	assert.Equal(t, uint64(100), stats.Trivial)
	assert.Zero(t, stats.Escalations)
	assert.Zero(t, stats.LogicalErrors())
}

func TestRunnerShotAccounting(t *testing.T) {
	lat := lattice.MustNew(3)
	dec, err := pinball.NewPinball(3, 4)
	require.NoError(t, err)

	// Worker count that does not divide the shot count: the last worker
	// picks up the remainder.
	r := NewRunner(lat, 4, Noise{Data: 0.03, Measurement: 0.03}, 503,
		WithPredecoder(dec),
		WithWorkers(3),
		WithSeed(99),
	)

	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(503), stats.Shots)
	assert.Equal(t, stats.Shots, stats.Trivial+stats.Local+stats.Escalations)
	assert.Equal(t, stats.Escalations, uint64(stats.Escalated.GetCardinality()))
	assert.Len(t, stats.SyndromeWeights, int(stats.Local+stats.Escalations))
	assert.LessOrEqual(t, stats.LocalErrors, stats.Local)
}

func TestRunnerWithoutPredecoderEscalatesEverything(t *testing.T) {
	lat := lattice.MustNew(3)

	r := NewRunner(lat, 4, Noise{Data: 0.05}, 200, WithWorkers(2), WithSeed(5))

	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(200), stats.Shots)
	assert.Zero(t, stats.Local)
	assert.Equal(t, stats.Shots-stats.Trivial, stats.Escalations)
}

// oracleFallback "decodes" escalated shots by reading off the true flip.
type oracleFallback struct{}

func (oracleFallback) PredictFlip(shot Shot) bool { return shot.ObservableFlip }

func TestRunnerFallbackReceivesEscalations(t *testing.T) {
	lat := lattice.MustNew(3)
	dec, err := pinball.NewClique(3, 4)
	require.NoError(t, err)

	r := NewRunner(lat, 4, Noise{Data: 0.05, Measurement: 0.05}, 300,
		WithPredecoder(dec),
		WithFallback(oracleFallback{}),
		WithWorkers(2),
		WithSeed(12),
	)

	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, stats.Escalations, stats.FallbackShots)
	assert.Zero(t, stats.FallbackErrors)
	// With a fallback configured, every shot ends up decided.
	assert.Equal(t, stats.Shots, stats.Decided())
}

func TestRunnerCancellation(t *testing.T) {
	lat := lattice.MustNew(3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(lat, 4, Noise{Data: 0.01}, 1000, WithWorkers(2))
	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
