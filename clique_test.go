package pinball

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aknapen/pinball/lattice"
)

func TestCliqueBoundaryCorrections(t *testing.T) {
	lat := lattice.MustNew(3)

	tests := []struct {
		name     string
		row, col int
		wantData int
	}{
		// Lone fire on a left-edge ancilla: fixed correction on the
		// adjacent boundary qubit.
		{"LeftEdge", 1, 0, lat.DataIndex(1, 0)},
		// Lone fire on the bottom-left corner ancilla: the row is clamped
		// inward.
		{"Corner", 3, 0, lat.DataIndex(2, 0)},
		// Lone fire on a right-edge ancilla (even row, last column).
		{"RightEdge", 0, 0, lat.DataIndex(0, 2)},
		{"RightEdgeLower", 2, 0, lat.DataIndex(2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := NewClique(3, 4)
			require.NoError(t, err)

			batch := newBatch(lat, 4)
			batch[1][lat.SyndromeIndex(tt.row, tt.col)] = 1

			corrections, complex, err := dec.DecodeBatch(batch)
			require.NoError(t, err)
			assert.False(t, complex)

			want := NewBits(lat.NumDataQubits)
			want[tt.wantData] = 1
			assert.Equal(t, want, corrections)
		})
	}
}

// A lone fire away from the boundary has an even (zero) active neighbor
// count and must escalate.
func TestCliqueEscalatesOnIsolatedBulkDefect(t *testing.T) {
	lat := lattice.MustNew(5)
	dec, err := NewClique(5, 6)
	require.NoError(t, err)

	batch := newBatch(lat, 6)
	batch[1][lat.SyndromeIndex(0, 0)] = 1

	corrections, complex, err := dec.DecodeBatch(batch)
	require.NoError(t, err)
	assert.True(t, complex)
	assert.False(t, corrections.Any())
}

// Once a round escalates, the row-major scan aborts: ancillas later in scan
// order contribute nothing, even if they would have produced corrections on
// their own.
func TestCliqueEarlyAbortRetainsOnlyPriorCorrections(t *testing.T) {
	lat := lattice.MustNew(5)

	// The pair (4,0)+(5,0) alone decodes to a correction on qubit (4,1).
	t.Run("PairAlone", func(t *testing.T) {
		dec, err := NewClique(5, 6)
		require.NoError(t, err)

		batch := newBatch(lat, 6)
		batch[1][lat.SyndromeIndex(4, 0)] = 1
		batch[1][lat.SyndromeIndex(5, 0)] = 1

		corrections, complex, err := dec.DecodeBatch(batch)
		require.NoError(t, err)
		assert.False(t, complex)

		want := NewBits(lat.NumDataQubits)
		want[lat.DataIndex(4, 1)] = 1
		assert.Equal(t, want, corrections)
	})

	// With an escalating defect earlier in scan order, the same pair is
	// never examined and its correction is not produced.
	t.Run("AbortBeforePair", func(t *testing.T) {
		dec, err := NewClique(5, 6)
		require.NoError(t, err)

		batch := newBatch(lat, 6)
		batch[1][lat.SyndromeIndex(0, 0)] = 1 // escalates first
		batch[1][lat.SyndromeIndex(4, 0)] = 1
		batch[1][lat.SyndromeIndex(5, 0)] = 1

		corrections, complex, err := dec.DecodeBatch(batch)
		require.NoError(t, err)
		assert.True(t, complex)
		assert.False(t, corrections.Any())
	})

	// Corrections applied before the abort are retained.
	t.Run("PriorBoundaryCorrectionRetained", func(t *testing.T) {
		dec, err := NewClique(5, 6)
		require.NoError(t, err)

		batch := newBatch(lat, 6)
		batch[1][lat.SyndromeIndex(0, 1)] = 1 // right-edge fix, scanned first
		batch[1][lat.SyndromeIndex(2, 0)] = 1 // escalates second

		corrections, complex, err := dec.DecodeBatch(batch)
		require.NoError(t, err)
		assert.True(t, complex)

		want := NewBits(lat.NumDataQubits)
		want[lat.DataIndex(0, 4)] = 1
		assert.Equal(t, want, corrections)
	})
}

// An odd active-neighbor count assigns corrections next to each active
// neighbor, not next to the center.
func TestCliqueOddCountCorrections(t *testing.T) {
	lat := lattice.MustNew(3)
	dec, err := NewClique(3, 4)
	require.NoError(t, err)

	batch := newBatch(lat, 4)
	batch[1][lat.SyndromeIndex(1, 0)] = 1
	batch[1][lat.SyndromeIndex(2, 0)] = 1

	corrections, complex, err := dec.DecodeBatch(batch)
	require.NoError(t, err)
	assert.False(t, complex)

	// (1,0) sees one active neighbor below, (2,0) one above; both pin the
	// shared data qubit (1,1).
	want := NewBits(lat.NumDataQubits)
	want[lat.DataIndex(1, 1)] = 1
	assert.Equal(t, want, corrections)
}

func TestCliqueClassify(t *testing.T) {
	dec, err := NewClique(3, 4)
	require.NoError(t, err)
	lat := dec.Lattice()

	newErrs := func(qubits ...int) []Bits {
		e := NewBits(lat.NumDataQubits)
		for _, q := range qubits {
			e[q] = 1
		}
		return []Bits{e}
	}

	t.Run("ExactMatchIsSuccess", func(t *testing.T) {
		errs := newErrs(4)
		corrections := errs[0].Clone()
		assert.Equal(t, OutcomeSuccess, dec.Classify(errs, corrections, false))
		assert.False(t, dec.IsLogicalError(errs, corrections, false))
	})

	t.Run("ErrorsCancelAcrossRounds", func(t *testing.T) {
		e := NewBits(lat.NumDataQubits)
		e[4] = 1
		errs := []Bits{e.Clone(), e.Clone()} // same qubit twice: net zero
		corrections := NewBits(lat.NumDataQubits)
		assert.Equal(t, OutcomeSuccess, dec.Classify(errs, corrections, false))
	})

	t.Run("UnclearedSyndromeIsInvalid", func(t *testing.T) {
		errs := newErrs(0)
		corrections := NewBits(lat.NumDataQubits)
		assert.Equal(t, OutcomeInvalid, dec.Classify(errs, corrections, false))
		assert.True(t, dec.IsLogicalError(errs, corrections, false))
	})

	t.Run("ClosedChainWithOddColumnIsLogicalError", func(t *testing.T) {
		// {0,4,8} clears every plaquette but leaves each column odd.
		errs := newErrs(0, 4, 8)
		corrections := NewBits(lat.NumDataQubits)
		assert.Equal(t, OutcomeLogicalError, dec.Classify(errs, corrections, false))
		assert.True(t, dec.IsLogicalError(errs, corrections, false))
	})

	t.Run("StabilizerDifferenceIsSuccess", func(t *testing.T) {
		// Corrections differing from errors by the left-boundary stabilizer
		// {0,3} are still a success.
		errs := newErrs(0)
		corrections := NewBits(lat.NumDataQubits)
		corrections[3] = 1
		assert.Equal(t, OutcomeSuccess, dec.Classify(errs, corrections, false))
	})
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "Success", OutcomeSuccess.String())
	assert.Equal(t, "LogicalError", OutcomeLogicalError.String())
	assert.Equal(t, "Invalid", OutcomeInvalid.String())
	assert.Equal(t, "Unknown", Outcome(42).String())
}
