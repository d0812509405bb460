package pinball

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aknapen/pinball/lattice"
)

// newBatch returns batchSize all-zero rounds for the given lattice.
func newBatch(lat lattice.Lattice, batchSize int) []Bits {
	batch := make([]Bits, batchSize)
	for i := range batch {
		batch[i] = NewBits(lat.NumSyndromes)
	}
	return batch
}

func decoders(t *testing.T, distance, batchSize int) []Predecoder {
	t.Helper()
	c, err := NewClique(distance, batchSize)
	require.NoError(t, err)
	p, err := NewPinball(distance, batchSize)
	require.NoError(t, err)
	return []Predecoder{c, p}
}

func TestNewRejectsInvalidDistance(t *testing.T) {
	for _, distance := range []int{-1, 0, 1, 2, 4, 6} {
		t.Run(fmt.Sprintf("D%d", distance), func(t *testing.T) {
			_, err := NewClique(distance, 4)
			var ied *lattice.ErrInvalidDistance
			require.ErrorAs(t, err, &ied)

			_, err = NewPinball(distance, 4)
			require.ErrorAs(t, err, &ied)
		})
	}
}

func TestDecodeBatchZeroSyndromes(t *testing.T) {
	for _, distance := range []int{3, 5, 7} {
		t.Run(fmt.Sprintf("D%d", distance), func(t *testing.T) {
			for _, dec := range decoders(t, distance, distance+1) {
				t.Run(dec.Name(), func(t *testing.T) {
					batch := newBatch(dec.Lattice(), dec.BatchSize())

					corrections, complex, err := dec.DecodeBatch(batch)
					require.NoError(t, err)
					assert.False(t, complex)
					assert.False(t, corrections.Any())
					assert.Len(t, corrections, distance*distance)
				})
			}
		})
	}
}

func TestDecodeBatchSizePrecondition(t *testing.T) {
	for _, dec := range decoders(t, 3, 4) {
		t.Run(dec.Name(), func(t *testing.T) {
			short := newBatch(dec.Lattice(), 3)
			_, _, err := dec.DecodeBatch(short)
			var bsm *ErrBatchSizeMismatch
			require.ErrorAs(t, err, &bsm)
			assert.Equal(t, 4, bsm.Expected)
			assert.Equal(t, 3, bsm.Actual)

			long := newBatch(dec.Lattice(), 5)
			_, _, err = dec.DecodeBatch(long)
			require.ErrorAs(t, err, &bsm)
			assert.Equal(t, 5, bsm.Actual)
		})
	}
}

func TestDecodeBatchRoundSizePrecondition(t *testing.T) {
	for _, dec := range decoders(t, 3, 4) {
		t.Run(dec.Name(), func(t *testing.T) {
			batch := newBatch(dec.Lattice(), 4)
			batch[2] = NewBits(3) // lattice has 4 syndromes per round

			_, _, err := dec.DecodeBatch(batch)
			var rsm *ErrRoundSizeMismatch
			require.ErrorAs(t, err, &rsm)
			assert.Equal(t, 2, rsm.Round)
			assert.Equal(t, 4, rsm.Expected)
			assert.Equal(t, 3, rsm.Actual)
		})
	}
}

// A single spacelike data error in the bulk fires two adjacent ancillas in
// one round. Both decoders must pin the correction on the data qubit between
// them without escalating.
func TestDecodeBatchSingleBulkError(t *testing.T) {
	lat := lattice.MustNew(3)
	for _, dec := range decoders(t, 3, 4) {
		t.Run(dec.Name(), func(t *testing.T) {
			batch := newBatch(lat, 4)
			// Data error on qubit (1,1): ancillas (1,0) and (2,0) fire once.
			batch[1][lat.SyndromeIndex(1, 0)] = 1
			batch[1][lat.SyndromeIndex(2, 0)] = 1

			corrections, complex, err := dec.DecodeBatch(batch)
			require.NoError(t, err)
			assert.False(t, complex)

			want := NewBits(lat.NumDataQubits)
			want[lat.DataIndex(1, 1)] = 1
			assert.Equal(t, want, corrections)
		})
	}
}

// If the corrections exactly reproduce the planted errors, validation must
// report success for both decoders.
func TestIsLogicalErrorIdempotence(t *testing.T) {
	lat := lattice.MustNew(3)
	errs := []Bits{NewBits(lat.NumDataQubits), NewBits(lat.NumDataQubits)}
	errs[0][4] = 1
	errs[1][7] = 1

	corrections := XorReduce(lat.NumDataQubits, errs)

	// Net action is zero, so the consistent observable flip is the parity of
	// the net error's leftmost column: zero here.
	observableFlip := false

	for _, dec := range decoders(t, 3, 4) {
		t.Run(dec.Name(), func(t *testing.T) {
			assert.False(t, dec.IsLogicalError(errs, corrections, observableFlip))
		})
	}
}

func BenchmarkDecodeBatch(b *testing.B) {
	for _, distance := range []int{5, 9, 13} {
		lat := lattice.MustNew(distance)

		c, _ := NewClique(distance, distance+1)
		p, _ := NewPinball(distance, distance+1)

		for _, dec := range []Predecoder{c, p} {
			b.Run(fmt.Sprintf("%s/D%d", dec.Name(), distance), func(b *testing.B) {
				template := make([]Bits, dec.BatchSize())
				for i := range template {
					template[i] = NewBits(lat.NumSyndromes)
				}
				template[1][lat.SyndromeIndex(1, 0)] = 1
				template[1][lat.SyndromeIndex(2, 0)] = 1

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					b.StopTimer()
					batch := make([]Bits, len(template))
					for j := range template {
						batch[j] = template[j].Clone()
					}
					b.StartTimer()

					_, _, err := dec.DecodeBatch(batch)
					if err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
