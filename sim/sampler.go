package sim

import (
	"math/rand"

	"github.com/aknapen/pinball"
	"github.com/aknapen/pinball/lattice"
)

// Noise is a phenomenological noise model: each data qubit flips with
// probability Data per measurement round, and each ancilla readout flips
// with probability Measurement.
type Noise struct {
	Data        float64
	Measurement float64
}

// Shot is one sampled decoding problem: a batch of detector rounds, the
// per-round planted error records, and the true observable flip.
type Shot struct {
	// Rounds are the detector rounds, in temporal order. Decoding mutates
	// them in place.
	Rounds []pinball.Bits

	// Errors are the data errors newly planted in each round; their XOR
	// across rounds is the net physical error of the shot.
	Errors []pinball.Bits

	// ObservableFlip reports whether the net error flips the logical
	// observable (odd parity on the leftmost data-qubit column).
	ObservableFlip bool
}

// Sampler draws shots from the phenomenological model. Not safe for
// concurrent use; give each worker its own Sampler.
type Sampler struct {
	lat    lattice.Lattice
	rounds int
	noise  Noise
	rng    *rand.Rand

	// Plaquette corners per ancilla, precomputed once.
	corners [][]int
}

// NewSampler creates a sampler producing batches of the given round count.
// The final round models the perfect terminating readout of a memory
// experiment: no new errors, no readout noise.
func NewSampler(lat lattice.Lattice, rounds int, noise Noise, seed int64) *Sampler {
	corners := make([][]int, lat.NumSyndromes)
	for row := 0; row < lat.SyndromeRows; row++ {
		for col := 0; col < lat.SyndromeCols; col++ {
			corners[lat.SyndromeIndex(row, col)] = lat.PlaquetteCorners(nil, row, col)
		}
	}
	return &Sampler{
		lat:     lat,
		rounds:  rounds,
		noise:   noise,
		rng:     rand.New(rand.NewSource(seed)), // nolint gosec
		corners: corners,
	}
}

// Sample draws one shot.
//
// Detector rounds are the XOR of consecutive noisy plaquette readouts, so a
// planted data error fires its adjacent ancillas in exactly one round and a
// readout flip fires the same ancilla in two consecutive rounds — the
// signatures the decoders are built around.
func (s *Sampler) Sample() Shot {
	lat := s.lat

	cumulative := pinball.NewBits(lat.NumDataQubits)
	prevReadout := pinball.NewBits(lat.NumSyndromes)

	rounds := make([]pinball.Bits, s.rounds)
	errs := make([]pinball.Bits, s.rounds)

	for r := 0; r < s.rounds; r++ {
		final := r == s.rounds-1

		errs[r] = pinball.NewBits(lat.NumDataQubits)
		if !final {
			for q := 0; q < lat.NumDataQubits; q++ {
				if s.rng.Float64() < s.noise.Data {
					errs[r][q] = 1
					cumulative[q] ^= 1
				}
			}
		}

		readout := pinball.NewBits(lat.NumSyndromes)
		for inx := 0; inx < lat.NumSyndromes; inx++ {
			parity := uint8(0)
			for _, q := range s.corners[inx] {
				parity ^= cumulative[q]
			}
			if !final && s.rng.Float64() < s.noise.Measurement {
				parity ^= 1
			}
			readout[inx] = parity
		}

		rounds[r] = readout.Clone()
		rounds[r].Xor(prevReadout)
		prevReadout = readout
	}

	flip := uint8(0)
	for i := 0; i < lat.Distance; i++ {
		flip ^= cumulative[lat.DataIndex(i, 0)]
	}

	return Shot{
		Rounds:         rounds,
		Errors:         errs,
		ObservableFlip: flip == 1,
	}
}

// Trivial reports whether the shot carries no syndrome activity at all.
// Trivial shots decode to nothing under both predecoders and the exact
// decoder alike, so runners skip them.
func (sh Shot) Trivial() bool {
	for _, round := range sh.Rounds {
		if round.Any() {
			return false
		}
	}
	return true
}

// SyndromeWeight returns the total number of active detector bits across
// all rounds of the shot.
func (sh Shot) SyndromeWeight() int {
	w := 0
	for _, round := range sh.Rounds {
		w += round.Weight()
	}
	return w
}

// CloneRounds returns a deep copy of the shot's detector rounds, for
// callers that need the pristine syndromes after decoding has mutated the
// originals (e.g. handing an escalated shot to the exact decoder).
func (sh Shot) CloneRounds() []pinball.Bits {
	rounds := make([]pinball.Bits, len(sh.Rounds))
	for i, round := range sh.Rounds {
		rounds[i] = round.Clone()
	}
	return rounds
}
