package pinball

import "github.com/aknapen/pinball/lattice"

// Compile-time check that Clique satisfies the decoder contract.
var _ Predecoder = (*Clique)(nil)

// Clique is the 4-neighbor local predecoder (Clique, arXiv:2208.08547).
//
// Each round, a small decoding clique is instantiated over every ancilla in
// row-major order: if the center fired this round but not last round, the
// parity of its active diagonal neighbors decides between applying local
// corrections, applying a fixed boundary correction, or aborting the scan
// and escalating the round.
type Clique struct {
	lat       lattice.Lattice
	batchSize int
}

// NewClique creates a Clique decoder for the given odd code distance and
// rounds-per-batch.
func NewClique(distance, batchSize int) (*Clique, error) {
	lat, err := lattice.New(distance)
	if err != nil {
		return nil, err
	}
	return &Clique{lat: lat, batchSize: batchSize}, nil
}

// Name implements Predecoder.
func (c *Clique) Name() string { return "Clique" }

// Distance implements Predecoder.
func (c *Clique) Distance() int { return c.lat.Distance }

// BatchSize implements Predecoder.
func (c *Clique) BatchSize() int { return c.batchSize }

// Lattice implements Predecoder.
func (c *Clique) Lattice() lattice.Lattice { return c.lat }

// DecodeBatch implements Predecoder.
func (c *Clique) DecodeBatch(batch []Bits) (Bits, bool, error) {
	return decodeRounds(c, c.lat, c.batchSize, batch)
}

// active computes the filtered syndrome value at a flat index: an ancilla
// counts as active only if it fired this round and not also last round
// (a same-ancilla double fire is a measurement artifact).
func active(prev, curr Bits, inx int) uint8 {
	return (1 - prev[inx]) & curr[inx]
}

// decodeRound runs the clique rule over one (prev, curr) round pair.
// Neither round is mutated; measurement-error cancellation is implicit in
// the active-value filter.
func (c *Clique) decodeRound(prev, curr Bits) (Bits, bool) {
	lat := c.lat
	corrections := NewBits(lat.NumDataQubits)

	for i := 0; i < lat.SyndromeRows; i++ {
		for j := 0; j < lat.SyndromeCols; j++ {
			if active(prev, curr, lat.SyndromeIndex(i, j)) != 1 {
				continue
			}

			// Leaf values in the fixed TopRight, BottomRight, BottomLeft,
			// TopLeft order. A leaf off the grid is absent, not zero.
			var leaf [4]uint8
			var present [4]bool
			count := 0
			for k, dir := range lattice.Directions {
				nr, nc := dir.ParityNeighbor(i, j)
				if !lat.InSyndromeGrid(nr, nc) {
					continue
				}
				present[k] = true
				leaf[k] = active(prev, curr, lat.SyndromeIndex(nr, nc))
				if leaf[k] == 1 {
					count++
				}
			}

			if count%2 == 0 {
				// Even count: either a boundary cell with a fixed
				// correction, or an ambiguity we cannot resolve locally.
				if (i%2 == 0 && j == lat.SyndromeCols-1) || (i%2 == 1 && j == 0) {
					row := i
					if i >= lat.SyndromeRows-1 {
						row = i - 1
					}
					col := 0
					if j != 0 {
						col = lat.Distance - 1
					}
					corrections[lat.DataIndex(row, col)] = 1
					continue
				}

				// Abort the scan immediately: the partial corrections
				// accumulated so far this round are retained, and ancillas
				// later in row-major order are not examined.
				return corrections, true
			}

			// Odd count: correct the data qubit adjacent to each active leaf.
			for k, dir := range lattice.Directions {
				if present[k] && leaf[k] == 1 {
					dr, dc := dir.DataBetween(i, j)
					corrections[lat.DataIndex(dr, dc)] = 1
				}
			}
		}
	}

	return corrections, false
}

// Outcome classifies a validated Clique decode.
type Outcome int

const (
	// OutcomeSuccess means the corrections differ from the true errors by a
	// product of stabilizers.
	OutcomeSuccess Outcome = iota
	// OutcomeLogicalError means the corrections form a valid loop but flip
	// the logical observable.
	OutcomeLogicalError
	// OutcomeInvalid means the corrections leave syndromes uncleared: they
	// are neither a stabilizer product nor a clean logical flip.
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeLogicalError:
		return "LogicalError"
	case OutcomeInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Classify validates a completed decode against the planted per-round error
// records.
//
// Most decoders either produce corrections that differ from the errors by a
// stabilizer product or cleanly flip the logical observable, so checking the
// predicted flip suffices. Clique's boundary handling of measurement errors
// can produce corrections that are neither, so two independent checks run
// over the net result (corrections XOR accumulated errors): every plaquette
// (including the 2-corner boundary ones) must have even corner parity, and
// no data-qubit column may carry odd parity.
func (c *Clique) Classify(errors []Bits, corrections Bits, _ bool) Outcome {
	result := XorReduce(c.lat.NumDataQubits, errors)
	result.Xor(corrections)

	if !c.syndromesClear(result) {
		return OutcomeInvalid
	}
	if columnParityOdd(result, c.lat.Distance) {
		return OutcomeLogicalError
	}
	return OutcomeSuccess
}

// IsLogicalError implements Predecoder. The observable flip is not consulted:
// Clique's validation is structural (see Classify).
func (c *Clique) IsLogicalError(errors []Bits, corrections Bits, observableFlip bool) bool {
	return c.Classify(errors, corrections, observableFlip) != OutcomeSuccess
}

// syndromesClear reports whether the net result would leave every ancilla
// plaquette with even corner parity, i.e. the corrections formed closed
// loops.
func (c *Clique) syndromesClear(result Bits) bool {
	var corners []int
	for row := 0; row < c.lat.SyndromeRows; row++ {
		for col := 0; col < c.lat.SyndromeCols; col++ {
			corners = c.lat.PlaquetteCorners(corners[:0], row, col)
			parity := uint8(0)
			for _, q := range corners {
				parity ^= result[q]
			}
			if parity != 0 {
				return false
			}
		}
	}
	return true
}

// columnParityOdd reports whether any column of the d x d result grid has
// odd parity. The logical operator runs along the column direction, so an
// odd column means the net action flips the logical observable.
func columnParityOdd(result Bits, d int) bool {
	for col := 0; col < d; col++ {
		parity := uint8(0)
		for row := 0; row < d; row++ {
			parity ^= result[row*d+col]
		}
		if parity != 0 {
			return true
		}
	}
	return false
}
