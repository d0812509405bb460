package pinball

import "github.com/aknapen/pinball/lattice"

// Compile-time check that Pinball satisfies the decoder contract.
var _ Predecoder = (*Pinball)(nil)

// Pinball is the five-stage local predecoder tailored to circuit-level
// noise.
//
// Each round pair is run through a fixed-order clearing pipeline:
// measurement errors, bulk spacelike errors (four diagonal passes),
// single-qubit spacetime errors (two top passes), hook errors, and edge
// spacelike errors. The order is load-bearing: later stages assume earlier
// stages already consumed what they could. Complexity is determined only at
// batch granularity, from any residual syndrome activity.
type Pinball struct {
	lat       lattice.Lattice
	batchSize int
}

// NewPinball creates a Pinball decoder for the given odd code distance and
// rounds-per-batch.
func NewPinball(distance, batchSize int) (*Pinball, error) {
	lat, err := lattice.New(distance)
	if err != nil {
		return nil, err
	}
	return &Pinball{lat: lat, batchSize: batchSize}, nil
}

// Name implements Predecoder.
func (p *Pinball) Name() string { return "Pinball" }

// Distance implements Predecoder.
func (p *Pinball) Distance() int { return p.lat.Distance }

// BatchSize implements Predecoder.
func (p *Pinball) BatchSize() int { return p.batchSize }

// Lattice implements Predecoder.
func (p *Pinball) Lattice() lattice.Lattice { return p.lat }

// DecodeBatch implements Predecoder. Beyond the shared round loop, the edge
// pass runs once more over the final round's residual (the last round never
// becomes a "previous" round, so its boundary defects would otherwise be
// missed), and the batch is complex iff any syndrome bit anywhere remains
// active afterwards.
func (p *Pinball) DecodeBatch(batch []Bits) (Bits, bool, error) {
	corrections, _, err := decodeRounds(p, p.lat, p.batchSize, batch)
	if err != nil {
		return nil, false, err
	}

	p.clearEdgeDataErrors(batch[len(batch)-1], corrections)

	complex := false
	for _, round := range batch {
		if round.Any() {
			complex = true
			break
		}
	}

	return corrections, complex, nil
}

// decodeRound runs the clearing pipeline over one (prev, curr) pair. Both
// rounds are mutated in place as defects are explained. Round-level
// complexity is meaningless for Pinball and always reported false.
func (p *Pinball) decodeRound(prev, curr Bits) (Bits, bool) {
	corrections := NewBits(p.lat.NumDataQubits)

	p.clearMeasurementErrors(prev, curr)
	p.clearBulkDataErrors(curr, corrections)
	p.clearSpacetimeErrors(prev, curr, corrections)
	p.clearHookErrors(prev, curr, corrections)
	p.clearEdgeDataErrors(prev, corrections)

	return corrections, false
}

// clearMeasurementErrors clears every syndrome active in both rounds: a
// same-ancilla double fire is a readout artifact, not a defect.
func (p *Pinball) clearMeasurementErrors(prev, curr Bits) {
	for inx := 0; inx < p.lat.NumSyndromes; inx++ {
		andval := curr[inx] & prev[inx]
		curr[inx] ^= andval
		prev[inx] ^= andval
	}
}

// clearBulkDataErrors consumes spacelike data errors in the lattice bulk:
// four passes, one per diagonal direction, pairing same-round ancillas.
// Only odd ancilla rows instantiate leaf decoders; even rows sit on the
// boundary geometry and are deferred to the edge pass so that two syndromes
// are consumed greedily wherever possible.
func (p *Pinball) clearBulkDataErrors(syndrome, corrections Bits) {
	lat := p.lat
	for _, dir := range lattice.Directions {
		for i := 0; i < lat.SyndromeRows; i++ {
			if i%2 == 0 {
				continue
			}
			for j := 0; j < lat.SyndromeCols; j++ {
				nr, nc := dir.ParityNeighbor(i, j)
				dr, dc := dir.DataBetween(i, j)

				centerInx := lat.SyndromeIndex(i, j)

				// An off-grid neighbor reads as 0 here; the edge pass picks
				// up whatever the boundary leaves behind.
				if !lat.InSyndromeGrid(nr, nc) {
					continue
				}
				neighborInx := lat.SyndromeIndex(nr, nc)

				if !lat.InDataGrid(dr, dc) {
					continue
				}

				andval := syndrome[centerInx] & syndrome[neighborInx]
				corrections[lat.DataIndex(dr, dc)] ^= andval
				syndrome[centerInx] ^= andval
				syndrome[neighborInx] ^= andval
			}
		}
	}
}

// spacetimeDirections are the two passes of the spacetime stage.
var spacetimeDirections = [2]lattice.Direction{lattice.TopRight, lattice.TopLeft}

// clearSpacetimeErrors consumes single-qubit spacetime errors: an ancilla
// active in curr paired with a diagonal neighbor active in prev, in the two
// top directions.
func (p *Pinball) clearSpacetimeErrors(prev, curr, corrections Bits) {
	lat := p.lat
	for _, dir := range spacetimeDirections {
		for i := 0; i < lat.SyndromeRows; i++ {
			for j := 0; j < lat.SyndromeCols; j++ {
				nr, nc := dir.ParityNeighbor(i, j)
				dr, dc := dir.DataBetween(i, j)

				if !lat.InDataGrid(dr, dc) {
					continue
				}

				// An absent neighbor reads as 0, so the AND below is a
				// no-op for boundary cells; no stricter guard is applied.
				if !lat.InSyndromeGrid(nr, nc) {
					continue
				}

				centerInx := lat.SyndromeIndex(i, j)
				neighborInx := lat.SyndromeIndex(nr, nc)

				andval := curr[centerInx] & prev[neighborInx]
				corrections[lat.DataIndex(dr, dc)] ^= andval
				curr[centerInx] ^= andval
				prev[neighborInx] ^= andval
			}
		}
	}
}

// clearHookErrors consumes hook errors: two-qubit spacetime defects pairing
// an ancilla in curr with the same-column ancilla two rows up in prev. The
// hook spans both data qubits between them in that column.
func (p *Pinball) clearHookErrors(prev, curr, corrections Bits) {
	lat := p.lat
	for i := 2; i < lat.SyndromeRows; i++ {
		for j := 0; j < lat.SyndromeCols; j++ {
			currInx := lat.SyndromeIndex(i, j)
			prevInx := lat.SyndromeIndex(i-2, j)

			andval := curr[currInx] & prev[prevInx]
			curr[currInx] ^= andval
			prev[prevInx] ^= andval

			col := lattice.HookColumn(i, j)
			corrections[lat.DataIndex(i-1, col)] ^= andval
			corrections[lat.DataIndex(i-2, col)] ^= andval
		}
	}
}

// clearEdgeDataErrors consumes spacelike errors on the left and right
// boundary columns. A boundary ancilla still active after the earlier
// stages is explained by one adjacent boundary data qubit; either adjacent
// qubit is equivalent by symmetry, so a fixed choice is made.
func (p *Pinball) clearEdgeDataErrors(syndrome, corrections Bits) {
	lat := p.lat

	// Leftmost column of data qubits: odd ancilla rows at column 0.
	for i := 0; i < lat.SyndromeRows; i++ {
		if i%2 == 0 {
			continue
		}
		centerInx := lat.SyndromeIndex(i, 0)
		if syndrome[centerInx] != 0 {
			corrections[lat.DataIndex(i-1, 0)] ^= 1
			syndrome[centerInx] ^= 1
		}
	}

	// Rightmost column of data qubits: even ancilla rows at the last column.
	for i := 0; i < lat.SyndromeRows; i++ {
		if i%2 == 1 {
			continue
		}
		centerInx := lat.SyndromeIndex(i, lat.SyndromeCols-1)
		if syndrome[centerInx] != 0 {
			corrections[lat.DataIndex(i, lat.Distance-1)] ^= 1
			syndrome[centerInx] ^= 1
		}
	}
}

// IsLogicalError implements Predecoder. The logical observable's support is
// the leftmost column of data qubits, so the predicted flip is the parity of
// the corrections along that column; a logical error occurred iff the
// prediction disagrees with the observed flip.
func (p *Pinball) IsLogicalError(_ []Bits, corrections Bits, observableFlip bool) bool {
	prediction := uint8(0)
	for i := 0; i < p.lat.Distance; i++ {
		prediction ^= corrections[p.lat.DataIndex(i, 0)]
	}
	return (prediction == 1) != observableFlip
}
