package pinball

import "github.com/aknapen/pinball/lattice"

// Predecoder is a local decoder for a fixed (distance, batch size) pair.
//
// DecodeBatch consumes a temporally ordered batch of syndrome rounds and
// returns the accumulated correction vector (length NumDataQubits) together
// with the complex flag. The rounds are mutated in place. A batch whose
// shape does not match the decoder's construction parameters fails with
// *ErrBatchSizeMismatch or *ErrRoundSizeMismatch.
//
// IsLogicalError validates a completed decode against the planted per-round
// physical error records and the externally observed logical-observable
// flip. It is an observation about decode quality, not a fault.
type Predecoder interface {
	// Name identifies the decoder variant.
	Name() string

	// Distance returns the code distance fixed at construction.
	Distance() int

	// BatchSize returns the number of rounds per batch fixed at construction.
	BatchSize() int

	// Lattice returns the decoder's derived lattice geometry.
	Lattice() lattice.Lattice

	// DecodeBatch decodes a batch of syndrome rounds.
	DecodeBatch(batch []Bits) (corrections Bits, complex bool, err error)

	// IsLogicalError reports whether the corrections, measured against the
	// true physical errors and observable flip, amount to a logical error.
	IsLogicalError(errors []Bits, corrections Bits, observableFlip bool) bool
}

// roundDecoder is the decoder-specific single-round step: it consumes a
// (prev, curr) pair of consecutive rounds, possibly mutating both, and
// returns this round's corrections and complexity.
type roundDecoder interface {
	decodeRound(prev, curr Bits) (Bits, bool)
}

// decodeRounds is the batch loop shared by both decoders: feed consecutive
// round pairs into the single-round step, XOR-accumulate corrections, OR
// complexity.
//
// The prev rebinding after each step deliberately aliases the round just
// consumed, so a step's mutations of prev land in the batch's own buffers.
func decodeRounds(d roundDecoder, lat lattice.Lattice, batchSize int, batch []Bits) (Bits, bool, error) {
	if len(batch) != batchSize {
		return nil, false, &ErrBatchSizeMismatch{Expected: batchSize, Actual: len(batch)}
	}
	for i, round := range batch {
		if len(round) != lat.NumSyndromes {
			return nil, false, &ErrRoundSizeMismatch{Round: i, Expected: lat.NumSyndromes, Actual: len(round)}
		}
	}

	corrections := NewBits(lat.NumDataQubits)
	complex := false

	// The initial previous round defaults to all zeros.
	prev := NewBits(lat.NumSyndromes)

	for _, curr := range batch {
		roundCorrections, roundComplex := d.decodeRound(prev, curr)
		if roundComplex {
			complex = true
		}
		corrections.Xor(roundCorrections)
		prev = curr
	}

	return corrections, complex, nil
}
