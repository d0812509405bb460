package pinball

import "fmt"

// ErrBatchSizeMismatch indicates a batch whose round count does not match
// the decoder's fixed batch size. This is a programmer error; the decoder
// performs no partial processing.
type ErrBatchSizeMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrBatchSizeMismatch) Error() string {
	return fmt.Sprintf("batch size mismatch: expected %d rounds, got %d", e.Expected, e.Actual)
}

// ErrRoundSizeMismatch indicates a syndrome round whose length does not
// match the lattice's syndrome count.
type ErrRoundSizeMismatch struct {
	Round    int // position of the offending round within the batch
	Expected int
	Actual   int
}

func (e *ErrRoundSizeMismatch) Error() string {
	return fmt.Sprintf("round %d size mismatch: expected %d syndromes, got %d", e.Round, e.Expected, e.Actual)
}
