// Package pinball implements local ("predecoder") syndrome decoding for the
// rotated surface code.
//
// Two interchangeable decoders are provided: Clique, a single-round
// 4-neighbor majority/parity rule with early-abort escalation, and Pinball,
// a five-stage sequential clearing pipeline over consecutive round pairs.
// Both consume a short window of syndrome measurement rounds and produce an
// approximate correction together with a "complex" flag. A complex batch is
// not an error: it signals that the window was too ambiguous to resolve
// locally and must be escalated to an exact (matching) decoder.
//
// # Quick start
//
//	dec, _ := pinball.NewPinball(5, 6)
//
//	corrections, complex, err := dec.DecodeBatch(batch)
//	if err != nil {
//	    // programmer error: wrong batch or round length
//	}
//	if complex {
//	    // defer to the exact decoder
//	}
//
// Decoding mutates the supplied syndrome buffers in place: rounds are
// cleared (XORed to zero) as defects are explained. A round buffer must be
// re-initialized before it is reused across independent decode calls.
// Decoder instances themselves are stateless across batches and safe for
// concurrent use as long as each batch owns its buffers.
//
// The sim sub-package provides a phenomenological Monte Carlo harness, the
// lattice sub-package the underlying geometry, and the results sub-package
// persistence for simulation statistics.
package pinball
