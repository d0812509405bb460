// Package sim provides a self-contained Monte Carlo harness for the
// predecoders: a phenomenological syndrome sampler, a parallel shot runner,
// and the statistics the decoding experiments report.
//
// The sampler plants cumulative data errors and readout flips round by
// round and synthesizes detector rounds using the exact index conventions
// the decoders consume, so sampled shots feed straight into DecodeBatch and
// the validation oracles. Circuit-level noise models are out of scope;
// callers with an external syndrome source can bypass the sampler entirely.
package sim
