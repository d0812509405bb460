package sim

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Stats accumulates the outcome counters of a simulation. Merging is
// associative and commutative, so per-worker Stats combine in any order.
type Stats struct {
	// Shots is the total number of sampled shots.
	Shots uint64

	// Trivial counts shots with no syndrome activity; they succeed under
	// any decoder and are not decoded.
	Trivial uint64

	// Local counts shots committed by the predecoder (batch not complex).
	Local uint64

	// LocalErrors counts committed shots whose corrections amounted to a
	// logical error.
	LocalErrors uint64

	// Escalations counts complex batches deferred to the exact decoder.
	Escalations uint64

	// FallbackShots / FallbackErrors count shots actually decoded by a
	// configured fallback and its logical errors.
	FallbackShots  uint64
	FallbackErrors uint64

	// Escalated records the global shot indices of escalated batches, for
	// offline analysis of escalation clustering.
	Escalated *roaring.Bitmap

	// SyndromeWeights holds the initial detector weight of every
	// non-trivial shot.
	SyndromeWeights []float64
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{Escalated: roaring.New()}
}

// Merge folds other into s.
func (s *Stats) Merge(other *Stats) {
	s.Shots += other.Shots
	s.Trivial += other.Trivial
	s.Local += other.Local
	s.LocalErrors += other.LocalErrors
	s.Escalations += other.Escalations
	s.FallbackShots += other.FallbackShots
	s.FallbackErrors += other.FallbackErrors
	if other.Escalated != nil {
		s.Escalated.Or(other.Escalated)
	}
	s.SyndromeWeights = append(s.SyndromeWeights, other.SyndromeWeights...)
}

// Decided returns the number of shots with a committed decoding outcome:
// trivial shots, locally decoded shots, and fallback-decoded shots.
// Escalations without a fallback remain undecided.
func (s *Stats) Decided() uint64 {
	return s.Trivial + s.Local + s.FallbackShots
}

// LogicalErrors returns the total number of logical errors across local and
// fallback decoding.
func (s *Stats) LogicalErrors() uint64 {
	return s.LocalErrors + s.FallbackErrors
}

// LogicalErrorRate estimates the per-batch logical error rate over decided
// shots. Returns 0 when nothing was decided.
func (s *Stats) LogicalErrorRate() float64 {
	n := s.Decided()
	if n == 0 {
		return 0
	}
	return float64(s.LogicalErrors()) / float64(n)
}

// EscalationRate returns the fraction of shots escalated to the exact
// decoder.
func (s *Stats) EscalationRate() float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Escalations) / float64(s.Shots)
}

// ErrorRateInterval returns the Wilson score interval for the logical error
// rate at the given confidence level (e.g. 0.95).
func (s *Stats) ErrorRateInterval(confidence float64) (lo, hi float64) {
	n := float64(s.Decided())
	if n == 0 {
		return 0, 0
	}
	p := s.LogicalErrorRate()

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(1 - (1-confidence)/2)
	z2 := z * z

	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	margin := z / denom * math.Sqrt(p*(1-p)/n+z2/(4*n*n))

	lo = center - margin
	if lo < 0 {
		lo = 0
	}
	hi = center + margin
	if hi > 1 {
		hi = 1
	}
	return lo, hi
}

// WeightSummary is a descriptive summary of the initial syndrome weight
// distribution over non-trivial shots.
type WeightSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	StdDev float64 `json:"std_dev"`
	Max    float64 `json:"max"`
}

// SummarizeWeights computes the weight distribution summary. Returns a zero
// summary when no non-trivial shots were observed.
func (s *Stats) SummarizeWeights() (WeightSummary, error) {
	if len(s.SyndromeWeights) == 0 {
		return WeightSummary{}, nil
	}
	data := stats.LoadRawData(s.SyndromeWeights)

	mean, err := data.Mean()
	if err != nil {
		return WeightSummary{}, err
	}
	median, err := data.Median()
	if err != nil {
		return WeightSummary{}, err
	}
	p95, err := data.Percentile(95)
	if err != nil {
		return WeightSummary{}, err
	}
	stddev, err := data.StandardDeviation()
	if err != nil {
		return WeightSummary{}, err
	}
	max, err := data.Max()
	if err != nil {
		return WeightSummary{}, err
	}

	return WeightSummary{Mean: mean, Median: median, P95: p95, StdDev: stddev, Max: max}, nil
}

// Report is the serializable summary of a finished run.
type Report struct {
	Shots            uint64        `json:"num_total_shots"`
	Trivial          uint64        `json:"num_trivial_shots"`
	Local            uint64        `json:"num_l1_shots"`
	LocalErrors      uint64        `json:"num_l1_errors"`
	Escalations      uint64        `json:"num_complex"`
	FallbackShots    uint64        `json:"num_l2_shots"`
	FallbackErrors   uint64        `json:"num_l2_errors"`
	LogicalErrorRate float64       `json:"logical_error_rate"`
	IntervalLow      float64       `json:"logical_error_rate_ci_low"`
	IntervalHigh     float64       `json:"logical_error_rate_ci_high"`
	EscalationRate   float64       `json:"escalation_rate"`
	Weights          WeightSummary `json:"syndrome_weights"`
}

// Report summarizes the stats at 95% confidence.
func (s *Stats) Report() (Report, error) {
	weights, err := s.SummarizeWeights()
	if err != nil {
		return Report{}, err
	}
	lo, hi := s.ErrorRateInterval(0.95)
	return Report{
		Shots:            s.Shots,
		Trivial:          s.Trivial,
		Local:            s.Local,
		LocalErrors:      s.LocalErrors,
		Escalations:      s.Escalations,
		FallbackShots:    s.FallbackShots,
		FallbackErrors:   s.FallbackErrors,
		LogicalErrorRate: s.LogicalErrorRate(),
		IntervalLow:      lo,
		IntervalHigh:     hi,
		EscalationRate:   s.EscalationRate(),
		Weights:          weights,
	}, nil
}
