package scoring

import (
	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/facility"

	"golang.org/x/exp/slices"
)

// Decay is the linear distance decay: MaxScore at distance 0 falling to 0 at CutoffMeters.
type Decay struct {
	CutoffMeters float64 `json:"cutoff_meters"`
	MaxScore     float64 `json:"max_score"`
}

func DefaultDecay() Decay {
	return Decay{CutoffMeters: 1000, MaxScore: 100}
}

type Scorer struct {
	decay Decay
}

// NewScorer falls back to DefaultDecay when d is not usable.
func NewScorer(d Decay) *Scorer {
	if d.CutoffMeters <= 0 || d.MaxScore <= 0 {
		d = DefaultDecay()
	}
	return &Scorer{decay: d}
}

func (s *Scorer) Decay() Decay {
	return s.decay
}

// SubScore maps a walking distance onto [0, MaxScore]. With the default decay this is
// (1000-d)/10 below one kilometre and 0 beyond.
func (s *Scorer) SubScore(d float64) float64 {
	if d < 0 {
		d = 0
	}
	if d >= s.decay.CutoffMeters {
		return 0
	}
	return s.decay.MaxScore * (s.decay.CutoffMeters - d) / s.decay.CutoffMeters
}

// Composite is the weighted mean of sub scores over the labels of weights. Labels with
// no distance count as unreachable. Negative weights count as zero, and a zero weight
// sum scores 0.
func (s *Scorer) Composite(stats datastructure.DistanceStats, weights facility.WeightSet) float64 {
	var total, weightSum float64
	for _, label := range weights.Labels() {
		w := weights[label]
		if w <= 0 {
			continue
		}
		total += w * s.SubScore(stats.Get(label))
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return total / weightSum
}

type Result struct {
	Composite float64                       `json:"composite"`
	Grade     string                        `json:"grade"`
	Breakdown []datastructure.CategoryScore `json:"breakdown"`
}

// Score is Composite plus the per label breakdown. Labels present only in stats show up
// with weight 0.
func (s *Scorer) Score(stats datastructure.DistanceStats, weights facility.WeightSet) Result {
	composite := s.Composite(stats, weights)

	labels := weights.Labels()
	var extra []string
	for l := range stats {
		if _, ok := weights[l]; !ok {
			extra = append(extra, l)
		}
	}
	slices.Sort(extra)
	labels = append(labels, extra...)

	breakdown := make([]datastructure.CategoryScore, 0, len(labels))
	for _, l := range labels {
		d := stats.Get(l)
		w := weights[l]
		if w < 0 {
			w = 0
		}
		breakdown = append(breakdown, datastructure.CategoryScore{
			Label:     l,
			Distance:  d,
			Weight:    w,
			SubScore:  s.SubScore(d),
			Available: d < datastructure.NoDataThreshold,
		})
	}

	return Result{
		Composite: composite,
		Grade:     Grade(composite * 100 / s.decay.MaxScore),
		Breakdown: breakdown,
	}
}

// Grade letter for a score on a 0-100 scale.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "E"
	}
}
