package facility

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

var ErrUnknownPreset = errors.New("unknown weight preset")

// WeightSet maps category label to importance. Typical range is [0,5].
type WeightSet map[string]float64

const PresetUniform = "uniform"

var presets = map[string]WeightSet{
	"young": {
		"subway": 4, "bus": 2, "convenience": 5, "supermarket": 1, "cafe": 4,
		"hospital": 1, "public": 1, "bank": 1, "school": 0, "park": 2,
	},
	"middle": {
		"subway": 3, "bus": 3, "convenience": 1, "supermarket": 5, "cafe": 3,
		"hospital": 3, "public": 4, "bank": 4, "school": 4, "park": 3,
	},
	"senior": {
		"subway": 2, "bus": 4, "convenience": 1, "supermarket": 3, "cafe": 1,
		"hospital": 5, "public": 3, "bank": 3, "school": 0, "park": 4,
	},
}

// Uniform gives every label weight 1.
func Uniform(labels []string) WeightSet {
	ws := make(WeightSet, len(labels))
	for _, l := range labels {
		ws[l] = 1.0
	}
	return ws
}

// Preset returns a copy of the named preset. "uniform" and "" resolve to Uniform(labels).
func Preset(name string, labels []string) (WeightSet, error) {
	if name == "" || name == PresetUniform {
		return Uniform(labels), nil
	}
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownPreset)
	}
	ws := make(WeightSet, len(p))
	for k, v := range p {
		ws[k] = v
	}
	return ws, nil
}

func PresetNames() []string {
	names := []string{PresetUniform}
	for n := range presets {
		names = append(names, n)
	}
	slices.Sort(names[1:])
	return names
}

// Labels sorted, so sums over the set are reproducible.
func (w WeightSet) Labels() []string {
	labels := make([]string, 0, len(w))
	for l := range w {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}
