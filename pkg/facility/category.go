package facility

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyConfig     = errors.New("category config is empty")
	ErrInvalidCategory = errors.New("invalid category")
)

// Category binds a label to the OSM tag values that count as that kind of facility.
type Category struct {
	Label  string   `json:"label"`
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

type CategoryConfig []Category

// DefaultCategories ten everyday amenities used by the scorer.
func DefaultCategories() CategoryConfig {
	return CategoryConfig{
		{Label: "subway", Key: "station", Values: []string{"subway"}},
		{Label: "bus", Key: "highway", Values: []string{"bus_stop"}},
		{Label: "convenience", Key: "shop", Values: []string{"convenience"}},
		{Label: "supermarket", Key: "shop", Values: []string{"supermarket"}},
		{Label: "cafe", Key: "amenity", Values: []string{"cafe"}},
		{Label: "hospital", Key: "amenity", Values: []string{"clinic"}},
		{Label: "public", Key: "amenity", Values: []string{"community_centre"}},
		{Label: "bank", Key: "amenity", Values: []string{"bank"}},
		{Label: "school", Key: "amenity", Values: []string{"school"}},
		{Label: "park", Key: "leisure", Values: []string{"park"}},
	}
}

func (c CategoryConfig) Validate() error {
	if len(c) == 0 {
		return ErrEmptyConfig
	}
	seen := make(map[string]struct{}, len(c))
	for i, cat := range c {
		if cat.Label == "" {
			return fmt.Errorf("category #%d: empty label: %w", i, ErrInvalidCategory)
		}
		if _, ok := seen[cat.Label]; ok {
			return fmt.Errorf("category %q: duplicate label: %w", cat.Label, ErrInvalidCategory)
		}
		seen[cat.Label] = struct{}{}
		if cat.Key == "" || len(cat.Values) == 0 {
			return fmt.Errorf("category %q: tag key and at least one value are required: %w", cat.Label, ErrInvalidCategory)
		}
	}
	return nil
}

func (c CategoryConfig) Labels() []string {
	labels := make([]string, len(c))
	for i, cat := range c {
		labels[i] = cat.Label
	}
	return labels
}
