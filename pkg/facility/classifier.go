package facility

import (
	"lintang/walkability/pkg/datastructure"

	"golang.org/x/exp/slices"
)

type matcher struct {
	key    string
	values map[string]struct{}
}

func (m matcher) match(p datastructure.POI) bool {
	v, ok := p.Tags[m.key]
	if !ok {
		return false
	}
	_, ok = m.values[v]
	return ok
}

// Classifier partitions POIs into categories. The matchers and the merged download
// query are built once in NewClassifier and never change afterwards.
type Classifier struct {
	categories   CategoryConfig
	matchers     map[string]matcher
	downloadTags map[string][]string
}

func NewClassifier(cfg CategoryConfig) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Classifier{
		categories:   slices.Clone(cfg),
		matchers:     make(map[string]matcher, len(cfg)),
		downloadTags: make(map[string][]string),
	}
	for _, cat := range cfg {
		m := matcher{key: cat.Key, values: make(map[string]struct{}, len(cat.Values))}
		for _, v := range cat.Values {
			m.values[v] = struct{}{}
			if !slices.Contains(c.downloadTags[cat.Key], v) {
				c.downloadTags[cat.Key] = append(c.downloadTags[cat.Key], v)
			}
		}
		c.matchers[cat.Label] = m
	}
	for k := range c.downloadTags {
		slices.Sort(c.downloadTags[k])
	}
	return c, nil
}

func (c *Classifier) Categories() CategoryConfig {
	return slices.Clone(c.categories)
}

func (c *Classifier) Labels() []string {
	return c.categories.Labels()
}

// DownloadTags is the merged tag query: tag key -> distinct values over all categories.
func (c *Classifier) DownloadTags() map[string][]string {
	out := make(map[string][]string, len(c.downloadTags))
	for k, v := range c.downloadTags {
		out[k] = slices.Clone(v)
	}
	return out
}

// Matches reports whether a tag set falls in any configured category.
func (c *Classifier) Matches(tags map[string]string) bool {
	for k, values := range c.downloadTags {
		if v, ok := tags[k]; ok && slices.Contains(values, v) {
			return true
		}
	}
	return false
}

// Lookup returns the POIs of a single category. Unknown labels give nil.
func (c *Classifier) Lookup(label string, pois []datastructure.POI) []datastructure.POI {
	m, ok := c.matchers[label]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var subset []datastructure.POI
	for _, p := range pois {
		if !m.match(p) {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		subset = append(subset, p)
	}
	return subset
}

// Classify returns an entry for every configured label, possibly empty.
func (c *Classifier) Classify(pois []datastructure.POI) map[string][]datastructure.POI {
	res := make(map[string][]datastructure.POI, len(c.categories))
	for _, cat := range c.categories {
		res[cat.Label] = c.Lookup(cat.Label, pois)
	}
	return res
}
