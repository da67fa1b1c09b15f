package facility_test

import (
	"testing"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/facility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poi(id, key, value string) datastructure.POI {
	return datastructure.NewPOI(id, map[string]string{key: value}, -7.55, 110.8)
}

func TestClassifier(t *testing.T) {
	c, err := facility.NewClassifier(facility.DefaultCategories())
	require.NoError(t, err)

	pois := []datastructure.POI{
		poi("node/1", "shop", "convenience"),
		poi("node/2", "shop", "supermarket"),
		poi("node/3", "amenity", "cafe"),
		poi("node/1", "shop", "convenience"),
		poi("node/4", "amenity", "restaurant"),
		datastructure.NewPOI("way/5", map[string]string{"name": "no category"}, 0, 0),
	}

	t.Run("partitions by tag", func(t *testing.T) {
		got := c.Classify(pois)
		assert.Len(t, got, 10)
		assert.Len(t, got["convenience"], 1, "duplicate poi identity removed")
		assert.Equal(t, "node/2", got["supermarket"][0].ID)
		assert.Equal(t, "node/3", got["cafe"][0].ID)
		assert.Empty(t, got["bank"])
	})

	t.Run("unknown label", func(t *testing.T) {
		assert.Nil(t, c.Lookup("casino", pois))
	})

	t.Run("merged download tags", func(t *testing.T) {
		tags := c.DownloadTags()
		assert.Equal(t, []string{"convenience", "supermarket"}, tags["shop"])
		assert.Equal(t, []string{"bank", "cafe", "clinic", "community_centre", "school"}, tags["amenity"])
		assert.Equal(t, []string{"subway"}, tags["station"])
		assert.Len(t, tags, 5)
	})

	t.Run("matches", func(t *testing.T) {
		assert.True(t, c.Matches(map[string]string{"leisure": "park"}))
		assert.False(t, c.Matches(map[string]string{"leisure": "pitch"}))
	})
}

func TestClassifierMultipleValues(t *testing.T) {
	c, err := facility.NewClassifier(facility.CategoryConfig{
		{Label: "transit", Key: "railway", Values: []string{"station", "halt"}},
	})
	require.NoError(t, err)

	got := c.Lookup("transit", []datastructure.POI{
		poi("node/1", "railway", "station"),
		poi("node/2", "railway", "halt"),
		poi("node/3", "railway", "platform"),
	})
	assert.Len(t, got, 2)
}

func TestCategoryConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  facility.CategoryConfig
		want error
	}{
		{name: "empty", cfg: nil, want: facility.ErrEmptyConfig},
		{name: "no label", cfg: facility.CategoryConfig{{Key: "shop", Values: []string{"x"}}}, want: facility.ErrInvalidCategory},
		{name: "duplicate", cfg: facility.CategoryConfig{
			{Label: "a", Key: "shop", Values: []string{"x"}},
			{Label: "a", Key: "shop", Values: []string{"y"}},
		}, want: facility.ErrInvalidCategory},
		{name: "no values", cfg: facility.CategoryConfig{{Label: "a", Key: "shop"}}, want: facility.ErrInvalidCategory},
		{name: "default", cfg: facility.DefaultCategories(), want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
