package catalog

import (
	"testing"

	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	products := Fallback()

	tests := []struct {
		name      string
		category  domain.CategoryFilter
		subFilter string
		want      []string
	}{
		{
			name:     "all categories show everything in order",
			category: domain.AllCategories,
			want: []string{"vanilla-caramel-candle", "green-tea-lime-diffuser", "lavender-linen-spray",
				"night-jasmine-candle", "spa-day-combo", "sandalwood-candle"},
		},
		{
			name:      "show all sub-filter",
			category:  domain.OnlyCategory(domain.Candles),
			subFilter: ShowAll,
			want:      []string{"vanilla-caramel-candle", "night-jasmine-candle", "sandalwood-candle"},
		},
		{
			name:      "sub-filter is case-insensitive only for all",
			category:  domain.OnlyCategory(domain.Candles),
			subFilter: "ALL",
			want:      []string{"vanilla-caramel-candle", "night-jasmine-candle", "sandalwood-candle"},
		},
		{
			name:      "candles tagged Fresh",
			category:  domain.OnlyCategory(domain.Candles),
			subFilter: "Fresh",
			want:      []string{"night-jasmine-candle"},
		},
		{
			name:      "diffusers tagged Spray",
			category:  domain.OnlyCategory(domain.Diffusers),
			subFilter: "Spray",
			want:      []string{"lavender-linen-spray"},
		},
		{
			name:      "tag match is exact",
			category:  domain.OnlyCategory(domain.Candles),
			subFilter: "fresh",
			want:      []string{},
		},
		{
			name:      "tag across categories",
			category:  domain.AllCategories,
			subFilter: "Holistic",
			want:      []string{"lavender-linen-spray", "spa-day-combo", "sandalwood-candle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slugs(Filter(products, tt.category, tt.subFilter))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil, domain.AllCategories, ""))
}

func TestSubFilters(t *testing.T) {
	assert.Equal(t, []string{"all", "Holistic", "Fresh", "Classic", "Warm"}, SubFilters(domain.OnlyCategory(domain.Candles)))
	assert.Equal(t, []string{"all", "Diffuser", "Spray"}, SubFilters(domain.OnlyCategory(domain.Diffusers)))
	assert.Nil(t, SubFilters(domain.OnlyCategory(domain.Combos)))
	assert.Nil(t, SubFilters(domain.AllCategories))
}

func TestFeatured(t *testing.T) {
	products := Fallback()

	assert.Equal(t, []string{"vanilla-caramel-candle", "green-tea-lime-diffuser"}, slugs(Featured(products, 2)))
	assert.Len(t, Featured(products, 0), 4)
	assert.Empty(t, Featured(nil, 4))
}

func TestByAroma(t *testing.T) {
	products := Fallback()

	// tag match
	assert.Equal(t, []string{"vanilla-caramel-candle", "sandalwood-candle"}, slugs(ByAroma(products, "Warm", 4)))
	// note substring match
	assert.Equal(t, []string{"vanilla-caramel-candle"}, slugs(ByAroma(products, "Vanilla", 4)))
	assert.Equal(t, []string{"lavender-linen-spray"}, slugs(ByAroma(products, "Lavender", 1)))
	assert.Empty(t, ByAroma(products, "Patchouli", 4))
}
