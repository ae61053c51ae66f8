package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/revente/internal/domain/models"
)

func ids(articles []models.Article) []int64 {
	out := make([]int64, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return out
}

func fixture() []models.Article {
	return []models.Article{
		{ID: 1, Size: "S", Collection: "A", Description: "Veste en laine"},
		{ID: 2, Size: "M", Collection: "A", Description: "Sac CUIR noir"},
		{ID: 3, Size: "S", Collection: "B", Description: "Foulard soie", Sale: &models.Sale{Price: 40}},
		{ID: 4, Size: "M", Collection: "B", Description: ""},
		{ID: 5, Size: "S", Collection: "B", Description: "Ceinture cuir"},
	}
}

func TestApply(t *testing.T) {
	testCases := []struct {
		name     string
		criteria Criteria
		want     []int64
	}{
		{name: "no criteria", criteria: Criteria{}, want: []int64{1, 2, 3, 4, 5}},
		{name: "sentinels pass through", criteria: Criteria{Size: All, Collection: All}, want: []int64{1, 2, 3, 4, 5}},
		{name: "size with any collection", criteria: Criteria{Size: "S", Collection: All}, want: []int64{1, 3, 5}},
		{name: "collection only", criteria: Criteria{Size: All, Collection: "A"}, want: []int64{1, 2}},
		{name: "size and collection", criteria: Criteria{Size: "M", Collection: "B"}, want: []int64{4}},
		{name: "case insensitive description", criteria: Criteria{Query: "cuir"}, want: []int64{2, 5}},
		{name: "spaces in query are significant", criteria: Criteria{Query: "ir "}, want: []int64{2}},
		{name: "whitespace query filters", criteria: Criteria{Query: "   "}, want: []int64{}},
		{name: "empty description excluded by query", criteria: Criteria{Size: "M", Query: "a"}, want: []int64{2}},
		{name: "unsold only", criteria: Criteria{Size: "S", UnsoldOnly: true}, want: []int64{1, 5}},
		{name: "unknown size", criteria: Criteria{Size: "XXL"}, want: []int64{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Apply(fixture(), tc.criteria)))
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := fixture()
	_ = Apply(in, Criteria{Size: "S", UnsoldOnly: true})
	assert.Equal(t, fixture(), in)
}

func TestAvailableOptions(t *testing.T) {
	articles := append(fixture(), models.Article{ID: 6, Size: "", Collection: "C"})

	got := AvailableOptions(articles)
	assert.Equal(t, []string{"S", "M"}, got.Sizes)
	assert.Equal(t, []string{"A", "B", "C"}, got.Collections)
}
