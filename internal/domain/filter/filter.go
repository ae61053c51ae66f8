package filter

import (
	"strings"

	"github.com/mamadbah2/revente/internal/domain/models"
)

// All is the selection value that disables the size or collection stage.
const All = "(Toutes)"

// Criteria describes the browse filters. Empty Size or Collection behaves like All.
type Criteria struct {
	Size       string
	Collection string
	Query      string
	UnsoldOnly bool
}

// Options lists the values offered by the size and collection selectors.
type Options struct {
	Sizes       []string `json:"tailles"`
	Collections []string `json:"collections"`
}

// Apply keeps the articles matching every stage of c, in ledger order.
func Apply(articles []models.Article, c Criteria) []models.Article {
	query := strings.ToLower(c.Query)

	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if !selected(c.Size, a.Size) {
			continue
		}
		if !selected(c.Collection, a.Collection) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(a.Description), query) {
			continue
		}
		if c.UnsoldOnly && a.IsSold() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// AvailableOptions returns the distinct non-empty sizes and collections in
// order of first appearance.
func AvailableOptions(articles []models.Article) Options {
	return Options{
		Sizes:       distinct(articles, func(a models.Article) string { return a.Size }),
		Collections: distinct(articles, func(a models.Article) string { return a.Collection }),
	}
}

func selected(choice, value string) bool {
	if choice == "" || choice == All {
		return true
	}
	return value == choice
}

func distinct(articles []models.Article, field func(models.Article) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, a := range articles {
		v := field(a)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
