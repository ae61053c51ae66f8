// Package ledger holds the in-memory article collection of one unit of work.
// A ledger is loaded whole, mutated, and handed back whole for saving.
package ledger

import (
	"fmt"

	"github.com/mamadbah2/revente/internal/domain/models"
)

// Ledger is an ordered collection of articles. It is not safe for concurrent use.
type Ledger struct {
	articles []models.Article
}

// New wraps a loaded snapshot. The snapshot is copied.
func New(snapshot []models.Article) *Ledger {
	articles := make([]models.Article, 0, len(snapshot))
	for _, a := range snapshot {
		articles = append(articles, a.Clone())
	}
	return &Ledger{articles: articles}
}

// Len returns the number of articles.
func (l *Ledger) Len() int {
	return len(l.articles)
}

// NextID returns 1 for an empty ledger and max(id)+1 otherwise. It is derived
// from the current contents on every call.
func (l *Ledger) NextID() int64 {
	var highest int64
	for _, a := range l.articles {
		if a.ID > highest {
			highest = a.ID
		}
	}
	return highest + 1
}

// Validate checks the fields Add requires.
func Validate(draft models.ArticleDraft) error {
	switch {
	case draft.PurchasePrice == nil:
		return fmt.Errorf("%w: prix_achat is required", models.ErrInvalidInput)
	case *draft.PurchasePrice < 0:
		return fmt.Errorf("%w: prix_achat must not be negative", models.ErrInvalidInput)
	case draft.ArrivedAt.IsZero():
		return fmt.Errorf("%w: date_arrivee is required", models.ErrInvalidInput)
	case draft.Estimate < 0:
		return fmt.Errorf("%w: estimation must not be negative", models.ErrInvalidInput)
	}
	return nil
}

// Add assigns the next id to draft and appends it.
func (l *Ledger) Add(draft models.ArticleDraft) (models.Article, error) {
	if err := Validate(draft); err != nil {
		return models.Article{}, err
	}

	article := models.Article{
		ID:            l.NextID(),
		ArrivedAt:     draft.ArrivedAt,
		PhotoID:       draft.PhotoID,
		PurchasePrice: *draft.PurchasePrice,
		Description:   draft.Description,
		Size:          draft.Size,
		Collection:    draft.Collection,
		Estimate:      draft.Estimate,
	}
	l.articles = append(l.articles, article)
	return article.Clone(), nil
}

// Find returns a copy of the article with the given id.
func (l *Ledger) Find(id int64) (models.Article, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return models.Article{}, fmt.Errorf("%w: id %d", models.ErrNotFound, id)
	}
	return l.articles[idx].Clone(), nil
}

// RecordSale sets the sale group of an unsold article in one step.
func (l *Ledger) RecordSale(id int64, sale models.Sale) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: id %d", models.ErrNotFound, id)
	}
	if l.articles[idx].IsSold() {
		return fmt.Errorf("%w: id %d", models.ErrAlreadySold, id)
	}
	l.articles[idx].Sale = &sale
	return nil
}

// All returns every article in ledger order.
func (l *Ledger) All() []models.Article {
	return l.selectWhere(func(models.Article) bool { return true })
}

// Unsold returns the articles still in stock.
func (l *Ledger) Unsold() []models.Article {
	return l.selectWhere(func(a models.Article) bool { return !a.IsSold() })
}

// Sold returns the articles that have been sold.
func (l *Ledger) Sold() []models.Article {
	return l.selectWhere(models.Article.IsSold)
}

// Articles returns the snapshot to hand back to storage.
func (l *Ledger) Articles() []models.Article {
	return l.All()
}

func (l *Ledger) indexOf(id int64) int {
	for i, a := range l.articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) selectWhere(keep func(models.Article) bool) []models.Article {
	out := make([]models.Article, 0, len(l.articles))
	for _, a := range l.articles {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}
