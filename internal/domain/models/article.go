package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Article is one inventory item tracked from intake to sale.
// Sale is nil while the article is in stock; once set it is never replaced.
type Article struct {
	ID            int64     `json:"id"`
	ArrivedAt     time.Time `json:"date_arrivee"`
	PhotoID       string    `json:"photo_id,omitempty"`
	PurchasePrice int64     `json:"prix_achat"`
	Description   string    `json:"description"`
	Size          string    `json:"taille"`
	Collection    string    `json:"collection"`
	Estimate      int64     `json:"estimation"`
	Sale          *Sale     `json:"vente,omitempty"`
}

// Sale groups every field written when an article is sold.
type Sale struct {
	Price   int64     `json:"prix_vente"`
	Date    time.Time `json:"date_vente"`
	Account string    `json:"compte_vente"`
	Gains   Gains     `json:"gains"`
}

// Gains holds the outcome of a sale, computed once and stored.
type Gains struct {
	Value           decimal.Decimal `json:"gain_valeur"`
	Percent         decimal.Decimal `json:"gain_percent"`
	AfterTaxValue   decimal.Decimal `json:"gain_apres_impots_valeur"`
	AfterTaxPercent decimal.Decimal `json:"gain_apres_impots_percent"`
}

// ArticleDraft carries the intake form before an id is assigned.
// PurchasePrice is a pointer so that a missing price can be told apart from 0.
type ArticleDraft struct {
	ArrivedAt     time.Time
	PhotoID       string
	PurchasePrice *int64
	Description   string
	Size          string
	Collection    string
	Estimate      int64
}

// IsSold reports whether the article reached its terminal state.
func (a Article) IsSold() bool {
	return a.Sale != nil
}

// Clone returns a copy that shares no memory with a.
func (a Article) Clone() Article {
	if a.Sale != nil {
		sale := *a.Sale
		a.Sale = &sale
	}
	return a
}

// WallClock drops the location of t while keeping its calendar fields, which
// is how dates are stored in the ledger file.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// CalendarDay truncates t to midnight of its calendar day.
func CalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
