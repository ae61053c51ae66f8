// Package sale moves an article from Unsold to Sold. It is the only path that
// writes sale fields; there is no reversal.
package sale

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/revente/internal/domain/accounts"
	"github.com/mamadbah2/revente/internal/domain/gains"
	"github.com/mamadbah2/revente/internal/domain/ledger"
	"github.com/mamadbah2/revente/internal/domain/models"
)

// Policy controls how unknown sales accounts are treated.
type Policy struct {
	// AcceptUnknownAccounts registers an unknown account instead of rejecting the sale.
	AcceptUnknownAccounts bool
}

// Outcome describes a completed sale.
type Outcome struct {
	Article models.Article
	// AccountRegistered is true when the sale added a new account to the registry.
	AccountRegistered bool
}

// Workflow validates and applies sales.
type Workflow struct {
	calc   gains.Calculator
	policy Policy
}

// NewWorkflow builds a workflow.
func NewWorkflow(calc gains.Calculator, policy Policy) *Workflow {
	return &Workflow{calc: calc, policy: policy}
}

// Sell records the sale of article id. Every precondition is checked before
// the ledger or the registry is touched, so a failure leaves both unchanged.
func (w *Workflow) Sell(l *ledger.Ledger, reg *accounts.Registry, id int64, req models.SaleRequest) (Outcome, error) {
	article, err := l.Find(id)
	if err != nil {
		return Outcome{}, err
	}
	if article.IsSold() {
		return Outcome{}, fmt.Errorf("%w: id %d", models.ErrAlreadySold, id)
	}

	account := strings.TrimSpace(req.Account)
	switch {
	case req.Price < 0:
		return Outcome{}, fmt.Errorf("%w: prix_vente must not be negative", models.ErrInvalidInput)
	case req.Date.IsZero():
		return Outcome{}, fmt.Errorf("%w: date_vente is required", models.ErrInvalidInput)
	case account == "":
		return Outcome{}, fmt.Errorf("%w: compte_vente is required", models.ErrInvalidInput)
	}

	known := reg.Contains(account)
	if !known && !w.policy.AcceptUnknownAccounts {
		return Outcome{}, fmt.Errorf("%w: unknown compte_vente %q", models.ErrInvalidInput, account)
	}

	sale := models.Sale{
		Price:   req.Price,
		Date:    models.CalendarDay(req.Date),
		Account: account,
		Gains:   w.calc.Compute(article.PurchasePrice, req.Price),
	}
	if err := l.RecordSale(id, sale); err != nil {
		return Outcome{}, err
	}

	registered := false
	if !known {
		registered = reg.Register(account)
	}

	sold, err := l.Find(id)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Article: sold, AccountRegistered: registered}, nil
}
