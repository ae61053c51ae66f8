package gains

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/revente/internal/domain/models"
)

// DefaultTaxRate is the share of sale proceeds withheld as tax (12.6%).
var DefaultTaxRate = decimal.RequireFromString("0.126")

var hundred = decimal.NewFromInt(100)

// Calculator derives sale outcomes for a fixed tax rate.
type Calculator struct {
	taxRate decimal.Decimal
}

// NewCalculator builds a calculator. Tax is levied on the sale price, not on the gain.
func NewCalculator(taxRate decimal.Decimal) Calculator {
	return Calculator{taxRate: taxRate}
}

// TaxRate returns the configured rate.
func (c Calculator) TaxRate() decimal.Decimal {
	return c.taxRate
}

// Compute returns the gains of selling at salePrice an article bought at
// purchasePrice. Percentages are 0 when the purchase price is 0.
func (c Calculator) Compute(purchasePrice, salePrice int64) models.Gains {
	purchase := decimal.NewFromInt(purchasePrice)
	sale := decimal.NewFromInt(salePrice)

	value := sale.Sub(purchase)
	afterTax := value.Sub(sale.Mul(c.taxRate))

	return models.Gains{
		Value:           value,
		Percent:         percentOf(value, purchase),
		AfterTaxValue:   afterTax,
		AfterTaxPercent: percentOf(afterTax, purchase),
	}
}

func percentOf(part, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return part.Div(base).Mul(hundred)
}
