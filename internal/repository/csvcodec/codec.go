// Package csvcodec converts ledger snapshots and sales account lists to and
// from the CSV files kept in the storage folder.
package csvcodec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/revente/internal/domain/accounts"
	"github.com/mamadbah2/revente/internal/domain/models"
)

const (
	arrivalLayout = "2006-01-02 15:04:05"
	saleLayout    = "2006-01-02"
)

// Ledger columns, in file order.
const (
	colID              = "id"
	colArrivedAt       = "date_arrivee"
	colPhotoID         = "photo_id"
	colPurchasePrice   = "prix_achat"
	colDescription     = "description"
	colSize            = "taille"
	colCollection      = "collection"
	colEstimate        = "estimation"
	colSalePrice       = "prix_vente"
	colSaleDate        = "date_vente"
	colSaleAccount     = "compte_vente"
	colGainValue       = "gain_valeur"
	colGainPercent     = "gain_percent"
	colAfterTaxValue   = "gain_apres_impots_valeur"
	colAfterTaxPercent = "gain_apres_impots_percent"
)

// Columns is the persisted ledger schema.
var Columns = []string{
	colID, colArrivedAt, colPhotoID, colPurchasePrice, colDescription, colSize,
	colCollection, colEstimate, colSalePrice, colSaleDate, colSaleAccount,
	colGainValue, colGainPercent, colAfterTaxValue, colAfterTaxPercent,
}

// ErrMalformed is returned when a file cannot be read as the expected schema.
var ErrMalformed = errors.New("malformed csv")

var utf8BOM = []byte("\xef\xbb\xbf")

// EncodeArticles renders a ledger snapshot. Absent sale fields are left empty.
func EncodeArticles(articles []models.Article) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, a := range articles {
		if err := w.Write(articleRow(a)); err != nil {
			return nil, fmt.Errorf("write article %d: %w", a.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeArticles parses a ledger file. An empty file yields an empty ledger.
func DecodeArticles(data []byte) ([]models.Article, error) {
	records, err := DecodeRecords(data)
	if err != nil {
		return nil, err
	}

	articles := make([]models.Article, 0, len(records))
	for i, rec := range records {
		a, err := parseArticle(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformed, i+2, err)
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// EncodeAccounts renders the sales account list as a single column file.
func EncodeAccounts(names []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{accounts.NameField}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, n := range names {
		if err := w.Write([]string{n}); err != nil {
			return nil, fmt.Errorf("write account %q: %w", n, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRecords reads a CSV file with a header row into one map per row,
// keyed by column name. Short rows leave the trailing columns unset.
func DecodeRecords(data []byte) ([]map[string]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformed, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var out []map[string]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func articleRow(a models.Article) []string {
	row := []string{
		strconv.FormatInt(a.ID, 10),
		a.ArrivedAt.Format(arrivalLayout),
		a.PhotoID,
		strconv.FormatInt(a.PurchasePrice, 10),
		a.Description,
		a.Size,
		a.Collection,
		strconv.FormatInt(a.Estimate, 10),
		"", "", "", "", "", "", "",
	}
	if s := a.Sale; s != nil {
		row[8] = strconv.FormatInt(s.Price, 10)
		row[9] = s.Date.Format(saleLayout)
		row[10] = s.Account
		row[11] = s.Gains.Value.String()
		row[12] = s.Gains.Percent.String()
		row[13] = s.Gains.AfterTaxValue.String()
		row[14] = s.Gains.AfterTaxPercent.String()
	}
	return row
}

func parseArticle(rec map[string]string) (models.Article, error) {
	var (
		a   models.Article
		err error
		ok  bool
	)

	if a.ID, ok, err = parseInt(rec[colID]); err != nil || !ok {
		return a, fieldError(colID, rec[colID], err)
	}
	if a.ArrivedAt, ok, err = parseTime(rec[colArrivedAt]); err != nil || !ok {
		return a, fieldError(colArrivedAt, rec[colArrivedAt], err)
	}
	if a.PurchasePrice, _, err = parseInt(rec[colPurchasePrice]); err != nil {
		return a, fieldError(colPurchasePrice, rec[colPurchasePrice], err)
	}
	if a.Estimate, _, err = parseInt(rec[colEstimate]); err != nil {
		return a, fieldError(colEstimate, rec[colEstimate], err)
	}
	a.PhotoID = text(rec[colPhotoID])
	a.Description = rec[colDescription]
	a.Size = rec[colSize]
	a.Collection = rec[colCollection]

	price, sold, err := parseInt(rec[colSalePrice])
	if err != nil {
		return a, fieldError(colSalePrice, rec[colSalePrice], err)
	}
	if !sold {
		return a, nil
	}

	sale := models.Sale{Price: price, Account: strings.TrimSpace(rec[colSaleAccount])}
	if sale.Date, ok, err = parseTime(rec[colSaleDate]); err != nil || !ok {
		return a, fieldError(colSaleDate, rec[colSaleDate], err)
	}
	if sale.Account == "" {
		return a, fieldError(colSaleAccount, "", nil)
	}

	gainFields := []struct {
		col string
		dst *decimal.Decimal
	}{
		{colGainValue, &sale.Gains.Value},
		{colGainPercent, &sale.Gains.Percent},
		{colAfterTaxValue, &sale.Gains.AfterTaxValue},
		{colAfterTaxPercent, &sale.Gains.AfterTaxPercent},
	}
	for _, f := range gainFields {
		v, present, err := parseDecimal(rec[f.col])
		if err != nil || !present {
			return a, fieldError(f.col, rec[f.col], err)
		}
		*f.dst = v
	}

	a.Sale = &sale
	return a, nil
}

func fieldError(col, value string, err error) error {
	if err != nil {
		return fmt.Errorf("%s %q: %w", col, value, err)
	}
	return fmt.Errorf("%s is required", col)
}

// blank reports cells that stand for a missing value, including the NaN
// rendering left by older exports. Free-text columns never go through it.
func blank(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

// text reads an opaque identifier cell such as photo_id.
func text(s string) string {
	if blank(s) {
		return ""
	}
	return s
}

func parseDecimal(s string) (decimal.Decimal, bool, error) {
	if blank(s) {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}

// parseInt accepts integral float renderings such as 120.0.
func parseInt(s string) (int64, bool, error) {
	d, ok, err := parseDecimal(s)
	if err != nil || !ok {
		return 0, ok, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, false, fmt.Errorf("not an integer")
	}
	return d.IntPart(), true, nil
}

var timeLayouts = []string{arrivalLayout, saleLayout, "2006-01-02T15:04:05", time.RFC3339}

func parseTime(s string) (time.Time, bool, error) {
	if blank(s) {
		return time.Time{}, false, nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.WallClock(t), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date")
}
