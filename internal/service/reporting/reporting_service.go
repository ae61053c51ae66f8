package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/revente/internal/domain/models"
	"github.com/mamadbah2/revente/internal/domain/stats"
	repo "github.com/mamadbah2/revente/internal/repository/drive"
	"github.com/mamadbah2/revente/internal/repository/mongodb"
)

const dateLayout = "2006-01-02"

// ErrArchiveDisabled is returned by History when no archive is configured.
var ErrArchiveDisabled = errors.New("statistics archive is not configured")

// Service exposes the ledger statistics and the weekly digest.
type Service struct {
	repo    repo.Repository
	archive mongodb.Repository
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new reporting service instance. archive may be nil.
func NewService(repository repo.Repository, archive mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, archive: archive, logger: logger, now: time.Now}
}

// Statistics computes the statistics of the current ledger.
func (s *Service) Statistics(ctx context.Context) (models.Statistics, error) {
	snapshot, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return models.Statistics{}, fmt.Errorf("load ledger: %w", err)
	}
	return stats.Compute(snapshot), nil
}

// Digest renders the current statistics as a plain-text summary.
func (s *Service) Digest(ctx context.Context) (models.Statistics, string, error) {
	st, err := s.Statistics(ctx)
	if err != nil {
		return models.Statistics{}, "", err
	}
	return st, FormatDigest(st, s.now()), nil
}

// Archive stores a dated copy of st. It is a no-op without an archive.
func (s *Service) Archive(ctx context.Context, st models.Statistics) error {
	if s.archive == nil {
		s.logger.Debug("statistics archive disabled, snapshot skipped")
		return nil
	}
	if err := s.archive.SaveStatsSnapshot(ctx, models.NewStatsSnapshot(st, s.now().UTC())); err != nil {
		return fmt.Errorf("archive statistics: %w", err)
	}
	return nil
}

// History returns up to limit archived snapshots, newest first.
func (s *Service) History(ctx context.Context, limit int64) ([]models.StatsSnapshot, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	out, err := s.archive.LatestStatsSnapshots(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load statistics history: %w", err)
	}
	return out, nil
}

// FormatDigest renders st as the WhatsApp digest.
func FormatDigest(st models.Statistics, at time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Point stock du %s\n", at.Format(dateLayout))
	fmt.Fprintf(&b, "Articles: %d (en stock: %d)\n", st.TotalCount, st.InStockCount)
	fmt.Fprintf(&b, "Valeur du stock: %s\n", euros(st.StockValue))
	fmt.Fprintf(&b, "Gain futur estimé: %s\n", decimalEuros(st.ExpectedFutureGain))
	fmt.Fprintf(&b, "Gain médian: %s%%\n", st.MedianGainPercent.StringFixed(1))
	fmt.Fprintf(&b, "Rotation moyenne: %.1f jours", st.AverageRotationDays)

	if len(st.QuarterlySales) == 0 {
		b.WriteString("\nAucune vente enregistrée.")
		return b.String()
	}

	b.WriteString("\nVentes par trimestre:")
	for _, q := range st.QuarterlySales {
		fmt.Fprintf(&b, "\n- %s: %s", q.Label, euros(q.Total))
	}
	return b.String()
}

func euros(amount int64) string {
	return money.New(amount*100, money.EUR).Display()
}

func decimalEuros(amount decimal.Decimal) string {
	return money.New(amount.Shift(2).Round(0).IntPart(), money.EUR).Display()
}
