package sales

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/revente/internal/domain/accounts"
	"github.com/mamadbah2/revente/internal/domain/ledger"
	"github.com/mamadbah2/revente/internal/domain/models"
	"github.com/mamadbah2/revente/internal/domain/sale"
	repo "github.com/mamadbah2/revente/internal/repository/drive"
)

// Service records sales and manages the sales account list.
type Service struct {
	repo     repo.Repository
	workflow *sale.Workflow
	logger   *zap.Logger
}

// NewService wires a sales service.
func NewService(repository repo.Repository, workflow *sale.Workflow, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, workflow: workflow, logger: logger}
}

// Accounts returns the known sales accounts. An empty or malformed list is
// replaced by the defaults, which are persisted right away.
func (s *Service) Accounts(ctx context.Context) ([]string, error) {
	reg, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	return reg.List(), nil
}

// Sell records the sale of article id and persists the ledger.
func (s *Service) Sell(ctx context.Context, id int64, req models.SaleRequest) (models.Article, error) {
	snapshot, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return models.Article{}, fmt.Errorf("load ledger: %w", err)
	}
	reg, err := s.registry(ctx)
	if err != nil {
		return models.Article{}, err
	}

	l := ledger.New(snapshot)
	outcome, err := s.workflow.Sell(l, reg, id, req)
	if err != nil {
		return models.Article{}, err
	}

	if err := s.repo.SaveLedger(ctx, l.Articles()); err != nil {
		return models.Article{}, fmt.Errorf("save ledger: %w", err)
	}

	if outcome.AccountRegistered {
		// The sale is already persisted; a stale account list is recoverable.
		if err := s.repo.SaveAccounts(ctx, reg.List()); err != nil {
			s.logger.Warn("failed to persist new sales account",
				zap.String("compte", outcome.Article.Sale.Account), zap.Error(err))
		}
	}

	s.logger.Info("article sold",
		zap.Int64("id", id),
		zap.Int64("prix_vente", outcome.Article.Sale.Price),
		zap.String("compte", outcome.Article.Sale.Account),
		zap.String("gain_apres_impot", outcome.Article.Sale.Gains.AfterTaxValue.String()))
	return outcome.Article, nil
}

func (s *Service) registry(ctx context.Context) (*accounts.Registry, error) {
	records, err := s.repo.LoadAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	reg, seeded := accounts.LoadOrSeed(records)
	if seeded {
		if err := s.repo.SaveAccounts(ctx, reg.List()); err != nil {
			return nil, fmt.Errorf("seed accounts: %w", err)
		}
		s.logger.Info("seeded default sales accounts", zap.Int("count", len(reg.List())))
	}
	return reg, nil
}
