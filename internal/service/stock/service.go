package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/revente/internal/domain/filter"
	"github.com/mamadbah2/revente/internal/domain/gains"
	"github.com/mamadbah2/revente/internal/domain/ledger"
	"github.com/mamadbah2/revente/internal/domain/models"
	repo "github.com/mamadbah2/revente/internal/repository/drive"
)

// Photo is an uploaded article picture.
type Photo struct {
	Filename string
	Data     []byte
}

// Listing is a filtered view of the stock with the values offered by the filters.
type Listing struct {
	Articles []models.Article `json:"articles"`
	Options  filter.Options   `json:"options"`
}

// Service handles intake and browsing of the stock.
type Service struct {
	repo   repo.Repository
	calc   gains.Calculator
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a stock service. Intake timestamps are taken in loc.
func NewService(repository repo.Repository, calc gains.Calculator, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:   repository,
		calc:   calc,
		loc:    loc,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// AddArticle stores the optional photo, then appends the article to the ledger.
// The intake date defaults to now.
func (s *Service) AddArticle(ctx context.Context, draft models.ArticleDraft, photo *Photo) (models.Article, error) {
	if draft.ArrivedAt.IsZero() {
		draft.ArrivedAt = models.WallClock(s.now().In(s.loc))
	}
	if err := ledger.Validate(draft); err != nil {
		return models.Article{}, err
	}

	snapshot, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return models.Article{}, fmt.Errorf("load ledger: %w", err)
	}

	if photo != nil && len(photo.Data) > 0 {
		photoID, err := s.storePhoto(ctx, photo)
		if err != nil {
			return models.Article{}, err
		}
		draft.PhotoID = photoID
	}

	l := ledger.New(snapshot)
	article, err := l.Add(draft)
	if err != nil {
		return models.Article{}, err
	}

	if err := s.repo.SaveLedger(ctx, l.Articles()); err != nil {
		return models.Article{}, fmt.Errorf("save ledger: %w", err)
	}

	s.logger.Info("article added",
		zap.Int64("id", article.ID),
		zap.Int64("prix_achat", article.PurchasePrice),
		zap.Bool("photo", article.PhotoID != ""))
	return article, nil
}

// List returns the articles matching c, in ledger order.
func (s *Service) List(ctx context.Context, c filter.Criteria) (Listing, error) {
	snapshot, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("load ledger: %w", err)
	}

	return Listing{
		Articles: filter.Apply(snapshot, c),
		Options:  filter.AvailableOptions(snapshot),
	}, nil
}

// Get returns one article.
func (s *Service) Get(ctx context.Context, id int64) (models.Article, error) {
	snapshot, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return models.Article{}, fmt.Errorf("load ledger: %w", err)
	}
	return ledger.New(snapshot).Find(id)
}

// SimulateGain computes what selling article id at price would yield,
// without recording anything.
func (s *Service) SimulateGain(ctx context.Context, id int64, price int64) (models.Gains, error) {
	if price < 0 {
		return models.Gains{}, fmt.Errorf("%w: prix_vente must not be negative", models.ErrInvalidInput)
	}

	article, err := s.Get(ctx, id)
	if err != nil {
		return models.Gains{}, err
	}
	return s.calc.Compute(article.PurchasePrice, price), nil
}

func (s *Service) storePhoto(ctx context.Context, photo *Photo) (string, error) {
	mtype := mimetype.Detect(photo.Data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: photo %q is %s, not an image", models.ErrInvalidInput, photo.Filename, mtype.String())
	}

	name := "photo-" + s.newID() + mtype.Extension()
	id, err := s.repo.StoreImage(ctx, name, mtype.String(), photo.Data)
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return id, nil
}
