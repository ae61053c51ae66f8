package stock

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/revente/internal/domain/filter"
	"github.com/mamadbah2/revente/internal/domain/gains"
	"github.com/mamadbah2/revente/internal/domain/models"
	"github.com/mamadbah2/revente/internal/repository/drive/drivetest"
)

// Smallest valid PNG header plus IHDR chunk start, enough for MIME sniffing.
var pngBytes = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52}

func price(v int64) *int64 { return &v }

func newTestService(repo *drivetest.MemoryRepository) *Service {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		panic(err)
	}
	svc := NewService(repo, gains.NewCalculator(gains.DefaultTaxRate), paris, nil)
	svc.now = func() time.Time { return time.Date(2024, time.June, 1, 8, 30, 0, 0, time.UTC) }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("uuid-%d", n)
	}
	return svc
}

func TestAddArticle(t *testing.T) {
	repo := drivetest.NewMemoryRepository()
	svc := newTestService(repo)

	got, err := svc.AddArticle(context.Background(), models.ArticleDraft{
		PurchasePrice: price(35),
		Description:   "Manteau",
		Size:          "M",
		Collection:    "Hiver",
		Estimate:      90,
	}, &Photo{Filename: "manteau.png", Data: pngBytes})
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID)
	// 08:30 UTC is 10:30 in Paris during summer time.
	assert.Equal(t, time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC), got.ArrivedAt)
	require.NotEmpty(t, got.PhotoID)

	img := repo.Images[got.PhotoID]
	assert.Equal(t, "photo-uuid-1.png", img.Name)
	assert.Equal(t, "image/png", img.MimeType)

	require.Len(t, repo.Ledger, 1)
	assert.Equal(t, got, repo.Ledger[0])
	assert.Equal(t, 1, repo.LedgerSaves)
}

func TestAddArticleAssignsNextID(t *testing.T) {
	repo := drivetest.NewMemoryRepository(models.Article{ID: 1}, models.Article{ID: 7})
	svc := newTestService(repo)

	got, err := svc.AddArticle(context.Background(), models.ArticleDraft{PurchasePrice: price(0)}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.ID)
	assert.Empty(t, got.PhotoID)
}

func TestAddArticleRejectsInvalidDraftBeforeUploading(t *testing.T) {
	repo := drivetest.NewMemoryRepository()
	svc := newTestService(repo)

	_, err := svc.AddArticle(context.Background(), models.ArticleDraft{}, &Photo{Data: pngBytes})
	require.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, repo.Images)
	assert.Equal(t, 0, repo.LedgerSaves)
}

func TestAddArticleRejectsNonImage(t *testing.T) {
	repo := drivetest.NewMemoryRepository()
	svc := newTestService(repo)

	_, err := svc.AddArticle(context.Background(), models.ArticleDraft{PurchasePrice: price(10)}, &Photo{Filename: "notes.txt", Data: []byte("hello")})
	require.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, repo.Ledger)
}

func TestAddArticleStorageFailure(t *testing.T) {
	repo := drivetest.NewMemoryRepository()
	repo.SaveErr = fmt.Errorf("%w: quota", models.ErrStorageUnavailable)
	svc := newTestService(repo)

	_, err := svc.AddArticle(context.Background(), models.ArticleDraft{PurchasePrice: price(10)}, nil)
	require.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.Empty(t, repo.Ledger)
}

func TestList(t *testing.T) {
	repo := drivetest.NewMemoryRepository(
		models.Article{ID: 1, Size: "S", Collection: "A"},
		models.Article{ID: 2, Size: "M", Collection: "A"},
		models.Article{ID: 3, Size: "S", Collection: "B", Sale: &models.Sale{Price: 10}},
	)
	svc := newTestService(repo)

	listing, err := svc.List(context.Background(), filter.Criteria{Size: "S", Collection: filter.All, UnsoldOnly: true})
	require.NoError(t, err)
	require.Len(t, listing.Articles, 1)
	assert.Equal(t, int64(1), listing.Articles[0].ID)
	assert.Equal(t, []string{"S", "M"}, listing.Options.Sizes)
	assert.Equal(t, []string{"A", "B"}, listing.Options.Collections)
}

func TestGet(t *testing.T) {
	repo := drivetest.NewMemoryRepository(models.Article{ID: 4, Description: "Sac"})
	svc := newTestService(repo)

	got, err := svc.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Sac", got.Description)

	_, err = svc.Get(context.Background(), 5)
	require.ErrorIs(t, err, models.ErrNotFound)

	repo.LoadErr = errors.New("boom")
	_, err = svc.Get(context.Background(), 4)
	require.Error(t, err)
}

func TestSimulateGain(t *testing.T) {
	repo := drivetest.NewMemoryRepository(models.Article{ID: 1, PurchasePrice: 100})
	svc := newTestService(repo)

	got, err := svc.SimulateGain(context.Background(), 1, 150)
	require.NoError(t, err)
	assert.True(t, got.Value.Equal(decimal.NewFromInt(50)))
	assert.True(t, got.AfterTaxValue.Equal(decimal.RequireFromString("31.1")))
	assert.Equal(t, 0, repo.LedgerSaves)

	_, err = svc.SimulateGain(context.Background(), 1, -1)
	require.ErrorIs(t, err, models.ErrInvalidInput)
}
