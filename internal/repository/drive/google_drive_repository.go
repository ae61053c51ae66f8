package drive

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/mamadbah2/revente/internal/config"
	"github.com/mamadbah2/revente/internal/domain/models"
	"github.com/mamadbah2/revente/internal/repository/csvcodec"
)

const csvMimeType = "text/csv"

// Repository defines the snapshot persistence operations of the application.
// Ledger and account list are always read and written whole.
type Repository interface {
	LoadLedger(ctx context.Context) ([]models.Article, error)
	SaveLedger(ctx context.Context, articles []models.Article) error
	LoadAccounts(ctx context.Context) ([]map[string]string, error)
	SaveAccounts(ctx context.Context, names []string) error
	StoreImage(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

// GoogleDriveRepository implements Repository with CSV files and images kept
// in one Google Drive folder.
type GoogleDriveRepository struct {
	files        Files
	stockFile    string
	accountsFile string
	logger       *zap.Logger
}

// NewGoogleDriveRepository builds a Drive backed repository using a service account.
func NewGoogleDriveRepository(ctx context.Context, cfg config.DriveConfig, logger *zap.Logger) (*GoogleDriveRepository, error) {
	service, err := driveapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(driveapi.DriveScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize drive client: %w", err)
	}

	return NewRepository(newFolderFiles(service, cfg.FolderID), cfg, logger), nil
}

// NewRepository wires a repository over an arbitrary Files implementation.
func NewRepository(files Files, cfg config.DriveConfig, logger *zap.Logger) *GoogleDriveRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleDriveRepository{
		files:        files,
		stockFile:    cfg.StockFilename,
		accountsFile: cfg.AccountsFilename,
		logger:       logger,
	}
}

// LoadLedger downloads and decodes the ledger. A missing file is an empty ledger.
func (r *GoogleDriveRepository) LoadLedger(ctx context.Context) ([]models.Article, error) {
	data, err := r.download(ctx, r.stockFile)
	if err != nil {
		return nil, err
	}

	articles, err := csvcodec.DecodeArticles(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", models.ErrStorageUnavailable, r.stockFile, err)
	}

	r.logger.Debug("ledger loaded", zap.String("file", r.stockFile), zap.Int("articles", len(articles)))
	return articles, nil
}

// SaveLedger replaces the ledger file with the given snapshot.
func (r *GoogleDriveRepository) SaveLedger(ctx context.Context, articles []models.Article) error {
	data, err := csvcodec.EncodeArticles(articles)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := r.upload(ctx, r.stockFile, data); err != nil {
		return err
	}

	r.logger.Info("ledger saved", zap.String("file", r.stockFile), zap.Int("articles", len(articles)))
	return nil
}

// LoadAccounts returns the raw account records. A missing file yields no records.
func (r *GoogleDriveRepository) LoadAccounts(ctx context.Context) ([]map[string]string, error) {
	data, err := r.download(ctx, r.accountsFile)
	if err != nil {
		return nil, err
	}

	records, err := csvcodec.DecodeRecords(data)
	if err != nil {
		// An unreadable list is treated like a missing one; the caller reseeds it.
		r.logger.Warn("sales accounts file unreadable", zap.String("file", r.accountsFile), zap.Error(err))
		return nil, nil
	}
	return records, nil
}

// SaveAccounts replaces the sales account list.
func (r *GoogleDriveRepository) SaveAccounts(ctx context.Context, names []string) error {
	data, err := csvcodec.EncodeAccounts(names)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := r.upload(ctx, r.accountsFile, data); err != nil {
		return err
	}

	r.logger.Info("sales accounts saved", zap.String("file", r.accountsFile), zap.Int("accounts", len(names)))
	return nil
}

// StoreImage uploads a new image and returns its Drive id.
func (r *GoogleDriveRepository) StoreImage(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	id, err := r.files.Create(ctx, name, mimeType, data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}

	r.logger.Info("image stored", zap.String("name", name), zap.String("id", id), zap.Int("bytes", len(data)))
	return id, nil
}

func (r *GoogleDriveRepository) download(ctx context.Context, name string) ([]byte, error) {
	id, err := r.files.Find(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	if id == "" {
		r.logger.Debug("file not found, starting empty", zap.String("file", name))
		return nil, nil
	}

	data, err := r.files.Download(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return data, nil
}

// upload updates the file called name or creates it when missing.
func (r *GoogleDriveRepository) upload(ctx context.Context, name string, data []byte) error {
	id, err := r.files.Find(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}

	if id != "" {
		err = r.files.Update(ctx, id, csvMimeType, data)
	} else {
		_, err = r.files.Create(ctx, name, csvMimeType, data)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return nil
}
