// Package drivetest provides an in-memory drive.Repository for tests.
package drivetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/mamadbah2/revente/internal/domain/accounts"
	"github.com/mamadbah2/revente/internal/domain/models"
	"github.com/mamadbah2/revente/internal/repository/drive"
)

var _ drive.Repository = (*MemoryRepository)(nil)

// Image is a stored picture.
type Image struct {
	Name     string
	MimeType string
	Data     []byte
}

// MemoryRepository keeps snapshots in memory. Setting an Err field makes the
// matching operation fail with it.
type MemoryRepository struct {
	mu sync.Mutex

	Ledger   []models.Article
	Accounts []map[string]string
	Images   map[string]Image

	LedgerSaves   int
	AccountsSaves int

	LoadErr       error
	SaveErr       error
	AccountsErr   error
	StoreImageErr error
}

// NewMemoryRepository returns a repository holding articles.
func NewMemoryRepository(articles ...models.Article) *MemoryRepository {
	return &MemoryRepository{Ledger: articles, Images: make(map[string]Image)}
}

func (m *MemoryRepository) LoadLedger(_ context.Context) ([]models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return cloneArticles(m.Ledger), nil
}

func (m *MemoryRepository) SaveLedger(_ context.Context, articles []models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Ledger = cloneArticles(articles)
	m.LedgerSaves++
	return nil
}

func (m *MemoryRepository) LoadAccounts(_ context.Context) ([]map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AccountsErr != nil {
		return nil, m.AccountsErr
	}
	return m.Accounts, nil
}

func (m *MemoryRepository) SaveAccounts(_ context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AccountsErr != nil {
		return m.AccountsErr
	}
	records := make([]map[string]string, 0, len(names))
	for _, n := range names {
		records = append(records, map[string]string{accounts.NameField: n})
	}
	m.Accounts = records
	m.AccountsSaves++
	return nil
}

func (m *MemoryRepository) StoreImage(_ context.Context, name, mimeType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreImageErr != nil {
		return "", m.StoreImageErr
	}
	id := fmt.Sprintf("img-%d", len(m.Images)+1)
	m.Images[id] = Image{Name: name, MimeType: mimeType, Data: data}
	return id, nil
}

// AccountNames returns the stored account list.
func (m *MemoryRepository) AccountNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Accounts))
	for _, rec := range m.Accounts {
		out = append(out, rec[accounts.NameField])
	}
	return out
}

func cloneArticles(in []models.Article) []models.Article {
	out := make([]models.Article, 0, len(in))
	for _, a := range in {
		out = append(out, a.Clone())
	}
	return out
}
