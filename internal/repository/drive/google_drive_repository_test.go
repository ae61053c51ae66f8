package drive

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/revente/internal/config"
	"github.com/mamadbah2/revente/internal/domain/models"
)

type storedFile struct {
	name     string
	mimeType string
	data     []byte
}

type fakeFiles struct {
	files   map[string]*storedFile
	nextID  int
	findErr error
	updates int
	creates int
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{files: make(map[string]*storedFile)}
}

func (f *fakeFiles) put(name string, data string) {
	f.nextID++
	f.files[fmt.Sprintf("id-%d", f.nextID)] = &storedFile{name: name, mimeType: csvMimeType, data: []byte(data)}
}

func (f *fakeFiles) Find(_ context.Context, name string) (string, error) {
	if f.findErr != nil {
		return "", f.findErr
	}
	for id, file := range f.files {
		if file.name == name {
			return id, nil
		}
	}
	return "", nil
}

func (f *fakeFiles) Download(_ context.Context, id string) ([]byte, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, errors.New("no such file")
	}
	return file.data, nil
}

func (f *fakeFiles) Update(_ context.Context, id, mimeType string, data []byte) error {
	f.updates++
	f.files[id].data = data
	f.files[id].mimeType = mimeType
	return nil
}

func (f *fakeFiles) Create(_ context.Context, name, mimeType string, data []byte) (string, error) {
	f.creates++
	f.nextID++
	id := fmt.Sprintf("id-%d", f.nextID)
	f.files[id] = &storedFile{name: name, mimeType: mimeType, data: data}
	return id, nil
}

var testCfg = config.DriveConfig{StockFilename: "stock.csv", AccountsFilename: "comptes_de_vente.csv"}

func TestLoadLedgerMissingFileIsEmpty(t *testing.T) {
	repo := NewRepository(newFakeFiles(), testCfg, nil)

	articles, err := repo.LoadLedger(context.Background())
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestSaveLedgerCreatesThenUpdates(t *testing.T) {
	files := newFakeFiles()
	repo := NewRepository(files, testCfg, nil)
	ctx := context.Background()

	snapshot := []models.Article{{ID: 1, ArrivedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), PurchasePrice: 12, Description: "Robe"}}
	require.NoError(t, repo.SaveLedger(ctx, snapshot))
	require.NoError(t, repo.SaveLedger(ctx, snapshot))

	assert.Equal(t, 1, files.creates)
	assert.Equal(t, 1, files.updates)

	got, err := repo.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestLoadLedgerCorruptFile(t *testing.T) {
	files := newFakeFiles()
	files.put("stock.csv", "id,date_arrivee\nabc,yesterday\n")
	repo := NewRepository(files, testCfg, nil)

	_, err := repo.LoadLedger(context.Background())
	require.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestStorageFailuresAreUnavailable(t *testing.T) {
	files := newFakeFiles()
	files.findErr = errors.New("googleapi: Error 503")
	repo := NewRepository(files, testCfg, nil)
	ctx := context.Background()

	_, err := repo.LoadLedger(ctx)
	require.ErrorIs(t, err, models.ErrStorageUnavailable)

	err = repo.SaveLedger(ctx, nil)
	require.ErrorIs(t, err, models.ErrStorageUnavailable)

	_, err = repo.LoadAccounts(ctx)
	require.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestAccountsRoundTrip(t *testing.T) {
	repo := NewRepository(newFakeFiles(), testCfg, nil)
	ctx := context.Background()

	records, err := repo.LoadAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, repo.SaveAccounts(ctx, []string{"vinted", "ebay"}))

	records, err = repo.LoadAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"compte": "vinted"}, {"compte": "ebay"}}, records)
}

func TestStoreImage(t *testing.T) {
	files := newFakeFiles()
	repo := NewRepository(files, testCfg, nil)

	id, err := repo.StoreImage(context.Background(), "photo.jpg", "image/jpeg", []byte{0xff, 0xd8})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, "image/jpeg", files.files[id].mimeType)
	assert.Equal(t, "photo.jpg", files.files[id].name)
}

func TestThumbnailURL(t *testing.T) {
	assert.Equal(t, "", ThumbnailURL("", 300))
	assert.Equal(t, "https://drive.google.com/thumbnail?id=abc&sz=w300", ThumbnailURL("abc", 300))
	assert.Equal(t, "https://drive.google.com/thumbnail?id=abc&sz=w700", ThumbnailURL("abc", 0))
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `l\'inventaire.csv`, escapeQuery("l'inventaire.csv"))
}
