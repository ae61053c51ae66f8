package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/googleapi"
	driveapi "google.golang.org/api/drive/v3"
)

// Files is the subset of Drive file operations the repository relies on. All
// names are resolved inside a single folder.
type Files interface {
	// Find returns the id of the file called name, or "" when there is none.
	Find(ctx context.Context, name string) (string, error)
	Download(ctx context.Context, id string) ([]byte, error)
	Update(ctx context.Context, id, mimeType string, data []byte) error
	Create(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

type folderFiles struct {
	service  *driveapi.Service
	folderID string
}

func newFolderFiles(service *driveapi.Service, folderID string) *folderFiles {
	return &folderFiles{service: service, folderID: folderID}
}

func (f *folderFiles) Find(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("'%s' in parents and name='%s' and trashed=false", escapeQuery(f.folderID), escapeQuery(name))

	list, err := f.service.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list files named %s: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (f *folderFiles) Download(ctx context.Context, id string) ([]byte, error) {
	resp, err := f.service.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", id, err)
	}
	return data, nil
}

func (f *folderFiles) Update(ctx context.Context, id, mimeType string, data []byte) error {
	_, err := f.service.Files.Update(id, &driveapi.File{}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update file %s: %w", id, err)
	}
	return nil
}

func (f *folderFiles) Create(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	meta := &driveapi.File{Name: name, Parents: []string{f.folderID}}

	created, err := f.service.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("create file %s: %w", name, err)
	}
	return created.Id, nil
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
