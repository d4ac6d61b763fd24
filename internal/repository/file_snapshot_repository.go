package repository

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/noah-isme/tutor-verify-api/internal/models"
	"github.com/noah-isme/tutor-verify-api/pkg/storage"
)

// FileSnapshotRepository persists the snapshot blob as a single JSON file on
// local disk, the default backend for development.
type FileSnapshotRepository struct {
	storage *storage.LocalStorage
	file    string
}

// NewFileSnapshotRepository constructs the repository. The key becomes the
// file name under the storage base directory.
func NewFileSnapshotRepository(store *storage.LocalStorage, key string) *FileSnapshotRepository {
	if key == "" {
		key = DefaultSnapshotKey
	}
	file := strings.ReplaceAll(key, ":", "_") + ".json"
	return &FileSnapshotRepository{storage: store, file: file}
}

// Load reads and decodes the stored snapshot.
func (r *FileSnapshotRepository) Load(_ context.Context) (*models.Snapshot, error) {
	data, err := r.storage.Read(r.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	return decodeSnapshot(data)
}

// Save encodes and writes the snapshot, replacing any previous version.
func (r *FileSnapshotRepository) Save(_ context.Context, snap *models.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	return r.storage.Save(r.file, data)
}
