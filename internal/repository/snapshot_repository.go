package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/tutor-verify-api/internal/models"
)

// DefaultSnapshotKey is the fixed key the canonical dataset blob lives under.
const DefaultSnapshotKey = "tutor-verify:dataflow"

// Sentinel errors shared by all snapshot backends.
var (
	// ErrSnapshotNotFound signals a first run: nothing stored yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSnapshotCorrupt signals an unparseable stored blob. Callers recover
	// by regenerating the default dataset.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

func encodeSnapshot(snap *models.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return &snap, nil
}
