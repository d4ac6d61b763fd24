package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-verify-api/internal/models"
)

// PostgresSnapshotRepository persists the snapshot blob in a one-row table
// keyed by the fixed snapshot name.
type PostgresSnapshotRepository struct {
	db  *sqlx.DB
	key string
}

// NewPostgresSnapshotRepository constructs the repository.
func NewPostgresSnapshotRepository(db *sqlx.DB, key string) *PostgresSnapshotRepository {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &PostgresSnapshotRepository{db: db, key: key}
}

// Load fetches and decodes the stored snapshot.
func (r *PostgresSnapshotRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	const query = `SELECT payload FROM snapshots WHERE key = $1`
	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, r.key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	return decodeSnapshot(payload)
}

// Save upserts the snapshot blob under the fixed key.
func (r *PostgresSnapshotRepository) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	const query = `INSERT INTO snapshots (key, payload, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, r.key, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}
