package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-verify-api/internal/models"
)

func newPostgresRepo(t *testing.T) (*PostgresSnapshotRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSnapshotRepository(sqlx.NewDb(db, "postgres"), DefaultSnapshotKey), mock
}

func TestPostgresSnapshotLoad(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	payload := []byte(`{"tutors":[{"userId":"tutor-1","name":"A","email":"","skills":null,"languages":null,"verificationStatus":"NotStarted","lastStatusUpdateAt":"2026-03-01T09:00:00Z"}],"applications":null,"documents":null,"hardcopyRequests":null}`)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM snapshots WHERE key = $1`)).
		WithArgs(DefaultSnapshotKey).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tutors, 1)
	assert.Equal(t, "tutor-1", snap.Tutors[0].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotLoadNoRows(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM snapshots WHERE key = $1`)).
		WithArgs(DefaultSnapshotKey).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrSnapshotNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotLoadCorruptPayload(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM snapshots WHERE key = $1`)).
		WithArgs(DefaultSnapshotKey).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte("{broken")))

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrSnapshotCorrupt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotSaveUpserts(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO snapshots (key, payload, updated_at)`)).
		WithArgs(DefaultSnapshotKey, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), &models.Snapshot{
		Applications: []models.TutorApplication{{ID: "app-1", TutorID: "tutor-1", Status: models.ApplicationStatusPending}},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
