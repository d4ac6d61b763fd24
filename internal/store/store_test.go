package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-verify-api/internal/models"
	"github.com/noah-isme/tutor-verify-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-verify-api/pkg/errors"
)

type persisterMock struct {
	loadSnap *models.Snapshot
	loadErr  error
	saveErr  error
	saved    []*models.Snapshot
}

func (p *persisterMock) Load(_ context.Context) (*models.Snapshot, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.loadSnap, nil
}

func (p *persisterMock) Save(_ context.Context, snap *models.Snapshot) error {
	p.saved = append(p.saved, snap.Clone())
	return p.saveErr
}

func newTestStore(t *testing.T) *WorkflowStore {
	t.Helper()
	seq := 0
	s := New(nil, nil,
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	require.NoError(t, s.Open(context.Background()))
	return s
}

func TestOpenSeedsDefaultDataset(t *testing.T) {
	s := newTestStore(t)

	snap := s.Snapshot()
	assert.Len(t, snap.Tutors, 3)
	assert.Len(t, snap.Applications, 3)
	assert.Len(t, snap.Documents, 4)
	assert.Len(t, snap.HardcopyRequests, 1)
}

func TestOpenFirstRunSeedsAndPersists(t *testing.T) {
	persister := &persisterMock{loadErr: repository.ErrSnapshotNotFound}
	s := New(persister, nil)

	require.NoError(t, s.Open(context.Background()))
	require.Len(t, persister.saved, 1)
	assert.Len(t, persister.saved[0].Tutors, 3)
}

func TestOpenCorruptSnapshotRegenerates(t *testing.T) {
	persister := &persisterMock{loadErr: fmt.Errorf("decode snapshot: %w", repository.ErrSnapshotCorrupt)}
	s := New(persister, nil)

	require.NoError(t, s.Open(context.Background()))
	assert.Len(t, s.Snapshot().Tutors, 3)
	assert.Len(t, persister.saved, 1)
}

func TestOpenBackendFailurePropagates(t *testing.T) {
	persister := &persisterMock{loadErr: errors.New("connection refused")}
	s := New(persister, nil)

	require.Error(t, s.Open(context.Background()))
}

func TestApproveUploadCascadesIntoTutor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	result, err := s.ApplyApplicationDecision(ctx, "app-1", models.DecisionApproveUpload, DecisionInput{InternalNotes: "looks good"})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApprovedUpload, result.Application.Status)
	assert.Equal(t, "looks good", result.Application.InternalNotes)

	require.NotNil(t, result.Tutor)
	assert.Equal(t, models.VerificationVerifiedUpload, result.Tutor.VerificationStatus)
	require.NotNil(t, result.Tutor.BecameTutorAt)

	// both sides of the cascade landed in the committed snapshot
	tutor, err := s.TutorByID("tutor-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerifiedUpload, tutor.VerificationStatus)
	app, err := s.ApplicationByID("app-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApprovedUpload, app.Status)
}

func TestRequestRevisionRequiresNotes(t *testing.T) {
	s := newTestStore(t)
	before := s.Snapshot()

	_, err := s.ApplyApplicationDecision(context.Background(), "app-1", models.DecisionRequestRevision, DecisionInput{RevisionNotes: "   "})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	assert.Equal(t, before, s.Snapshot())
}

func TestRequestRevisionDoesNotTouchTutor(t *testing.T) {
	s := newTestStore(t)

	result, err := s.ApplyApplicationDecision(context.Background(), "app-1", models.DecisionRequestRevision, DecisionInput{RevisionNotes: "missing degree scan"})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRevisionRequested, result.Application.Status)
	assert.Equal(t, "missing degree scan", result.Application.RevisionNotes)
	assert.Nil(t, result.Tutor)

	tutor, err := s.TutorByID("tutor-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationNotStarted, tutor.VerificationStatus)
	assert.Nil(t, tutor.BecameTutorAt)
}

func TestIllegalDecisionLeavesSnapshotUntouched(t *testing.T) {
	s := newTestStore(t)
	before := s.Snapshot()

	// app-2 is already ApprovedUpload
	_, err := s.ApplyApplicationDecision(context.Background(), "app-2", models.DecisionApproveUpload, DecisionInput{})
	require.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	// app-3 is terminal
	_, err = s.ApplyApplicationDecision(context.Background(), "app-3", models.DecisionRequestRevision, DecisionInput{RevisionNotes: "n"})
	require.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	_, err = s.ApplyApplicationDecision(context.Background(), "missing", models.DecisionApproveUpload, DecisionInput{})
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	assert.Equal(t, before, s.Snapshot())
}

func TestApproveHardcopyDecisionAfterUploadApproval(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	result, err := s.ApplyApplicationDecision(ctx, "app-2", models.DecisionApproveHardcopy, DecisionInput{})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApprovedHardcopy, result.Application.Status)
	require.NotNil(t, result.Tutor)
	assert.Equal(t, models.VerificationVerifiedHardcopy, result.Tutor.VerificationStatus)
}

func TestSubmitApplicationIsIdempotentPerTutor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	app, err := s.SubmitApplication(ctx, "tutor-1")
	require.NoError(t, err)
	assert.Equal(t, "app-1", app.ID)
	assert.Len(t, s.Snapshot().Applications, 3)

	_, err = s.SubmitApplication(ctx, "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestResubmitApplicationOnlyFromRevisionRequested(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ResubmitApplication(ctx, "app-1")
	require.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	_, err = s.ApplyApplicationDecision(ctx, "app-1", models.DecisionRequestRevision, DecisionInput{RevisionNotes: "resend page 2"})
	require.NoError(t, err)

	app, err := s.ResubmitApplication(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	// notes from the revision round are kept for the reviewer
	assert.Equal(t, "resend page 2", app.RevisionNotes)
}

func TestCreateHardcopyRequestConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// app-2 already has a pending request
	_, err := s.CreateHardcopyRequest(ctx, "app-2")
	require.ErrorIs(t, err, appErrors.ErrConflict)

	// app-3 is already hardcopy-verified
	_, err = s.CreateHardcopyRequest(ctx, "app-3")
	require.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = s.CreateHardcopyRequest(ctx, "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	req, err := s.CreateHardcopyRequest(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, models.HardcopyStatusPending, req.Status)
	assert.Equal(t, "app-1", req.ApplicationID)
}

func TestRejectHardcopyRequestRequiresNotesAndTouchesNothingElse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.DecideHardcopyRequest(ctx, "hardcopy-1", models.HardcopyDecisionReject, " ")
	require.ErrorIs(t, err, appErrors.ErrValidation)

	result, err := s.DecideHardcopyRequest(ctx, "hardcopy-1", models.HardcopyDecisionReject, "seal missing")
	require.NoError(t, err)
	assert.Equal(t, models.HardcopyStatusRejected, result.Request.Status)
	assert.Equal(t, "seal missing", result.Request.StaffNotes)
	assert.Nil(t, result.Application)
	assert.Nil(t, result.Tutor)

	// owning application and tutor untouched
	app, err := s.ApplicationByID("app-2")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApprovedUpload, app.Status)
	tutor, err := s.TutorByID("tutor-2")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerifiedUpload, tutor.VerificationStatus)
}

func TestApproveHardcopyRequestCascadesThroughApplicationAndTutor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	result, err := s.DecideHardcopyRequest(ctx, "hardcopy-1", models.HardcopyDecisionApprove, "verified at office")
	require.NoError(t, err)
	assert.Equal(t, models.HardcopyStatusApproved, result.Request.Status)
	require.NotNil(t, result.Application)
	assert.Equal(t, models.ApplicationStatusApprovedHardcopy, result.Application.Status)
	require.NotNil(t, result.Tutor)
	assert.Equal(t, models.VerificationVerifiedHardcopy, result.Tutor.VerificationStatus)

	// the request is settled, deciding again is illegal
	_, err = s.DecideHardcopyRequest(ctx, "hardcopy-1", models.HardcopyDecisionApprove, "")
	require.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestApproveHardcopyRequestOverridesPendingApplication(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// app-1 never passed upload review; hardcopy approval overrides that
	req, err := s.CreateHardcopyRequest(ctx, "app-1")
	require.NoError(t, err)

	result, err := s.DecideHardcopyRequest(ctx, req.ID, models.HardcopyDecisionApprove, "")
	require.NoError(t, err)
	require.NotNil(t, result.Application)
	assert.Equal(t, models.ApplicationStatusApprovedHardcopy, result.Application.Status)
	require.NotNil(t, result.Tutor)
	assert.Equal(t, models.VerificationVerifiedHardcopy, result.Tutor.VerificationStatus)
	require.NotNil(t, result.Tutor.BecameTutorAt)

	app, err := s.ApplicationByID("app-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApprovedHardcopy, app.Status)
	tutor, err := s.TutorByID("tutor-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerifiedHardcopy, tutor.VerificationStatus)
}

func TestEqualTierCascadeRefreshesStatusTimestamp(t *testing.T) {
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := New(nil, nil, WithClock(func() time.Time { return current }))
	require.NoError(t, s.Open(context.Background()))
	ctx := context.Background()

	// staff decides the application first, tutor-2 reaches the top tier
	_, err := s.ApplyApplicationDecision(ctx, "app-2", models.DecisionApproveHardcopy, DecisionInput{})
	require.NoError(t, err)
	tutor, err := s.TutorByID("tutor-2")
	require.NoError(t, err)
	firstUpdate := tutor.LastStatusUpdateAt

	// the still-pending mail-in request is approved later
	current = current.Add(time.Hour)
	result, err := s.DecideHardcopyRequest(ctx, "hardcopy-1", models.HardcopyDecisionApprove, "")
	require.NoError(t, err)
	require.NotNil(t, result.Tutor)
	assert.Equal(t, models.VerificationVerifiedHardcopy, result.Tutor.VerificationStatus)
	assert.Equal(t, current, result.Tutor.LastStatusUpdateAt)
	assert.True(t, result.Tutor.LastStatusUpdateAt.After(firstUpdate))
}

func TestUnknownHardcopyDecisionRejected(t *testing.T) {
	s := newTestStore(t)

	_, err := s.DecideHardcopyRequest(context.Background(), "hardcopy-1", models.HardcopyDecision("Defer"), "")
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestNewHardcopyRequestAllowedAfterRejection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.DecideHardcopyRequest(ctx, "hardcopy-1", models.HardcopyDecisionReject, "wrong notary")
	require.NoError(t, err)

	req, err := s.CreateHardcopyRequest(ctx, "app-2")
	require.NoError(t, err)
	assert.Equal(t, models.HardcopyStatusPending, req.Status)
	assert.Len(t, s.Snapshot().HardcopyRequests, 2)
}

func TestVerificationTierNeverRegresses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// walk tutor-1 to the top tier
	_, err := s.ApplyApplicationDecision(ctx, "app-1", models.DecisionApproveUpload, DecisionInput{})
	require.NoError(t, err)
	_, err = s.ApplyApplicationDecision(ctx, "app-1", models.DecisionApproveHardcopy, DecisionInput{})
	require.NoError(t, err)

	tutor, err := s.TutorByID("tutor-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerifiedHardcopy, tutor.VerificationStatus)
	firstVerified := *tutor.BecameTutorAt

	// a later upload-tier cascade must not demote or reset the timestamp
	upgradeTutor(tutor, models.VerificationVerifiedUpload, time.Now().UTC())
	assert.Equal(t, models.VerificationVerifiedHardcopy, tutor.VerificationStatus)
	assert.Equal(t, firstVerified, *tutor.BecameTutorAt)
}

func TestAddDocumentFillsIdentifiersWithoutStatusChange(t *testing.T) {
	s := newTestStore(t)

	stored, err := s.AddDocument(context.Background(), models.Document{
		ApplicationID: "app-1",
		Description:   "updated certificates",
		DocumentFileUploads: []models.DocumentFileUpload{
			{FileName: "degree.pdf", FileURL: "/placeholder.svg"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	require.Len(t, stored.DocumentFileUploads, 1)
	assert.NotEmpty(t, stored.DocumentFileUploads[0].ID)
	assert.False(t, stored.DocumentFileUploads[0].UploadedAt.IsZero())

	app, err := s.ApplicationByID("app-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)

	_, err = s.AddDocument(context.Background(), models.Document{ApplicationID: "missing"})
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUpdateTutorProfileOnlyTouchesEditableFields(t *testing.T) {
	s := newTestStore(t)

	before, err := s.TutorByID("tutor-2")
	require.NoError(t, err)

	updated, err := s.UpdateTutorProfile(context.Background(), "tutor-2", ProfileInput{
		Name:      "Trần Thị B (cập nhật)",
		Skills:    []string{"Ngữ văn"},
		Languages: []string{"Tiếng Việt"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Trần Thị B (cập nhật)", updated.Name)
	assert.Equal(t, []string{"Ngữ văn"}, updated.Skills)
	assert.Equal(t, before.VerificationStatus, updated.VerificationStatus)
	assert.Equal(t, before.LastStatusUpdateAt, updated.LastStatusUpdateAt)
	assert.Equal(t, before.BecameTutorAt, updated.BecameTutorAt)

	_, err = s.UpdateTutorProfile(context.Background(), "tutor-2", ProfileInput{Name: "  "})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = s.UpdateTutorProfile(context.Background(), "missing", ProfileInput{Name: "x"})
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestResetDataRestoresDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ApplyApplicationDecision(ctx, "app-1", models.DecisionApproveUpload, DecisionInput{})
	require.NoError(t, err)

	snap := s.ResetData(ctx)
	assert.Len(t, snap.Applications, 3)

	app, err := s.ApplicationByID("app-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	tutor, err := s.TutorByID("tutor-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationNotStarted, tutor.VerificationStatus)
}

func TestSubscribeReceivesCommittedSnapshots(t *testing.T) {
	s := newTestStore(t)
	ch := s.Subscribe()

	_, err := s.ApplyApplicationDecision(context.Background(), "app-1", models.DecisionApproveUpload, DecisionInput{})
	require.NoError(t, err)

	select {
	case snap := <-ch:
		app := findApplication(snap, "app-1")
		require.NotNil(t, app)
		assert.Equal(t, models.ApplicationStatusApprovedUpload, app.Status)
	case <-time.After(time.Second):
		t.Fatal("expected a snapshot notification")
	}
}

func TestCommitPersistsEveryMutation(t *testing.T) {
	persister := &persisterMock{loadErr: repository.ErrSnapshotNotFound}
	s := New(persister, nil)
	require.NoError(t, s.Open(context.Background()))
	seeded := len(persister.saved)

	_, err := s.ApplyApplicationDecision(context.Background(), "app-1", models.DecisionApproveUpload, DecisionInput{})
	require.NoError(t, err)
	require.Len(t, persister.saved, seeded+1)

	last := persister.saved[len(persister.saved)-1]
	app := findApplication(last, "app-1")
	require.NotNil(t, app)
	assert.Equal(t, models.ApplicationStatusApprovedUpload, app.Status)
}

func TestPersistFailureDoesNotRollBackCommit(t *testing.T) {
	persister := &persisterMock{loadErr: repository.ErrSnapshotNotFound, saveErr: errors.New("disk full")}
	s := New(persister, nil)
	require.NoError(t, s.Open(context.Background()))

	_, err := s.ApplyApplicationDecision(context.Background(), "app-1", models.DecisionApproveUpload, DecisionInput{})
	require.NoError(t, err)

	app, err := s.ApplicationByID("app-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApprovedUpload, app.Status)
}

func TestFullVerificationJourney(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// staff requests a revision on the fresh application
	_, err := s.ApplyApplicationDecision(ctx, "app-1", models.DecisionRequestRevision, DecisionInput{RevisionNotes: "degree scan unreadable"})
	require.NoError(t, err)

	// tutor uploads corrected documents and the application re-opens
	_, err = s.AddDocument(ctx, models.Document{
		ApplicationID:       "app-1",
		Description:         "corrected degree scan",
		DocumentFileUploads: []models.DocumentFileUpload{{FileName: "degree_v2.pdf", FileURL: "/placeholder.svg"}},
	})
	require.NoError(t, err)
	_, err = s.ResubmitApplication(ctx, "app-1")
	require.NoError(t, err)

	// staff approves the uploads
	result, err := s.ApplyApplicationDecision(ctx, "app-1", models.DecisionApproveUpload, DecisionInput{})
	require.NoError(t, err)
	require.NotNil(t, result.Tutor)
	assert.Equal(t, models.VerificationVerifiedUpload, result.Tutor.VerificationStatus)

	// tutor mails hardcopies, staff approves the request
	req, err := s.CreateHardcopyRequest(ctx, "app-1")
	require.NoError(t, err)
	hcResult, err := s.DecideHardcopyRequest(ctx, req.ID, models.HardcopyDecisionApprove, "")
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusApprovedHardcopy, hcResult.Application.Status)
	assert.Equal(t, models.VerificationVerifiedHardcopy, hcResult.Tutor.VerificationStatus)

	// terminal: no further decisions are legal
	_, err = s.ApplyApplicationDecision(ctx, "app-1", models.DecisionApproveUpload, DecisionInput{})
	require.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestSnapshotReturnsIndependentCopies(t *testing.T) {
	s := newTestStore(t)

	snap := s.Snapshot()
	snap.Tutors[0].Name = "mutated"
	snap.Applications[0].Status = models.ApplicationStatusApprovedHardcopy

	fresh := s.Snapshot()
	assert.Equal(t, "Nguyễn Văn A", fresh.Tutors[0].Name)
	assert.Equal(t, models.ApplicationStatusPending, fresh.Applications[0].Status)
}

func TestApplicationsFilter(t *testing.T) {
	s := newTestStore(t)

	apps := s.Applications(models.ApplicationFilter{Status: []models.ApplicationStatus{models.ApplicationStatusPending}})
	require.Len(t, apps, 1)
	assert.Equal(t, "app-1", apps[0].ID)

	apps = s.Applications(models.ApplicationFilter{TutorID: "tutor-3"})
	require.Len(t, apps, 1)
	assert.Equal(t, "app-3", apps[0].ID)

	apps = s.Applications(models.ApplicationFilter{})
	assert.Len(t, apps, 3)
}

func TestHardcopyRequestForApplicationReturnsLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.DecideHardcopyRequest(ctx, "hardcopy-1", models.HardcopyDecisionReject, "illegible stamp")
	require.NoError(t, err)
	second, err := s.CreateHardcopyRequest(ctx, "app-2")
	require.NoError(t, err)

	latest := s.HardcopyRequestForApplication("app-2")
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)

	assert.Nil(t, s.HardcopyRequestForApplication("app-1"))
}
