package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-verify-api/internal/models"
	"github.com/noah-isme/tutor-verify-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-verify-api/pkg/errors"
)

// Persister saves and loads the canonical snapshot blob.
type Persister interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snap *models.Snapshot) error
}

// WorkflowStore owns the four workflow collections and is the only component
// allowed to mutate them. Every mutation computes a full successor snapshot
// before publishing it, so cascades commit atomically: either the application
// and the tutor both move, or neither does. Mutations are serialized; readers
// always receive deep copies of a committed snapshot.
type WorkflowStore struct {
	mu        sync.RWMutex
	snap      *models.Snapshot
	persister Persister
	logger    *zap.Logger

	now   func() time.Time
	newID func() string

	subMu sync.Mutex
	subs  []chan *models.Snapshot
}

// Option configures the store.
type Option func(*WorkflowStore)

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(s *WorkflowStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides identifier generation (used by tests).
func WithIDGenerator(newID func() string) Option {
	return func(s *WorkflowStore) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// New constructs the store. Call Open before using it.
func New(persister Persister, logger *zap.Logger, opts ...Option) *WorkflowStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &WorkflowStore{
		persister: persister,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Open loads the persisted snapshot, falling back to the default dataset when
// nothing is stored yet or the stored blob cannot be decoded.
func (s *WorkflowStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persister == nil {
		s.snap = DefaultSnapshot(s.now())
		return nil
	}

	snap, err := s.persister.Load(ctx)
	switch {
	case err == nil:
		s.snap = snap
		return nil
	case errors.Is(err, repository.ErrSnapshotNotFound):
		// first run
	case errors.Is(err, repository.ErrSnapshotCorrupt):
		s.logger.Warn("stored snapshot is corrupt, regenerating default dataset", zap.Error(err))
	default:
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.snap = DefaultSnapshot(s.now())
	if err := s.persister.Save(ctx, s.snap); err != nil {
		s.logger.Warn("failed to persist seeded snapshot", zap.Error(err))
	}
	return nil
}

// Snapshot returns a deep copy of the current dataset.
func (s *WorkflowStore) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Subscribe returns a channel receiving a copy of every committed snapshot.
// Slow consumers miss intermediate versions rather than blocking commits.
func (s *WorkflowStore) Subscribe() <-chan *models.Snapshot {
	ch := make(chan *models.Snapshot, 8)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

// DecisionInput carries the note fields accompanying a staff decision.
type DecisionInput struct {
	RevisionNotes string
	InternalNotes string
}

// DecisionResult is the outcome of an application decision, including the
// cascaded tutor when the decision changed the verification tier.
type DecisionResult struct {
	Application models.TutorApplication
	Tutor       *models.Tutor
}

// ApplyApplicationDecision validates the decision against the application
// state machine, applies it, and cascades approvals into the owning tutor's
// verification tier within the same commit.
func (s *WorkflowStore) ApplyApplicationDecision(ctx context.Context, applicationID string, decision models.ApplicationDecision, input DecisionInput) (*DecisionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	app := findApplication(next, applicationID)
	if app == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}

	target, ok := nextApplicationStatus(app.Status, decision)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot apply %s to an application in status %s", decision, app.Status))
	}
	if decision == models.DecisionRequestRevision && strings.TrimSpace(input.RevisionNotes) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "revision notes are required when requesting a revision")
	}

	now := s.now()
	app.Status = target
	if input.RevisionNotes != "" {
		app.RevisionNotes = input.RevisionNotes
	}
	if input.InternalNotes != "" {
		app.InternalNotes = input.InternalNotes
	}

	result := &DecisionResult{}
	if tier, cascades := verificationTarget(target); cascades {
		tutor := findTutor(next, app.TutorID)
		if tutor == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found for application")
		}
		upgradeTutor(tutor, tier, now)
		clone := tutor.Clone()
		result.Tutor = &clone
	}

	s.commit(ctx, next)
	result.Application = *app
	return result, nil
}

// SubmitApplication returns the tutor's application, creating a Pending one on
// first submission. A tutor has at most one application.
func (s *WorkflowStore) SubmitApplication(ctx context.Context, tutorID string) (*models.TutorApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if findTutor(s.snap, tutorID) == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
	}
	for i := range s.snap.Applications {
		if s.snap.Applications[i].TutorID == tutorID {
			app := s.snap.Applications[i]
			return &app, nil
		}
	}

	next := s.snap.Clone()
	app := models.TutorApplication{
		ID:          s.newID(),
		TutorID:     tutorID,
		SubmittedAt: s.now(),
		Status:      models.ApplicationStatusPending,
	}
	next.Applications = append(next.Applications, app)
	s.commit(ctx, next)
	return &app, nil
}

// ResubmitApplication re-opens an application after the tutor addressed a
// revision request. Only the RevisionRequested -> Pending edge is legal.
func (s *WorkflowStore) ResubmitApplication(ctx context.Context, applicationID string) (*models.TutorApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	app := findApplication(next, applicationID)
	if app == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	if app.Status != models.ApplicationStatusRevisionRequested {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot resubmit an application in status %s", app.Status))
	}

	app.Status = models.ApplicationStatusPending
	s.commit(ctx, next)
	result := *app
	return &result, nil
}

// CreateHardcopyRequest records a tutor's declaration that notarized documents
// were mailed. Duplicate active requests are rejected rather than queued.
func (s *WorkflowStore) CreateHardcopyRequest(ctx context.Context, applicationID string) (*models.HardcopyRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	app := findApplication(next, applicationID)
	if app == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	if app.Status == models.ApplicationStatusApprovedHardcopy {
		return nil, appErrors.Clone(appErrors.ErrConflict, "application is already verified by hardcopy")
	}
	for i := range next.HardcopyRequests {
		if next.HardcopyRequests[i].ApplicationID == applicationID && next.HardcopyRequests[i].Active() {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an active hardcopy request already exists for this application")
		}
	}

	req := models.HardcopyRequest{
		ID:            s.newID(),
		ApplicationID: applicationID,
		RequestedAt:   s.now(),
		Status:        models.HardcopyStatusPending,
	}
	next.HardcopyRequests = append(next.HardcopyRequests, req)
	s.commit(ctx, next)
	return &req, nil
}

// HardcopyDecisionResult is the outcome of a hardcopy review, including the
// cascaded application and tutor on approval.
type HardcopyDecisionResult struct {
	Request     models.HardcopyRequest
	Application *models.TutorApplication
	Tutor       *models.Tutor
}

// DecideHardcopyRequest applies the staff decision to a pending request.
// Approval overrides the application into ApprovedHardcopy regardless of its
// prior status and upgrades the tutor to the highest tier; rejection touches
// nothing but the request itself.
func (s *WorkflowStore) DecideHardcopyRequest(ctx context.Context, requestID string, decision models.HardcopyDecision, staffNotes string) (*HardcopyDecisionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	req := findHardcopyRequest(next, requestID)
	if req == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "hardcopy request not found")
	}
	if req.Status != models.HardcopyStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("hardcopy request is already %s", req.Status))
	}

	result := &HardcopyDecisionResult{}
	now := s.now()

	switch decision {
	case models.HardcopyDecisionReject:
		if strings.TrimSpace(staffNotes) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "staff notes are required when rejecting a hardcopy request")
		}
		req.Status = models.HardcopyStatusRejected
		req.StaffNotes = staffNotes
	case models.HardcopyDecisionApprove:
		req.Status = models.HardcopyStatusApproved
		if staffNotes != "" {
			req.StaffNotes = staffNotes
		}
		app := findApplication(next, req.ApplicationID)
		if app == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found for hardcopy request")
		}
		tutor := findTutor(next, app.TutorID)
		if tutor == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found for application")
		}
		app.Status = models.ApplicationStatusApprovedHardcopy
		upgradeTutor(tutor, models.VerificationVerifiedHardcopy, now)
		appCopy := *app
		tutorCopy := tutor.Clone()
		result.Application = &appCopy
		result.Tutor = &tutorCopy
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision must be Approve or Reject")
	}

	s.commit(ctx, next)
	result.Request = *req
	return result, nil
}

// AddDocument appends a document to the collection. Upload alone implies no
// status change; review is a separate explicit action.
func (s *WorkflowStore) AddDocument(ctx context.Context, doc models.Document) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	if findApplication(next, doc.ApplicationID) == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}

	stored := doc.Clone()
	if stored.ID == "" {
		stored.ID = s.newID()
	}
	now := s.now()
	for i := range stored.DocumentFileUploads {
		if stored.DocumentFileUploads[i].ID == "" {
			stored.DocumentFileUploads[i].ID = s.newID()
		}
		if stored.DocumentFileUploads[i].UploadedAt.IsZero() {
			stored.DocumentFileUploads[i].UploadedAt = now
		}
	}

	next.Documents = append(next.Documents, stored)
	s.commit(ctx, next)
	result := stored.Clone()
	return &result, nil
}

// ProfileInput carries the tutor-editable profile fields.
type ProfileInput struct {
	Name      string
	Skills    []string
	Languages []string
}

// UpdateTutorProfile replaces the editable fields only. Verification tier and
// its timestamps are cascade-only and cannot be set through this path.
func (s *WorkflowStore) UpdateTutorProfile(ctx context.Context, userID string, input ProfileInput) (*models.Tutor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(input.Name) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}

	next := s.snap.Clone()
	tutor := findTutor(next, userID)
	if tutor == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
	}

	tutor.Name = input.Name
	tutor.Skills = append([]string(nil), input.Skills...)
	tutor.Languages = append([]string(nil), input.Languages...)

	s.commit(ctx, next)
	result := tutor.Clone()
	return &result, nil
}

// ResetData discards the current dataset and replaces it with a freshly
// generated default, re-persisting it immediately.
func (s *WorkflowStore) ResetData(ctx context.Context) *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := DefaultSnapshot(s.now())
	s.commit(ctx, next)
	return next.Clone()
}

// TutorByID returns a copy of the tutor or a not-found error.
func (s *WorkflowStore) TutorByID(userID string) (*models.Tutor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tutor := findTutor(s.snap, userID)
	if tutor == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
	}
	result := tutor.Clone()
	return &result, nil
}

// Tutors lists all tutors.
func (s *WorkflowStore) Tutors() []models.Tutor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Tutor, len(s.snap.Tutors))
	for i, tutor := range s.snap.Tutors {
		result[i] = tutor.Clone()
	}
	return result
}

// ApplicationByID returns a copy of the application or a not-found error.
func (s *WorkflowStore) ApplicationByID(id string) (*models.TutorApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app := findApplication(s.snap, id)
	if app == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	result := *app
	return &result, nil
}

// ApplicationForTutor returns the tutor's application when one exists.
func (s *WorkflowStore) ApplicationForTutor(tutorID string) (*models.TutorApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.snap.Applications {
		if s.snap.Applications[i].TutorID == tutorID {
			app := s.snap.Applications[i]
			return &app, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found for tutor")
}

// Applications lists applications matching the filter.
func (s *WorkflowStore) Applications(filter models.ApplicationFilter) []models.TutorApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.TutorApplication, 0, len(s.snap.Applications))
	for _, app := range s.snap.Applications {
		if filter.TutorID != "" && app.TutorID != filter.TutorID {
			continue
		}
		if len(filter.Status) > 0 && !containsStatus(filter.Status, app.Status) {
			continue
		}
		result = append(result, app)
	}
	return result
}

// DocumentsForApplication lists documents attached to an application.
func (s *WorkflowStore) DocumentsForApplication(applicationID string) []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Document, 0, 2)
	for _, doc := range s.snap.Documents {
		if doc.ApplicationID == applicationID {
			result = append(result, doc.Clone())
		}
	}
	return result
}

// HardcopyRequests lists all hardcopy requests.
func (s *WorkflowStore) HardcopyRequests() []models.HardcopyRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.HardcopyRequest(nil), s.snap.HardcopyRequests...)
}

// HardcopyRequestForApplication returns the most recent request for an
// application when one exists.
func (s *WorkflowStore) HardcopyRequestForApplication(applicationID string) *models.HardcopyRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.snap.HardcopyRequests) - 1; i >= 0; i-- {
		if s.snap.HardcopyRequests[i].ApplicationID == applicationID {
			req := s.snap.HardcopyRequests[i]
			return &req
		}
	}
	return nil
}

// commit publishes the successor snapshot. Must be called with the write lock
// held. Persistence failures are logged, never roll back the commit: the
// in-memory snapshot is canonical.
func (s *WorkflowStore) commit(ctx context.Context, next *models.Snapshot) {
	s.snap = next
	if s.persister != nil {
		if err := s.persister.Save(ctx, next); err != nil {
			s.logger.Warn("failed to persist snapshot", zap.Error(err))
		}
	}
	s.notify(next)
}

func (s *WorkflowStore) notify(snap *models.Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap.Clone():
		default:
		}
	}
}

// upgradeTutor cascades a tier change into the tutor record. Tiers only move
// forward; a cascade landing on the tutor's current tier still refreshes
// LastStatusUpdateAt. BecameTutorAt is set on first verification.
func upgradeTutor(tutor *models.Tutor, target models.VerificationStatus, now time.Time) {
	if verificationRank(target) < verificationRank(tutor.VerificationStatus) {
		return
	}
	tutor.VerificationStatus = target
	tutor.LastStatusUpdateAt = now
	if tutor.BecameTutorAt == nil {
		at := now
		tutor.BecameTutorAt = &at
	}
}

func findTutor(snap *models.Snapshot, userID string) *models.Tutor {
	for i := range snap.Tutors {
		if snap.Tutors[i].UserID == userID {
			return &snap.Tutors[i]
		}
	}
	return nil
}

func findApplication(snap *models.Snapshot, id string) *models.TutorApplication {
	for i := range snap.Applications {
		if snap.Applications[i].ID == id {
			return &snap.Applications[i]
		}
	}
	return nil
}

func findHardcopyRequest(snap *models.Snapshot, id string) *models.HardcopyRequest {
	for i := range snap.HardcopyRequests {
		if snap.HardcopyRequests[i].ID == id {
			return &snap.HardcopyRequests[i]
		}
	}
	return nil
}

func containsStatus(statuses []models.ApplicationStatus, status models.ApplicationStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
