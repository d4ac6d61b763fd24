package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-verify-api/internal/dto"
	"github.com/noah-isme/tutor-verify-api/internal/models"
	"github.com/noah-isme/tutor-verify-api/internal/store"
	appErrors "github.com/noah-isme/tutor-verify-api/pkg/errors"
)

type workflowMetrics interface {
	ObserveWorkflowDecision(entity, decision, outcome string)
}

// VerificationService fronts the workflow store with request validation,
// logging, joined read models, and the simulated upload delay. The store's
// operations themselves stay synchronous pure transitions.
type VerificationService struct {
	store     *store.WorkflowStore
	logger    *zap.Logger
	metrics   workflowMetrics
	validator *validator.Validate

	uploadLatency  time.Duration
	placeholderURL string
}

// VerificationServiceOption configures the service.
type VerificationServiceOption func(*VerificationService)

// WithUploadLatency sets the artificial delay applied before a simulated
// upload reaches the store. Zero disables it (tests).
func WithUploadLatency(d time.Duration) VerificationServiceOption {
	return func(s *VerificationService) {
		s.uploadLatency = d
	}
}

// WithPlaceholderURL overrides the placeholder file URL assigned to uploads.
func WithPlaceholderURL(url string) VerificationServiceOption {
	return func(s *VerificationService) {
		if url != "" {
			s.placeholderURL = url
		}
	}
}

// WithWorkflowMetrics wires decision counters.
func WithWorkflowMetrics(m workflowMetrics) VerificationServiceOption {
	return func(s *VerificationService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewVerificationService constructs the service.
func NewVerificationService(st *store.WorkflowStore, logger *zap.Logger, opts ...VerificationServiceOption) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &VerificationService{
		store:          st,
		logger:         logger,
		validator:      validator.New(),
		placeholderURL: "/placeholder.svg",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// ListTutors returns all tutors.
func (s *VerificationService) ListTutors(ctx context.Context) []models.Tutor {
	return s.store.Tutors()
}

// GetTutor returns one tutor.
func (s *VerificationService) GetTutor(ctx context.Context, userID string) (*models.Tutor, error) {
	return s.store.TutorByID(userID)
}

// UpdateTutorProfile replaces the editable profile fields.
func (s *VerificationService) UpdateTutorProfile(ctx context.Context, userID string, req dto.UpdateTutorProfileRequest) (*models.Tutor, error) {
	tutor, err := s.store.UpdateTutorProfile(ctx, userID, store.ProfileInput{
		Name:      strings.TrimSpace(req.Name),
		Skills:    req.Skills,
		Languages: req.Languages,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tutor profile updated", zap.String("tutor_id", userID))
	return tutor, nil
}

// SubmitApplication returns the tutor's application, creating one on first
// submission.
func (s *VerificationService) SubmitApplication(ctx context.Context, tutorID string) (*models.TutorApplication, error) {
	app, err := s.store.SubmitApplication(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application submitted", zap.String("tutor_id", tutorID), zap.String("application_id", app.ID))
	return app, nil
}

// GetTutorApplication returns the application owned by a tutor.
func (s *VerificationService) GetTutorApplication(ctx context.Context, tutorID string) (*models.TutorApplication, error) {
	return s.store.ApplicationForTutor(tutorID)
}

// ListApplications returns applications joined with their tutors.
func (s *VerificationService) ListApplications(ctx context.Context, query dto.ApplicationQuery) []dto.ApplicationListItem {
	apps := s.store.Applications(models.ApplicationFilter{
		Status:  query.Status,
		TutorID: query.TutorID,
	})
	items := make([]dto.ApplicationListItem, 0, len(apps))
	for _, app := range apps {
		item := dto.ApplicationListItem{TutorApplication: app}
		if tutor, err := s.store.TutorByID(app.TutorID); err == nil {
			item.Tutor = tutor
		}
		items = append(items, item)
	}
	return items
}

// GetApplicationDetail joins everything a review screen needs in one read.
func (s *VerificationService) GetApplicationDetail(ctx context.Context, applicationID string) (*dto.ApplicationDetail, error) {
	app, err := s.store.ApplicationByID(applicationID)
	if err != nil {
		return nil, err
	}
	detail := &dto.ApplicationDetail{
		Application:     *app,
		Documents:       s.store.DocumentsForApplication(applicationID),
		HardcopyRequest: s.store.HardcopyRequestForApplication(applicationID),
	}
	if tutor, err := s.store.TutorByID(app.TutorID); err == nil {
		detail.Tutor = tutor
	}
	return detail, nil
}

// DecideApplication maps and applies a staff review decision.
func (s *VerificationService) DecideApplication(ctx context.Context, applicationID string, req dto.ApplicationDecisionRequest) (*dto.DecisionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	decision := models.ApplicationDecision(req.Decision)
	result, err := s.store.ApplyApplicationDecision(ctx, applicationID, decision, store.DecisionInput{
		RevisionNotes: req.RevisionNotes,
		InternalNotes: req.InternalNotes,
	})
	if err != nil {
		s.observeDecision("application", req.Decision, "error")
		return nil, err
	}
	s.observeDecision("application", req.Decision, "ok")
	s.logger.Info("application decision applied",
		zap.String("application_id", applicationID),
		zap.String("decision", req.Decision),
		zap.String("status", string(result.Application.Status)),
	)
	return &dto.DecisionResponse{Application: result.Application, Tutor: result.Tutor}, nil
}

// UploadDocuments simulates the upload of credential files, then records the
// document. Uploading against a revision-requested application re-opens it.
// The delay may be abandoned via ctx; once the store mutation starts it runs
// to completion.
func (s *VerificationService) UploadDocuments(ctx context.Context, applicationID string, req dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document payload")
	}
	app, err := s.store.ApplicationByID(applicationID)
	if err != nil {
		return nil, err
	}

	if err := s.simulateUploadDelay(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "upload abandoned")
	}

	doc := models.Document{
		ApplicationID:      applicationID,
		Description:        req.Description,
		IsVisibleToLearner: req.IsVisibleToLearner,
	}
	if staffID := strings.TrimSpace(req.StaffID); staffID != "" {
		doc.StaffID = &staffID
	}
	for _, file := range req.Files {
		doc.DocumentFileUploads = append(doc.DocumentFileUploads, models.DocumentFileUpload{
			FileName: file.FileName,
			FileURL:  s.placeholderURL,
		})
	}

	stored, err := s.store.AddDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	resp := &dto.UploadDocumentResponse{Document: *stored}

	// A tutor upload against a revision request re-opens the application.
	if doc.StaffID == nil && app.Status == models.ApplicationStatusRevisionRequested {
		reopened, err := s.store.ResubmitApplication(ctx, applicationID)
		if err != nil {
			return nil, err
		}
		resp.Application = reopened
	}

	s.logger.Info("document uploaded",
		zap.String("application_id", applicationID),
		zap.String("document_id", stored.ID),
		zap.Int("files", len(stored.DocumentFileUploads)),
	)
	return resp, nil
}

// ListDocuments returns the documents attached to an application.
func (s *VerificationService) ListDocuments(ctx context.Context, applicationID string) ([]models.Document, error) {
	if _, err := s.store.ApplicationByID(applicationID); err != nil {
		return nil, err
	}
	return s.store.DocumentsForApplication(applicationID), nil
}

// CreateHardcopyRequest opens a hardcopy confirmation for an application.
func (s *VerificationService) CreateHardcopyRequest(ctx context.Context, applicationID string) (*models.HardcopyRequest, error) {
	req, err := s.store.CreateHardcopyRequest(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("hardcopy request created",
		zap.String("application_id", applicationID),
		zap.String("request_id", req.ID),
	)
	return req, nil
}

// ListHardcopyRequests joins requests with their applications and tutors.
func (s *VerificationService) ListHardcopyRequests(ctx context.Context) []dto.HardcopyListItem {
	requests := s.store.HardcopyRequests()
	items := make([]dto.HardcopyListItem, 0, len(requests))
	for _, req := range requests {
		item := dto.HardcopyListItem{HardcopyRequest: req}
		if app, err := s.store.ApplicationByID(req.ApplicationID); err == nil {
			item.Application = app
			if tutor, err := s.store.TutorByID(app.TutorID); err == nil {
				item.Tutor = tutor
			}
		}
		items = append(items, item)
	}
	return items
}

// DecideHardcopyRequest maps and applies a staff decision on a request.
func (s *VerificationService) DecideHardcopyRequest(ctx context.Context, requestID string, req dto.HardcopyDecisionRequest) (*dto.HardcopyDecisionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	decision := models.HardcopyDecision(req.Decision)
	result, err := s.store.DecideHardcopyRequest(ctx, requestID, decision, req.StaffNotes)
	if err != nil {
		s.observeDecision("hardcopy_request", req.Decision, "error")
		return nil, err
	}
	s.observeDecision("hardcopy_request", req.Decision, "ok")
	s.logger.Info("hardcopy request decided",
		zap.String("request_id", requestID),
		zap.String("decision", req.Decision),
	)
	return &dto.HardcopyDecisionResponse{
		Request:     result.Request,
		Application: result.Application,
		Tutor:       result.Tutor,
	}, nil
}

// DataFlow returns a copy of the full dataset for the debug viewer.
func (s *VerificationService) DataFlow(ctx context.Context) *models.Snapshot {
	return s.store.Snapshot()
}

// Reset regenerates the default dataset.
func (s *VerificationService) Reset(ctx context.Context) *models.Snapshot {
	snap := s.store.ResetData(ctx)
	s.logger.Info("dataset reset to defaults")
	return snap
}

func (s *VerificationService) observeDecision(entity, decision, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveWorkflowDecision(entity, decision, outcome)
	}
}

func (s *VerificationService) simulateUploadDelay(ctx context.Context) error {
	if s.uploadLatency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.uploadLatency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
