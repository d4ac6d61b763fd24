package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-verify-api/internal/dto"
	"github.com/noah-isme/tutor-verify-api/internal/models"
	"github.com/noah-isme/tutor-verify-api/internal/store"
	appErrors "github.com/noah-isme/tutor-verify-api/pkg/errors"
	"github.com/noah-isme/tutor-verify-api/pkg/export"
	"github.com/noah-isme/tutor-verify-api/pkg/jobs"
	"github.com/noah-isme/tutor-verify-api/pkg/storage"
)

const (
	exportJobType = "verification_export"

	ExportStatusPending = "pending"
	ExportStatusReady   = "ready"
	ExportStatusFailed  = "failed"
)

type exportJob struct {
	ID          string
	Format      string
	Status      string
	FileName    string
	CreatedAt   time.Time
	CompletedAt *time.Time
	Err         string
}

// ExportService renders the verification roster (tutors joined with their
// application and hardcopy state) into CSV or PDF files. Rendering runs on
// the jobs queue; downloads go through HMAC-signed tokens.
type ExportService struct {
	store     *store.WorkflowStore
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	files     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	urlPrefix string

	queue *jobs.Queue

	mu      sync.Mutex
	exports map[string]*exportJob
}

// ExportQueueConfig tunes the rendering worker pool.
type ExportQueueConfig struct {
	Workers int
	Retries int
}

// NewExportService constructs the service.
func NewExportService(st *store.WorkflowStore, files *storage.LocalStorage, signer *storage.SignedURLSigner, urlPrefix string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:     st,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		files:     files,
		signer:    signer,
		logger:    logger,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		exports:   make(map[string]*exportJob),
	}
}

// StartWorkers boots the rendering queue. Without it CreateExport renders
// synchronously, which tests rely on.
func (s *ExportService) StartWorkers(ctx context.Context, cfg ExportQueueConfig) {
	s.queue = jobs.NewQueue(exportJobType, s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		Logger:     s.logger,
	})
	s.queue.Start(ctx)
}

// StopWorkers drains the rendering queue.
func (s *ExportService) StopWorkers() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

// CreateExport registers an export job and schedules rendering.
func (s *ExportService) CreateExport(ctx context.Context, req dto.CreateExportRequest) (*dto.ExportJobResponse, error) {
	format := strings.ToLower(req.Format)
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	job := &exportJob{
		ID:        uuid.NewString(),
		Format:    format,
		Status:    ExportStatusPending,
		FileName:  "",
		CreatedAt: time.Now().UTC(),
	}
	job.FileName = fmt.Sprintf("verifications-%s.%s", job.ID, format)

	s.mu.Lock()
	s.exports[job.ID] = job
	s.mu.Unlock()

	if s.queue == nil {
		if err := s.process(ctx, jobs.Job{ID: job.ID, Type: exportJobType}); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
		}
	} else if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: exportJobType}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule export")
	}

	return s.GetExport(ctx, job.ID)
}

// GetExport reports job state, attaching a signed download URL when ready.
func (s *ExportService) GetExport(ctx context.Context, id string) (*dto.ExportJobResponse, error) {
	s.mu.Lock()
	job, ok := s.exports[id]
	if !ok {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	resp := &dto.ExportJobResponse{
		ID:          job.ID,
		Format:      job.Format,
		Status:      job.Status,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
		Error:       job.Err,
	}
	fileName := job.FileName
	s.mu.Unlock()

	if resp.Status == ExportStatusReady && s.signer != nil {
		token, _, err := s.signer.Generate(resp.ID, fileName)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
		}
		resp.DownloadURL = fmt.Sprintf("%s/exports/download?token=%s", s.urlPrefix, token)
	}
	return resp, nil
}

// ResolveDownload validates a signed token and returns the absolute file path
// plus the download file name.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (string, string, error) {
	if s.signer == nil {
		return "", "", appErrors.Clone(appErrors.ErrInternal, "export downloads not configured")
	}
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid download token")
	}

	s.mu.Lock()
	job, ok := s.exports[jobID]
	ready := ok && job.Status == ExportStatusReady && job.FileName == relPath
	s.mu.Unlock()
	if !ready {
		return "", "", appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	return s.files.Path(relPath), relPath, nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	s.mu.Lock()
	record, ok := s.exports[job.ID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	format := record.Format
	fileName := record.FileName
	s.mu.Unlock()

	dataset := buildVerificationDataset(s.store.Snapshot())

	var (
		data []byte
		err  error
	)
	switch format {
	case "pdf":
		data, err = s.pdf.Render(dataset, "Verification roster")
	default:
		data, err = s.csv.Render(dataset)
	}
	if err == nil {
		err = s.files.Save(fileName, data)
	}

	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		record.Status = ExportStatusFailed
		record.Err = err.Error()
		s.logger.Error("export render failed", zap.String("export_id", job.ID), zap.Error(err))
		return err
	}
	record.Status = ExportStatusReady
	record.CompletedAt = &now
	s.logger.Info("export rendered", zap.String("export_id", job.ID), zap.String("file", fileName))
	return nil
}

func buildVerificationDataset(snap *models.Snapshot) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Tutor", "Email", "Verification tier", "Application status", "Documents", "Hardcopy status"},
	}

	appsByTutor := make(map[string]models.TutorApplication, len(snap.Applications))
	for _, app := range snap.Applications {
		appsByTutor[app.TutorID] = app
	}
	docCounts := make(map[string]int, len(snap.Documents))
	for _, doc := range snap.Documents {
		docCounts[doc.ApplicationID]++
	}
	requestsByApp := make(map[string]models.HardcopyRequest, len(snap.HardcopyRequests))
	for _, req := range snap.HardcopyRequests {
		requestsByApp[req.ApplicationID] = req
	}

	for _, tutor := range snap.Tutors {
		row := []string{tutor.Name, tutor.Email, string(tutor.VerificationStatus), "", "0", ""}
		if app, ok := appsByTutor[tutor.UserID]; ok {
			row[3] = string(app.Status)
			row[4] = strconv.Itoa(docCounts[app.ID])
			if req, ok := requestsByApp[app.ID]; ok {
				row[5] = string(req.Status)
			}
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset
}
