package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

// HeaderAnalysisID carries the audit record id when the audit log is on.
const HeaderAnalysisID = "X-Analysis-Id"

const emptyTextDetail = "Could not extract text from the PDF. The file might be empty, corrupted, or an image-based PDF."

type AnalyzeHandler struct {
	storageService services.StorageService
	pdfParser      services.PDFParserService
	analyzer       services.AnalyzerService
	worker         services.Worker
	auditRepo      repositories.AnalysisRepository
	maxFileSize    int64
}

// NewAnalyzeHandler wires the analysis endpoint. auditRepo may be nil.
func NewAnalyzeHandler(
	storageService services.StorageService,
	pdfParser services.PDFParserService,
	analyzer services.AnalyzerService,
	worker services.Worker,
	auditRepo repositories.AnalysisRepository,
	maxFileSize int64,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		storageService: storageService,
		pdfParser:      pdfParser,
		analyzer:       analyzer,
		worker:         worker,
		auditRepo:      auditRepo,
		maxFileSize:    maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze_resume
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	start := time.Now()

	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, models.NewAnalysisError(models.ErrBadInput, "failed to parse multipart form"))
	}

	files := form.File["file"]
	if len(files) == 0 {
		return respondError(c, models.NewAnalysisError(models.ErrBadInput, "file is required"))
	}
	file := files[0]

	jobDescs := form.Value["job_desc"]
	if len(jobDescs) == 0 || strings.TrimSpace(jobDescs[0]) == "" {
		return respondError(c, models.NewAnalysisError(models.ErrBadInput, "job_desc is required"))
	}
	jobDesc := jobDescs[0]

	if file.Size > h.maxFileSize {
		return respondError(c, models.NewAnalysisError(models.ErrBadInput,
			fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize)))
	}

	filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		if errors.Is(err, services.ErrNotPDF) {
			return respondError(c, models.NewAnalysisError(models.ErrBadInput, "Only PDF files are allowed"))
		}
		logger.Error().Err(err).Msg("failed to store upload")
		return respondError(c, models.NewAnalysisError(models.ErrInternal, "failed to store uploaded file"))
	}
	defer func() {
		if err := h.storageService.DeleteFile(filePath); err != nil {
			logger.Warn().Err(err).Str("path", filePath).Msg("failed to remove scratch file")
		}
	}()

	ctx := c.UserContext()
	var result models.AnalysisResult

	err = h.worker.Submit(ctx, func() {
		resumeText := h.pdfParser.ExtractText(filePath)
		if resumeText == "" {
			result = models.Failed(models.NewAnalysisError(models.ErrBadInput, emptyTextDetail))
			return
		}

		result = h.analyzer.Analyze(ctx, models.AnalysisRequest{
			ResumeText:     resumeText,
			JobDescription: jobDesc,
		})
	})

	switch {
	case err != nil:
		logger.Error().Err(err).Msg("analysis job was not run")
		result = models.Failed(models.NewAnalysisError(models.ErrInternal, err.Error()))
	case result.Payload == nil && result.Err == nil:
		result = models.Failed(models.NewAnalysisError(models.ErrInternal, "analysis did not complete"))
	}

	if id := h.recordAudit(file.Filename, result, time.Since(start)); id != "" {
		c.Set(HeaderAnalysisID, id)
	}

	if !result.OK() {
		return respondError(c, result.Err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(result.Payload)
}

// recordAudit returns the record id, or "" when nothing was written.
func (h *AnalyzeHandler) recordAudit(filename string, result models.AnalysisResult, elapsed time.Duration) string {
	if h.auditRepo == nil {
		return ""
	}

	record := &models.AnalysisRecord{
		ID:               uuid.New(),
		OriginalFileName: filename,
		Status:           models.StatusCompleted,
		DurationMs:       elapsed.Milliseconds(),
		CreatedAt:        time.Now(),
	}

	if result.OK() {
		if verdict, err := result.Verdict(); err == nil {
			record.MatchPercentage = &verdict.MatchPercentage
		}
	} else {
		kind := string(result.Err.Kind)
		record.Status = models.StatusFailed
		record.ErrorKind = &kind
	}

	if err := h.auditRepo.Create(record); err != nil {
		logger.Warn().Err(err).Msg("failed to write analysis audit record")
		return ""
	}
	return record.ID.String()
}
