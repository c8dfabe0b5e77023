package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

type AuditHandler struct {
	auditRepo repositories.AnalysisRepository
}

// NewAuditHandler returns a handler that answers 404 when auditRepo is nil.
func NewAuditHandler(auditRepo repositories.AnalysisRepository) *AuditHandler {
	return &AuditHandler{
		auditRepo: auditRepo,
	}
}

// HandleGetAnalysis handles GET /api/analyses/:id
func (h *AuditHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	if h.auditRepo == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis audit log is disabled",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	record, err := h.auditRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Analysis not found",
			})
		}
		logger.Error().Err(err).Str("id", id.String()).Msg("failed to load analysis record")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analysis",
		})
	}

	return c.JSON(record)
}
