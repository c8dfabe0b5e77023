package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// StatusFor maps an analysis error kind to its HTTP status.
func StatusFor(kind models.ErrorKind) int {
	if kind == models.ErrBadInput {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err *models.AnalysisError) error {
	code := StatusFor(err.Kind)

	message := err.Detail
	if message == "" {
		message = string(err.Kind)
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: message,
		Kind:  string(err.Kind),
		Code:  code,
		Raw:   err.Raw,
	})
}
