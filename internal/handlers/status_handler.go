package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type StatusHandler struct {
	apiKeyConfigured bool
}

func NewStatusHandler(apiKeyConfigured bool) *StatusHandler {
	return &StatusHandler{apiKeyConfigured: apiKeyConfigured}
}

// HandleStatus handles GET / and GET /api/test
func (h *StatusHandler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(models.StatusResponse{
		Message:          "AI Resume Analyzer API is running",
		Status:           "ok",
		APIKeyConfigured: h.apiKeyConfigured,
	})
}
