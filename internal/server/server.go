package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
)

// multipartOverhead leaves room for form fields around a maximum-size file.
const multipartOverhead = 1 << 20

type Handlers struct {
	Status  *handlers.StatusHandler
	Analyze *handlers.AnalyzeHandler
	Audit   *handlers.AuditHandler
}

func New(cfg *config.Config, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "AI Resume Analyzer API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + multipartOverhead,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/", h.Status.HandleStatus)
	app.Post("/analyze_resume", h.Analyze.HandleAnalyze)

	api := app.Group("/api")
	api.Get("/test", h.Status.HandleStatus)
	api.Post("/analyze_resume", h.Analyze.HandleAnalyze)
	api.Get("/analyses/:id", h.Audit.HandleGetAnalysis)

	return app
}

// ErrorHandler renders errors that escape handlers, including recovered
// panics, in the same body shape as analysis failures.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	kind := models.ErrInternal

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code >= 400 && code < 500 {
			kind = models.ErrBadInput
		}
	}

	if code >= 500 {
		logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
		Kind:  string(kind),
		Code:  code,
	})
}
