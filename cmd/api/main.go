package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/server"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log)
	logger.Info().Msg("config loaded")

	ctx := context.Background()

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Fatal().Err(err).Msg("failed to create upload directory")
	}

	pdfParser := services.NewPDFParserService()

	// A missing or rejected key leaves the server up; analysis requests
	// then answer not_configured.
	var geminiService services.GeminiService
	configured := false
	if cfg.HasAPIKey() {
		g, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature)
		if err != nil {
			logger.Error().Err(err).Msg("gemini client could not be configured")
		} else {
			geminiService = g
			configured = true
			logger.Info().Str("model", cfg.Gemini.Model).Msg("gemini client initialized")
		}
	} else {
		logger.Warn().Msg("GEMINI_API_KEY is not set; analysis requests will fail with not_configured")
	}

	analyzer := services.NewAnalyzerService(geminiService, services.AnalyzerConfig{
		Configured: configured,
		Timeout:    cfg.Gemini.Timeout,
	})

	var auditRepo repositories.AnalysisRepository
	if cfg.Audit.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			logger.Error().Err(err).Msg("audit database unavailable, continuing without audit log")
		} else {
			auditRepo = repositories.NewAnalysisRepository(db)
		}
	}

	worker := services.NewWorker(cfg.Worker.Concurrency, cfg.Worker.QueueSize)
	worker.Start(ctx)

	app := server.New(cfg, server.Handlers{
		Status: handlers.NewStatusHandler(configured),
		Analyze: handlers.NewAnalyzeHandler(
			storageService,
			pdfParser,
			analyzer,
			worker,
			auditRepo,
			cfg.Storage.MaxFileSize,
		),
		Audit: handlers.NewAuditHandler(auditRepo),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info().Msg("shutting down server")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("server forced to shutdown")
		}
		worker.Stop()
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server starting")

	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
