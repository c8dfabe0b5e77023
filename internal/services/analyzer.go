package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
)

const invalidResponseDetail = "The AI response was not in a valid format. Please try again."

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

type AnalyzerService interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) models.AnalysisResult
}

// AnalyzerConfig is fixed at startup.
type AnalyzerConfig struct {
	// Configured is false when no usable API credential was found.
	Configured bool
	// Timeout bounds the upstream call. Zero means no bound.
	Timeout time.Duration
}

type analyzerService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	config        AnalyzerConfig
}

func NewAnalyzerService(geminiService GeminiService, config AnalyzerConfig) AnalyzerService {
	return &analyzerService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		config:        config,
	}
}

func (a *analyzerService) Analyze(ctx context.Context, req models.AnalysisRequest) models.AnalysisResult {
	if !a.config.Configured || a.geminiService == nil {
		return models.Failed(models.NewAnalysisError(models.ErrNotConfigured, "Gemini API key is not configured"))
	}

	prompt := a.promptBuilder.BuildResumeAnalysisPrompt(req.ResumeText, req.JobDescription)
	logger.Debug().Int("prompt_length", len(prompt)).Msg("requesting resume analysis")

	content, err := a.generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn().Dur("timeout", a.config.Timeout).Msg("gemini call timed out")
			return models.Failed(models.NewAnalysisError(models.ErrTimeout, "the AI service did not respond in time"))
		}
		logger.Error().Err(err).Msg("gemini call failed")
		return models.Failed(models.NewAnalysisError(models.ErrAPI, err.Error()))
	}

	logger.Debug().Int("response_length", len(content)).Msg("gemini response received")

	return normalizeResponse(content)
}

type generation struct {
	text string
	err  error
}

// generate returns as soon as the deadline passes even if the client
// ignores cancellation; a late reply is dropped.
func (a *analyzerService) generate(ctx context.Context, prompt string) (string, error) {
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	done := make(chan generation, 1)
	go func() {
		text, err := a.geminiService.GenerateText(ctx, prompt)
		done <- generation{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", context.DeadlineExceeded
		}
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// normalizeResponse unwraps the first ```json block, if any, and passes
// the JSON through without checking its fields.
func normalizeResponse(content string) models.AnalysisResult {
	clean := content
	if match := fencedJSON.FindStringSubmatch(content); match != nil {
		clean = match[1]
	}
	clean = strings.TrimSpace(clean)

	var payload json.RawMessage
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		logger.Warn().Err(err).Int("raw_length", len(content)).Msg("failed to parse AI response")
		return models.Failed(&models.AnalysisError{
			Kind:   models.ErrInvalidAIResponse,
			Detail: invalidResponseDetail,
			Raw:    content,
		})
	}

	return models.Succeeded(payload)
}
