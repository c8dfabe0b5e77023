// Command analyze runs one resume analysis from the terminal, or with
// --inspect only reports what text the PDF yields.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const previewLength = 500

func main() {
	resumePath := pflag.StringP("resume", "r", "", "path to the resume PDF")
	jobPath := pflag.StringP("job", "j", "", "path to a file holding the job description")
	jobText := pflag.String("job-text", "", "job description given inline")
	inspect := pflag.Bool("inspect", false, "print page statistics and a text preview, no API call")
	pflag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Log)

	if *resumePath == "" {
		fmt.Fprintln(os.Stderr, "--resume is required")
		pflag.Usage()
		os.Exit(2)
	}

	parser := services.NewPDFParserService()

	if *inspect {
		if err := printInspection(parser, *resumePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	jobDesc, err := loadJobDescription(*jobPath, *jobText)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	resumeText := parser.ExtractText(*resumePath)
	if resumeText == "" {
		fmt.Fprintln(os.Stderr, "could not extract text from the PDF")
		os.Exit(1)
	}

	ctx := context.Background()

	var geminiService services.GeminiService
	configured := false
	if cfg.HasAPIKey() {
		if g, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature); err == nil {
			geminiService = g
			configured = true
		} else {
			logger.Error().Err(err).Msg("gemini client could not be configured")
		}
	}

	analyzer := services.NewAnalyzerService(geminiService, services.AnalyzerConfig{
		Configured: configured,
		Timeout:    cfg.Gemini.Timeout,
	})

	result := analyzer.Analyze(ctx, models.AnalysisRequest{
		ResumeText:     resumeText,
		JobDescription: jobDesc,
	})
	if !result.OK() {
		fmt.Fprintln(os.Stderr, result.Err.Error())
		if result.Err.Raw != "" {
			fmt.Fprintln(os.Stderr, "raw response:")
			fmt.Fprintln(os.Stderr, result.Err.Raw)
		}
		os.Exit(1)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, result.Payload, "", "  "); err != nil {
		out.Reset()
		out.Write(result.Payload)
	}
	fmt.Println(out.String())
}

func loadJobDescription(path, inline string) (string, error) {
	switch {
	case inline != "":
		return inline, nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("one of --job or --job-text is required")
	}
}

func printInspection(parser services.PDFParserService, path string) error {
	content, err := parser.Inspect(path)
	if err != nil {
		return err
	}

	for i, n := range content.PageLengths {
		fmt.Printf("Page %d length: %d\n", i+1, n)
	}
	fmt.Println("Total text length:", len(content.Text))

	preview := content.Text
	if len(preview) > previewLength {
		preview = preview[:previewLength]
	}
	fmt.Printf("Preview (first %d chars):\n%s\n", previewLength, preview)
	return nil
}
