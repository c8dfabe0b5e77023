package services

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"alfredoptarigan/resume-analyzer/internal/logger"
)

type PDFParserService interface {
	// ExtractText returns the trimmed text of every page in order, or ""
	// when the file is unreadable, not a PDF, or has no text layer.
	ExtractText(filePath string) string
	Inspect(filePath string) (*PDFContent, error)
}

type PDFContent struct {
	Text        string
	PageCount   int
	PageLengths []int
	FilePath    string
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) ExtractText(filePath string) string {
	content, err := p.Inspect(filePath)
	if err != nil {
		logger.Warn().Err(err).Str("path", filePath).Msg("pdf text extraction failed")
		return ""
	}
	return content.Text
}

func (p *pdfParserService) Inspect(filePath string) (content *PDFContent, err error) {
	// ledongthuc/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()
	pageLengths := make([]int, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pageLengths = append(pageLengths, 0)
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Debug().Err(err).Int("page", pageIndex).Msg("skipping unreadable page")
			pageLengths = append(pageLengths, 0)
			continue
		}

		textBuilder.WriteString(text)
		pageLengths = append(pageLengths, len(text))
	}

	return &PDFContent{
		Text:        strings.TrimSpace(textBuilder.String()),
		PageCount:   totalPage,
		PageLengths: pageLengths,
		FilePath:    filePath,
	}, nil
}
