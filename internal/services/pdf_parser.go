package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParserService extracts plain text from uploaded resume PDFs. The text
// becomes the profile's summary document, which feeds the judge prompt.
type PDFParserService interface {
	ExtractText(filepath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
	FilePath  string
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText implements PDFParserService.
func (p *pdfParserService) ExtractText(filePath string) (*PDFContent, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := CleanText(textBuilder.String())
	if text == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return &PDFContent{
		Text:      text,
		PageCount: totalPage,
		FilePath:  filePath,
	}, nil
}

// CleanText trims blank lines and surrounding whitespace.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
