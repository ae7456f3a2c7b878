package extractor

import (
	"bytes"
	"strings"

	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"

	"github.com/ledongthuc/pdf"
)

// ExtractContent pulls the page text (in page order, one trailing newline per
// page) and every decodable embedded image out of a PDF. Parse failures are
// swallowed: a document that cannot be read yields ("", nil) and the caller
// reports "no content extracted". A single bad page or image never aborts
// the document.
func ExtractContent(data []byte, logger *utils.Logger) (string, []models.ExtractedImage) {
	text := extractText(data, logger)
	images := extractImages(data, logger)

	logger.Info("Content extraction finished",
		"text_length", len(text),
		"image_count", len(images))

	return text, images
}

func extractText(data []byte, logger *utils.Logger) (text string) {
	// ledongthuc/pdf panics on some malformed documents; the extraction
	// contract is to swallow those and return nothing.
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("PDF text extraction panicked", "error", r)
			text = ""
		}
	}()

	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		logger.Warn("Failed to open PDF for text extraction", "error", err)
		return ""
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("Failed to extract page text", "page", i, "error", err)
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String()
}
