package notes

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/agentdesk/agentdesk/pkg/errx"
	"github.com/ledongthuc/pdf"
)

const MediaTypePDF = "application/pdf"

// ExtractText converts an uploaded document to plain text. PDF bytes go
// through the PDF text extractor; every other media type is returned
// verbatim as UTF-8.
func ExtractText(data []byte, mediaType string) (string, error) {
	if isPDF(mediaType) {
		return extractPDFText(data)
	}
	return string(data), nil
}

func isPDF(mediaType string) bool {
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		parsed = mediaType
	}
	return strings.EqualFold(parsed, MediaTypePDF)
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", ErrParseFailed().WithCause(err)
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", ErrParseFailed().WithCause(err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plainText); err != nil {
		return "", ErrParseFailed().WithCause(err)
	}

	return b.String(), nil
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("NOTES")

var (
	CodeParseFailed = ErrRegistry.Register("PARSE_FAILED", errx.TypeValidation, http.StatusBadRequest, "Could not extract text from the uploaded file")
	CodeNoFile      = ErrRegistry.Register("NO_FILE", errx.TypeValidation, http.StatusBadRequest, "No file uploaded")
)

func ErrParseFailed() *errx.Error {
	return ErrRegistry.New(CodeParseFailed)
}

func ErrNoFile() *errx.Error {
	return ErrRegistry.New(CodeNoFile)
}
