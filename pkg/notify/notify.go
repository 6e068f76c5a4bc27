package notify

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/agentdesk/agentdesk/pkg/errx"
)

// Notifier forwards a subject/body pair to the outbound automation
// webhook and returns the endpoint's raw response text.
type Notifier interface {
	Send(ctx context.Context, subject, body string) (string, error)
}

var subjectLabelRe = regexp.MustCompile(`(?i)^subject:\s*`)

// SplitSubjectBody splits assistant text on the first blank-line boundary.
// Text before the boundary becomes the subject, with an optional
// "Subject:" label stripped case-insensitively; the rest becomes the body.
func SplitSubjectBody(text string) (subject, body string) {
	parts := strings.SplitN(text, "\n\n", 2)

	subject = strings.TrimSpace(subjectLabelRe.ReplaceAllString(parts[0], ""))
	if len(parts) > 1 {
		body = strings.TrimSpace(parts[1])
	}

	return subject, body
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("NOTIFY")

var (
	CodeUnreachable = ErrRegistry.Register("UNREACHABLE", errx.TypeUnavailable, http.StatusBadGateway, "The email webhook could not be reached")
	CodeEmptyText   = ErrRegistry.Register("EMPTY_TEXT", errx.TypeValidation, http.StatusBadRequest, "No text to send")
)

func ErrUnreachable() *errx.Error {
	return ErrRegistry.New(CodeUnreachable)
}

func ErrEmptyText() *errx.Error {
	return ErrRegistry.New(CodeEmptyText)
}
