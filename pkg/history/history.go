package history

import (
	"context"
	"net/http"
	"time"

	"github.com/agentdesk/agentdesk/pkg/errx"
)

// Record is the persisted summary of one completed chat turn. Records are
// append-only; nothing in the system updates or deletes them.
type Record struct {
	ID        int64     `db:"id" json:"id"`
	Role      string    `db:"role" json:"role"`
	Prompt    string    `db:"prompt" json:"prompt"`
	Response  string    `db:"response" json:"response"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Repository persists chat turn records.
type Repository interface {
	Insert(ctx context.Context, record *Record) error
	List(ctx context.Context, limit int) ([]Record, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("HISTORY")

var (
	CodeWriteFailed = ErrRegistry.Register("WRITE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to persist chat turn")
	CodeListFailed  = ErrRegistry.Register("LIST_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to list chat history")
)

func ErrWriteFailed() *errx.Error {
	return ErrRegistry.New(CodeWriteFailed)
}

func ErrListFailed() *errx.Error {
	return ErrRegistry.New(CodeListFailed)
}
