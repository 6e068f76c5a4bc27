package historyinfra

import (
	"context"

	"github.com/agentdesk/agentdesk/pkg/errx"
	"github.com/agentdesk/agentdesk/pkg/history"
	"github.com/jmoiron/sqlx"
)

// PostgresHistoryRepository is the PostgreSQL implementation of Repository
type PostgresHistoryRepository struct {
	db *sqlx.DB
}

// NewPostgresHistoryRepository creates a new history repository instance
func NewPostgresHistoryRepository(db *sqlx.DB) history.Repository {
	return &PostgresHistoryRepository{
		db: db,
	}
}

// Insert appends one completed turn to the history table
func (r *PostgresHistoryRepository) Insert(ctx context.Context, record *history.Record) error {
	query := `
		INSERT INTO history (role, prompt, response)
		VALUES (:role, :prompt, :response)`

	_, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return errx.Wrap(err, "failed to insert history record", errx.TypeInternal).
			WithDetail("role", record.Role)
	}

	return nil
}

// List returns the most recent turns, newest first
func (r *PostgresHistoryRepository) List(ctx context.Context, limit int) ([]history.Record, error) {
	query := `
		SELECT id, role, prompt, response, created_at
		FROM history
		ORDER BY created_at DESC
		LIMIT $1`

	var records []history.Record
	err := r.db.SelectContext(ctx, &records, query, limit)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list history records", errx.TypeInternal).
			WithDetail("limit", limit)
	}

	return records, nil
}
