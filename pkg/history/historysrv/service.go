package historysrv

import (
	"context"

	"github.com/agentdesk/agentdesk/pkg/history"
	"github.com/agentdesk/agentdesk/pkg/logx"
)

const defaultListLimit = 50

// HistoryService fronts the history repository. Writes are best effort:
// a failed insert is logged and classified, never surfaced to the user.
type HistoryService struct {
	repo history.Repository
}

func NewHistoryService(repo history.Repository) *HistoryService {
	return &HistoryService{repo: repo}
}

// Record persists one completed turn.
func (s *HistoryService) Record(ctx context.Context, role, prompt, response string) error {
	record := &history.Record{
		Role:     role,
		Prompt:   prompt,
		Response: response,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		logx.WithFields(logx.Fields{
			"role": role,
		}).Errorf("history write failed: %v", err)
		return history.ErrWriteFailed().WithCause(err)
	}

	return nil
}

// List returns recent turns for the sidebar. Order is whatever the store
// returns; display ordering is the caller's concern.
func (s *HistoryService) List(ctx context.Context, limit int) ([]history.Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	records, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, history.ErrListFailed().WithCause(err)
	}

	return records, nil
}
