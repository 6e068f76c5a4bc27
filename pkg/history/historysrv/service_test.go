package historysrv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agentdesk/agentdesk/pkg/errx"
	"github.com/agentdesk/agentdesk/pkg/history"
	"github.com/agentdesk/agentdesk/pkg/history/historysrv"
)

type stubRepo struct {
	inserted  []history.Record
	insertErr error
	listLimit int
	records   []history.Record
	listErr   error
}

func (r *stubRepo) Insert(ctx context.Context, record *history.Record) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, *record)
	return nil
}

func (r *stubRepo) List(ctx context.Context, limit int) ([]history.Record, error) {
	r.listLimit = limit
	return r.records, r.listErr
}

func TestRecordInserts(t *testing.T) {
	repo := &stubRepo{}
	svc := historysrv.NewHistoryService(repo)

	if err := svc.Record(context.Background(), "executive", "plan my day", "done"); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("inserts = %d, want 1", len(repo.inserted))
	}
	rec := repo.inserted[0]
	if rec.Role != "executive" || rec.Prompt != "plan my day" || rec.Response != "done" {
		t.Errorf("record = %+v", rec)
	}
}

func TestRecordClassifiesWriteFailure(t *testing.T) {
	repo := &stubRepo{insertErr: errors.New("connection reset")}
	svc := historysrv.NewHistoryService(repo)

	err := svc.Record(context.Background(), "social", "p", "r")
	if !errx.IsCode(err, history.CodeWriteFailed) {
		t.Errorf("error = %v, want HISTORY_WRITE_FAILED", err)
	}
}

func TestListAppliesDefaultLimit(t *testing.T) {
	repo := &stubRepo{records: []history.Record{{Role: "executive"}}}
	svc := historysrv.NewHistoryService(repo)

	records, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if repo.listLimit != 50 {
		t.Errorf("limit = %d, want default 50", repo.listLimit)
	}
	if len(records) != 1 {
		t.Errorf("records = %+v", records)
	}
}

func TestListClassifiesFailure(t *testing.T) {
	repo := &stubRepo{listErr: errors.New("timeout")}
	svc := historysrv.NewHistoryService(repo)

	_, err := svc.List(context.Background(), 10)
	if !errx.IsCode(err, history.CodeListFailed) {
		t.Errorf("error = %v, want HISTORY_LIST_FAILED", err)
	}
}
