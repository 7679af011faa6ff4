package dashboard

import (
	"context"
	"errors"
	"testing"
)

type fakeCounter struct {
	count int64
	err   error
	block bool
}

func (c fakeCounter) Count(ctx context.Context) (int64, error) {
	if c.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return c.count, c.err
}

func TestSummary(t *testing.T) {
	svc := NewService(fakeCounter{count: 12}, fakeCounter{count: 3})
	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Employees != 12 || summary.Teams != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestSummaryFailureCancelsSibling(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(fakeCounter{block: true}, fakeCounter{err: boom})
	_, err := svc.Summary(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
