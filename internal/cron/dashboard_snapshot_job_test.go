package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSnapshotter struct {
	gotDay  time.Time
	created int
	err     error
	calls   int
}

func (f *fakeSnapshotter) SnapshotDaily(ctx context.Context, day time.Time) (int, error) {
	f.calls++
	f.gotDay = day
	if f.err != nil {
		return 0, f.err
	}
	return f.created, nil
}

func newDashboardSnapshotJob(t *testing.T, reports *fakeSnapshotter) *dashboardSnapshotJob {
	t.Helper()
	jobIface, err := NewDashboardSnapshotJob(DashboardSnapshotJobParams{
		Logger:  testLogger(),
		Reports: reports,
	})
	if err != nil {
		t.Fatalf("NewDashboardSnapshotJob: %v", err)
	}
	job, ok := jobIface.(*dashboardSnapshotJob)
	if !ok {
		t.Fatalf("expected dashboardSnapshotJob, got %T", jobIface)
	}
	return job
}

func TestDashboardSnapshotJobPassesCurrentDay(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	reports := &fakeSnapshotter{created: 3}
	job := newDashboardSnapshotJob(t, reports)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reports.calls != 1 || !reports.gotDay.Equal(now) {
		t.Fatalf("expected single snapshot at %s, got %d calls at %s", now, reports.calls, reports.gotDay)
	}
}

func TestDashboardSnapshotJobPropagatesErrors(t *testing.T) {
	reports := &fakeSnapshotter{err: errors.New("boom")}
	job := newDashboardSnapshotJob(t, reports)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
