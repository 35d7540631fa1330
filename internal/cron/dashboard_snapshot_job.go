package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

type snapshotter interface {
	SnapshotDaily(ctx context.Context, day time.Time) (int, error)
}

type DashboardSnapshotJobParams struct {
	Logger  *logger.Logger
	Reports snapshotter
}

// NewDashboardSnapshotJob builds the job persisting the daily dashboard
// metrics. Re-runs on the same day are no-ops.
func NewDashboardSnapshotJob(params DashboardSnapshotJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reports == nil {
		return nil, fmt.Errorf("reports service required")
	}
	return &dashboardSnapshotJob{
		logg:    params.Logger,
		reports: params.Reports,
		now:     time.Now,
	}, nil
}

type dashboardSnapshotJob struct {
	logg    *logger.Logger
	reports snapshotter
	now     func() time.Time
}

func (j *dashboardSnapshotJob) Name() string { return "dashboard-snapshot" }

func (j *dashboardSnapshotJob) Run(ctx context.Context) error {
	created, err := j.reports.SnapshotDaily(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("dashboard snapshot: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "snapshots_created", created), "dashboard snapshot job complete")
	return nil
}
