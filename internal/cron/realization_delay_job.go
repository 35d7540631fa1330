package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

const defaultDelayThresholdDays = 7

// Notifier delivers fire-and-forget notifications raised by sweeps.
type Notifier interface {
	Notify(ctx context.Context, userID int64, typ enums.NotificationType, message string)
}

type RealizationDelayJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	Repository    SweepRepository
	Notifier      Notifier
	ThresholdDays int
}

// NewRealizationDelayJob builds the sweep that flags tracking records
// realized too long ago without a technical reception.
func NewRealizationDelayJob(params RealizationDelayJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("sweep repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	threshold := params.ThresholdDays
	if threshold <= 0 {
		threshold = defaultDelayThresholdDays
	}
	return &realizationDelayJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		notifier:  params.Notifier,
		threshold: threshold,
		now:       time.Now,
	}, nil
}

type realizationDelayJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      SweepRepository
	notifier  Notifier
	threshold int
	now       func() time.Time
}

func (j *realizationDelayJob) Name() string { return "realization-delay" }

func (j *realizationDelayJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.threshold) * 24 * time.Hour)

	var (
		flagged int
		notices []sweepNotice
	)
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		records, err := j.repo.ListRealizedAwaitingTech(ctx, tx)
		if err != nil {
			return fmt.Errorf("list realized records: %w", err)
		}

		for _, record := range records {
			if record.RealizationDate == nil || !record.RealizationDate.Before(cutoff) {
				continue
			}
			recordCtx := j.logg.WithField(ctx, "tracking_record_id", record.ID)

			alerted, err := j.repo.AlertExists(ctx, tx, record.ID, enums.AlertKindRealizationDelay)
			if err != nil {
				j.logg.Error(recordCtx, "delay alert lookup failed", err)
				continue
			}
			if alerted {
				continue
			}

			message := fmt.Sprintf(
				"Tracking record %d (line item %s) was realized more than %d days ago but not technically received",
				record.ID, record.LineItemID, j.threshold)

			var recordNotices []sweepNotice
			if record.Coordinator != nil && record.Coordinator.User != nil {
				recordNotices = append(recordNotices, sweepNotice{userID: record.Coordinator.User.ID, message: message})
			} else {
				j.logg.Warn(recordCtx, "no coordinator to notify for stalled record")
			}

			order, err := j.repo.FindOrderForLineItem(ctx, tx, record.LineItemID)
			if err != nil {
				j.logg.Error(recordCtx, "order lookup failed for stalled record", err)
			} else if order.BackOffice != nil && order.BackOffice.User != nil {
				recordNotices = append(recordNotices, sweepNotice{userID: order.BackOffice.User.ID, message: message})
			}

			alert := &models.DelayAlert{TrackingRecordID: record.ID, Kind: enums.AlertKindRealizationDelay}
			if err := j.repo.CreateAlert(ctx, tx, alert); err != nil {
				j.logg.Error(recordCtx, "delay alert create failed", err)
				continue
			}
			notices = append(notices, recordNotices...)
			flagged++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("realization delay sweep: %w", err)
	}

	for _, notice := range notices {
		j.notifier.Notify(ctx, notice.userID, enums.NotificationTypeDelayAlert, notice.message)
	}
	j.logg.Info(j.logg.WithField(ctx, "records_flagged", flagged), "realization delay sweep complete")
	return nil
}

type sweepNotice struct {
	userID  int64
	message string
}
