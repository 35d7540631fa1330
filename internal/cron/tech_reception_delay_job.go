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

type TechReceptionDelayJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	Repository    SweepRepository
	Notifier      Notifier
	ThresholdDays int
}

// NewTechReceptionDelayJob builds the sweep that flags tracking records
// technically received too long ago without a system reception. Project
// leads are alerted alongside the owning back office.
func NewTechReceptionDelayJob(params TechReceptionDelayJobParams) (Job, error) {
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
	return &techReceptionDelayJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		notifier:  params.Notifier,
		threshold: threshold,
		now:       time.Now,
	}, nil
}

type techReceptionDelayJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      SweepRepository
	notifier  Notifier
	threshold int
	now       func() time.Time
}

func (j *techReceptionDelayJob) Name() string { return "tech-reception-delay" }

func (j *techReceptionDelayJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.threshold) * 24 * time.Hour)

	var (
		flagged int
		notices []sweepNotice
	)
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		records, err := j.repo.ListTechAwaitingSystem(ctx, tx)
		if err != nil {
			return fmt.Errorf("list tech received records: %w", err)
		}

		var leads []models.ProjectLead
		if len(records) > 0 {
			leads, err = j.repo.ListProjectLeads(ctx, tx)
			if err != nil {
				return fmt.Errorf("list project leads: %w", err)
			}
		}

		for _, record := range records {
			if record.TechReceptionDate == nil || !record.TechReceptionDate.Before(cutoff) {
				continue
			}
			recordCtx := j.logg.WithField(ctx, "tracking_record_id", record.ID)

			alerted, err := j.repo.AlertExists(ctx, tx, record.ID, enums.AlertKindTechReceptionDelay)
			if err != nil {
				j.logg.Error(recordCtx, "delay alert lookup failed", err)
				continue
			}
			if alerted {
				continue
			}

			message := fmt.Sprintf(
				"Tracking record %d (line item %s) was technically received more than %d days ago but not system received",
				record.ID, record.LineItemID, j.threshold)

			var recordNotices []sweepNotice
			order, err := j.repo.FindOrderForLineItem(ctx, tx, record.LineItemID)
			if err != nil {
				j.logg.Error(recordCtx, "order lookup failed for stalled record", err)
			} else if order.BackOffice != nil && order.BackOffice.User != nil {
				recordNotices = append(recordNotices, sweepNotice{userID: order.BackOffice.User.ID, message: message})
			}
			for _, lead := range leads {
				if lead.User != nil {
					recordNotices = append(recordNotices, sweepNotice{userID: lead.User.ID, message: message})
				}
			}

			alert := &models.DelayAlert{TrackingRecordID: record.ID, Kind: enums.AlertKindTechReceptionDelay}
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
		return fmt.Errorf("tech reception delay sweep: %w", err)
	}

	for _, notice := range notices {
		j.notifier.Notify(ctx, notice.userID, enums.NotificationTypeDelayAlert, notice.message)
	}
	j.logg.Info(j.logg.WithField(ctx, "records_flagged", flagged), "tech reception delay sweep complete")
	return nil
}
