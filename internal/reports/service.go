package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

const ratioScale = 4

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service computes monetary aggregates over the tracking pipeline. All
// arithmetic runs on decimals so repeated aggregation does not drift.
type Service interface {
	OrderSummaries(ctx context.Context, email string) ([]OrderSummary, error)
	LineDetails(ctx context.Context, email string) ([]LineDetail, error)
	FamilyDashboard(ctx context.Context, email string) ([]FamilyRollup, error)
	SnapshotDaily(ctx context.Context, day time.Time) (int, error)
	MetricsRange(ctx context.Context, email, family string, start, end time.Time) ([]models.DashboardMetric, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a reports service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

// bucket accumulates stage quantities for one line item. Quantities only;
// values are derived once at the end by multiplying with the unit price.
type bucket struct {
	realized   decimal.Decimal
	inProgress decimal.Decimal
	tech       decimal.Decimal
	system     decimal.Decimal
	deposited  decimal.Decimal
	toDeposit  decimal.Decimal
}

func bucketRecords(records []models.TrackingRecord) bucket {
	var b bucket
	for _, record := range records {
		if statusIs(record.RealizationStatus, enums.ProgressStatusRealized) {
			b.realized = b.realized.Add(record.RealizedQty)
		}
		if statusIs(record.RealizationStatus, enums.ProgressStatusInProgress) {
			b.inProgress = b.inProgress.Add(record.InProgressQty)
		}
		if statusIs(record.TechReceptionStatus, enums.ProgressStatusTechReceived) {
			b.tech = b.tech.Add(record.TechQty)
		}
		if statusIs(record.SystemReceptionStatus, enums.ProgressStatusSystemReceived) {
			b.system = b.system.Add(record.SystemQty)
		}
		if statusIs(record.SystemReceptionStatus, enums.ProgressStatusSystemDeposited) {
			b.deposited = b.deposited.Add(record.DepositedQty)
		}
		if statusIs(record.SystemReceptionStatus, enums.ProgressStatusToDeposit) {
			b.toDeposit = b.toDeposit.Add(record.ToDepositQty)
		}
	}
	return b
}

func statusIs(status *string, want enums.ProgressStatus) bool {
	return status != nil && *status == want.String()
}

func unitPrice(item models.LineItem) decimal.Decimal {
	if item.CatalogService == nil {
		return decimal.Zero
	}
	return item.CatalogService.UnitPrice
}

func lineFamily(item models.LineItem) string {
	if item.CatalogService != nil && item.CatalogService.Family != nil {
		return item.CatalogService.Family.Name
	}
	return item.Family
}

// completionRatio is realized value over ordered value, zero when nothing
// was ordered.
func completionRatio(realized, ordered decimal.Decimal) decimal.Decimal {
	if ordered.IsZero() {
		return decimal.Zero
	}
	return realized.Div(ordered).Round(ratioScale)
}

func (s *service) resolveBackOffice(ctx context.Context, email string) (*models.BackOffice, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "back office email required")
	}
	backOffice, err := s.repo.FindBackOfficeByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("back office not found for email %s", email))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load back office")
	}
	return backOffice, nil
}

func (s *service) OrderSummaries(ctx context.Context, email string) ([]OrderSummary, error) {
	backOffice, err := s.resolveBackOffice(ctx, email)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListOrdersForBackOffice(ctx, backOffice.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		summary := OrderSummary{
			OrderNumber:     order.Number,
			ProjectDivision: order.ProjectDivision,
			ProjectCode:     order.ProjectCode,
			IssueDate:       order.IssueDate,
			Description:     order.Description,
			OrderedValue:    decimal.Zero,
			RealizedValue:   decimal.Zero,
			TechValue:       decimal.Zero,
			SystemValue:     decimal.Zero,
			DepositedValue:  decimal.Zero,
			ToDepositValue:  decimal.Zero,
		}
		for _, item := range order.LineItems {
			price := unitPrice(item)
			b := bucketRecords(item.TrackingRecords)

			if summary.Family == "" {
				summary.Family = lineFamily(item)
			}
			summary.OrderedValue = summary.OrderedValue.Add(item.OrderedQty.Mul(price))
			summary.RealizedValue = summary.RealizedValue.Add(b.realized.Mul(price))
			summary.TechValue = summary.TechValue.Add(b.tech.Mul(price))
			summary.SystemValue = summary.SystemValue.Add(b.system.Mul(price))
			summary.DepositedValue = summary.DepositedValue.Add(b.deposited.Mul(price))
			summary.ToDepositValue = summary.ToDepositValue.Add(b.toDeposit.Mul(price))
		}
		summary.CompletionRatio = completionRatio(summary.RealizedValue, summary.OrderedValue)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *service) LineDetails(ctx context.Context, email string) ([]LineDetail, error) {
	backOffice, err := s.resolveBackOffice(ctx, email)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListOrdersForBackOffice(ctx, backOffice.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	var details []LineDetail
	for _, order := range orders {
		for _, item := range order.LineItems {
			price := unitPrice(item)
			b := bucketRecords(item.TrackingRecords)
			remaining := item.OrderedQty.Sub(b.realized).Sub(b.inProgress)

			detail := LineDetail{
				OrderNumber:      order.Number,
				ProjectDivision:  order.ProjectDivision,
				ProjectCode:      order.ProjectCode,
				LineItemID:       item.ID,
				LineNumber:       item.LineNumber,
				IssueDate:        order.IssueDate,
				OrderDescription: order.Description,
				Family:           lineFamily(item),
				UnitPrice:        price,
				OrderedQty:       item.OrderedQty,
				RealizedQty:      b.realized,
				InProgressQty:    b.inProgress,
				RemainingQty:     remaining,
				OrderedValue:     item.OrderedQty.Mul(price),
				RealizedValue:    b.realized.Mul(price),
				InProgressValue:  b.inProgress.Mul(price),
				RemainingValue:   remaining.Mul(price),
				TechValue:        b.tech.Mul(price),
				SystemValue:      b.system.Mul(price),
				DepositedValue:   b.deposited.Mul(price),
				ToDepositValue:   b.toDeposit.Mul(price),
			}
			if item.CatalogService != nil {
				detail.ServiceDescription = item.CatalogService.Description
			}
			details = append(details, detail)
		}
	}
	return details, nil
}

func (s *service) FamilyDashboard(ctx context.Context, email string) ([]FamilyRollup, error) {
	backOffice, err := s.resolveBackOffice(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.rollupsForBackOffice(ctx, s.repo, backOffice.ID)
}

func (s *service) rollupsForBackOffice(ctx context.Context, repo Repository, backOfficeID int64) ([]FamilyRollup, error) {
	orders, err := repo.ListOrdersForBackOffice(ctx, backOfficeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	byFamily := make(map[string]*FamilyRollup)
	for _, order := range orders {
		for _, item := range order.LineItems {
			family := lineFamily(item)
			rollup, ok := byFamily[family]
			if !ok {
				rollup = &FamilyRollup{
					Family:          family,
					OrderedAmount:   decimal.Zero,
					FieldClosed:     decimal.Zero,
					InvoicedAmount:  decimal.Zero,
					SystemDeposited: decimal.Zero,
					SystemToDeposit: decimal.Zero,
					TechReceived:    decimal.Zero,
					WorksInProgress: decimal.Zero,
				}
				byFamily[family] = rollup
			}

			price := unitPrice(item)
			b := bucketRecords(item.TrackingRecords)
			rollup.OrderedAmount = rollup.OrderedAmount.Add(item.OrderedQty.Mul(price))
			rollup.FieldClosed = rollup.FieldClosed.Add(b.realized.Mul(price))
			rollup.InvoicedAmount = rollup.InvoicedAmount.Add(b.system.Mul(price))
			rollup.SystemDeposited = rollup.SystemDeposited.Add(b.deposited.Mul(price))
			rollup.SystemToDeposit = rollup.SystemToDeposit.Add(b.toDeposit.Mul(price))
			rollup.TechReceived = rollup.TechReceived.Add(b.tech.Mul(price))
			rollup.WorksInProgress = rollup.WorksInProgress.Add(b.inProgress.Mul(price))
		}
	}

	rollups := make([]FamilyRollup, 0, len(byFamily))
	for _, rollup := range byFamily {
		rollup.RealizationRate = completionRatio(rollup.FieldClosed, rollup.OrderedAmount)
		rollup.RemainingAmount = rollup.OrderedAmount.Sub(rollup.FieldClosed)
		rollups = append(rollups, *rollup)
	}
	sort.Slice(rollups, func(i, j int) bool { return rollups[i].Family < rollups[j].Family })
	return rollups, nil
}

// SnapshotDaily persists one DashboardMetric per (back office, family) for
// the given day, skipping pairs that already have a row. Returns the
// number of snapshots created.
func (s *service) SnapshotDaily(ctx context.Context, day time.Time) (int, error) {
	day = dateOnly(day)

	var created int
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		backOffices, err := repo.ListBackOffices(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list back offices")
		}

		for _, backOffice := range backOffices {
			rollups, err := s.rollupsForBackOffice(ctx, repo, backOffice.ID)
			if err != nil {
				return err
			}
			for _, rollup := range rollups {
				exists, err := repo.MetricExists(ctx, backOffice.ID, rollup.Family, day)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check snapshot")
				}
				if exists {
					continue
				}
				metric := &models.DashboardMetric{
					BackOfficeID:    backOffice.ID,
					Family:          rollup.Family,
					CalculationDate: day,
					OrderedAmount:   rollup.OrderedAmount,
					FieldClosed:     rollup.FieldClosed,
					RealizationRate: rollup.RealizationRate,
					InvoicedAmount:  rollup.InvoicedAmount,
					SystemDeposited: rollup.SystemDeposited,
					SystemToDeposit: rollup.SystemToDeposit,
				}
				if err := repo.CreateMetric(ctx, metric); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create snapshot")
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logg.Info(s.logg.WithField(ctx, "snapshots_created", created), "daily dashboard snapshot finished")
	return created, nil
}

// MetricsRange returns persisted snapshots between start and end. An empty
// family, or "all", matches every family.
func (s *service) MetricsRange(ctx context.Context, email, family string, start, end time.Time) ([]models.DashboardMetric, error) {
	backOffice, err := s.resolveBackOffice(ctx, email)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start date is after end date")
	}
	if strings.EqualFold(family, "all") {
		family = ""
	}

	metrics, err := s.repo.ListMetrics(ctx, backOffice.ID, family, dateOnly(start), dateOnly(end))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list snapshots")
	}
	return metrics, nil
}

func dateOnly(value time.Time) time.Time {
	year, month, day := value.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
