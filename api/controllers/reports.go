package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Ali-desu/Samsic-projet-stage/api/responses"
	"github.com/Ali-desu/Samsic-projet-stage/api/validators"
	"github.com/Ali-desu/Samsic-projet-stage/internal/reports"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

// OrderSummariesReport returns the per-order value rollup for a back office.
func OrderSummariesReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		summaries, err := svc.OrderSummaries(r.Context(), resolveReportEmail(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summaries)
	}
}

// LineDetailsReport returns the line-level value report for a back office.
func LineDetailsReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		details, err := svc.LineDetails(r.Context(), resolveReportEmail(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

// FamilyDashboard returns the per-family rollup for a back office.
func FamilyDashboard(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		rollups, err := svc.FamilyDashboard(r.Context(), resolveReportEmail(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rollups)
	}
}

// DashboardMetricsRange returns persisted daily snapshots filtered by family
// and date range. Defaults: last 30 days, all families.
func DashboardMetricsRange(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		now := time.Now().UTC()
		start, err := validators.ParseQueryDate(r, "startDate", now.AddDate(0, 0, -30))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "endDate", now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		family := strings.TrimSpace(r.URL.Query().Get("family"))

		metrics, err := svc.MetricsRange(r.Context(), resolveReportEmail(r), family, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}
