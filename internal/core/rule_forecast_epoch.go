package core

import (
	"context"
	"fmt"

	"seismicore/pkg/domain"
)

// ForecastEpochRule blocks forecasts whose interval is empty or inverted.
type ForecastEpochRule struct{}

// Name identifies the rule.
func (ForecastEpochRule) Name() string { return "forecast_epoch_validity" }

// Evaluate checks every created or updated forecast for a positive interval.
func (r ForecastEpochRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var result domain.Result
	for _, change := range changes {
		if change.Entity != domain.EntityForecast || change.Action == domain.ActionDelete {
			continue
		}
		forecast, ok := change.After.(domain.Forecast)
		if !ok {
			continue
		}
		if forecast.Interval.StartTime.Before(forecast.Interval.EndTime) {
			continue
		}
		result.Merge(domain.Result{Violations: []domain.Violation{{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message: fmt.Sprintf("forecast interval start %s is not before end %s",
				forecast.Interval.StartTime.Format("2006-01-02T15:04:05Z07:00"),
				forecast.Interval.EndTime.Format("2006-01-02T15:04:05Z07:00")),
			Entity:   domain.EntityForecast,
			EntityID: forecast.ID,
		}}})
	}
	return result, nil
}
