package core

import (
	"context"

	"github.com/google/uuid"

	"seismicore/pkg/domain"
	"seismicore/pkg/timeseries"
)

// SnapshotForecastInputs freezes the observed project inputs into the
// forecast: the project's observed catalog is copied into a forecast-owned
// snapshot bounded to events before the forecast interval, and the observed
// well is attached by reference. The previous snapshot catalog, if any, is
// replaced.
func (s *Service) SnapshotForecastInputs(ctx context.Context, forecastID string) (domain.Forecast, Result, error) {
	var updated domain.Forecast
	res, err := s.run(ctx, "snapshot_forecast_inputs", func() string { return forecastID }, func(tx Transaction) error {
		view := tx.Snapshot()
		forecast, ok := view.FindForecast(forecastID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityForecast, ID: forecastID}
		}
		if forecast.ProjectID == nil {
			return domain.NotFoundError{Entity: domain.EntityProject, ID: ""}
		}
		projectID := *forecast.ProjectID

		observed, ok := observedCatalog(view, projectID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntitySeismicCatalog, ID: projectID}
		}
		frozen := observed.Snapshot(func(e domain.SeismicEvent) bool {
			return e.SampleTime().Before(forecast.Interval.StartTime)
		})
		frozen.CreationInfo = observed.CreationInfo
		frozen.ForecastID = &forecastID
		snapshot, err := tx.CreateSeismicCatalog(*frozen)
		if err != nil {
			return err
		}

		wellID := forecast.WellID
		if wellID == nil {
			if well, ok := observedWell(view, projectID); ok {
				wellID = &well.ID
			}
		}

		previous := forecast.CatalogID
		updated, err = tx.UpdateForecast(forecastID, func(f *domain.Forecast) error {
			f.CatalogID = &snapshot.ID
			f.WellID = wellID
			return nil
		})
		if err != nil {
			return err
		}
		if previous != nil {
			return tx.DeleteSeismicCatalog(*previous)
		}
		return nil
	})
	return updated, res, err
}

// observedCatalog returns the project's observed catalog, the one owned by
// the project directly rather than frozen into a forecast.
func observedCatalog(view TransactionView, projectID string) (domain.SeismicCatalog, bool) {
	for _, c := range view.ListSeismicCatalogs() {
		if c.ForecastID == nil && c.ProjectID != nil && *c.ProjectID == projectID {
			return c, true
		}
	}
	return domain.SeismicCatalog{}, false
}

func observedWell(view TransactionView, projectID string) (domain.InjectionWell, bool) {
	for _, w := range view.ListInjectionWells() {
		if w.ForecastID == nil && w.ProjectID != nil && *w.ProjectID == projectID {
			return w, true
		}
	}
	return domain.InjectionWell{}, false
}

// CloneForecastTree copies a forecast together with its scenarios, plans,
// stages, and runs into new, pending records under the same project. The
// snapshot catalog and all results stay behind; run statuses start over at
// PENDING.
func (s *Service) CloneForecastTree(ctx context.Context, forecastID string) (domain.Forecast, Result, error) {
	var cloned domain.Forecast
	res, err := s.run(ctx, "clone_forecast", func() string { return cloned.ID }, func(tx Transaction) error {
		view := tx.Snapshot()
		forecast, ok := view.FindForecast(forecastID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityForecast, ID: forecastID}
		}
		opts := domain.CloneOptions{WithForeignKeys: true}
		var err error
		cloned, err = tx.CreateForecast(forecast.Clone(opts))
		if err != nil {
			return err
		}
		for _, scenario := range view.ListScenariosByForecast(forecastID) {
			scenarioCopy := scenario.Clone(opts)
			scenarioCopy.ForecastID = &cloned.ID
			createdScenario, err := tx.CreateScenario(scenarioCopy)
			if err != nil {
				return err
			}
			if plan, ok := view.PlanByScenario(scenario.ID); ok {
				planCopy := plan.Clone(opts)
				planCopy.ScenarioID = &createdScenario.ID
				if _, err := tx.CreateInjectionPlan(planCopy); err != nil {
					return err
				}
			}
			for _, stage := range view.ListStagesByScenario(scenario.ID) {
				stageCopy := stage.Clone(opts)
				stageCopy.ScenarioID = &createdScenario.ID
				createdStage, err := tx.CreateStage(stageCopy)
				if err != nil {
					return err
				}
				for _, run := range view.ListRunsByStage(stage.ID) {
					runCopy, err := run.Clone(opts)
					if err != nil {
						return err
					}
					runCopy.StageID = &createdStage.ID
					if _, err := tx.CreateModelRun(runCopy); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	return cloned, res, err
}

// ResetForecast discards all computed state below a forecast: the snapshot
// catalog reference is cleared and removed, every run returns to PENDING,
// and all result records are deleted. Configuration, enablement flags, and
// model template references are untouched.
func (s *Service) ResetForecast(ctx context.Context, forecastID string) (Result, error) {
	return s.run(ctx, "reset_forecast", func() string { return forecastID }, func(tx Transaction) error {
		return s.resetForecastTx(tx, forecastID)
	})
}

// ResetScenario resets every stage and run below a scenario.
func (s *Service) ResetScenario(ctx context.Context, scenarioID string) (Result, error) {
	return s.run(ctx, "reset_scenario", func() string { return scenarioID }, func(tx Transaction) error {
		return s.resetScenarioTx(tx, scenarioID)
	})
}

// ResetModelRun returns a single run to PENDING and deletes its results.
func (s *Service) ResetModelRun(ctx context.Context, runID string) (Result, error) {
	return s.run(ctx, "reset_model_run", func() string { return runID }, func(tx Transaction) error {
		return s.resetRunTx(tx, runID)
	})
}

func (s *Service) resetForecastTx(tx Transaction, forecastID string) error {
	view := tx.Snapshot()
	forecast, ok := view.FindForecast(forecastID)
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityForecast, ID: forecastID}
	}
	for _, scenario := range view.ListScenariosByForecast(forecastID) {
		if err := s.resetScenarioTx(tx, scenario.ID); err != nil {
			return err
		}
	}
	previous := forecast.CatalogID
	if _, err := tx.UpdateForecast(forecastID, func(f *domain.Forecast) error {
		f.CatalogID = nil
		return nil
	}); err != nil {
		return err
	}
	if previous != nil {
		return tx.DeleteSeismicCatalog(*previous)
	}
	return nil
}

func (s *Service) resetScenarioTx(tx Transaction, scenarioID string) error {
	view := tx.Snapshot()
	if _, ok := view.FindScenario(scenarioID); !ok {
		return domain.NotFoundError{Entity: domain.EntityScenario, ID: scenarioID}
	}
	for _, stage := range view.ListStagesByScenario(scenarioID) {
		for _, run := range view.ListRunsByStage(stage.ID) {
			if err := s.resetRunTx(tx, run.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) resetRunTx(tx Transaction, runID string) error {
	view := tx.Snapshot()
	if prediction, ok := view.PredictionByRun(runID); ok {
		if err := tx.DeletePrediction(prediction.ID); err != nil {
			return err
		}
	}
	if hazard, ok := view.HazardResultByRun(runID); ok {
		if err := tx.DeleteHazardResult(hazard.ID); err != nil {
			return err
		}
	}
	now := s.clock().UTC()
	_, err := tx.UpdateModelRun(runID, func(r *domain.ModelRun) error {
		r.RunID = nil
		r.Status = domain.NewStatus(uuid.New(), now)
		return nil
	})
	return err
}

// MergeCatalog merges incoming events into a stored catalog: events of the
// stored series inside the window are dropped and the incoming events
// appended.
func (s *Service) MergeCatalog(ctx context.Context, catalogID string, incoming *domain.SeismicCatalog, window timeseries.Window) (domain.SeismicCatalog, Result, error) {
	var updated domain.SeismicCatalog
	res, err := s.run(ctx, "merge_catalog", func() string { return catalogID }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateSeismicCatalog(catalogID, func(c *domain.SeismicCatalog) error {
			return c.Merge(incoming, window)
		})
		return err
	})
	return updated, res, err
}

// MergeHydraulics merges incoming samples into a stored hydraulic series
// using the same windowed delete-then-append strategy.
func (s *Service) MergeHydraulics(ctx context.Context, hydraulicsID string, incoming *domain.Hydraulics, window timeseries.Window) (domain.Hydraulics, Result, error) {
	var updated domain.Hydraulics
	res, err := s.run(ctx, "merge_hydraulics", func() string { return hydraulicsID }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateHydraulics(hydraulicsID, func(h *domain.Hydraulics) error {
			return h.Merge(incoming, window)
		})
		return err
	})
	return updated, res, err
}

// MergeInjectionPlan merges incoming samples into a stored injection plan.
func (s *Service) MergeInjectionPlan(ctx context.Context, planID string, incoming *domain.InjectionPlan, window timeseries.Window) (domain.InjectionPlan, Result, error) {
	var updated domain.InjectionPlan
	res, err := s.run(ctx, "merge_injection_plan", func() string { return planID }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateInjectionPlan(planID, func(p *domain.InjectionPlan) error {
			return p.Merge(incoming, window)
		})
		return err
	})
	return updated, res, err
}

// MarkRunDispatched transitions a pending run to DISPATCHED and records the
// remote worker identifier.
func (s *Service) MarkRunDispatched(ctx context.Context, runID string, remoteID uuid.UUID) (domain.ModelRun, Result, error) {
	return s.transitionRun(ctx, "dispatch_model_run", runID, func(r *domain.ModelRun) error {
		r.RunID = &remoteID
		r.Status.State = domain.RunStateDispatched
		return nil
	})
}

// MarkRunRunning transitions a run to RUNNING.
func (s *Service) MarkRunRunning(ctx context.Context, runID string) (domain.ModelRun, Result, error) {
	return s.transitionRun(ctx, "start_model_run", runID, func(r *domain.ModelRun) error {
		r.Status.State = domain.RunStateRunning
		return nil
	})
}

// MarkRunComplete transitions a run to COMPLETE and stamps the end time.
func (s *Service) MarkRunComplete(ctx context.Context, runID string) (domain.ModelRun, Result, error) {
	return s.finishRun(ctx, "complete_model_run", runID, domain.RunStateComplete, nil)
}

// MarkRunFailed transitions a run to ERROR, stamps the end time, and records
// the failure reason in the status info.
func (s *Service) MarkRunFailed(ctx context.Context, runID string, reason string) (domain.ModelRun, Result, error) {
	return s.finishRun(ctx, "fail_model_run", runID, domain.RunStateError, func(info map[string]any) {
		info["reason"] = reason
	})
}

func (s *Service) transitionRun(ctx context.Context, op, runID string, mutate func(*domain.ModelRun) error) (domain.ModelRun, Result, error) {
	var updated domain.ModelRun
	res, err := s.run(ctx, op, func() string { return runID }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateModelRun(runID, mutate)
		return err
	})
	return updated, res, err
}

func (s *Service) finishRun(ctx context.Context, op, runID string, state domain.RunState, annotate func(map[string]any)) (domain.ModelRun, Result, error) {
	now := s.clock().UTC()
	return s.transitionRun(ctx, op, runID, func(r *domain.ModelRun) error {
		r.Status.State = state
		end := now
		r.Status.EndTime = &end
		if annotate != nil {
			if r.Status.Info == nil {
				r.Status.Info = make(map[string]any)
			}
			annotate(r.Status.Info)
		}
		return nil
	})
}
