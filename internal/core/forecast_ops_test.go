package core

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"seismicore/pkg/domain"
	"seismicore/pkg/timeseries"
)

func eventAt(ts time.Time, magnitude float64) domain.SeismicEvent {
	return domain.SeismicEvent{
		DateTime:  domain.TimeQuantity{Value: ts},
		Magnitude: domain.RealQuantity{Value: magnitude},
	}
}

func sampleAt(ts time.Time, flow float64) domain.HydraulicSample {
	return domain.HydraulicSample{
		DateTime:    domain.TimeQuantity{Value: ts},
		TopHoleFlow: domain.RealQuantity{Value: flow},
	}
}

// seedObservedInputs creates the observed catalog and well of a project.
func seedObservedInputs(t *testing.T, svc *Service, projectID string) (domain.SeismicCatalog, domain.InjectionWell) {
	t.Helper()
	ctx := context.Background()
	catalog, _, err := svc.CreateSeismicCatalog(ctx, domain.SeismicCatalog{
		ProjectID: &projectID,
		Events: []domain.SeismicEvent{
			eventAt(testEpoch.StartTime.Add(-2*time.Hour), 1.1),
			eventAt(testEpoch.StartTime.Add(-1*time.Hour), 1.4),
			eventAt(testEpoch.StartTime.Add(30*time.Minute), 2.0),
		},
	})
	if err != nil {
		t.Fatalf("create catalog: %v", err)
	}
	well, _, err := svc.CreateInjectionWell(ctx, domain.InjectionWell{
		ProjectID: &projectID,
		WellTipZ:  domain.RealQuantity{Value: -4500},
	})
	if err != nil {
		t.Fatalf("create well: %v", err)
	}
	return catalog, well
}

func TestSnapshotForecastInputs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	project := mustCreateProject(t, svc)
	observed, well := seedObservedInputs(t, svc, project.ID)
	forecast := mustCreateForecast(t, svc, project.ID)

	updated, _, err := svc.SnapshotForecastInputs(ctx, forecast.ID)
	if err != nil {
		t.Fatalf("snapshot inputs: %v", err)
	}
	if updated.CatalogID == nil {
		t.Fatalf("expected snapshot catalog reference")
	}
	if updated.WellID == nil || *updated.WellID != well.ID {
		t.Fatalf("expected observed well attached by reference")
	}

	snapshot, ok := svc.GetSeismicCatalog(*updated.CatalogID)
	if !ok {
		t.Fatalf("snapshot catalog not stored")
	}
	if snapshot.ID == observed.ID {
		t.Fatalf("snapshot must be a new catalog")
	}
	// Only events before the forecast interval are frozen.
	if snapshot.Len() != 2 {
		t.Fatalf("expected 2 frozen events, got %d", snapshot.Len())
	}
	if snapshot.ForecastID == nil || *snapshot.ForecastID != forecast.ID {
		t.Fatalf("snapshot must be owned by the forecast")
	}
	if got, ok := svc.GetSeismicCatalog(observed.ID); !ok || got.Len() != 3 {
		t.Fatalf("observed catalog must be untouched")
	}

	// A second snapshot replaces the first.
	first := *updated.CatalogID
	again, _, err := svc.SnapshotForecastInputs(ctx, forecast.ID)
	if err != nil {
		t.Fatalf("second snapshot: %v", err)
	}
	if *again.CatalogID == first {
		t.Fatalf("expected a fresh snapshot catalog")
	}
	if _, ok := svc.GetSeismicCatalog(first); ok {
		t.Fatalf("previous snapshot must be removed")
	}
}

func TestSnapshotForecastInputsMissingForecast(t *testing.T) {
	svc := newTestService(t)
	if _, _, err := svc.SnapshotForecastInputs(context.Background(), "absent"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func buildForecastTree(t *testing.T, svc *Service) (domain.Forecast, domain.ForecastScenario, domain.ForecastStage, domain.ModelRun) {
	t.Helper()
	ctx := context.Background()
	project := mustCreateProject(t, svc)
	forecast := mustCreateForecast(t, svc, project.ID)
	scenario, _, err := svc.CreateScenario(ctx, domain.ForecastScenario{
		Name:       "induced",
		Config:     map[string]any{"mc": 0.9},
		ForecastID: &forecast.ID,
	})
	if err != nil {
		t.Fatalf("create scenario: %v", err)
	}
	if _, _, err := svc.CreateInjectionPlan(ctx, domain.InjectionPlan{
		ScenarioID: &scenario.ID,
		Samples:    []domain.HydraulicSample{sampleAt(testEpoch.StartTime, 120)},
	}); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	stage, _, err := svc.CreateStage(ctx, domain.ForecastStage{
		Kind:       domain.StageSeismicity,
		ScenarioID: &scenario.ID,
		Enabled:    true,
	})
	if err != nil {
		t.Fatalf("create stage: %v", err)
	}
	model, _, err := svc.CreateModel(ctx, domain.Model{
		Name:       "etas",
		Kind:       domain.ModelSeismicity,
		Seismicity: &domain.SeismicitySpec{URL: "http://models/etas"},
	})
	if err != nil {
		t.Fatalf("create model: %v", err)
	}
	run, _, err := svc.CreateModelRun(ctx, domain.ModelRun{
		Kind:    domain.ModelSeismicity,
		Enabled: true,
		Config:  map[string]any{"seed": 7},
		ModelID: &model.ID,
		StageID: &stage.ID,
	})
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	return forecast, scenario, stage, run
}

func TestCloneForecastTree(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	forecast, _, _, run := buildForecastTree(t, svc)

	// Give the source run some computed state the clone must not carry.
	remote := uuid.New()
	if _, _, err := svc.MarkRunDispatched(ctx, run.ID, remote); err != nil {
		t.Fatalf("dispatch run: %v", err)
	}

	cloned, _, err := svc.CloneForecastTree(ctx, forecast.ID)
	if err != nil {
		t.Fatalf("clone forecast: %v", err)
	}
	if cloned.ID == forecast.ID {
		t.Fatalf("clone must be a new forecast")
	}
	if cloned.ProjectID == nil || *cloned.ProjectID != *forecast.ProjectID {
		t.Fatalf("clone must stay under the same project")
	}
	if cloned.CatalogID != nil {
		t.Fatalf("snapshot catalog must not be carried")
	}

	store := svc.Store()
	err = store.View(ctx, func(view domain.TransactionView) error {
		scenarios := view.ListScenariosByForecast(cloned.ID)
		if len(scenarios) != 1 {
			t.Fatalf("expected 1 cloned scenario, got %d", len(scenarios))
		}
		if scenarios[0].Config["mc"] != 0.9 {
			t.Fatalf("scenario config must be carried")
		}
		if _, ok := view.PlanByScenario(scenarios[0].ID); !ok {
			t.Fatalf("injection plan must be cloned with the scenario")
		}
		stages := view.ListStagesByScenario(scenarios[0].ID)
		if len(stages) != 1 {
			t.Fatalf("expected 1 cloned stage, got %d", len(stages))
		}
		runs := view.ListRunsByStage(stages[0].ID)
		if len(runs) != 1 {
			t.Fatalf("expected 1 cloned run, got %d", len(runs))
		}
		clonedRun := runs[0]
		if clonedRun.Status.State != domain.RunStatePending {
			t.Fatalf("cloned run must start pending, got %s", clonedRun.Status.State)
		}
		if clonedRun.RunID != nil {
			t.Fatalf("remote run identifier must not be carried")
		}
		if clonedRun.ModelID == nil || *clonedRun.ModelID != *run.ModelID {
			t.Fatalf("model template reference must be carried")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestResetForecast(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	forecast, _, _, run := buildForecastTree(t, svc)
	seedObservedInputs(t, svc, *forecast.ProjectID)
	if _, _, err := svc.SnapshotForecastInputs(ctx, forecast.ID); err != nil {
		t.Fatalf("snapshot inputs: %v", err)
	}

	if _, _, err := svc.MarkRunDispatched(ctx, run.ID, uuid.New()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, _, err := svc.MarkRunComplete(ctx, run.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	prediction, _, err := svc.CreatePrediction(ctx, domain.ReservoirPrediction{
		RunID: &run.ID,
		Rate:  domain.RealQuantity{Value: 12.5},
	})
	if err != nil {
		t.Fatalf("create prediction: %v", err)
	}
	if prediction.ID == "" {
		t.Fatalf("expected generated prediction ID")
	}

	if _, err := svc.ResetForecast(ctx, forecast.ID); err != nil {
		t.Fatalf("reset forecast: %v", err)
	}

	after, ok := svc.GetForecast(forecast.ID)
	if !ok {
		t.Fatalf("forecast missing after reset")
	}
	if after.CatalogID != nil {
		t.Fatalf("reset must clear the snapshot catalog reference")
	}
	gotRun, ok := svc.GetModelRun(run.ID)
	if !ok {
		t.Fatalf("run missing after reset")
	}
	if gotRun.Status.State != domain.RunStatePending {
		t.Fatalf("run must be pending after reset, got %s", gotRun.Status.State)
	}
	if gotRun.RunID != nil {
		t.Fatalf("remote identifier must be cleared")
	}
	if gotRun.Config["seed"] != 7 {
		t.Fatalf("run config must survive reset")
	}
	if gotRun.ModelID == nil {
		t.Fatalf("model reference must survive reset")
	}

	err = svc.Store().View(ctx, func(view domain.TransactionView) error {
		if _, ok := view.PredictionByRun(run.ID); ok {
			t.Fatalf("prediction must be deleted on reset")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestRunStateTransitions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, _, _, run := buildForecastTree(t, svc)

	dispatched, _, err := svc.MarkRunDispatched(ctx, run.ID, uuid.New())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if dispatched.Status.State != domain.RunStateDispatched || dispatched.RunID == nil {
		t.Fatalf("unexpected dispatched run %+v", dispatched.Status)
	}

	running, _, err := svc.MarkRunRunning(ctx, run.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if running.Status.State != domain.RunStateRunning {
		t.Fatalf("expected RUNNING, got %s", running.Status.State)
	}

	failed, _, err := svc.MarkRunFailed(ctx, run.ID, "worker lost")
	if err != nil {
		t.Fatalf("fail: %v", err)
	}
	if failed.Status.State != domain.RunStateError {
		t.Fatalf("expected ERROR, got %s", failed.Status.State)
	}
	if failed.Status.EndTime == nil {
		t.Fatalf("terminal state must stamp end time")
	}
	if failed.Status.Info["reason"] != "worker lost" {
		t.Fatalf("failure reason not recorded: %+v", failed.Status.Info)
	}

	// A terminal run cannot be completed; it can only go back to PENDING.
	if _, _, err := svc.MarkRunComplete(ctx, run.ID); err == nil {
		t.Fatalf("expected transition out of ERROR to be blocked")
	}
	if _, err := svc.ResetModelRun(ctx, run.ID); err != nil {
		t.Fatalf("reset after failure: %v", err)
	}
	reset, _ := svc.GetModelRun(run.ID)
	if reset.Status.State != domain.RunStatePending {
		t.Fatalf("expected PENDING after reset, got %s", reset.Status.State)
	}
}

func TestMergeCatalogAndHydraulics(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	project := mustCreateProject(t, svc)
	base := testEpoch.StartTime

	catalog, _, err := svc.CreateSeismicCatalog(ctx, domain.SeismicCatalog{
		ProjectID: &project.ID,
		Events: []domain.SeismicEvent{
			eventAt(base, 1.0),
			eventAt(base.Add(time.Hour), 1.5),
			eventAt(base.Add(2*time.Hour), 2.0),
		},
	})
	if err != nil {
		t.Fatalf("create catalog: %v", err)
	}

	incoming := &domain.SeismicCatalog{Events: []domain.SeismicEvent{
		eventAt(base.Add(time.Hour), 3.0),
	}}
	start := base.Add(30 * time.Minute)
	end := base.Add(90 * time.Minute)
	merged, _, err := svc.MergeCatalog(ctx, catalog.ID, incoming, timeseries.Window{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("merge catalog: %v", err)
	}
	if merged.Len() != 3 {
		t.Fatalf("expected 3 events after merge, got %d", merged.Len())
	}
	// In-window original is dropped, incoming appended at the tail.
	if got := merged.At(2).Magnitude.Value; got != 3.0 {
		t.Fatalf("expected appended event magnitude 3.0, got %v", got)
	}

	// Invalid window surfaces ErrInvalidRange and rolls the update back.
	if _, _, err := svc.MergeCatalog(ctx, catalog.ID, incoming, timeseries.Window{Start: &end, End: &start}); err == nil {
		t.Fatalf("expected invalid window error")
	}

	well, _, err := svc.CreateInjectionWell(ctx, domain.InjectionWell{ProjectID: &project.ID})
	if err != nil {
		t.Fatalf("create well: %v", err)
	}
	hydraulics, _, err := svc.CreateHydraulics(ctx, domain.Hydraulics{
		ProjectID: &project.ID,
		WellID:    &well.ID,
		Samples:   []domain.HydraulicSample{sampleAt(base, 100)},
	})
	if err != nil {
		t.Fatalf("create hydraulics: %v", err)
	}
	mergedHydraulics, _, err := svc.MergeHydraulics(ctx, hydraulics.ID, &domain.Hydraulics{
		Samples: []domain.HydraulicSample{sampleAt(base.Add(time.Minute), 110)},
	}, timeseries.Window{})
	if err != nil {
		t.Fatalf("merge hydraulics: %v", err)
	}
	if mergedHydraulics.Len() != 2 {
		t.Fatalf("expected 2 samples after merge, got %d", mergedHydraulics.Len())
	}
}
