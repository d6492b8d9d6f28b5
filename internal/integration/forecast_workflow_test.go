package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"seismicore/internal/blob"
	"seismicore/internal/core"
	"seismicore/internal/infra/persistence/sqlite"
	"seismicore/pkg/domain"
)

var interval = domain.Epoch{
	StartTime: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	EndTime:   time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC),
}

func event(ts time.Time, magnitude float64) domain.SeismicEvent {
	return domain.SeismicEvent{
		DateTime:  domain.TimeQuantity{Value: ts},
		Magnitude: domain.RealQuantity{Value: magnitude},
	}
}

// TestForecastWorkflowOverSQLite drives one full forecast cycle through the
// service against a SQLite-backed store, then reopens the database to verify
// everything survived the round trip.
func TestForecastWorkflowOverSQLite(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "workflow.db")

	store, err := sqlite.NewStore(dbPath, core.NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	svc := core.NewService(store)

	project, _, err := svc.CreateProject(ctx, domain.Project{
		Name:     "basel",
		Settings: domain.DefaultProjectSettings(),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, _, err := svc.CreateSeismicCatalog(ctx, domain.SeismicCatalog{
		ProjectID: &project.ID,
		Events: []domain.SeismicEvent{
			event(interval.StartTime.Add(-2*time.Hour), 0.8),
			event(interval.StartTime.Add(-time.Hour), 1.2),
		},
	}); err != nil {
		t.Fatalf("create catalog: %v", err)
	}
	well, _, err := svc.CreateInjectionWell(ctx, domain.InjectionWell{
		ProjectID: &project.ID,
		WellTipZ:  domain.RealQuantity{Value: -4400},
	})
	if err != nil {
		t.Fatalf("create well: %v", err)
	}

	forecast, _, err := svc.CreateForecast(ctx, domain.Forecast{
		Name:      "night-shift",
		Interval:  interval,
		ProjectID: &project.ID,
	})
	if err != nil {
		t.Fatalf("create forecast: %v", err)
	}
	forecast, _, err = svc.SnapshotForecastInputs(ctx, forecast.ID)
	if err != nil {
		t.Fatalf("snapshot inputs: %v", err)
	}
	if forecast.CatalogID == nil || forecast.WellID == nil || *forecast.WellID != well.ID {
		t.Fatalf("input snapshot incomplete: %+v", forecast)
	}

	scenario, _, err := svc.CreateScenario(ctx, domain.ForecastScenario{
		Name:       "continue-injection",
		ForecastID: &forecast.ID,
	})
	if err != nil {
		t.Fatalf("create scenario: %v", err)
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
		Enabled:    true,
		Seismicity: &domain.SeismicitySpec{URL: "http://models/etas"},
	})
	if err != nil {
		t.Fatalf("create model: %v", err)
	}
	run, _, err := svc.CreateModelRun(ctx, domain.ModelRun{
		Kind:    domain.ModelSeismicity,
		Enabled: true,
		ModelID: &model.ID,
		StageID: &stage.ID,
	})
	if err != nil {
		t.Fatalf("create run: %v", err)
	}

	if _, _, err := svc.MarkRunDispatched(ctx, run.ID, uuid.New()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, _, err := svc.MarkRunRunning(ctx, run.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := svc.MarkRunComplete(ctx, run.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, _, err := svc.CreatePrediction(ctx, domain.ReservoirPrediction{
		RunID: &run.ID,
		Rate:  domain.RealQuantity{Value: 4.2},
	}); err != nil {
		t.Fatalf("create prediction: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := sqlite.NewStore(dbPath, core.NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	svc = core.NewService(reopened)

	persisted, ok := svc.GetModelRun(run.ID)
	if !ok {
		t.Fatalf("run missing after reopen")
	}
	if persisted.Status.State != domain.RunStateComplete {
		t.Fatalf("expected COMPLETE after reopen, got %s", persisted.Status.State)
	}
	err = reopened.View(ctx, func(view domain.TransactionView) error {
		if _, ok := view.PredictionByRun(run.ID); !ok {
			t.Fatalf("prediction missing after reopen")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

// TestCatalogArtifactExport snapshots a forecast catalog and archives its
// QuakeML serialization through the blob store.
func TestCatalogArtifactExport(t *testing.T) {
	ctx := context.Background()
	svc := core.NewInMemoryService(core.NewDefaultRulesEngine())

	project, _, err := svc.CreateProject(ctx, domain.Project{
		Name:     "basel",
		Settings: domain.DefaultProjectSettings(),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	catalog, _, err := svc.CreateSeismicCatalog(ctx, domain.SeismicCatalog{
		ProjectID: &project.ID,
		Events: []domain.SeismicEvent{
			event(interval.StartTime.Add(-time.Hour), 1.0),
		},
	})
	if err != nil {
		t.Fatalf("create catalog: %v", err)
	}

	artifacts := blob.NewMemory()
	info, err := blob.PutCatalog(ctx, artifacts, project.ID, &catalog)
	if err != nil {
		t.Fatalf("put catalog artifact: %v", err)
	}
	if info.Key != blob.CatalogKey(project.ID, catalog.ID) {
		t.Fatalf("unexpected artifact key %q", info.Key)
	}
	payload, err := blob.GetCatalogQuakeML(ctx, artifacts, project.ID, catalog.ID)
	if err != nil {
		t.Fatalf("get catalog artifact: %v", err)
	}
	if !bytes.Equal(payload, catalog.DumpQuakeML()) {
		t.Fatalf("artifact payload does not match serialized catalog")
	}
}

// TestSharedWellSurvivesForecastDelete exercises the multi-parent sweep
// through the full service and store stack.
func TestSharedWellSurvivesForecastDelete(t *testing.T) {
	ctx := context.Background()
	svc := core.NewInMemoryService(core.NewDefaultRulesEngine())

	project, _, err := svc.CreateProject(ctx, domain.Project{
		Name:     "basel",
		Settings: domain.DefaultProjectSettings(),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, _, err := svc.CreateSeismicCatalog(ctx, domain.SeismicCatalog{ProjectID: &project.ID}); err != nil {
		t.Fatalf("create catalog: %v", err)
	}
	well, _, err := svc.CreateInjectionWell(ctx, domain.InjectionWell{ProjectID: &project.ID})
	if err != nil {
		t.Fatalf("create well: %v", err)
	}
	forecast, _, err := svc.CreateForecast(ctx, domain.Forecast{
		Name:      "fc",
		Interval:  interval,
		ProjectID: &project.ID,
	})
	if err != nil {
		t.Fatalf("create forecast: %v", err)
	}
	if _, _, err := svc.SnapshotForecastInputs(ctx, forecast.ID); err != nil {
		t.Fatalf("snapshot inputs: %v", err)
	}

	if _, err := svc.DeleteForecast(ctx, forecast.ID); err != nil {
		t.Fatalf("delete forecast: %v", err)
	}
	if _, ok := svc.GetInjectionWell(well.ID); !ok {
		t.Fatalf("shared well must survive forecast delete")
	}

	if _, err := svc.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	if _, ok := svc.GetInjectionWell(well.ID); ok {
		t.Fatalf("orphaned well must be swept with the project")
	}
}
