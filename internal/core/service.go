package core

import (
	"context"
	"time"

	"github.com/google/uuid"

	"seismicore/pkg/domain"
)

// Service exposes higher-level transactional operations for the forecast
// schema. Every operation runs inside a store transaction, is evaluated by
// the rules engine, and is reported to the configured observability sinks.
type Service struct {
	store   domain.PersistentStore
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	clock   func() time.Time
}

// Option customizes service construction.
type Option func(*Service)

// WithLogger installs a structured logger. A nil logger keeps the noop
// default.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder installs a metrics sink for operation outcomes.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer installs a tracer that spans each operation.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditRecorder installs an audit sink for operation outcomes.
func WithAuditRecorder(rec AuditRecorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.audit = rec
		}
	}
}

// WithClock overrides the time source used for operation timing.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		audit:   noopAudit{},
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service and in-memory store with the given
// rules engine.
func NewInMemoryService(engine *domain.RulesEngine, opts ...Option) *Service {
	return NewService(NewMemoryStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// run executes fn in a transaction and reports the outcome. entityID is
// consulted after the transaction so it may capture an identifier assigned
// inside fn.
func (s *Service) run(ctx context.Context, op string, entityID func() string, fn func(Transaction) error) (Result, error) {
	start := s.clock()
	ctx, span := s.tracer.Start(ctx, op)
	res, err := s.store.RunInTransaction(ctx, fn)
	duration := s.clock().Sub(start)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)

	entry := AuditEntry{
		Operation:  op,
		Status:     AuditStatusSuccess,
		Duration:   duration,
		OccurredAt: start.UTC(),
	}
	if entityID != nil {
		entry.EntityID = entityID()
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.logger.Error("operation failed", "operation", op, "entity_id", entry.EntityID, "error", err)
	} else {
		s.logger.Debug("operation complete", "operation", op, "entity_id", entry.EntityID)
	}
	s.audit.Record(ctx, entry)
	return res, err
}

// CreateProject persists a new project.
func (s *Service) CreateProject(ctx context.Context, project domain.Project) (domain.Project, Result, error) {
	var created domain.Project
	res, err := s.run(ctx, "create_project", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateProject(project)
		return err
	})
	return created, res, err
}

// UpdateProject mutates a project using the provided mutator.
func (s *Service) UpdateProject(ctx context.Context, id string, mutator func(*domain.Project) error) (domain.Project, Result, error) {
	var updated domain.Project
	res, err := s.run(ctx, "update_project", func() string { return id }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateProject(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteProject removes a project and cascades over its forecast trees.
func (s *Service) DeleteProject(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_project", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteProject(id)
	})
}

// CreateForecast persists a new forecast under its project.
func (s *Service) CreateForecast(ctx context.Context, forecast domain.Forecast) (domain.Forecast, Result, error) {
	var created domain.Forecast
	res, err := s.run(ctx, "create_forecast", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateForecast(forecast)
		return err
	})
	return created, res, err
}

// UpdateForecast mutates a forecast using the provided mutator.
func (s *Service) UpdateForecast(ctx context.Context, id string, mutator func(*domain.Forecast) error) (domain.Forecast, Result, error) {
	var updated domain.Forecast
	res, err := s.run(ctx, "update_forecast", func() string { return id }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateForecast(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteForecast removes a forecast and cascades over its scenarios,
// snapshot series, and runs.
func (s *Service) DeleteForecast(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_forecast", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteForecast(id)
	})
}

// CreateScenario persists a new scenario under its forecast.
func (s *Service) CreateScenario(ctx context.Context, scenario domain.ForecastScenario) (domain.ForecastScenario, Result, error) {
	var created domain.ForecastScenario
	res, err := s.run(ctx, "create_scenario", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateScenario(scenario)
		return err
	})
	return created, res, err
}

// UpdateScenario mutates a scenario using the provided mutator.
func (s *Service) UpdateScenario(ctx context.Context, id string, mutator func(*domain.ForecastScenario) error) (domain.ForecastScenario, Result, error) {
	var updated domain.ForecastScenario
	res, err := s.run(ctx, "update_scenario", func() string { return id }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateScenario(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteScenario removes a scenario and cascades over its stages and plan.
func (s *Service) DeleteScenario(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_scenario", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteScenario(id)
	})
}

// CreateStage persists a new stage under its scenario. At most one stage per
// kind may exist within a scenario.
func (s *Service) CreateStage(ctx context.Context, stage domain.ForecastStage) (domain.ForecastStage, Result, error) {
	var created domain.ForecastStage
	res, err := s.run(ctx, "create_stage", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateStage(stage)
		return err
	})
	return created, res, err
}

// UpdateStage mutates a stage using the provided mutator.
func (s *Service) UpdateStage(ctx context.Context, id string, mutator func(*domain.ForecastStage) error) (domain.ForecastStage, Result, error) {
	var updated domain.ForecastStage
	res, err := s.run(ctx, "update_stage", func() string { return id }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateStage(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteStage removes a stage and cascades over its runs.
func (s *Service) DeleteStage(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_stage", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteStage(id)
	})
}

// CreateModel persists a new model template.
func (s *Service) CreateModel(ctx context.Context, model domain.Model) (domain.Model, Result, error) {
	var created domain.Model
	res, err := s.run(ctx, "create_model", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateModel(model)
		return err
	})
	return created, res, err
}

// UpdateModel mutates a model template using the provided mutator.
func (s *Service) UpdateModel(ctx context.Context, id string, mutator func(*domain.Model) error) (domain.Model, Result, error) {
	var updated domain.Model
	res, err := s.run(ctx, "update_model", func() string { return id }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateModel(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteModel removes a model template. Deletion is refused while any run
// still references the template.
func (s *Service) DeleteModel(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_model", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteModel(id)
	})
}

// CreateModelRun persists a new model run under its stage. A run without a
// status starts out PENDING.
func (s *Service) CreateModelRun(ctx context.Context, run domain.ModelRun) (domain.ModelRun, Result, error) {
	if run.Status.State == "" {
		run.Status = domain.NewStatus(uuid.New(), s.clock().UTC())
	}
	var created domain.ModelRun
	res, err := s.run(ctx, "create_model_run", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateModelRun(run)
		return err
	})
	return created, res, err
}

// UpdateModelRun mutates a model run using the provided mutator.
func (s *Service) UpdateModelRun(ctx context.Context, id string, mutator func(*domain.ModelRun) error) (domain.ModelRun, Result, error) {
	var updated domain.ModelRun
	res, err := s.run(ctx, "update_model_run", func() string { return id }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateModelRun(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteModelRun removes a model run and its results.
func (s *Service) DeleteModelRun(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_model_run", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteModelRun(id)
	})
}

// CreateSeismicCatalog persists a new catalog.
func (s *Service) CreateSeismicCatalog(ctx context.Context, catalog domain.SeismicCatalog) (domain.SeismicCatalog, Result, error) {
	var created domain.SeismicCatalog
	res, err := s.run(ctx, "create_seismic_catalog", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateSeismicCatalog(catalog)
		return err
	})
	return created, res, err
}

// UpdateSeismicCatalog mutates a catalog using the provided mutator.
func (s *Service) UpdateSeismicCatalog(ctx context.Context, id string, mutator func(*domain.SeismicCatalog) error) (domain.SeismicCatalog, Result, error) {
	var updated domain.SeismicCatalog
	res, err := s.run(ctx, "update_seismic_catalog", func() string { return id }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateSeismicCatalog(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteSeismicCatalog removes a catalog.
func (s *Service) DeleteSeismicCatalog(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_seismic_catalog", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteSeismicCatalog(id)
	})
}

// CreateInjectionWell persists a new well.
func (s *Service) CreateInjectionWell(ctx context.Context, well domain.InjectionWell) (domain.InjectionWell, Result, error) {
	var created domain.InjectionWell
	res, err := s.run(ctx, "create_injection_well", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateInjectionWell(well)
		return err
	})
	return created, res, err
}

// UpdateInjectionWell mutates a well using the provided mutator.
func (s *Service) UpdateInjectionWell(ctx context.Context, id string, mutator func(*domain.InjectionWell) error) (domain.InjectionWell, Result, error) {
	var updated domain.InjectionWell
	res, err := s.run(ctx, "update_injection_well", func() string { return id }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateInjectionWell(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteInjectionWell removes a well.
func (s *Service) DeleteInjectionWell(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_injection_well", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteInjectionWell(id)
	})
}

// CreateHydraulics persists a new hydraulic sample series.
func (s *Service) CreateHydraulics(ctx context.Context, hydraulics domain.Hydraulics) (domain.Hydraulics, Result, error) {
	var created domain.Hydraulics
	res, err := s.run(ctx, "create_hydraulics", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateHydraulics(hydraulics)
		return err
	})
	return created, res, err
}

// UpdateHydraulics mutates a hydraulic series using the provided mutator.
func (s *Service) UpdateHydraulics(ctx context.Context, id string, mutator func(*domain.Hydraulics) error) (domain.Hydraulics, Result, error) {
	var updated domain.Hydraulics
	res, err := s.run(ctx, "update_hydraulics", func() string { return id }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateHydraulics(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteHydraulics removes a hydraulic series.
func (s *Service) DeleteHydraulics(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_hydraulics", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteHydraulics(id)
	})
}

// CreateInjectionPlan persists a new injection plan under its scenario.
func (s *Service) CreateInjectionPlan(ctx context.Context, plan domain.InjectionPlan) (domain.InjectionPlan, Result, error) {
	var created domain.InjectionPlan
	res, err := s.run(ctx, "create_injection_plan", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateInjectionPlan(plan)
		return err
	})
	return created, res, err
}

// UpdateInjectionPlan mutates an injection plan using the provided mutator.
func (s *Service) UpdateInjectionPlan(ctx context.Context, id string, mutator func(*domain.InjectionPlan) error) (domain.InjectionPlan, Result, error) {
	var updated domain.InjectionPlan
	res, err := s.run(ctx, "update_injection_plan", func() string { return id }, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateInjectionPlan(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteInjectionPlan removes an injection plan.
func (s *Service) DeleteInjectionPlan(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_injection_plan", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteInjectionPlan(id)
	})
}

// CreatePrediction persists a reservoir prediction result for a run.
func (s *Service) CreatePrediction(ctx context.Context, prediction domain.ReservoirPrediction) (domain.ReservoirPrediction, Result, error) {
	var created domain.ReservoirPrediction
	res, err := s.run(ctx, "create_prediction", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreatePrediction(prediction)
		return err
	})
	return created, res, err
}

// DeletePrediction removes a reservoir prediction result.
func (s *Service) DeletePrediction(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_prediction", func() string { return id }, func(tx Transaction) error {
		return tx.DeletePrediction(id)
	})
}

// CreateHazardResult persists a hazard result for a run.
func (s *Service) CreateHazardResult(ctx context.Context, result domain.HazardResult) (domain.HazardResult, Result, error) {
	var created domain.HazardResult
	res, err := s.run(ctx, "create_hazard_result", func() string { return created.ID }, func(tx Transaction) error {
		var err error
		created, err = tx.CreateHazardResult(result)
		return err
	})
	return created, res, err
}

// DeleteHazardResult removes a hazard result.
func (s *Service) DeleteHazardResult(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_hazard_result", func() string { return id }, func(tx Transaction) error {
		return tx.DeleteHazardResult(id)
	})
}

// GetProject fetches a project by identifier.
func (s *Service) GetProject(id string) (domain.Project, bool) {
	return s.store.GetProject(id)
}

// ListProjects returns all projects.
func (s *Service) ListProjects() []domain.Project {
	return s.store.ListProjects()
}

// GetForecast fetches a forecast by identifier.
func (s *Service) GetForecast(id string) (domain.Forecast, bool) {
	return s.store.GetForecast(id)
}

// ListForecasts returns all forecasts.
func (s *Service) ListForecasts() []domain.Forecast {
	return s.store.ListForecasts()
}

// GetModelRun fetches a model run by identifier.
func (s *Service) GetModelRun(id string) (domain.ModelRun, bool) {
	return s.store.GetModelRun(id)
}

// ListModels returns all model templates.
func (s *Service) ListModels() []domain.Model {
	return s.store.ListModels()
}

// GetSeismicCatalog fetches a catalog by identifier.
func (s *Service) GetSeismicCatalog(id string) (domain.SeismicCatalog, bool) {
	return s.store.GetSeismicCatalog(id)
}

// GetInjectionWell fetches a well by identifier.
func (s *Service) GetInjectionWell(id string) (domain.InjectionWell, bool) {
	return s.store.GetInjectionWell(id)
}

// StageByKind fetches the scenario's stage of the given kind.
func (s *Service) StageByKind(ctx context.Context, scenarioID string, kind domain.StageKind) (domain.ForecastStage, error) {
	var stage domain.ForecastStage
	err := s.store.View(ctx, func(view TransactionView) error {
		found, ok := view.StageByKind(scenarioID, kind)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityStage, ID: scenarioID + "/" + string(kind)}
		}
		stage = found
		return nil
	})
	return stage, err
}
