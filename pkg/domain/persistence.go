package domain

import "context"

// Transaction exposes the domain operations a persistence implementation
// must support within one atomic scope.
type Transaction interface {
	Snapshot() TransactionView

	CreateProject(Project) (Project, error)
	UpdateProject(id string, mutator func(*Project) error) (Project, error)
	DeleteProject(id string) error

	CreateForecast(Forecast) (Forecast, error)
	UpdateForecast(id string, mutator func(*Forecast) error) (Forecast, error)
	DeleteForecast(id string) error

	CreateScenario(ForecastScenario) (ForecastScenario, error)
	UpdateScenario(id string, mutator func(*ForecastScenario) error) (ForecastScenario, error)
	DeleteScenario(id string) error

	CreateStage(ForecastStage) (ForecastStage, error)
	UpdateStage(id string, mutator func(*ForecastStage) error) (ForecastStage, error)
	DeleteStage(id string) error

	CreateModel(Model) (Model, error)
	UpdateModel(id string, mutator func(*Model) error) (Model, error)
	DeleteModel(id string) error

	CreateModelRun(ModelRun) (ModelRun, error)
	UpdateModelRun(id string, mutator func(*ModelRun) error) (ModelRun, error)
	DeleteModelRun(id string) error

	CreateSeismicCatalog(SeismicCatalog) (SeismicCatalog, error)
	UpdateSeismicCatalog(id string, mutator func(*SeismicCatalog) error) (SeismicCatalog, error)
	DeleteSeismicCatalog(id string) error

	CreateInjectionWell(InjectionWell) (InjectionWell, error)
	UpdateInjectionWell(id string, mutator func(*InjectionWell) error) (InjectionWell, error)
	DeleteInjectionWell(id string) error

	CreateHydraulics(Hydraulics) (Hydraulics, error)
	UpdateHydraulics(id string, mutator func(*Hydraulics) error) (Hydraulics, error)
	DeleteHydraulics(id string) error

	CreateInjectionPlan(InjectionPlan) (InjectionPlan, error)
	UpdateInjectionPlan(id string, mutator func(*InjectionPlan) error) (InjectionPlan, error)
	DeleteInjectionPlan(id string) error

	CreatePrediction(ReservoirPrediction) (ReservoirPrediction, error)
	DeletePrediction(id string) error

	CreateHazardResult(HazardResult) (HazardResult, error)
	DeleteHazardResult(id string) error
}

// TransactionView provides read-only access to snapshot data for rules and
// service-level lookups.
type TransactionView interface {
	RuleView

	ListForecastsByProject(projectID string) []Forecast
	ListScenariosByForecast(forecastID string) []ForecastScenario
	ListStagesByScenario(scenarioID string) []ForecastStage
	ListRunsByStage(stageID string) []ModelRun

	FindScenario(id string) (ForecastScenario, bool)
	FindStage(id string) (ForecastStage, bool)
	FindModel(id string) (Model, bool)
	FindSeismicCatalog(id string) (SeismicCatalog, bool)
	FindInjectionWell(id string) (InjectionWell, bool)
	FindHydraulics(id string) (Hydraulics, bool)
	FindInjectionPlan(id string) (InjectionPlan, bool)

	StageByKind(scenarioID string, kind StageKind) (ForecastStage, bool)
	HydraulicsByWell(wellID string) []Hydraulics
	PlanByScenario(scenarioID string) (InjectionPlan, bool)
	PredictionByRun(runID string) (ReservoirPrediction, bool)
	HazardResultByRun(runID string) (HazardResult, bool)
}

// Observer receives the committed change set of a successful transaction.
// Observers are registered explicitly on the store; there is no global
// listener registry.
type Observer func(changes []Change)

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	Subscribe(Observer)

	GetProject(id string) (Project, bool)
	ListProjects() []Project
	GetForecast(id string) (Forecast, bool)
	ListForecasts() []Forecast
	GetModelRun(id string) (ModelRun, bool)
	ListModels() []Model
	GetSeismicCatalog(id string) (SeismicCatalog, bool)
	GetInjectionWell(id string) (InjectionWell, bool)
}
