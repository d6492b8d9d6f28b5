package memory

import "seismicore/pkg/domain"

// transactionView exposes a read-only snapshot of the transactional state
// to rules and service-level lookups.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// ListProjects returns all projects in the snapshot.
func (v transactionView) ListProjects() []Project {
	out := make([]Project, 0, len(v.state.projects))
	for _, p := range v.state.projects {
		out = append(out, cloneProject(p))
	}
	return out
}

// ListForecasts returns all forecasts in the snapshot.
func (v transactionView) ListForecasts() []Forecast {
	out := make([]Forecast, 0, len(v.state.forecasts))
	for _, f := range v.state.forecasts {
		out = append(out, cloneForecast(f))
	}
	return out
}

// ListScenarios returns all scenarios in the snapshot.
func (v transactionView) ListScenarios() []Scenario {
	out := make([]Scenario, 0, len(v.state.scenarios))
	for _, s := range v.state.scenarios {
		out = append(out, cloneScenario(s))
	}
	return out
}

// ListStages returns all stages in the snapshot.
func (v transactionView) ListStages() []Stage {
	out := make([]Stage, 0, len(v.state.stages))
	for _, s := range v.state.stages {
		out = append(out, cloneStage(s))
	}
	return out
}

// ListModels returns all model templates in the snapshot.
func (v transactionView) ListModels() []Model {
	out := make([]Model, 0, len(v.state.models))
	for _, m := range v.state.models {
		out = append(out, cloneModel(m))
	}
	return out
}

// ListModelRuns returns all model runs in the snapshot.
func (v transactionView) ListModelRuns() []ModelRun {
	out := make([]ModelRun, 0, len(v.state.runs))
	for _, r := range v.state.runs {
		out = append(out, cloneModelRun(r))
	}
	return out
}

// ListSeismicCatalogs returns all catalogs in the snapshot.
func (v transactionView) ListSeismicCatalogs() []SeismicCatalog {
	out := make([]SeismicCatalog, 0, len(v.state.catalogs))
	for _, c := range v.state.catalogs {
		out = append(out, cloneCatalog(c))
	}
	return out
}

// ListInjectionWells returns all wells in the snapshot.
func (v transactionView) ListInjectionWells() []InjectionWell {
	out := make([]InjectionWell, 0, len(v.state.wells))
	for _, w := range v.state.wells {
		out = append(out, cloneWell(w))
	}
	return out
}

// FindProject retrieves a project by ID from the snapshot.
func (v transactionView) FindProject(id string) (Project, bool) {
	p, ok := v.state.projects[id]
	if !ok {
		return Project{}, false
	}
	return cloneProject(p), true
}

// FindForecast retrieves a forecast by ID from the snapshot.
func (v transactionView) FindForecast(id string) (Forecast, bool) {
	f, ok := v.state.forecasts[id]
	if !ok {
		return Forecast{}, false
	}
	return cloneForecast(f), true
}

// FindModelRun retrieves a model run by ID from the snapshot.
func (v transactionView) FindModelRun(id string) (ModelRun, bool) {
	r, ok := v.state.runs[id]
	if !ok {
		return ModelRun{}, false
	}
	return cloneModelRun(r), true
}

// FindScenario retrieves a scenario by ID from the snapshot.
func (v transactionView) FindScenario(id string) (Scenario, bool) {
	s, ok := v.state.scenarios[id]
	if !ok {
		return Scenario{}, false
	}
	return cloneScenario(s), true
}

// FindStage retrieves a stage by ID from the snapshot.
func (v transactionView) FindStage(id string) (Stage, bool) {
	s, ok := v.state.stages[id]
	if !ok {
		return Stage{}, false
	}
	return cloneStage(s), true
}

// FindModel retrieves a model template by ID from the snapshot.
func (v transactionView) FindModel(id string) (Model, bool) {
	m, ok := v.state.models[id]
	if !ok {
		return Model{}, false
	}
	return cloneModel(m), true
}

// FindSeismicCatalog retrieves a catalog by ID from the snapshot.
func (v transactionView) FindSeismicCatalog(id string) (SeismicCatalog, bool) {
	c, ok := v.state.catalogs[id]
	if !ok {
		return SeismicCatalog{}, false
	}
	return cloneCatalog(c), true
}

// FindInjectionWell retrieves a well by ID from the snapshot.
func (v transactionView) FindInjectionWell(id string) (InjectionWell, bool) {
	w, ok := v.state.wells[id]
	if !ok {
		return InjectionWell{}, false
	}
	return cloneWell(w), true
}

// FindHydraulics retrieves a hydraulic history by ID from the snapshot.
func (v transactionView) FindHydraulics(id string) (Hydraulics, bool) {
	h, ok := v.state.hydraulics[id]
	if !ok {
		return Hydraulics{}, false
	}
	return cloneHydraulics(h), true
}

// FindInjectionPlan retrieves an injection plan by ID from the snapshot.
func (v transactionView) FindInjectionPlan(id string) (InjectionPlan, bool) {
	p, ok := v.state.plans[id]
	if !ok {
		return InjectionPlan{}, false
	}
	return clonePlan(p), true
}

// ListForecastsByProject returns the forecasts owned by a project.
func (v transactionView) ListForecastsByProject(projectID string) []Forecast {
	var out []Forecast
	for _, f := range v.state.forecasts {
		if f.ProjectID != nil && *f.ProjectID == projectID {
			out = append(out, cloneForecast(f))
		}
	}
	return out
}

// ListScenariosByForecast returns the scenarios owned by a forecast.
func (v transactionView) ListScenariosByForecast(forecastID string) []Scenario {
	var out []Scenario
	for _, s := range v.state.scenarios {
		if s.ForecastID != nil && *s.ForecastID == forecastID {
			out = append(out, cloneScenario(s))
		}
	}
	return out
}

// ListStagesByScenario returns the stages owned by a scenario.
func (v transactionView) ListStagesByScenario(scenarioID string) []Stage {
	var out []Stage
	for _, s := range v.state.stages {
		if s.ScenarioID != nil && *s.ScenarioID == scenarioID {
			out = append(out, cloneStage(s))
		}
	}
	return out
}

// ListRunsByStage returns the model runs owned by a stage.
func (v transactionView) ListRunsByStage(stageID string) []ModelRun {
	var out []ModelRun
	for _, r := range v.state.runs {
		if r.StageID != nil && *r.StageID == stageID {
			out = append(out, cloneModelRun(r))
		}
	}
	return out
}

// StageByKind returns the stage of the given kind within a scenario.
func (v transactionView) StageByKind(scenarioID string, kind domain.StageKind) (Stage, bool) {
	for _, s := range v.state.stages {
		if s.ScenarioID != nil && *s.ScenarioID == scenarioID && s.Kind == kind {
			return cloneStage(s), true
		}
	}
	return Stage{}, false
}

// HydraulicsByWell returns the hydraulic histories recorded for a well.
func (v transactionView) HydraulicsByWell(wellID string) []Hydraulics {
	var out []Hydraulics
	for _, h := range v.state.hydraulics {
		if h.WellID != nil && *h.WellID == wellID {
			out = append(out, cloneHydraulics(h))
		}
	}
	return out
}

// PlanByScenario returns the injection plan attached to a scenario.
func (v transactionView) PlanByScenario(scenarioID string) (InjectionPlan, bool) {
	for _, p := range v.state.plans {
		if p.ScenarioID != nil && *p.ScenarioID == scenarioID {
			return clonePlan(p), true
		}
	}
	return InjectionPlan{}, false
}

// PredictionByRun returns the reservoir prediction produced by a run.
func (v transactionView) PredictionByRun(runID string) (Prediction, bool) {
	for _, p := range v.state.predictions {
		if p.RunID != nil && *p.RunID == runID {
			return clonePrediction(p), true
		}
	}
	return Prediction{}, false
}

// HazardResultByRun returns the hazard result produced by a run.
func (v transactionView) HazardResultByRun(runID string) (HazardResult, bool) {
	for _, h := range v.state.hazardResults {
		if h.RunID != nil && *h.RunID == runID {
			return cloneHazardResult(h), true
		}
	}
	return HazardResult{}, false
}

// GetProject retrieves a committed project by ID.
func (s *Store) GetProject(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.projects[id]
	if !ok {
		return Project{}, false
	}
	return cloneProject(p), true
}

// ListProjects returns all committed projects.
func (s *Store) ListProjects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.state.projects))
	for _, p := range s.state.projects {
		out = append(out, cloneProject(p))
	}
	return out
}

// GetForecast retrieves a committed forecast by ID.
func (s *Store) GetForecast(id string) (Forecast, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.state.forecasts[id]
	if !ok {
		return Forecast{}, false
	}
	return cloneForecast(f), true
}

// ListForecasts returns all committed forecasts.
func (s *Store) ListForecasts() []Forecast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Forecast, 0, len(s.state.forecasts))
	for _, f := range s.state.forecasts {
		out = append(out, cloneForecast(f))
	}
	return out
}

// GetModelRun retrieves a committed model run by ID.
func (s *Store) GetModelRun(id string) (ModelRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.state.runs[id]
	if !ok {
		return ModelRun{}, false
	}
	return cloneModelRun(r), true
}

// ListModels returns all committed model templates.
func (s *Store) ListModels() []Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Model, 0, len(s.state.models))
	for _, m := range s.state.models {
		out = append(out, cloneModel(m))
	}
	return out
}

// GetSeismicCatalog retrieves a committed catalog by ID.
func (s *Store) GetSeismicCatalog(id string) (SeismicCatalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.catalogs[id]
	if !ok {
		return SeismicCatalog{}, false
	}
	return cloneCatalog(c), true
}

// GetInjectionWell retrieves a committed well by ID.
func (s *Store) GetInjectionWell(id string) (InjectionWell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.state.wells[id]
	if !ok {
		return InjectionWell{}, false
	}
	return cloneWell(w), true
}
