// Package memory provides the in-memory implementation of the core
// persistence store used for tests and ephemeral environments. Durable
// backends embed it and snapshot its state.
package memory

import (
	"seismicore/pkg/domain"

	"github.com/google/uuid"
)

type (
	// Project aliases domain.Project for in-memory persistence operations.
	Project = domain.Project
	// Forecast aliases domain.Forecast.
	Forecast = domain.Forecast
	// Scenario aliases domain.ForecastScenario.
	Scenario = domain.ForecastScenario
	// Stage aliases domain.ForecastStage.
	Stage = domain.ForecastStage
	// Model aliases domain.Model.
	Model = domain.Model
	// ModelRun aliases domain.ModelRun.
	ModelRun = domain.ModelRun
	// SeismicCatalog aliases domain.SeismicCatalog.
	SeismicCatalog = domain.SeismicCatalog
	// InjectionWell aliases domain.InjectionWell.
	InjectionWell = domain.InjectionWell
	// Hydraulics aliases domain.Hydraulics.
	Hydraulics = domain.Hydraulics
	// InjectionPlan aliases domain.InjectionPlan.
	InjectionPlan = domain.InjectionPlan
	// Prediction aliases domain.ReservoirPrediction.
	Prediction = domain.ReservoirPrediction
	// HazardResult aliases domain.HazardResult.
	HazardResult = domain.HazardResult
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// Observer aliases domain.Observer notified after commit.
	Observer = domain.Observer
)

type memoryState struct {
	projects      map[string]Project
	forecasts     map[string]Forecast
	scenarios     map[string]Scenario
	stages        map[string]Stage
	models        map[string]Model
	runs          map[string]ModelRun
	catalogs      map[string]SeismicCatalog
	wells         map[string]InjectionWell
	hydraulics    map[string]Hydraulics
	plans         map[string]InjectionPlan
	predictions   map[string]Prediction
	hazardResults map[string]HazardResult
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Projects      map[string]Project        `json:"projects"`
	Forecasts     map[string]Forecast       `json:"forecasts"`
	Scenarios     map[string]Scenario       `json:"scenarios"`
	Stages        map[string]Stage          `json:"stages"`
	Models        map[string]Model          `json:"models"`
	Runs          map[string]ModelRun       `json:"runs"`
	Catalogs      map[string]SeismicCatalog `json:"catalogs"`
	Wells         map[string]InjectionWell  `json:"wells"`
	Hydraulics    map[string]Hydraulics     `json:"hydraulics"`
	Plans         map[string]InjectionPlan  `json:"plans"`
	Predictions   map[string]Prediction     `json:"predictions"`
	HazardResults map[string]HazardResult   `json:"hazard_results"`
}

func newMemoryState() memoryState {
	return memoryState{
		projects:      make(map[string]Project),
		forecasts:     make(map[string]Forecast),
		scenarios:     make(map[string]Scenario),
		stages:        make(map[string]Stage),
		models:        make(map[string]Model),
		runs:          make(map[string]ModelRun),
		catalogs:      make(map[string]SeismicCatalog),
		wells:         make(map[string]InjectionWell),
		hydraulics:    make(map[string]Hydraulics),
		plans:         make(map[string]InjectionPlan),
		predictions:   make(map[string]Prediction),
		hazardResults: make(map[string]HazardResult),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.projects {
		cloned.projects[k] = cloneProject(v)
	}
	for k, v := range s.forecasts {
		cloned.forecasts[k] = cloneForecast(v)
	}
	for k, v := range s.scenarios {
		cloned.scenarios[k] = cloneScenario(v)
	}
	for k, v := range s.stages {
		cloned.stages[k] = cloneStage(v)
	}
	for k, v := range s.models {
		cloned.models[k] = cloneModel(v)
	}
	for k, v := range s.runs {
		cloned.runs[k] = cloneModelRun(v)
	}
	for k, v := range s.catalogs {
		cloned.catalogs[k] = cloneCatalog(v)
	}
	for k, v := range s.wells {
		cloned.wells[k] = cloneWell(v)
	}
	for k, v := range s.hydraulics {
		cloned.hydraulics[k] = cloneHydraulics(v)
	}
	for k, v := range s.plans {
		cloned.plans[k] = clonePlan(v)
	}
	for k, v := range s.predictions {
		cloned.predictions[k] = clonePrediction(v)
	}
	for k, v := range s.hazardResults {
		cloned.hazardResults[k] = cloneHazardResult(v)
	}
	return cloned
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	cloned := state.clone()
	return Snapshot{
		Projects:      cloned.projects,
		Forecasts:     cloned.forecasts,
		Scenarios:     cloned.scenarios,
		Stages:        cloned.stages,
		Models:        cloned.models,
		Runs:          cloned.runs,
		Catalogs:      cloned.catalogs,
		Wells:         cloned.wells,
		Hydraulics:    cloned.hydraulics,
		Plans:         cloned.plans,
		Predictions:   cloned.predictions,
		HazardResults: cloned.hazardResults,
	}
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Projects {
		state.projects[k] = cloneProject(v)
	}
	for k, v := range s.Forecasts {
		state.forecasts[k] = cloneForecast(v)
	}
	for k, v := range s.Scenarios {
		state.scenarios[k] = cloneScenario(v)
	}
	for k, v := range s.Stages {
		state.stages[k] = cloneStage(v)
	}
	for k, v := range s.Models {
		state.models[k] = cloneModel(v)
	}
	for k, v := range s.Runs {
		state.runs[k] = cloneModelRun(v)
	}
	for k, v := range s.Catalogs {
		state.catalogs[k] = cloneCatalog(v)
	}
	for k, v := range s.Wells {
		state.wells[k] = cloneWell(v)
	}
	for k, v := range s.Hydraulics {
		state.hydraulics[k] = cloneHydraulics(v)
	}
	for k, v := range s.Plans {
		state.plans[k] = clonePlan(v)
	}
	for k, v := range s.Predictions {
		state.predictions[k] = clonePrediction(v)
	}
	for k, v := range s.HazardResults {
		state.hazardResults[k] = cloneHazardResult(v)
	}
	return state
}

// migrateSnapshot repairs snapshots written by older builds: nil buckets are
// initialized and dangling parent references are cleared or, for strictly
// owned children, dropped with their subtree.
func migrateSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.Projects == nil {
		snapshot.Projects = map[string]Project{}
	}
	if snapshot.Forecasts == nil {
		snapshot.Forecasts = map[string]Forecast{}
	}
	if snapshot.Scenarios == nil {
		snapshot.Scenarios = map[string]Scenario{}
	}
	if snapshot.Stages == nil {
		snapshot.Stages = map[string]Stage{}
	}
	if snapshot.Models == nil {
		snapshot.Models = map[string]Model{}
	}
	if snapshot.Runs == nil {
		snapshot.Runs = map[string]ModelRun{}
	}
	if snapshot.Catalogs == nil {
		snapshot.Catalogs = map[string]SeismicCatalog{}
	}
	if snapshot.Wells == nil {
		snapshot.Wells = map[string]InjectionWell{}
	}
	if snapshot.Hydraulics == nil {
		snapshot.Hydraulics = map[string]Hydraulics{}
	}
	if snapshot.Plans == nil {
		snapshot.Plans = map[string]InjectionPlan{}
	}
	if snapshot.Predictions == nil {
		snapshot.Predictions = map[string]Prediction{}
	}
	if snapshot.HazardResults == nil {
		snapshot.HazardResults = map[string]HazardResult{}
	}

	projectExists := func(id *string) bool {
		if id == nil {
			return true
		}
		_, ok := snapshot.Projects[*id]
		return ok
	}
	forecastExists := func(id *string) bool {
		if id == nil {
			return true
		}
		_, ok := snapshot.Forecasts[*id]
		return ok
	}

	// Records with nil parent references are legal and survive migration;
	// only references to entities that no longer exist cascade.
	for id, forecast := range snapshot.Forecasts {
		if !projectExists(forecast.ProjectID) {
			delete(snapshot.Forecasts, id)
			continue
		}
		if forecast.CatalogID != nil {
			if _, ok := snapshot.Catalogs[*forecast.CatalogID]; !ok {
				forecast.CatalogID = nil
			}
		}
		if forecast.WellID != nil {
			if _, ok := snapshot.Wells[*forecast.WellID]; !ok {
				forecast.WellID = nil
			}
		}
		snapshot.Forecasts[id] = forecast
	}

	for id, scenario := range snapshot.Scenarios {
		if !forecastExists(scenario.ForecastID) {
			delete(snapshot.Scenarios, id)
		}
	}

	for id, stage := range snapshot.Stages {
		if stage.ScenarioID == nil {
			continue
		}
		if _, ok := snapshot.Scenarios[*stage.ScenarioID]; !ok {
			delete(snapshot.Stages, id)
		}
	}

	for id, run := range snapshot.Runs {
		if run.StageID != nil {
			if _, ok := snapshot.Stages[*run.StageID]; !ok {
				delete(snapshot.Runs, id)
				continue
			}
		}
		if run.ModelID != nil {
			if _, ok := snapshot.Models[*run.ModelID]; !ok {
				run.ModelID = nil
			}
		}
		snapshot.Runs[id] = run
	}

	// Catalogs and wells are multi-parent. Dangling owner references are
	// cleared and fully orphaned records dropped, mirroring the commit-time
	// sweep.
	for id, catalog := range snapshot.Catalogs {
		if !projectExists(catalog.ProjectID) {
			catalog.ProjectID = nil
		}
		if !forecastExists(catalog.ForecastID) {
			catalog.ForecastID = nil
		}
		if catalog.ProjectID == nil && catalog.ForecastID == nil {
			delete(snapshot.Catalogs, id)
			continue
		}
		snapshot.Catalogs[id] = catalog
	}
	for id, well := range snapshot.Wells {
		if !projectExists(well.ProjectID) {
			well.ProjectID = nil
		}
		if !forecastExists(well.ForecastID) {
			well.ForecastID = nil
		}
		if well.ProjectID == nil && well.ForecastID == nil {
			delete(snapshot.Wells, id)
			continue
		}
		snapshot.Wells[id] = well
	}

	for id, h := range snapshot.Hydraulics {
		if !projectExists(h.ProjectID) {
			delete(snapshot.Hydraulics, id)
			continue
		}
		if h.WellID == nil {
			continue
		}
		if _, ok := snapshot.Wells[*h.WellID]; !ok {
			delete(snapshot.Hydraulics, id)
		}
	}

	for id, plan := range snapshot.Plans {
		if plan.ScenarioID == nil {
			continue
		}
		if _, ok := snapshot.Scenarios[*plan.ScenarioID]; !ok {
			delete(snapshot.Plans, id)
		}
	}

	for id, p := range snapshot.Predictions {
		if p.RunID == nil {
			continue
		}
		if _, ok := snapshot.Runs[*p.RunID]; !ok {
			delete(snapshot.Predictions, id)
		}
	}
	for id, h := range snapshot.HazardResults {
		if h.RunID == nil {
			continue
		}
		if _, ok := snapshot.Runs[*h.RunID]; !ok {
			delete(snapshot.HazardResults, id)
		}
	}

	return snapshot
}

func copyStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyUUIDPtr(p *uuid.UUID) *uuid.UUID {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyConfig(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = copyConfigValue(v)
	}
	return out
}

// copyConfigValue recursively copies nested containers so no config value in
// committed state shares structure with a caller-held record.
func copyConfigValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(tv))
		for k, vv := range tv {
			m[k] = copyConfigValue(vv)
		}
		return m
	case []any:
		s := make([]any, len(tv))
		for i, vv := range tv {
			s[i] = copyConfigValue(vv)
		}
		return s
	case []string:
		s := make([]string, len(tv))
		copy(s, tv)
		return s
	case []float64:
		s := make([]float64, len(tv))
		copy(s, tv)
		return s
	default:
		return v
	}
}

// Clone helpers keep record identity intact, unlike the domain Clone methods
// which produce unsaved copies. The store hands out and accepts only clones
// so callers can never alias committed state.

func cloneProject(p Project) Project {
	cp := p
	cp.Description = copyStringPtr(p.Description)
	cp.Settings = p.Settings.Clone()
	return cp
}

func cloneForecast(f Forecast) Forecast {
	cp := f
	cp.ProjectID = copyStringPtr(f.ProjectID)
	cp.CatalogID = copyStringPtr(f.CatalogID)
	cp.WellID = copyStringPtr(f.WellID)
	return cp
}

func cloneScenario(s Scenario) Scenario {
	cp := s
	cp.Config = copyConfig(s.Config)
	cp.ForecastID = copyStringPtr(s.ForecastID)
	return cp
}

func cloneStage(s Stage) Stage {
	cp := s
	cp.Config = copyConfig(s.Config)
	cp.ScenarioID = copyStringPtr(s.ScenarioID)
	return cp
}

func cloneModel(m Model) Model {
	cp := m
	cp.Config = copyConfig(m.Config)
	if m.Seismicity != nil {
		spec := *m.Seismicity
		cp.Seismicity = &spec
	}
	if m.Hazard != nil {
		spec := *m.Hazard
		cp.Hazard = &spec
	}
	return cp
}

func cloneModelRun(r ModelRun) ModelRun {
	cp := r
	cp.Config = copyConfig(r.Config)
	cp.ModelID = copyStringPtr(r.ModelID)
	cp.StageID = copyStringPtr(r.StageID)
	cp.RunID = copyUUIDPtr(r.RunID)
	cp.Status.Info = copyConfig(r.Status.Info)
	if r.Status.EndTime != nil {
		t := *r.Status.EndTime
		cp.Status.EndTime = &t
	}
	if r.Hazard != nil {
		detail := *r.Hazard
		detail.SeismicityRunIDs = append([]string(nil), r.Hazard.SeismicityRunIDs...)
		cp.Hazard = &detail
	}
	return cp
}

func cloneEvent(e domain.SeismicEvent) domain.SeismicEvent {
	cp := e
	cp.CatalogID = copyStringPtr(e.CatalogID)
	cp.QuakeML = append([]byte(nil), e.QuakeML...)
	cp.DateTime = e.DateTime.Copy()
	cp.X = e.X.Copy()
	cp.Y = e.Y.Copy()
	cp.Z = e.Z.Copy()
	cp.Magnitude = e.Magnitude.Copy()
	return cp
}

func cloneCatalog(c SeismicCatalog) SeismicCatalog {
	cp := c
	cp.ProjectID = copyStringPtr(c.ProjectID)
	cp.ForecastID = copyStringPtr(c.ForecastID)
	if c.Events != nil {
		cp.Events = make([]domain.SeismicEvent, len(c.Events))
		for i, e := range c.Events {
			cp.Events[i] = cloneEvent(e)
		}
	}
	return cp
}

func cloneWell(w InjectionWell) InjectionWell {
	cp := w
	cp.ProjectID = copyStringPtr(w.ProjectID)
	cp.ForecastID = copyStringPtr(w.ForecastID)
	cp.WellTipX = w.WellTipX.Copy()
	cp.WellTipY = w.WellTipY.Copy()
	cp.WellTipZ = w.WellTipZ.Copy()
	if w.Sections != nil {
		cp.Sections = make([]domain.WellSection, len(w.Sections))
		for i, sec := range w.Sections {
			sec.HoleDiameter = copyFloatPtr(sec.HoleDiameter)
			cp.Sections[i] = sec
		}
	}
	return cp
}

func cloneSample(s domain.HydraulicSample) domain.HydraulicSample {
	cp := s
	cp.HydraulicsID = copyStringPtr(s.HydraulicsID)
	cp.PlanID = copyStringPtr(s.PlanID)
	cp.DateTime = s.DateTime.Copy()
	cp.TopHoleFlow = s.TopHoleFlow.Copy()
	cp.TopHolePressure = s.TopHolePressure.Copy()
	cp.BottomHoleFlow = s.BottomHoleFlow.Copy()
	cp.BottomHolePressure = s.BottomHolePressure.Copy()
	return cp
}

func cloneHydraulics(h Hydraulics) Hydraulics {
	cp := h
	cp.ProjectID = copyStringPtr(h.ProjectID)
	cp.WellID = copyStringPtr(h.WellID)
	if h.Samples != nil {
		cp.Samples = make([]domain.HydraulicSample, len(h.Samples))
		for i, s := range h.Samples {
			cp.Samples[i] = cloneSample(s)
		}
	}
	return cp
}

func clonePlan(p InjectionPlan) InjectionPlan {
	cp := p
	cp.ScenarioID = copyStringPtr(p.ScenarioID)
	cp.WellID = copyStringPtr(p.WellID)
	if p.Samples != nil {
		cp.Samples = make([]domain.HydraulicSample, len(p.Samples))
		for i, s := range p.Samples {
			cp.Samples[i] = cloneSample(s)
		}
	}
	return cp
}

func cloneBins(bins []domain.PredictionBin) []domain.PredictionBin {
	if bins == nil {
		return nil
	}
	out := make([]domain.PredictionBin, len(bins))
	for i, b := range bins {
		b.Rate = b.Rate.Copy()
		b.BValue = b.BValue.Copy()
		b.Children = cloneBins(b.Children)
		out[i] = b
	}
	return out
}

func clonePrediction(p Prediction) Prediction {
	cp := p
	cp.RunID = copyStringPtr(p.RunID)
	cp.Rate = p.Rate.Copy()
	cp.BValue = p.BValue.Copy()
	cp.Bins = cloneBins(p.Bins)
	return cp
}

func cloneHazardValues(values []domain.HazardPointValue) []domain.HazardPointValue {
	if values == nil {
		return nil
	}
	out := make([]domain.HazardPointValue, len(values))
	for i, v := range values {
		v.SpectralPeriod = copyFloatPtr(v.SpectralPeriod)
		out[i] = v
	}
	return out
}

func cloneHazardResult(h HazardResult) HazardResult {
	cp := h
	cp.RunID = copyStringPtr(h.RunID)
	if h.Curves != nil {
		cp.Curves = make([]domain.HazardCurve, len(h.Curves))
		for i, c := range h.Curves {
			c.Values = cloneHazardValues(c.Values)
			cp.Curves[i] = c
		}
	}
	if h.Maps != nil {
		cp.Maps = make([]domain.HazardMap, len(h.Maps))
		for i, m := range h.Maps {
			m.Values = cloneHazardValues(m.Values)
			cp.Maps[i] = m
		}
	}
	return cp
}
