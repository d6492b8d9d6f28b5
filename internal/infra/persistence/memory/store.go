package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"seismicore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the
// domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu        sync.RWMutex
	state     memoryState
	engine    *RulesEngine
	observers []Observer
	nowFn     func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// Subscribe registers an observer invoked with the change set of every
// committed transaction. Observers run after commit, outside the store lock,
// in registration order.
func (s *Store) Subscribe(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// RunInTransaction executes fn within a transactional copy of the store
// state. Before commit, fully orphaned multi-parent records are swept and
// the rules engine is evaluated; blocking violations abort the commit.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}
	result, err := s.commit(ctx, tx, fn)
	observers := append([]Observer(nil), s.observers...)
	changes := tx.changes
	s.mu.Unlock()

	if err != nil {
		return result, err
	}
	for _, o := range observers {
		o(changes)
	}
	return result, nil
}

func (s *Store) commit(ctx context.Context, tx *transaction, fn func(tx Transaction) error) (Result, error) {
	if err := fn(tx); err != nil {
		return Result{}, err
	}
	tx.sweepOrphans()

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// sweepOrphans removes multi-parent records whose owner references are all
// gone. Catalogs and wells are shared between a project and forecast
// snapshots, so no single cascade can reclaim them.
func (tx *transaction) sweepOrphans() {
	for id, catalog := range tx.state.catalogs {
		if catalog.ProjectID != nil || catalog.ForecastID != nil {
			continue
		}
		delete(tx.state.catalogs, id)
		tx.recordChange(Change{Entity: domain.EntitySeismicCatalog, Action: domain.ActionDelete, Before: cloneCatalog(catalog)})
	}
	for id, well := range tx.state.wells {
		if well.ProjectID != nil || well.ForecastID != nil {
			continue
		}
		for hid, h := range tx.state.hydraulics {
			if h.WellID != nil && *h.WellID == id {
				delete(tx.state.hydraulics, hid)
				tx.recordChange(Change{Entity: domain.EntityHydraulics, Action: domain.ActionDelete, Before: cloneHydraulics(h)})
			}
		}
		delete(tx.state.wells, id)
		tx.recordChange(Change{Entity: domain.EntityInjectionWell, Action: domain.ActionDelete, Before: cloneWell(well)})
	}
}

// Foreign key guards. A nil reference is always legal; a set reference must
// resolve within the transactional state.

func (tx *transaction) requireProject(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.state.projects[*id]; !ok {
		return domain.NotFoundError{Entity: domain.EntityProject, ID: *id}
	}
	return nil
}

func (tx *transaction) requireForecast(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.state.forecasts[*id]; !ok {
		return domain.NotFoundError{Entity: domain.EntityForecast, ID: *id}
	}
	return nil
}

func (tx *transaction) requireScenario(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.state.scenarios[*id]; !ok {
		return domain.NotFoundError{Entity: domain.EntityScenario, ID: *id}
	}
	return nil
}

func (tx *transaction) requireStage(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.state.stages[*id]; !ok {
		return domain.NotFoundError{Entity: domain.EntityStage, ID: *id}
	}
	return nil
}

func (tx *transaction) requireModel(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.state.models[*id]; !ok {
		return domain.NotFoundError{Entity: domain.EntityModel, ID: *id}
	}
	return nil
}

func (tx *transaction) requireRun(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.state.runs[*id]; !ok {
		return domain.NotFoundError{Entity: domain.EntityModelRun, ID: *id}
	}
	return nil
}

func (tx *transaction) requireCatalog(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.state.catalogs[*id]; !ok {
		return domain.NotFoundError{Entity: domain.EntitySeismicCatalog, ID: *id}
	}
	return nil
}

func (tx *transaction) requireWell(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.state.wells[*id]; !ok {
		return domain.NotFoundError{Entity: domain.EntityInjectionWell, ID: *id}
	}
	return nil
}

// CreateProject stores a new project within the transaction.
func (tx *transaction) CreateProject(p Project) (Project, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.projects[p.ID]; exists {
		return Project{}, fmt.Errorf("project %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.projects[p.ID] = cloneProject(p)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionCreate, After: cloneProject(p)})
	return cloneProject(p), nil
}

// UpdateProject mutates a project using the provided mutator function.
func (tx *transaction) UpdateProject(id string, mutator func(*Project) error) (Project, error) {
	current, ok := tx.state.projects[id]
	if !ok {
		return Project{}, domain.NotFoundError{Entity: domain.EntityProject, ID: id}
	}
	before := cloneProject(current)
	if err := mutator(&current); err != nil {
		return Project{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.projects[id] = cloneProject(current)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionUpdate, Before: before, After: cloneProject(current)})
	return cloneProject(current), nil
}

// DeleteProject removes a project and cascades over its forecast tree and
// hydraulic histories. Owner references on shared catalogs and wells are
// cleared so the commit-time sweep can reclaim fully orphaned records.
func (tx *transaction) DeleteProject(id string) error {
	current, ok := tx.state.projects[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityProject, ID: id}
	}
	for fid, forecast := range tx.state.forecasts {
		if forecast.ProjectID != nil && *forecast.ProjectID == id {
			if err := tx.DeleteForecast(fid); err != nil {
				return err
			}
		}
	}
	for hid, h := range tx.state.hydraulics {
		if h.ProjectID != nil && *h.ProjectID == id {
			delete(tx.state.hydraulics, hid)
			tx.recordChange(Change{Entity: domain.EntityHydraulics, Action: domain.ActionDelete, Before: cloneHydraulics(h)})
		}
	}
	for cid, catalog := range tx.state.catalogs {
		if catalog.ProjectID != nil && *catalog.ProjectID == id {
			catalog.ProjectID = nil
			tx.state.catalogs[cid] = catalog
		}
	}
	for wid, well := range tx.state.wells {
		if well.ProjectID != nil && *well.ProjectID == id {
			well.ProjectID = nil
			tx.state.wells[wid] = well
		}
	}
	delete(tx.state.projects, id)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionDelete, Before: cloneProject(current)})
	return nil
}

// CreateForecast stores a new forecast.
func (tx *transaction) CreateForecast(f Forecast) (Forecast, error) {
	if f.ID == "" {
		f.ID = tx.store.newID()
	}
	if _, exists := tx.state.forecasts[f.ID]; exists {
		return Forecast{}, fmt.Errorf("forecast %q already exists", f.ID)
	}
	if err := tx.requireProject(f.ProjectID); err != nil {
		return Forecast{}, err
	}
	if err := tx.requireCatalog(f.CatalogID); err != nil {
		return Forecast{}, err
	}
	if err := tx.requireWell(f.WellID); err != nil {
		return Forecast{}, err
	}
	f.CreatedAt = tx.now
	f.UpdatedAt = tx.now
	tx.state.forecasts[f.ID] = cloneForecast(f)
	tx.recordChange(Change{Entity: domain.EntityForecast, Action: domain.ActionCreate, After: cloneForecast(f)})
	return cloneForecast(f), nil
}

// UpdateForecast mutates an existing forecast.
func (tx *transaction) UpdateForecast(id string, mutator func(*Forecast) error) (Forecast, error) {
	current, ok := tx.state.forecasts[id]
	if !ok {
		return Forecast{}, domain.NotFoundError{Entity: domain.EntityForecast, ID: id}
	}
	before := cloneForecast(current)
	if err := mutator(&current); err != nil {
		return Forecast{}, err
	}
	if err := tx.requireProject(current.ProjectID); err != nil {
		return Forecast{}, err
	}
	if err := tx.requireCatalog(current.CatalogID); err != nil {
		return Forecast{}, err
	}
	if err := tx.requireWell(current.WellID); err != nil {
		return Forecast{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.forecasts[id] = cloneForecast(current)
	tx.recordChange(Change{Entity: domain.EntityForecast, Action: domain.ActionUpdate, Before: before, After: cloneForecast(current)})
	return cloneForecast(current), nil
}

// DeleteForecast removes a forecast and cascades over its scenarios. The
// owned catalog snapshot is deleted with the forecast; the shared well
// reference is only cleared.
func (tx *transaction) DeleteForecast(id string) error {
	current, ok := tx.state.forecasts[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityForecast, ID: id}
	}
	for sid, scenario := range tx.state.scenarios {
		if scenario.ForecastID != nil && *scenario.ForecastID == id {
			if err := tx.DeleteScenario(sid); err != nil {
				return err
			}
		}
	}
	for cid, catalog := range tx.state.catalogs {
		if catalog.ForecastID == nil || *catalog.ForecastID != id {
			continue
		}
		if catalog.ProjectID != nil {
			catalog.ForecastID = nil
			tx.state.catalogs[cid] = catalog
			continue
		}
		delete(tx.state.catalogs, cid)
		tx.recordChange(Change{Entity: domain.EntitySeismicCatalog, Action: domain.ActionDelete, Before: cloneCatalog(catalog)})
	}
	for wid, well := range tx.state.wells {
		if well.ForecastID != nil && *well.ForecastID == id {
			well.ForecastID = nil
			tx.state.wells[wid] = well
		}
	}
	delete(tx.state.forecasts, id)
	tx.recordChange(Change{Entity: domain.EntityForecast, Action: domain.ActionDelete, Before: cloneForecast(current)})
	return nil
}

// CreateScenario stores a new forecast scenario.
func (tx *transaction) CreateScenario(sc Scenario) (Scenario, error) {
	if sc.ID == "" {
		sc.ID = tx.store.newID()
	}
	if _, exists := tx.state.scenarios[sc.ID]; exists {
		return Scenario{}, fmt.Errorf("scenario %q already exists", sc.ID)
	}
	if err := tx.requireForecast(sc.ForecastID); err != nil {
		return Scenario{}, err
	}
	sc.CreatedAt = tx.now
	sc.UpdatedAt = tx.now
	tx.state.scenarios[sc.ID] = cloneScenario(sc)
	tx.recordChange(Change{Entity: domain.EntityScenario, Action: domain.ActionCreate, After: cloneScenario(sc)})
	return cloneScenario(sc), nil
}

// UpdateScenario mutates an existing scenario.
func (tx *transaction) UpdateScenario(id string, mutator func(*Scenario) error) (Scenario, error) {
	current, ok := tx.state.scenarios[id]
	if !ok {
		return Scenario{}, domain.NotFoundError{Entity: domain.EntityScenario, ID: id}
	}
	before := cloneScenario(current)
	if err := mutator(&current); err != nil {
		return Scenario{}, err
	}
	if err := tx.requireForecast(current.ForecastID); err != nil {
		return Scenario{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.scenarios[id] = cloneScenario(current)
	tx.recordChange(Change{Entity: domain.EntityScenario, Action: domain.ActionUpdate, Before: before, After: cloneScenario(current)})
	return cloneScenario(current), nil
}

// DeleteScenario removes a scenario and cascades over its stages and
// injection plans.
func (tx *transaction) DeleteScenario(id string) error {
	current, ok := tx.state.scenarios[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityScenario, ID: id}
	}
	for sid, stage := range tx.state.stages {
		if stage.ScenarioID != nil && *stage.ScenarioID == id {
			if err := tx.DeleteStage(sid); err != nil {
				return err
			}
		}
	}
	for pid, plan := range tx.state.plans {
		if plan.ScenarioID != nil && *plan.ScenarioID == id {
			delete(tx.state.plans, pid)
			tx.recordChange(Change{Entity: domain.EntityInjectionPlan, Action: domain.ActionDelete, Before: clonePlan(plan)})
		}
	}
	delete(tx.state.scenarios, id)
	tx.recordChange(Change{Entity: domain.EntityScenario, Action: domain.ActionDelete, Before: cloneScenario(current)})
	return nil
}

// CreateStage stores a new forecast stage. A scenario holds at most one
// stage per kind.
func (tx *transaction) CreateStage(st Stage) (Stage, error) {
	if st.ID == "" {
		st.ID = tx.store.newID()
	}
	if _, exists := tx.state.stages[st.ID]; exists {
		return Stage{}, fmt.Errorf("stage %q already exists", st.ID)
	}
	if err := tx.requireScenario(st.ScenarioID); err != nil {
		return Stage{}, err
	}
	if st.ScenarioID != nil {
		for _, existing := range tx.state.stages {
			if existing.ScenarioID != nil && *existing.ScenarioID == *st.ScenarioID && existing.Kind == st.Kind {
				return Stage{}, fmt.Errorf("scenario %q already has a %s stage", *st.ScenarioID, st.Kind)
			}
		}
	}
	st.CreatedAt = tx.now
	st.UpdatedAt = tx.now
	tx.state.stages[st.ID] = cloneStage(st)
	tx.recordChange(Change{Entity: domain.EntityStage, Action: domain.ActionCreate, After: cloneStage(st)})
	return cloneStage(st), nil
}

// UpdateStage mutates an existing stage.
func (tx *transaction) UpdateStage(id string, mutator func(*Stage) error) (Stage, error) {
	current, ok := tx.state.stages[id]
	if !ok {
		return Stage{}, domain.NotFoundError{Entity: domain.EntityStage, ID: id}
	}
	before := cloneStage(current)
	if err := mutator(&current); err != nil {
		return Stage{}, err
	}
	if err := tx.requireScenario(current.ScenarioID); err != nil {
		return Stage{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.stages[id] = cloneStage(current)
	tx.recordChange(Change{Entity: domain.EntityStage, Action: domain.ActionUpdate, Before: before, After: cloneStage(current)})
	return cloneStage(current), nil
}

// DeleteStage removes a stage and cascades over its model runs.
func (tx *transaction) DeleteStage(id string) error {
	current, ok := tx.state.stages[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityStage, ID: id}
	}
	for rid, run := range tx.state.runs {
		if run.StageID != nil && *run.StageID == id {
			if err := tx.DeleteModelRun(rid); err != nil {
				return err
			}
		}
	}
	delete(tx.state.stages, id)
	tx.recordChange(Change{Entity: domain.EntityStage, Action: domain.ActionDelete, Before: cloneStage(current)})
	return nil
}

// CreateModel stores a new model template.
func (tx *transaction) CreateModel(m Model) (Model, error) {
	if m.ID == "" {
		m.ID = tx.store.newID()
	}
	if _, exists := tx.state.models[m.ID]; exists {
		return Model{}, fmt.Errorf("model %q already exists", m.ID)
	}
	m.CreatedAt = tx.now
	m.UpdatedAt = tx.now
	tx.state.models[m.ID] = cloneModel(m)
	tx.recordChange(Change{Entity: domain.EntityModel, Action: domain.ActionCreate, After: cloneModel(m)})
	return cloneModel(m), nil
}

// UpdateModel mutates an existing model template.
func (tx *transaction) UpdateModel(id string, mutator func(*Model) error) (Model, error) {
	current, ok := tx.state.models[id]
	if !ok {
		return Model{}, domain.NotFoundError{Entity: domain.EntityModel, ID: id}
	}
	before := cloneModel(current)
	if err := mutator(&current); err != nil {
		return Model{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.models[id] = cloneModel(current)
	tx.recordChange(Change{Entity: domain.EntityModel, Action: domain.ActionUpdate, Before: before, After: cloneModel(current)})
	return cloneModel(current), nil
}

// DeleteModel removes a model template. Templates are shared top-level
// objects, so deletion is refused while runs still reference them.
func (tx *transaction) DeleteModel(id string) error {
	current, ok := tx.state.models[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityModel, ID: id}
	}
	for _, run := range tx.state.runs {
		if run.ModelID != nil && *run.ModelID == id {
			return fmt.Errorf("model %q still referenced by run %q", id, run.ID)
		}
	}
	delete(tx.state.models, id)
	tx.recordChange(Change{Entity: domain.EntityModel, Action: domain.ActionDelete, Before: cloneModel(current)})
	return nil
}

// CreateModelRun stores a new model run.
func (tx *transaction) CreateModelRun(r ModelRun) (ModelRun, error) {
	if r.ID == "" {
		r.ID = tx.store.newID()
	}
	if _, exists := tx.state.runs[r.ID]; exists {
		return ModelRun{}, fmt.Errorf("model run %q already exists", r.ID)
	}
	if err := tx.requireModel(r.ModelID); err != nil {
		return ModelRun{}, err
	}
	if err := tx.requireStage(r.StageID); err != nil {
		return ModelRun{}, err
	}
	r.CreatedAt = tx.now
	r.UpdatedAt = tx.now
	tx.state.runs[r.ID] = cloneModelRun(r)
	tx.recordChange(Change{Entity: domain.EntityModelRun, Action: domain.ActionCreate, After: cloneModelRun(r)})
	return cloneModelRun(r), nil
}

// UpdateModelRun mutates an existing model run.
func (tx *transaction) UpdateModelRun(id string, mutator func(*ModelRun) error) (ModelRun, error) {
	current, ok := tx.state.runs[id]
	if !ok {
		return ModelRun{}, domain.NotFoundError{Entity: domain.EntityModelRun, ID: id}
	}
	before := cloneModelRun(current)
	if err := mutator(&current); err != nil {
		return ModelRun{}, err
	}
	if err := tx.requireModel(current.ModelID); err != nil {
		return ModelRun{}, err
	}
	if err := tx.requireStage(current.StageID); err != nil {
		return ModelRun{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.runs[id] = cloneModelRun(current)
	tx.recordChange(Change{Entity: domain.EntityModelRun, Action: domain.ActionUpdate, Before: before, After: cloneModelRun(current)})
	return cloneModelRun(current), nil
}

// DeleteModelRun removes a model run and cascades over its results.
func (tx *transaction) DeleteModelRun(id string) error {
	current, ok := tx.state.runs[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityModelRun, ID: id}
	}
	for pid, p := range tx.state.predictions {
		if p.RunID != nil && *p.RunID == id {
			delete(tx.state.predictions, pid)
			tx.recordChange(Change{Entity: domain.EntityPrediction, Action: domain.ActionDelete, Before: clonePrediction(p)})
		}
	}
	for hid, h := range tx.state.hazardResults {
		if h.RunID != nil && *h.RunID == id {
			delete(tx.state.hazardResults, hid)
			tx.recordChange(Change{Entity: domain.EntityHazardResult, Action: domain.ActionDelete, Before: cloneHazardResult(h)})
		}
	}
	delete(tx.state.runs, id)
	tx.recordChange(Change{Entity: domain.EntityModelRun, Action: domain.ActionDelete, Before: cloneModelRun(current)})
	return nil
}

// CreateSeismicCatalog stores a new seismic catalog.
func (tx *transaction) CreateSeismicCatalog(c SeismicCatalog) (SeismicCatalog, error) {
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.catalogs[c.ID]; exists {
		return SeismicCatalog{}, fmt.Errorf("seismic catalog %q already exists", c.ID)
	}
	if err := tx.requireProject(c.ProjectID); err != nil {
		return SeismicCatalog{}, err
	}
	if err := tx.requireForecast(c.ForecastID); err != nil {
		return SeismicCatalog{}, err
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.catalogs[c.ID] = cloneCatalog(c)
	tx.recordChange(Change{Entity: domain.EntitySeismicCatalog, Action: domain.ActionCreate, After: cloneCatalog(c)})
	return cloneCatalog(c), nil
}

// UpdateSeismicCatalog mutates an existing catalog.
func (tx *transaction) UpdateSeismicCatalog(id string, mutator func(*SeismicCatalog) error) (SeismicCatalog, error) {
	current, ok := tx.state.catalogs[id]
	if !ok {
		return SeismicCatalog{}, domain.NotFoundError{Entity: domain.EntitySeismicCatalog, ID: id}
	}
	before := cloneCatalog(current)
	if err := mutator(&current); err != nil {
		return SeismicCatalog{}, err
	}
	if err := tx.requireProject(current.ProjectID); err != nil {
		return SeismicCatalog{}, err
	}
	if err := tx.requireForecast(current.ForecastID); err != nil {
		return SeismicCatalog{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.catalogs[id] = cloneCatalog(current)
	tx.recordChange(Change{Entity: domain.EntitySeismicCatalog, Action: domain.ActionUpdate, Before: before, After: cloneCatalog(current)})
	return cloneCatalog(current), nil
}

// DeleteSeismicCatalog removes a catalog. References held by forecasts are
// relationship state and are cleared.
func (tx *transaction) DeleteSeismicCatalog(id string) error {
	current, ok := tx.state.catalogs[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntitySeismicCatalog, ID: id}
	}
	for fid, forecast := range tx.state.forecasts {
		if forecast.CatalogID != nil && *forecast.CatalogID == id {
			forecast.CatalogID = nil
			tx.state.forecasts[fid] = forecast
		}
	}
	delete(tx.state.catalogs, id)
	tx.recordChange(Change{Entity: domain.EntitySeismicCatalog, Action: domain.ActionDelete, Before: cloneCatalog(current)})
	return nil
}

// CreateInjectionWell stores a new injection well.
func (tx *transaction) CreateInjectionWell(w InjectionWell) (InjectionWell, error) {
	if w.ID == "" {
		w.ID = tx.store.newID()
	}
	if _, exists := tx.state.wells[w.ID]; exists {
		return InjectionWell{}, fmt.Errorf("injection well %q already exists", w.ID)
	}
	if err := tx.requireProject(w.ProjectID); err != nil {
		return InjectionWell{}, err
	}
	if err := tx.requireForecast(w.ForecastID); err != nil {
		return InjectionWell{}, err
	}
	w.CreatedAt = tx.now
	w.UpdatedAt = tx.now
	tx.state.wells[w.ID] = cloneWell(w)
	tx.recordChange(Change{Entity: domain.EntityInjectionWell, Action: domain.ActionCreate, After: cloneWell(w)})
	return cloneWell(w), nil
}

// UpdateInjectionWell mutates an existing well.
func (tx *transaction) UpdateInjectionWell(id string, mutator func(*InjectionWell) error) (InjectionWell, error) {
	current, ok := tx.state.wells[id]
	if !ok {
		return InjectionWell{}, domain.NotFoundError{Entity: domain.EntityInjectionWell, ID: id}
	}
	before := cloneWell(current)
	if err := mutator(&current); err != nil {
		return InjectionWell{}, err
	}
	if err := tx.requireProject(current.ProjectID); err != nil {
		return InjectionWell{}, err
	}
	if err := tx.requireForecast(current.ForecastID); err != nil {
		return InjectionWell{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.wells[id] = cloneWell(current)
	tx.recordChange(Change{Entity: domain.EntityInjectionWell, Action: domain.ActionUpdate, Before: before, After: cloneWell(current)})
	return cloneWell(current), nil
}

// DeleteInjectionWell removes a well, its hydraulic histories, and clears
// the well reference on forecasts and injection plans.
func (tx *transaction) DeleteInjectionWell(id string) error {
	current, ok := tx.state.wells[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityInjectionWell, ID: id}
	}
	for hid, h := range tx.state.hydraulics {
		if h.WellID != nil && *h.WellID == id {
			delete(tx.state.hydraulics, hid)
			tx.recordChange(Change{Entity: domain.EntityHydraulics, Action: domain.ActionDelete, Before: cloneHydraulics(h)})
		}
	}
	for fid, forecast := range tx.state.forecasts {
		if forecast.WellID != nil && *forecast.WellID == id {
			forecast.WellID = nil
			tx.state.forecasts[fid] = forecast
		}
	}
	for pid, plan := range tx.state.plans {
		if plan.WellID != nil && *plan.WellID == id {
			plan.WellID = nil
			tx.state.plans[pid] = plan
		}
	}
	delete(tx.state.wells, id)
	tx.recordChange(Change{Entity: domain.EntityInjectionWell, Action: domain.ActionDelete, Before: cloneWell(current)})
	return nil
}

// CreateHydraulics stores a new observed hydraulic history.
func (tx *transaction) CreateHydraulics(h Hydraulics) (Hydraulics, error) {
	if h.ID == "" {
		h.ID = tx.store.newID()
	}
	if _, exists := tx.state.hydraulics[h.ID]; exists {
		return Hydraulics{}, fmt.Errorf("hydraulics %q already exists", h.ID)
	}
	if err := tx.requireProject(h.ProjectID); err != nil {
		return Hydraulics{}, err
	}
	if err := tx.requireWell(h.WellID); err != nil {
		return Hydraulics{}, err
	}
	h.CreatedAt = tx.now
	h.UpdatedAt = tx.now
	tx.state.hydraulics[h.ID] = cloneHydraulics(h)
	tx.recordChange(Change{Entity: domain.EntityHydraulics, Action: domain.ActionCreate, After: cloneHydraulics(h)})
	return cloneHydraulics(h), nil
}

// UpdateHydraulics mutates an existing hydraulic history.
func (tx *transaction) UpdateHydraulics(id string, mutator func(*Hydraulics) error) (Hydraulics, error) {
	current, ok := tx.state.hydraulics[id]
	if !ok {
		return Hydraulics{}, domain.NotFoundError{Entity: domain.EntityHydraulics, ID: id}
	}
	before := cloneHydraulics(current)
	if err := mutator(&current); err != nil {
		return Hydraulics{}, err
	}
	if err := tx.requireProject(current.ProjectID); err != nil {
		return Hydraulics{}, err
	}
	if err := tx.requireWell(current.WellID); err != nil {
		return Hydraulics{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.hydraulics[id] = cloneHydraulics(current)
	tx.recordChange(Change{Entity: domain.EntityHydraulics, Action: domain.ActionUpdate, Before: before, After: cloneHydraulics(current)})
	return cloneHydraulics(current), nil
}

// DeleteHydraulics removes a hydraulic history.
func (tx *transaction) DeleteHydraulics(id string) error {
	current, ok := tx.state.hydraulics[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityHydraulics, ID: id}
	}
	delete(tx.state.hydraulics, id)
	tx.recordChange(Change{Entity: domain.EntityHydraulics, Action: domain.ActionDelete, Before: cloneHydraulics(current)})
	return nil
}

// CreateInjectionPlan stores a new injection plan.
func (tx *transaction) CreateInjectionPlan(p InjectionPlan) (InjectionPlan, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.plans[p.ID]; exists {
		return InjectionPlan{}, fmt.Errorf("injection plan %q already exists", p.ID)
	}
	if err := tx.requireScenario(p.ScenarioID); err != nil {
		return InjectionPlan{}, err
	}
	if err := tx.requireWell(p.WellID); err != nil {
		return InjectionPlan{}, err
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.plans[p.ID] = clonePlan(p)
	tx.recordChange(Change{Entity: domain.EntityInjectionPlan, Action: domain.ActionCreate, After: clonePlan(p)})
	return clonePlan(p), nil
}

// UpdateInjectionPlan mutates an existing injection plan.
func (tx *transaction) UpdateInjectionPlan(id string, mutator func(*InjectionPlan) error) (InjectionPlan, error) {
	current, ok := tx.state.plans[id]
	if !ok {
		return InjectionPlan{}, domain.NotFoundError{Entity: domain.EntityInjectionPlan, ID: id}
	}
	before := clonePlan(current)
	if err := mutator(&current); err != nil {
		return InjectionPlan{}, err
	}
	if err := tx.requireScenario(current.ScenarioID); err != nil {
		return InjectionPlan{}, err
	}
	if err := tx.requireWell(current.WellID); err != nil {
		return InjectionPlan{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.plans[id] = clonePlan(current)
	tx.recordChange(Change{Entity: domain.EntityInjectionPlan, Action: domain.ActionUpdate, Before: before, After: clonePlan(current)})
	return clonePlan(current), nil
}

// DeleteInjectionPlan removes an injection plan.
func (tx *transaction) DeleteInjectionPlan(id string) error {
	current, ok := tx.state.plans[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityInjectionPlan, ID: id}
	}
	delete(tx.state.plans, id)
	tx.recordChange(Change{Entity: domain.EntityInjectionPlan, Action: domain.ActionDelete, Before: clonePlan(current)})
	return nil
}

// CreatePrediction stores a new reservoir prediction. Predictions are
// immutable results; there is no update operation.
func (tx *transaction) CreatePrediction(p Prediction) (Prediction, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.predictions[p.ID]; exists {
		return Prediction{}, fmt.Errorf("prediction %q already exists", p.ID)
	}
	if err := tx.requireRun(p.RunID); err != nil {
		return Prediction{}, err
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.predictions[p.ID] = clonePrediction(p)
	tx.recordChange(Change{Entity: domain.EntityPrediction, Action: domain.ActionCreate, After: clonePrediction(p)})
	return clonePrediction(p), nil
}

// DeletePrediction removes a reservoir prediction.
func (tx *transaction) DeletePrediction(id string) error {
	current, ok := tx.state.predictions[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityPrediction, ID: id}
	}
	delete(tx.state.predictions, id)
	tx.recordChange(Change{Entity: domain.EntityPrediction, Action: domain.ActionDelete, Before: clonePrediction(current)})
	return nil
}

// CreateHazardResult stores a new hazard result. Results are immutable;
// there is no update operation.
func (tx *transaction) CreateHazardResult(h HazardResult) (HazardResult, error) {
	if h.ID == "" {
		h.ID = tx.store.newID()
	}
	if _, exists := tx.state.hazardResults[h.ID]; exists {
		return HazardResult{}, fmt.Errorf("hazard result %q already exists", h.ID)
	}
	if err := tx.requireRun(h.RunID); err != nil {
		return HazardResult{}, err
	}
	h.CreatedAt = tx.now
	h.UpdatedAt = tx.now
	tx.state.hazardResults[h.ID] = cloneHazardResult(h)
	tx.recordChange(Change{Entity: domain.EntityHazardResult, Action: domain.ActionCreate, After: cloneHazardResult(h)})
	return cloneHazardResult(h), nil
}

// DeleteHazardResult removes a hazard result.
func (tx *transaction) DeleteHazardResult(id string) error {
	current, ok := tx.state.hazardResults[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityHazardResult, ID: id}
	}
	delete(tx.state.hazardResults, id)
	tx.recordChange(Change{Entity: domain.EntityHazardResult, Action: domain.ActionDelete, Before: cloneHazardResult(current)})
	return nil
}
