// Package domain defines the core persistent entities, value types, series
// operations, and rule evaluation primitives of the seismicity-forecasting
// data model.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies the kind of record stored in the core schema.
type EntityType string

// Supported entity type identifiers used in Change records and persistence
// buckets.
const (
	// EntityProject identifies the aggregate root record.
	EntityProject EntityType = "project"
	// EntityForecast identifies a forecast record.
	EntityForecast EntityType = "forecast"
	// EntityScenario identifies a forecast scenario record.
	EntityScenario EntityType = "scenario"
	// EntityStage identifies a forecast stage record.
	EntityStage EntityType = "stage"
	// EntityModel identifies a model template record.
	EntityModel EntityType = "model"
	// EntityModelRun identifies a model run record.
	EntityModelRun EntityType = "model_run"
	// EntitySeismicCatalog identifies a seismic catalog record.
	EntitySeismicCatalog EntityType = "seismic_catalog"
	// EntityInjectionWell identifies an injection well record.
	EntityInjectionWell EntityType = "injection_well"
	// EntityHydraulics identifies an observed hydraulic history record.
	EntityHydraulics EntityType = "hydraulics"
	// EntityInjectionPlan identifies a planned injection record.
	EntityInjectionPlan EntityType = "injection_plan"
	// EntityPrediction identifies a reservoir seismicity prediction record.
	EntityPrediction EntityType = "prediction"
	// EntityHazardResult identifies a hazard result record.
	EntityHazardResult EntityType = "hazard_result"
)

// StageKind discriminates the polymorphic forecast stage family.
type StageKind string

// Forecast stage kinds, one per model run family a scenario can schedule.
const (
	StageSeismicity      StageKind = "seismicity"
	StageSeismicitySkill StageKind = "seismicity_skill"
	StageHazard          StageKind = "hazard"
	StageRisk            StageKind = "risk"
)

// ModelKind discriminates the polymorphic model and model-run families.
type ModelKind string

// Model kinds mirror the stage kinds they run under.
const (
	ModelSeismicity      ModelKind = "seismicity"
	ModelSeismicitySkill ModelKind = "seismicity_skill"
	ModelHazard          ModelKind = "hazard"
	ModelRisk            ModelKind = "risk"
)

// RunState enumerates processing states for model runs and their containers.
type RunState string

// Run states. DISPATCHED marks a run handed to a remote worker whose first
// status report is still outstanding.
const (
	RunStatePending    RunState = "PENDING"
	RunStateDispatched RunState = "DISPATCHED"
	RunStateRunning    RunState = "RUNNING"
	RunStateComplete   RunState = "COMPLETE"
	RunStateError      RunState = "ERROR"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all persisted records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReferencePoint anchors a project's local coordinate system.
type ReferencePoint struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Height float64 `json:"h"`
}

// Project is the aggregate root of the data model. It owns forecasts, an
// observed catalog, wells, and hydraulic histories.
type Project struct {
	Base
	CreationInfo CreationInfo    `json:"creation_info"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Reference    ReferencePoint  `json:"reference_point"`
	Settings     ProjectSettings `json:"settings"`
}

// Forecast groups a set of scenarios with snapshots of the real input data
// (seismic catalog and injection well) taken at scheduling time.
type Forecast struct {
	Base
	CreationInfo CreationInfo `json:"creation_info"`
	Name         string       `json:"name"`
	Interval     Epoch        `json:"interval"`
	ProjectID    *string      `json:"project_id"`
	// CatalogID references the owned catalog snapshot. The referenced
	// catalog cascades with the forecast.
	CatalogID *string `json:"catalog_id"`
	// WellID references the shared injection well. Wells are multi-parent
	// and are swept only when every owner reference is gone.
	WellID *string `json:"well_id"`
}

// ForecastScenario carries the end-user configurable forecast input: a
// config blob, a reservoir geometry, an injection plan, and one stage per
// enabled stage kind.
type ForecastScenario struct {
	Base
	Name          string         `json:"name"`
	Config        map[string]any `json:"config,omitempty"`
	ReservoirGeom string         `json:"reservoir_geom"` // opaque WKT, 3D
	ForecastID    *string        `json:"forecast_id"`
}

// ForecastStage groups the model runs of one kind scheduled by a scenario.
type ForecastStage struct {
	Base
	Kind       StageKind      `json:"kind"`
	ScenarioID *string        `json:"scenario_id"`
	Enabled    bool           `json:"enabled"`
	Config     map[string]any `json:"config,omitempty"`
}

// SeismicitySpec holds the kind-specific payload of a seismicity model
// template.
type SeismicitySpec struct {
	URL string `json:"url"`
}

// HazardSpec holds the kind-specific payload of a hazard model template.
type HazardSpec struct {
	URL               string `json:"url"`
	LogicTreeTemplate string `json:"logic_tree_template,omitempty"`
	JobConfigFile     string `json:"job_config_file,omitempty"`
	GMPEFile          string `json:"gmpe_file,omitempty"`
}

// Model is a template from which model runs are configured. The Kind field
// discriminates the payload; exactly one of the spec pointers matching the
// kind is set.
type Model struct {
	Base
	Name       string          `json:"name"`
	Kind       ModelKind       `json:"kind"`
	Enabled    bool            `json:"enabled"`
	Config     map[string]any  `json:"config,omitempty"`
	Seismicity *SeismicitySpec `json:"seismicity,omitempty"`
	Hazard     *HazardSpec     `json:"hazard,omitempty"`
}

// SeismicitySpecOf returns the seismicity payload or ErrTypeMismatch when the
// model is of a different kind.
func (m Model) SeismicitySpecOf() (SeismicitySpec, error) {
	if m.Kind != ModelSeismicity || m.Seismicity == nil {
		return SeismicitySpec{}, ErrTypeMismatch
	}
	return *m.Seismicity, nil
}

// HazardSpecOf returns the hazard payload or ErrTypeMismatch when the model
// is of a different kind.
func (m Model) HazardSpecOf() (HazardSpec, error) {
	if m.Kind != ModelHazard || m.Hazard == nil {
		return HazardSpec{}, ErrTypeMismatch
	}
	return *m.Hazard, nil
}

// Status tracks the processing state of a model run for bookkeeping. The
// Info map holds free-form worker metadata (by convention "last_response"
// carries the last remote worker reply).
type Status struct {
	UUID      uuid.UUID      `json:"uuid"`
	State     RunState       `json:"state"`
	Info      map[string]any `json:"info,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
}

// NewStatus returns a pending status stamped with the given start time.
func NewStatus(id uuid.UUID, start time.Time) Status {
	return Status{UUID: id, State: RunStatePending, StartTime: start}
}

// Finished reports whether the status is terminal.
func (s Status) Finished() bool {
	return s.State == RunStateComplete || s.State == RunStateError
}

// HazardRunDetail carries the hazard-specific model run payload.
type HazardRunDetail struct {
	DescribedInterval Epoch  `json:"described_interval"`
	LogicTreeFile     string `json:"logic_tree_file,omitempty"`
	OQInputDir        string `json:"oq_input_dir,omitempty"`
	// SeismicityRunIDs associates the seismicity runs whose predictions
	// feed this hazard computation.
	SeismicityRunIDs []string `json:"seismicity_run_ids,omitempty"`
}

// ModelRun is one scheduled execution of a model template within a stage.
// The Kind field discriminates the family; hazard runs additionally carry a
// HazardRunDetail payload.
type ModelRun struct {
	Base
	Kind    ModelKind      `json:"kind"`
	Enabled bool           `json:"enabled"`
	Config  map[string]any `json:"config,omitempty"`
	ModelID *string        `json:"model_id"`
	StageID *string        `json:"stage_id"`
	// RunID is the remote worker identifier, assigned on dispatch.
	RunID  *uuid.UUID       `json:"run_id,omitempty"`
	Status Status           `json:"status"`
	Hazard *HazardRunDetail `json:"hazard,omitempty"`
}

// HazardDetail returns the hazard payload or ErrTypeMismatch when the run is
// of a different kind.
func (r ModelRun) HazardDetail() (HazardRunDetail, error) {
	if r.Kind != ModelHazard || r.Hazard == nil {
		return HazardRunDetail{}, ErrTypeMismatch
	}
	return *r.Hazard, nil
}

// PredictionBin is one spatial bin of a reservoir seismicity prediction.
// Bins nest recursively so integrated parent bins can aggregate children.
type PredictionBin struct {
	Geom     string          `json:"geom"` // opaque WKT, 3D
	Rate     RealQuantity    `json:"rate"`
	BValue   RealQuantity    `json:"b_value"`
	Children []PredictionBin `json:"children,omitempty"`
}

// ReservoirPrediction is the result of a seismicity model run.
type ReservoirPrediction struct {
	Base
	RunID  *string         `json:"run_id"`
	Geom   string          `json:"geom"`
	Rate   RealQuantity    `json:"rate"`
	BValue RealQuantity    `json:"b_value"`
	Bins   []PredictionBin `json:"bins,omitempty"`
}

// GeoPoint locates a hazard point value.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HazardPointValue is one point of a hazard curve or map.
type HazardPointValue struct {
	GroundMotion   float64  `json:"ground_motion"`
	PoE            float64  `json:"poe"`
	IntensityType  string   `json:"intensity_type"`
	SpectralPeriod *float64 `json:"spectral_period,omitempty"`
	Point          GeoPoint `json:"point"`
}

// HazardCurve is a probability-of-exceedance curve produced by a hazard run.
type HazardCurve struct {
	IntensityType string             `json:"intensity_type"`
	Values        []HazardPointValue `json:"values,omitempty"`
}

// HazardMap is a spatial hazard slice at a fixed probability level.
type HazardMap struct {
	PoE    float64            `json:"poe"`
	Values []HazardPointValue `json:"values,omitempty"`
}

// HazardResult is the result of a hazard model run.
type HazardResult struct {
	Base
	RunID  *string       `json:"run_id"`
	Curves []HazardCurve `json:"curves,omitempty"`
	Maps   []HazardMap   `json:"maps,omitempty"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in the audit
// trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
