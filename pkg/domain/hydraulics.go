package domain

import (
	"time"

	"seismicore/pkg/timeseries"
)

// HydraulicSample is one point of a hydraulic time series: flow and pressure
// at top hole and bottom hole.
type HydraulicSample struct {
	ID           string       `json:"id,omitempty"`
	HydraulicsID *string      `json:"hydraulics_id,omitempty"`
	PlanID       *string      `json:"plan_id,omitempty"`
	DateTime     TimeQuantity `json:"datetime"`
	// TopHoleFlow is measured at the x-mas tree [l/min].
	TopHoleFlow        RealQuantity `json:"top_hole_flow"`
	TopHolePressure    RealQuantity `json:"top_hole_pressure"`    // [bar]
	BottomHoleFlow     RealQuantity `json:"bottom_hole_flow"`     // [l/min]
	BottomHolePressure RealQuantity `json:"bottom_hole_pressure"` // [bar]
}

// SampleTime implements timeseries.Sample.
func (s HydraulicSample) SampleTime() time.Time { return s.DateTime.Value }

// CopySample implements timeseries.Sample; the copy carries no identity and
// no owner references.
func (s HydraulicSample) CopySample() HydraulicSample { return s.Copy(false) }

// EqualSample implements timeseries.Sample.
func (s HydraulicSample) EqualSample(o HydraulicSample) bool { return s.Equal(o) }

// Copy returns a structural copy omitting the sample identity. Foreign key
// fields are carried over only when withForeignKeys is set.
func (s HydraulicSample) Copy(withForeignKeys bool) HydraulicSample {
	cp := s
	cp.ID = ""
	if withForeignKeys {
		cp.HydraulicsID = copyStringPtr(s.HydraulicsID)
		cp.PlanID = copyStringPtr(s.PlanID)
	} else {
		cp.HydraulicsID = nil
		cp.PlanID = nil
	}
	cp.DateTime = s.DateTime.Copy()
	cp.TopHoleFlow = s.TopHoleFlow.Copy()
	cp.TopHolePressure = s.TopHolePressure.Copy()
	cp.BottomHoleFlow = s.BottomHoleFlow.Copy()
	cp.BottomHolePressure = s.BottomHolePressure.Copy()
	return cp
}

// Equal is structural equality over value fields.
func (s HydraulicSample) Equal(o HydraulicSample) bool {
	return s.DateTime.Equal(o.DateTime) &&
		s.TopHoleFlow.Equal(o.TopHoleFlow) &&
		s.TopHolePressure.Equal(o.TopHolePressure) &&
		s.BottomHoleFlow.Equal(o.BottomHoleFlow) &&
		s.BottomHolePressure.Equal(o.BottomHolePressure)
}

// Hydraulics is the observed hydraulic history of an injection well within a
// project.
type Hydraulics struct {
	Base
	CreationInfo CreationInfo      `json:"creation_info"`
	ProjectID    *string           `json:"project_id"`
	WellID       *string           `json:"well_id"`
	Samples      []HydraulicSample `json:"samples,omitempty"`
}

// Len returns the number of samples.
func (h *Hydraulics) Len() int { return len(h.Samples) }

// At returns the i-th sample in iteration order.
func (h *Hydraulics) At(i int) HydraulicSample { return h.Samples[i] }

// Snapshot returns a new, unsaved history holding structural copies of the
// samples satisfying pred (nil pred selects all).
func (h *Hydraulics) Snapshot(pred func(HydraulicSample) bool) *Hydraulics {
	return &Hydraulics{
		CreationInfo: h.CreationInfo,
		Samples:      timeseries.Snapshot(h.Samples, pred),
	}
}

// Reduce removes, in place, every sample satisfying pred. A nil pred removes
// all samples.
func (h *Hydraulics) Reduce(pred func(HydraulicSample) bool) {
	h.Samples = timeseries.Reduce(h.Samples, pred)
}

// Merge applies other's samples onto the history using the windowed
// delete-then-append strategy.
func (h *Hydraulics) Merge(other *Hydraulics, window timeseries.Window) error {
	if other == nil {
		return ErrTypeMismatch
	}
	merged, err := timeseries.Merge(h.Samples, other.Samples, window)
	if err != nil {
		return err
	}
	h.Samples = merged
	return nil
}

// Equal reports element-wise sample equality in iteration order.
func (h *Hydraulics) Equal(other *Hydraulics) bool {
	if other == nil {
		return false
	}
	return timeseries.Equal(h.Samples, other.Samples)
}

// InjectionPlan is a planned injection schedule attached to a forecast
// scenario. It shares the hydraulic sample layout and series operations with
// the observed history.
type InjectionPlan struct {
	Base
	CreationInfo CreationInfo      `json:"creation_info"`
	ScenarioID   *string           `json:"scenario_id"`
	WellID       *string           `json:"well_id"`
	Samples      []HydraulicSample `json:"samples,omitempty"`
}

// Len returns the number of samples.
func (p *InjectionPlan) Len() int { return len(p.Samples) }

// At returns the i-th sample in iteration order.
func (p *InjectionPlan) At(i int) HydraulicSample { return p.Samples[i] }

// Snapshot returns a new, unsaved plan holding structural copies of the
// samples satisfying pred (nil pred selects all).
func (p *InjectionPlan) Snapshot(pred func(HydraulicSample) bool) *InjectionPlan {
	return &InjectionPlan{
		CreationInfo: p.CreationInfo,
		Samples:      timeseries.Snapshot(p.Samples, pred),
	}
}

// Reduce removes, in place, every sample satisfying pred. A nil pred removes
// all samples.
func (p *InjectionPlan) Reduce(pred func(HydraulicSample) bool) {
	p.Samples = timeseries.Reduce(p.Samples, pred)
}

// Merge applies other's samples onto the plan using the windowed
// delete-then-append strategy.
func (p *InjectionPlan) Merge(other *InjectionPlan, window timeseries.Window) error {
	if other == nil {
		return ErrTypeMismatch
	}
	merged, err := timeseries.Merge(p.Samples, other.Samples, window)
	if err != nil {
		return err
	}
	p.Samples = merged
	return nil
}
