package domain

import (
	"time"

	"github.com/google/uuid"
)

// CloneOptions controls which field classes a structural clone carries over.
// The primary key (Base.ID) and the bookkeeping timestamps are always
// dropped; relationship-derived state is never carried.
type CloneOptions struct {
	// WithForeignKeys copies scalar foreign key columns. Off by default so
	// clones start detached from every parent.
	WithForeignKeys bool
	// WithResults carries computed result state on entities that own any.
	// Model runs do not implement it and return ErrUnsupported.
	WithResults bool
}

func cloneBase() Base { return Base{} }

func cloneConfig(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = cloneConfigValue(v)
	}
	return out
}

// cloneConfigValue recursively copies the container types a JSON config
// round-trip produces. Scalars are copied by value.
func cloneConfigValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(tv))
		for k, vv := range tv {
			m[k] = cloneConfigValue(vv)
		}
		return m
	case []any:
		s := make([]any, len(tv))
		for i, vv := range tv {
			s[i] = cloneConfigValue(vv)
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

func cloneFK(fk *string, opts CloneOptions) *string {
	if !opts.WithForeignKeys {
		return nil
	}
	return copyStringPtr(fk)
}

// Clone returns a new, unsaved project copying every simple field. The clone
// is never attached to the store automatically.
func (p Project) Clone(opts CloneOptions) Project {
	cp := p
	cp.Base = cloneBase()
	cp.Description = copyStringPtr(p.Description)
	cp.Settings = p.Settings.Clone()
	return cp
}

// Clone returns a new, unsaved forecast. The snapshot catalog reference is
// relationship state and is never carried; the shared well reference is a
// plain foreign key and follows WithForeignKeys.
func (f Forecast) Clone(opts CloneOptions) Forecast {
	cp := f
	cp.Base = cloneBase()
	cp.ProjectID = cloneFK(f.ProjectID, opts)
	cp.WellID = cloneFK(f.WellID, opts)
	cp.CatalogID = nil
	return cp
}

// Clone returns a new, unsaved scenario.
func (s ForecastScenario) Clone(opts CloneOptions) ForecastScenario {
	cp := s
	cp.Base = cloneBase()
	cp.Config = cloneConfig(s.Config)
	cp.ForecastID = cloneFK(s.ForecastID, opts)
	return cp
}

// Clone returns a new, unsaved stage.
func (s ForecastStage) Clone(opts CloneOptions) ForecastStage {
	cp := s
	cp.Base = cloneBase()
	cp.Config = cloneConfig(s.Config)
	cp.ScenarioID = cloneFK(s.ScenarioID, opts)
	return cp
}

// Clone returns a new, unsaved model template.
func (m Model) Clone(opts CloneOptions) Model {
	cp := m
	cp.Base = cloneBase()
	cp.Config = cloneConfig(m.Config)
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

// Clone returns a new, unsaved model run with a fresh pending status and no
// remote run identifier. Model templates are top-level objects and are
// referenced, not copied, so the model foreign key is always carried.
// Cloning together with results is not implemented for any run kind and
// returns ErrUnsupported.
func (r ModelRun) Clone(opts CloneOptions) (ModelRun, error) {
	if opts.WithResults {
		return ModelRun{}, ErrUnsupported
	}
	cp := r
	cp.Base = cloneBase()
	cp.Config = cloneConfig(r.Config)
	cp.ModelID = copyStringPtr(r.ModelID)
	cp.StageID = cloneFK(r.StageID, opts)
	cp.RunID = nil
	cp.Status = NewStatus(uuid.New(), time.Now().UTC())
	if r.Hazard != nil {
		detail := *r.Hazard
		detail.SeismicityRunIDs = append([]string(nil), r.Hazard.SeismicityRunIDs...)
		cp.Hazard = &detail
	}
	return cp, nil
}

// Clone returns a new, unsaved catalog holding structural copies of every
// event. Owner references follow WithForeignKeys.
func (c SeismicCatalog) Clone(opts CloneOptions) SeismicCatalog {
	cp := c
	cp.Base = cloneBase()
	cp.ProjectID = cloneFK(c.ProjectID, opts)
	cp.ForecastID = cloneFK(c.ForecastID, opts)
	cp.Events = make([]SeismicEvent, 0, len(c.Events))
	for _, e := range c.Events {
		cp.Events = append(cp.Events, e.Copy(false))
	}
	return cp
}

// Clone returns a new, unsaved well.
func (w InjectionWell) Clone(opts CloneOptions) InjectionWell {
	cp := w
	cp.Base = cloneBase()
	cp.ProjectID = cloneFK(w.ProjectID, opts)
	cp.ForecastID = cloneFK(w.ForecastID, opts)
	cp.WellTipX = w.WellTipX.Copy()
	cp.WellTipY = w.WellTipY.Copy()
	cp.WellTipZ = w.WellTipZ.Copy()
	cp.Sections = make([]WellSection, len(w.Sections))
	for i, s := range w.Sections {
		s.HoleDiameter = copyFloatPtr(s.HoleDiameter)
		cp.Sections[i] = s
	}
	return cp
}

// Clone returns a new, unsaved hydraulic history with copies of its samples.
func (h Hydraulics) Clone(opts CloneOptions) Hydraulics {
	cp := h
	cp.Base = cloneBase()
	cp.ProjectID = cloneFK(h.ProjectID, opts)
	cp.WellID = cloneFK(h.WellID, opts)
	cp.Samples = make([]HydraulicSample, 0, len(h.Samples))
	for _, s := range h.Samples {
		cp.Samples = append(cp.Samples, s.Copy(false))
	}
	return cp
}

// Clone returns a new, unsaved injection plan with copies of its samples.
func (p InjectionPlan) Clone(opts CloneOptions) InjectionPlan {
	cp := p
	cp.Base = cloneBase()
	cp.ScenarioID = cloneFK(p.ScenarioID, opts)
	cp.WellID = cloneFK(p.WellID, opts)
	cp.Samples = make([]HydraulicSample, 0, len(p.Samples))
	for _, s := range p.Samples {
		cp.Samples = append(cp.Samples, s.Copy(false))
	}
	return cp
}

// Clone returns a new, unsaved prediction result with deep-copied bins.
func (p ReservoirPrediction) Clone(opts CloneOptions) ReservoirPrediction {
	cp := p
	cp.Base = cloneBase()
	cp.RunID = cloneFK(p.RunID, opts)
	cp.Rate = p.Rate.Copy()
	cp.BValue = p.BValue.Copy()
	cp.Bins = clonePredictionBins(p.Bins)
	return cp
}

func clonePredictionBins(bins []PredictionBin) []PredictionBin {
	if bins == nil {
		return nil
	}
	out := make([]PredictionBin, len(bins))
	for i, b := range bins {
		b.Rate = b.Rate.Copy()
		b.BValue = b.BValue.Copy()
		b.Children = clonePredictionBins(b.Children)
		out[i] = b
	}
	return out
}

// Clone returns a new, unsaved hazard result with deep-copied curves and
// maps.
func (h HazardResult) Clone(opts CloneOptions) HazardResult {
	cp := h
	cp.Base = cloneBase()
	cp.RunID = cloneFK(h.RunID, opts)
	cp.Curves = make([]HazardCurve, len(h.Curves))
	for i, c := range h.Curves {
		c.Values = cloneHazardValues(c.Values)
		cp.Curves[i] = c
	}
	cp.Maps = make([]HazardMap, len(h.Maps))
	for i, m := range h.Maps {
		m.Values = cloneHazardValues(m.Values)
		cp.Maps[i] = m
	}
	return cp
}

func cloneHazardValues(values []HazardPointValue) []HazardPointValue {
	if values == nil {
		return nil
	}
	out := make([]HazardPointValue, len(values))
	for i, v := range values {
		v.SpectralPeriod = copyFloatPtr(v.SpectralPeriod)
		out[i] = v
	}
	return out
}
