package domain

import "seismicore/pkg/timeseries"

// WellSection describes one cased or open-hole interval of a well bore.
type WellSection struct {
	TopDepth     float64  `json:"top_depth"`
	BottomDepth  float64  `json:"bottom_depth"`
	HoleDiameter *float64 `json:"hole_diameter,omitempty"`
	Cased        bool     `json:"cased"`
}

// InjectionWell locates the injection point of a stimulation. Wells are
// multi-parent: the observed well belongs to a project while forecast
// snapshots reference it from a forecast. Orphaned wells are removed by the
// store sweep once every owner reference is gone.
type InjectionWell struct {
	Base
	CreationInfo CreationInfo  `json:"creation_info"`
	ProjectID    *string       `json:"project_id"`
	ForecastID   *string       `json:"forecast_id"`
	WellTipX     RealQuantity  `json:"well_tip_x"`
	WellTipY     RealQuantity  `json:"well_tip_y"`
	WellTipZ     RealQuantity  `json:"well_tip_z"`
	Sections     []WellSection `json:"sections,omitempty"`
}

// InjectionPoint returns the well tip coordinates.
func (w *InjectionWell) InjectionPoint() (x, y, z float64) {
	return w.WellTipX.Value, w.WellTipY.Value, w.WellTipZ.Value
}

// MergeHydraulics applies updated field measurements onto the well's
// observed history using the shared windowed merge. The histories are
// matched positionally: the well owns a single observed history per project,
// so callers pass the stored history and the freshly fetched one.
func (w *InjectionWell) MergeHydraulics(dst, src *Hydraulics, window timeseries.Window) error {
	if dst == nil || src == nil {
		return ErrTypeMismatch
	}
	return dst.Merge(src, window)
}
