package domain

import "time"

// RealQuantity is a measured physical value with optional QuakeML-style
// uncertainties. It is embedded by value wherever the original schema
// generated quantity column groups.
type RealQuantity struct {
	Value            float64  `json:"value"`
	Uncertainty      *float64 `json:"uncertainty,omitempty"`
	LowerUncertainty *float64 `json:"lower_uncertainty,omitempty"`
	UpperUncertainty *float64 `json:"upper_uncertainty,omitempty"`
	ConfidenceLevel  *float64 `json:"confidence_level,omitempty"`
}

// Equal compares value and uncertainty fields.
func (q RealQuantity) Equal(o RealQuantity) bool {
	return q.Value == o.Value &&
		equalFloatPtr(q.Uncertainty, o.Uncertainty) &&
		equalFloatPtr(q.LowerUncertainty, o.LowerUncertainty) &&
		equalFloatPtr(q.UpperUncertainty, o.UpperUncertainty) &&
		equalFloatPtr(q.ConfidenceLevel, o.ConfidenceLevel)
}

// Copy returns a deep copy with no shared pointer state.
func (q RealQuantity) Copy() RealQuantity {
	q.Uncertainty = copyFloatPtr(q.Uncertainty)
	q.LowerUncertainty = copyFloatPtr(q.LowerUncertainty)
	q.UpperUncertainty = copyFloatPtr(q.UpperUncertainty)
	q.ConfidenceLevel = copyFloatPtr(q.ConfidenceLevel)
	return q
}

// TimeQuantity is a timestamp with an optional uncertainty in seconds.
type TimeQuantity struct {
	Value       time.Time `json:"value"`
	Uncertainty *float64  `json:"uncertainty,omitempty"`
}

// Equal compares the timestamp and its uncertainty.
func (q TimeQuantity) Equal(o TimeQuantity) bool {
	return q.Value.Equal(o.Value) && equalFloatPtr(q.Uncertainty, o.Uncertainty)
}

// Copy returns a deep copy with no shared pointer state.
func (q TimeQuantity) Copy() TimeQuantity {
	q.Uncertainty = copyFloatPtr(q.Uncertainty)
	return q
}

// CreationInfo records provenance for catalogs, series, and forecasts.
type CreationInfo struct {
	Author       string    `json:"author,omitempty"`
	AgencyID     string    `json:"agency_id,omitempty"`
	CreationTime time.Time `json:"creation_time"`
	Version      string    `json:"version,omitempty"`
}

// Epoch is a finite time interval.
type Epoch struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Duration returns the epoch length.
func (e Epoch) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// Valid reports whether the epoch is non-empty and ordered.
func (e Epoch) Valid() bool {
	return e.StartTime.Before(e.EndTime)
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
