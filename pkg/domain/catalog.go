package domain

import (
	"bytes"
	"time"

	"seismicore/pkg/timeseries"
)

// SeismicEvent is one catalog entry. Following the QuakeML integrity
// convention of the upstream web services, the original XML representation is
// stored verbatim while the fields relevant for forecasting are extracted
// into a flat representation alongside it.
type SeismicEvent struct {
	ID        string       `json:"id,omitempty"`
	CatalogID *string      `json:"catalog_id,omitempty"`
	QuakeML   []byte       `json:"quakeml,omitempty"`
	DateTime  TimeQuantity `json:"datetime"`
	X         RealQuantity `json:"x"`
	Y         RealQuantity `json:"y"`
	Z         RealQuantity `json:"z"`
	Magnitude RealQuantity `json:"magnitude"`
}

// SampleTime implements timeseries.Sample.
func (e SeismicEvent) SampleTime() time.Time { return e.DateTime.Value }

// CopySample implements timeseries.Sample. The copy carries neither the
// event identity nor the catalog reference.
func (e SeismicEvent) CopySample() SeismicEvent { return e.Copy(false) }

// EqualSample implements timeseries.Sample.
func (e SeismicEvent) EqualSample(o SeismicEvent) bool { return e.Equal(o) }

// Copy returns a structural copy of the event omitting its identity. Foreign
// key fields are carried over only when withForeignKeys is set.
func (e SeismicEvent) Copy(withForeignKeys bool) SeismicEvent {
	cp := e
	cp.ID = ""
	if withForeignKeys {
		cp.CatalogID = copyStringPtr(e.CatalogID)
	} else {
		cp.CatalogID = nil
	}
	cp.QuakeML = append([]byte(nil), e.QuakeML...)
	cp.DateTime = e.DateTime.Copy()
	cp.X = e.X.Copy()
	cp.Y = e.Y.Copy()
	cp.Z = e.Z.Copy()
	cp.Magnitude = e.Magnitude.Copy()
	return cp
}

// Equal is structural equality over value fields; identity and relationship
// fields do not participate.
func (e SeismicEvent) Equal(o SeismicEvent) bool {
	return bytes.Equal(e.QuakeML, o.QuakeML) &&
		e.DateTime.Equal(o.DateTime) &&
		e.X.Equal(o.X) && e.Y.Equal(o.Y) && e.Z.Equal(o.Z) &&
		e.Magnitude.Equal(o.Magnitude)
}

// Less orders events by the (time, magnitude) tuple.
func (e SeismicEvent) Less(o SeismicEvent) bool {
	if !e.DateTime.Value.Equal(o.DateTime.Value) {
		return e.DateTime.Value.Before(o.DateTime.Value)
	}
	return e.Magnitude.Value < o.Magnitude.Value
}

// SeismicCatalog is an ordered collection of seismic events. Catalogs are
// multi-parent: an observed catalog belongs to a project while forecast
// snapshots belong to a forecast. Orphaned catalogs are removed by the store
// sweep once both owner references are gone.
type SeismicCatalog struct {
	Base
	CreationInfo CreationInfo   `json:"creation_info"`
	ProjectID    *string        `json:"project_id"`
	ForecastID   *string        `json:"forecast_id"`
	Events       []SeismicEvent `json:"events,omitempty"`
}

// Len returns the number of events.
func (c *SeismicCatalog) Len() int { return len(c.Events) }

// At returns the i-th event in iteration order.
func (c *SeismicCatalog) At(i int) SeismicEvent { return c.Events[i] }

// Snapshot returns a new, unsaved catalog holding structural copies of the
// events satisfying pred (nil pred selects all). The snapshot carries no
// identity and no owner references.
func (c *SeismicCatalog) Snapshot(pred func(SeismicEvent) bool) *SeismicCatalog {
	return &SeismicCatalog{
		CreationInfo: c.CreationInfo,
		Events:       timeseries.Snapshot(c.Events, pred),
	}
}

// Reduce removes, in place, every event satisfying pred. A nil pred removes
// all events.
func (c *SeismicCatalog) Reduce(pred func(SeismicEvent) bool) {
	c.Events = timeseries.Reduce(c.Events, pred)
}

// Merge applies other's events onto the catalog using the windowed
// delete-then-append strategy. See timeseries.Merge for the ordering
// caveat on narrowed windows.
func (c *SeismicCatalog) Merge(other *SeismicCatalog, window timeseries.Window) error {
	if other == nil {
		return ErrTypeMismatch
	}
	merged, err := timeseries.Merge(c.Events, other.Events, window)
	if err != nil {
		return err
	}
	c.Events = merged
	return nil
}

// Equal reports element-wise event equality in iteration order.
func (c *SeismicCatalog) Equal(other *SeismicCatalog) bool {
	if other == nil {
		return false
	}
	return timeseries.Equal(c.Events, other.Events)
}

var (
	quakeMLHeader = []byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<q:quakeml xmlns="http://quakeml.org/xmlns/bed/1.2" ` +
		`xmlns:q="http://quakeml.org/xmlns/quakeml/1.2">` +
		`<eventParameters publicID="smi:scs/0.7/EventParameters">`)
	quakeMLFooter = []byte(`</eventParameters></q:quakeml>`)
)

// DumpQuakeML serializes the catalog by concatenating the stored QuakeML
// event fragments inside a QuakeML envelope.
func (c *SeismicCatalog) DumpQuakeML() []byte {
	var buf bytes.Buffer
	buf.Write(quakeMLHeader)
	for _, e := range c.Events {
		buf.Write(e.QuakeML)
	}
	buf.Write(quakeMLFooter)
	return buf.Bytes()
}
