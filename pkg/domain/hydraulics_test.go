package domain

import (
	"errors"
	"testing"
	"time"

	"seismicore/pkg/timeseries"
)

func sampleAt(t time.Time) HydraulicSample {
	return HydraulicSample{DateTime: TimeQuantity{Value: t}}
}

func hydraulicsSeries(start time.Time, step time.Duration, n int) *Hydraulics {
	h := &Hydraulics{}
	for i := 0; i < n; i++ {
		h.Samples = append(h.Samples, sampleAt(start.Add(time.Duration(i)*step)))
	}
	return h
}

func at(hour, min int) time.Time {
	return time.Date(2020, 1, 1, hour, min, 0, 0, time.UTC)
}

func TestHydraulicsMergeOverlapByTime(t *testing.T) {
	h1 := hydraulicsSeries(at(0, 0), time.Hour, 7)
	h2 := hydraulicsSeries(at(3, 0), 30*time.Minute, 4)

	if err := h1.Merge(h2, timeseries.Window{}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := []time.Time{
		at(0, 0), at(1, 0), at(2, 0), at(5, 0), at(6, 0),
		at(3, 0), at(3, 30), at(4, 0), at(4, 30),
	}
	if h1.Len() != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), h1.Len())
	}
	for i, w := range want {
		if !h1.At(i).Equal(sampleAt(w)) {
			t.Errorf("sample %d: expected %s, got %s", i, w, h1.At(i).DateTime.Value)
		}
	}
}

func TestHydraulicsMergeEmpty(t *testing.T) {
	h1 := hydraulicsSeries(at(0, 0), time.Hour, 7)
	if err := h1.Merge(&Hydraulics{}, timeseries.Window{}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if h1.Len() != 7 {
		t.Fatalf("expected 7 samples, got %d", h1.Len())
	}
	for i := 0; i < 7; i++ {
		if !h1.At(i).Equal(sampleAt(at(i, 0))) {
			t.Errorf("sample %d changed by empty merge", i)
		}
	}
}

func TestHydraulicsMergeSingle(t *testing.T) {
	h1 := hydraulicsSeries(at(0, 0), time.Hour, 7)
	h2 := &Hydraulics{Samples: []HydraulicSample{sampleAt(at(3, 0))}}

	if err := h1.Merge(h2, timeseries.Window{}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := []time.Time{at(0, 0), at(1, 0), at(2, 0), at(4, 0), at(5, 0), at(6, 0), at(3, 0)}
	if h1.Len() != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), h1.Len())
	}
	for i, w := range want {
		if !h1.At(i).Equal(sampleAt(w)) {
			t.Errorf("sample %d: expected %s, got %s", i, w, h1.At(i).DateTime.Value)
		}
	}
}

func TestHydraulicsMergeInvalidRange(t *testing.T) {
	h1 := hydraulicsSeries(at(0, 0), time.Hour, 3)
	start := at(5, 0)
	end := at(3, 0)
	err := h1.Merge(hydraulicsSeries(at(4, 0), time.Hour, 1),
		timeseries.Window{Start: &start, End: &end})
	var invalid timeseries.ErrInvalidRange
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if h1.Len() != 3 {
		t.Fatalf("failed merge must leave the series untouched, got %d samples", h1.Len())
	}
}

func TestHydraulicsMergeNilSeries(t *testing.T) {
	h1 := hydraulicsSeries(at(0, 0), time.Hour, 3)
	if err := h1.Merge(nil, timeseries.Window{}); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestHydraulicsSnapshotIndependence(t *testing.T) {
	flow := 120.5
	h := &Hydraulics{Samples: []HydraulicSample{{
		ID:          "s-1",
		DateTime:    TimeQuantity{Value: at(1, 0)},
		TopHoleFlow: RealQuantity{Value: flow, Uncertainty: &flow},
	}}}
	h.Samples[0].HydraulicsID = strPtr("h-1")

	snap := h.Snapshot(nil)
	if snap.Len() != 1 {
		t.Fatalf("expected 1 sample, got %d", snap.Len())
	}
	got := snap.At(0)
	if got.ID != "" || got.HydraulicsID != nil {
		t.Fatal("snapshot samples must not carry identity or owner references")
	}
	if !got.TopHoleFlow.Equal(h.At(0).TopHoleFlow) {
		t.Fatal("snapshot must preserve quantity values")
	}
	if got.TopHoleFlow.Uncertainty == h.At(0).TopHoleFlow.Uncertainty {
		t.Fatal("snapshot must not share pointer state with the original")
	}
}

func TestHydraulicsReduce(t *testing.T) {
	h := hydraulicsSeries(at(0, 0), time.Hour, 5)
	h.Reduce(func(s HydraulicSample) bool { return s.SampleTime().After(at(2, 0)) })
	if h.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", h.Len())
	}
	h.Reduce(nil)
	if h.Len() != 0 {
		t.Fatalf("nil predicate must empty the series, got %d samples", h.Len())
	}
}

func TestInjectionPlanMergeSharesAlgorithm(t *testing.T) {
	p1 := &InjectionPlan{}
	for i := 0; i < 4; i++ {
		p1.Samples = append(p1.Samples, sampleAt(at(i, 0)))
	}
	p2 := &InjectionPlan{Samples: []HydraulicSample{sampleAt(at(1, 0)), sampleAt(at(2, 0))}}
	if err := p1.Merge(p2, timeseries.Window{}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := []time.Time{at(0, 0), at(3, 0), at(1, 0), at(2, 0)}
	for i, w := range want {
		if !p1.At(i).SampleTime().Equal(w) {
			t.Errorf("sample %d: expected %s, got %s", i, w, p1.At(i).SampleTime())
		}
	}
}

func strPtr(s string) *string { return &s }
