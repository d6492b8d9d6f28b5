package core

import (
	"context"
	"testing"
	"time"

	"seismicore/pkg/domain"
)

func TestForecastEpochRule(t *testing.T) {
	rule := ForecastEpochRule{}
	valid := domain.Forecast{Interval: testEpoch}
	inverted := domain.Forecast{Interval: domain.Epoch{
		StartTime: testEpoch.EndTime,
		EndTime:   testEpoch.StartTime,
	}}

	res, err := rule.Evaluate(context.Background(), nil, []domain.Change{
		{Entity: domain.EntityForecast, Action: domain.ActionCreate, After: valid},
	})
	if err != nil || len(res.Violations) != 0 {
		t.Fatalf("valid forecast flagged: %+v %v", res, err)
	}

	res, err = rule.Evaluate(context.Background(), nil, []domain.Change{
		{Entity: domain.EntityForecast, Action: domain.ActionUpdate, After: inverted},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("inverted interval must block, got %+v", res)
	}

	// Deletes are never checked.
	res, err = rule.Evaluate(context.Background(), nil, []domain.Change{
		{Entity: domain.EntityForecast, Action: domain.ActionDelete, Before: inverted},
	})
	if err != nil || len(res.Violations) != 0 {
		t.Fatalf("delete flagged: %+v %v", res, err)
	}
}

func TestRunTransitionRule(t *testing.T) {
	rule := RunTransitionRule{}
	runIn := func(state domain.RunState) domain.ModelRun {
		r := domain.ModelRun{Kind: domain.ModelSeismicity}
		r.Status.State = state
		return r
	}
	cases := []struct {
		from, to domain.RunState
		blocked  bool
	}{
		{domain.RunStatePending, domain.RunStateDispatched, false},
		{domain.RunStatePending, domain.RunStateRunning, false},
		{domain.RunStateDispatched, domain.RunStateComplete, false},
		{domain.RunStateRunning, domain.RunStateError, false},
		{domain.RunStateError, domain.RunStatePending, false},
		{domain.RunStateComplete, domain.RunStateComplete, false},
		{domain.RunStatePending, domain.RunStateComplete, true},
		{domain.RunStateComplete, domain.RunStateRunning, true},
		{domain.RunStateError, domain.RunStateComplete, true},
	}
	for _, tc := range cases {
		res, err := rule.Evaluate(context.Background(), nil, []domain.Change{{
			Entity: domain.EntityModelRun,
			Action: domain.ActionUpdate,
			Before: runIn(tc.from),
			After:  runIn(tc.to),
		}})
		if err != nil {
			t.Fatalf("%s -> %s: %v", tc.from, tc.to, err)
		}
		if res.HasBlocking() != tc.blocked {
			t.Fatalf("%s -> %s: blocked=%v, want %v", tc.from, tc.to, res.HasBlocking(), tc.blocked)
		}
	}
}

func TestCatalogOrderRule(t *testing.T) {
	rule := CatalogOrderRule{}
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sorted := domain.SeismicCatalog{Events: []domain.SeismicEvent{
		eventAt(base, 1), eventAt(base.Add(time.Hour), 2),
	}}
	unsorted := domain.SeismicCatalog{Events: []domain.SeismicEvent{
		eventAt(base.Add(time.Hour), 2), eventAt(base, 1),
	}}

	res, err := rule.Evaluate(context.Background(), nil, []domain.Change{
		{Entity: domain.EntitySeismicCatalog, Action: domain.ActionCreate, After: sorted},
	})
	if err != nil || len(res.Violations) != 0 {
		t.Fatalf("sorted catalog flagged: %+v %v", res, err)
	}

	res, err = rule.Evaluate(context.Background(), nil, []domain.Change{
		{Entity: domain.EntitySeismicCatalog, Action: domain.ActionUpdate, After: unsorted},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 1 {
		t.Fatalf("expected one advisory violation, got %+v", res)
	}
	if res.Violations[0].Severity != domain.SeverityWarn {
		t.Fatalf("order violations must warn, not block")
	}
	if res.HasBlocking() {
		t.Fatalf("advisory must not block")
	}
}

func TestDefaultRulesEngineRegistersAllRules(t *testing.T) {
	engine := NewDefaultRulesEngine()
	// An unsorted catalog update passes with a warning attached.
	res, err := engine.Evaluate(context.Background(), nil, []domain.Change{
		{Entity: domain.EntitySeismicCatalog, Action: domain.ActionUpdate, After: domain.SeismicCatalog{Events: []domain.SeismicEvent{
			eventAt(testEpoch.EndTime, 2), eventAt(testEpoch.StartTime, 1),
		}}},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 1 || res.HasBlocking() {
		t.Fatalf("unexpected result %+v", res)
	}
}
