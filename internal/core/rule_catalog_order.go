package core

import (
	"context"
	"fmt"

	"seismicore/pkg/domain"
)

// CatalogOrderRule warns when a stored catalog's events are not in
// non-decreasing time order. A windowed merge can legitimately leave a
// catalog unsorted, so the rule advises rather than blocks.
type CatalogOrderRule struct{}

// Name identifies the rule.
func (CatalogOrderRule) Name() string { return "catalog_event_order" }

// Evaluate inspects every created or updated catalog.
func (r CatalogOrderRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var result domain.Result
	for _, change := range changes {
		if change.Entity != domain.EntitySeismicCatalog || change.Action == domain.ActionDelete {
			continue
		}
		catalog, ok := change.After.(domain.SeismicCatalog)
		if !ok {
			continue
		}
		idx, sorted := firstDisorder(catalog)
		if sorted {
			continue
		}
		result.Merge(domain.Result{Violations: []domain.Violation{{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("catalog events out of time order at index %d", idx),
			Entity:   domain.EntitySeismicCatalog,
			EntityID: catalog.ID,
		}}})
	}
	return result, nil
}

func firstDisorder(c domain.SeismicCatalog) (int, bool) {
	for i := 1; i < len(c.Events); i++ {
		if c.Events[i].SampleTime().Before(c.Events[i-1].SampleTime()) {
			return i, false
		}
	}
	return 0, true
}
