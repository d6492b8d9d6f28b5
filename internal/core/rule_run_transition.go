package core

import (
	"context"
	"fmt"

	"seismicore/pkg/domain"
)

// legalTransitions maps each run state to its permitted successors. Any
// state may return to PENDING; that is how reset works.
var legalTransitions = map[domain.RunState][]domain.RunState{
	domain.RunStatePending:    {domain.RunStateDispatched, domain.RunStateRunning},
	domain.RunStateDispatched: {domain.RunStateRunning, domain.RunStateComplete, domain.RunStateError},
	domain.RunStateRunning:    {domain.RunStateComplete, domain.RunStateError},
	domain.RunStateComplete:   {},
	domain.RunStateError:      {},
}

// RunTransitionRule blocks illegal run status transitions.
type RunTransitionRule struct{}

// Name identifies the rule.
func (RunTransitionRule) Name() string { return "run_state_transition" }

// Evaluate checks every updated model run against the transition table.
func (r RunTransitionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var result domain.Result
	for _, change := range changes {
		if change.Entity != domain.EntityModelRun || change.Action != domain.ActionUpdate {
			continue
		}
		before, okBefore := change.Before.(domain.ModelRun)
		after, okAfter := change.After.(domain.ModelRun)
		if !okBefore || !okAfter {
			continue
		}
		if transitionAllowed(before.Status.State, after.Status.State) {
			continue
		}
		result.Merge(domain.Result{Violations: []domain.Violation{{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("run state %s cannot move to %s", before.Status.State, after.Status.State),
			Entity:   domain.EntityModelRun,
			EntityID: after.ID,
		}}})
	}
	return result, nil
}

func transitionAllowed(from, to domain.RunState) bool {
	if from == to || to == domain.RunStatePending {
		return true
	}
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
