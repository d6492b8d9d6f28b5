package core

import "seismicore/pkg/domain"

// NewDefaultRulesEngine returns an engine loaded with the built-in domain
// rules: forecast interval validity, run state transition legality, and the
// catalog ordering advisory.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(ForecastEpochRule{})
	engine.Register(RunTransitionRule{})
	engine.Register(CatalogOrderRule{})
	return engine
}
