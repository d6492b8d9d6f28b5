package sqlbundle

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	stmts := SplitStatements(SQLite())
	if len(stmts) == 0 {
		t.Fatal("expected sqlite DDL to produce statements")
	}
	for _, stmt := range stmts {
		if strings.HasPrefix(strings.TrimSpace(stmt), "--") {
			t.Fatalf("statement unexpectedly starts with comment: %q", stmt)
		}
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			t.Fatalf("statement missing semicolon terminator: %q", stmt)
		}
	}
}

func TestBundlesCoverEntityTables(t *testing.T) {
	tables := []string{
		"project",
		"forecast",
		"forecast_scenario",
		"forecast_stage",
		"model",
		"model_run",
		"seismic_catalog",
		"injection_well",
		"hydraulics",
		"injection_plan",
		"reservoir_prediction",
		"hazard_result",
	}
	for _, dialect := range []struct {
		name string
		ddl  string
	}{
		{"sqlite", SQLite()},
		{"postgres", Postgres()},
	} {
		for _, table := range tables {
			if !strings.Contains(dialect.ddl, "CREATE TABLE IF NOT EXISTS "+table+" (") {
				t.Fatalf("%s DDL missing table %s", dialect.name, table)
			}
		}
	}
}

func TestStageKindUniqueConstraint(t *testing.T) {
	for _, ddl := range []string{SQLite(), Postgres()} {
		if !strings.Contains(ddl, "UNIQUE (scenario_id, kind)") {
			t.Fatal("expected one stage per kind per scenario constraint")
		}
	}
}
