package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"seismicore/internal/infra/persistence/postgres/testutil"
	"seismicore/pkg/domain"
)

func TestNewStoreAppliesDDLAndPersists(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	sawEntityDDL := false
	sawStateDDL := false
	for _, exec := range conn.Execs {
		if strings.Contains(exec, "CREATE TABLE IF NOT EXISTS model_run") {
			sawEntityDDL = true
		}
		if strings.Contains(exec, "CREATE TABLE IF NOT EXISTS state") {
			sawStateDDL = true
		}
	}
	if !sawEntityDDL {
		t.Fatalf("expected entity-model DDL to be applied")
	}
	if !sawStateDDL {
		t.Fatalf("expected state table DDL to be applied")
	}

	ctx := context.Background()
	var projectID string
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		project, err := tx.CreateProject(domain.Project{Name: "basel"})
		projectID = project.ID
		return err
	}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if n := len(conn.Tables["state"]); n != len(postgresBuckets) {
		t.Fatalf("expected %d state buckets, got %d", len(postgresBuckets), n)
	}

	// A second store opened against the same database hydrates the snapshot.
	reopened, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	if _, ok := reopened.GetProject(projectID); !ok {
		t.Fatalf("expected project to hydrate from snapshot")
	}
}

func TestNewStorePingFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore("", nil); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestNewStoreDDLFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailExec = true
	conn.FailPing = false
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore("", nil); err == nil {
		t.Fatalf("expected ddl failure")
	}
}

func TestPersistFailureSurfaces(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	store, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	conn.FailBegin = true
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateProject(domain.Project{Name: "p"})
		return err
	}); err == nil {
		t.Fatalf("expected persist failure")
	}
}

func TestPersistCommitFailureSurfaces(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	store, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	conn.FailCommit = true
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateProject(domain.Project{Name: "p"})
		return err
	}); err == nil {
		t.Fatalf("expected commit failure")
	}
}

func TestLoadSnapshotDecodeError(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	conn.Tables["state"] = []map[string]any{
		{"bucket": "projects", "payload": []byte("not json")},
	}
	if _, err := NewStore("", nil); err == nil {
		t.Fatalf("expected decode failure")
	}
}
