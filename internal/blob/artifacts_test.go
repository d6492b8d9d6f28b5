package blob

import (
	"context"
	"strings"
	"testing"

	"seismicore/pkg/domain"
)

func TestCatalogArtifactRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	catalog := &domain.SeismicCatalog{
		Base: domain.Base{ID: "cat-1"},
		Events: []domain.SeismicEvent{
			{QuakeML: []byte("<event>a</event>")},
			{QuakeML: []byte("<event>b</event>")},
		},
	}
	info, err := PutCatalog(ctx, store, "proj-1", catalog)
	if err != nil {
		t.Fatalf("put catalog: %v", err)
	}
	if info.Key != "projects/proj-1/catalogs/cat-1.xml" {
		t.Fatalf("unexpected key %q", info.Key)
	}
	if info.ContentType != "application/xml" {
		t.Fatalf("unexpected content type %q", info.ContentType)
	}

	doc, err := GetCatalogQuakeML(ctx, store, "proj-1", "cat-1")
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if !strings.HasPrefix(string(doc), "<?xml") {
		t.Fatalf("expected QuakeML document, got %q", doc[:20])
	}
	if !strings.Contains(string(doc), "<event>a</event><event>b</event>") {
		t.Fatalf("expected events in document order")
	}
}

func TestPutCatalogRequiresIdentity(t *testing.T) {
	store := NewMemory()
	if _, err := PutCatalog(context.Background(), store, "proj-1", &domain.SeismicCatalog{}); err == nil {
		t.Fatalf("expected error for catalog without identity")
	}
	if _, err := PutCatalog(context.Background(), store, "proj-1", nil); err == nil {
		t.Fatalf("expected error for nil catalog")
	}
}

func TestOQInputBundle(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	files := map[string][]byte{
		"job.ini":        []byte("[general]\n"),
		"logic_tree.xml": []byte("<logicTree/>"),
		"gmpe.xml":       []byte("<gmpe/>"),
	}
	infos, err := PutOQInputBundle(ctx, store, "run-1", files)
	if err != nil {
		t.Fatalf("put bundle: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 artifacts, got %d", len(infos))
	}

	listed, err := ListOQInput(ctx, store, "run-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 listed artifacts, got %d", len(listed))
	}
	if listed[0].Key != "runs/run-1/oq-input/gmpe.xml" {
		t.Fatalf("expected key-ordered listing, got %q first", listed[0].Key)
	}

	// A second run's bundle does not leak into the first run's prefix.
	if _, err := PutOQInputBundle(ctx, store, "run-2", map[string][]byte{"job.ini": []byte("x")}); err != nil {
		t.Fatalf("put second bundle: %v", err)
	}
	listed, err = ListOQInput(ctx, store, "run-1")
	if err != nil {
		t.Fatalf("relist: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 artifacts after second bundle, got %d", len(listed))
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Setenv("SEISMICORE_BLOB_DRIVER", "memory")
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("expected memory driver, got %s", store.Driver())
	}

	t.Setenv("SEISMICORE_BLOB_DRIVER", "fs")
	t.Setenv("SEISMICORE_BLOB_FS_ROOT", t.TempDir())
	store, err = Open(context.Background())
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if store.Driver() != DriverFilesystem {
		t.Fatalf("expected fs driver, got %s", store.Driver())
	}

	t.Setenv("SEISMICORE_BLOB_DRIVER", "bogus")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
