package fs

import (
	"context"
	"io"
	"strings"
	"testing"

	"seismicore/internal/blob/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestPutGetHeadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	payload := "<quakeml/>"
	info, err := store.Put(ctx, "projects/p1/catalogs/c1.xml", strings.NewReader(payload), core.PutOptions{
		ContentType: "application/xml",
		Metadata:    map[string]string{"entity": "seismic_catalog"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(payload)) {
		t.Fatalf("unexpected size %d", info.Size)
	}
	if info.ETag == "" {
		t.Fatalf("expected etag")
	}

	got, rc, err := store.Get(ctx, "projects/p1/catalogs/c1.xml")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != payload {
		t.Fatalf("content mismatch: %q", data)
	}
	if got.ContentType != "application/xml" || got.Metadata["entity"] != "seismic_catalog" {
		t.Fatalf("metadata mismatch: %+v", got)
	}

	head, err := store.Head(ctx, "projects/p1/catalogs/c1.xml")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.ETag != info.ETag {
		t.Fatalf("etag mismatch")
	}
}

func TestPutRejectsExistingKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if _, err := store.Put(ctx, "a/b", strings.NewReader("x"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "a/b", strings.NewReader("y"), core.PutOptions{}); err == nil {
		t.Fatalf("expected create-only semantics")
	}
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"", "  ", "../escape", "/absolute", "a/../../b"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("expected key %q to be rejected", key)
		}
	}
}

func TestDeleteAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"runs/r1/oq-input/job.ini", "runs/r1/oq-input/gmpe.xml", "runs/r2/oq-input/job.ini"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "runs/r1/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(infos))
	}
	if infos[0].Key != "runs/r1/oq-input/gmpe.xml" {
		t.Fatalf("expected ascending key order, got %q", infos[0].Key)
	}

	ok, err := store.Delete(ctx, "runs/r1/oq-input/job.ini")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	ok, err = store.Delete(ctx, "runs/r1/oq-input/job.ini")
	if err != nil || ok {
		t.Fatalf("second delete: ok=%v err=%v", ok, err)
	}
}

func TestPresignURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	url, err := store.PresignURL(ctx, "a/b", core.SignedURLOptions{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "local.blob") {
		t.Fatalf("unexpected url %q", url)
	}
	if _, err := store.PresignURL(ctx, "a/b", core.SignedURLOptions{Method: "PUT"}); err != core.ErrUnsupported {
		t.Fatalf("expected ErrUnsupported for PUT, got %v", err)
	}
}
