package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"seismicore/pkg/domain"
)

// Artifact key layout:
//
//	projects/<project-id>/catalogs/<catalog-id>.xml   serialized catalog snapshots
//	runs/<run-id>/oq-input/<file>                     hazard engine input bundles

// CatalogKey returns the artifact key for a serialized catalog snapshot.
func CatalogKey(projectID, catalogID string) string {
	return path.Join("projects", projectID, "catalogs", catalogID+".xml")
}

// OQInputKey returns the artifact key for one hazard engine input file of a
// model run.
func OQInputKey(runID, name string) string {
	return path.Join("runs", runID, "oq-input", name)
}

// OQInputPrefix returns the key prefix covering a run's hazard input bundle.
func OQInputPrefix(runID string) string {
	return path.Join("runs", runID, "oq-input") + "/"
}

// PutCatalog serializes the catalog to QuakeML and stores it under the
// project's catalog prefix.
func PutCatalog(ctx context.Context, store Store, projectID string, catalog *domain.SeismicCatalog) (Info, error) {
	if catalog == nil || catalog.ID == "" {
		return Info{}, fmt.Errorf("catalog with identity required")
	}
	key := CatalogKey(projectID, catalog.ID)
	opts := PutOptions{
		ContentType: "application/xml",
		Metadata:    map[string]string{"entity": string(domain.EntitySeismicCatalog)},
	}
	return store.Put(ctx, key, bytes.NewReader(catalog.DumpQuakeML()), opts)
}

// GetCatalogQuakeML retrieves the serialized QuakeML document of a stored
// catalog snapshot.
func GetCatalogQuakeML(ctx context.Context, store Store, projectID, catalogID string) ([]byte, error) {
	_, rc, err := store.Get(ctx, CatalogKey(projectID, catalogID))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// PutOQInputBundle stores a hazard engine input bundle for the run. Files map
// names to contents; each file becomes one artifact under the run's oq-input
// prefix.
func PutOQInputBundle(ctx context.Context, store Store, runID string, files map[string][]byte) ([]Info, error) {
	if runID == "" {
		return nil, fmt.Errorf("run id required")
	}
	infos := make([]Info, 0, len(files))
	for name, content := range files {
		info, err := store.Put(ctx, OQInputKey(runID, name), bytes.NewReader(content), PutOptions{
			Metadata: map[string]string{"entity": string(domain.EntityModelRun)},
		})
		if err != nil {
			return infos, fmt.Errorf("store %s: %w", name, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ListOQInput lists the hazard engine input artifacts of a run.
func ListOQInput(ctx context.Context, store Store, runID string) ([]Info, error) {
	return store.List(ctx, OQInputPrefix(runID))
}
