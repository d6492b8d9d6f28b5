package timeseries

import (
	"testing"

	"seismicore/testutil"
)

// The series component is generic plumbing; it must stay free of domain and
// internal dependencies so any sample type can use it.
func TestSeriesPackageStaysDependencyFree(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", func(path string) bool {
		return testutil.DomainImportForbidden(path) || testutil.InternalImportForbidden(path)
	}, "pkg/timeseries must not depend on the domain or internal packages")
}
