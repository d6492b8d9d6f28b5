package entitymodel

import "seismicore/docs/schema"

// Version returns the canonical entity-model schema version declared in the
// embedded fingerprint.
func Version() string {
	version, err := schema.EntityModelVersion()
	if err != nil {
		return ""
	}
	return version
}
