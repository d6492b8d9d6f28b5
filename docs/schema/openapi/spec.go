// Package openapi embeds the entity-model OpenAPI components for runtime
// distribution.
package openapi

import _ "embed"

// EntityModelSpec contains the OpenAPI components for the entity model.
//
//go:embed entity-model.yaml
var EntityModelSpec []byte

// Spec returns a defensive copy of the embedded entity-model OpenAPI YAML.
func Spec() []byte {
	return append([]byte(nil), EntityModelSpec...)
}
