// Package entitymodel exposes runtime helpers for serving the embedded
// entity-model schema artifacts.
package entitymodel

import (
	"net/http"

	entitymodelopenapi "seismicore/docs/schema/openapi"
)

// OpenAPISpec returns a defensive copy of the embedded entity-model OpenAPI
// components so callers can safely modify the slice.
func OpenAPISpec() []byte {
	return entitymodelopenapi.Spec()
}

// NewOpenAPIHandler returns an http.Handler serving the embedded entity-model
// OpenAPI YAML with a static content-type, intended for admin and debug
// endpoints.
func NewOpenAPIHandler() http.Handler {
	spec := OpenAPISpec()
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(spec)
	})
}
