// Package api builds the huma API shared by the server and handler tests.
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
)

// DocsPath is where the interactive API documentation is served.
const DocsPath = "/api-docs"

// Config returns the huma configuration for the service. The default schema
// link hook is removed so response bodies carry only their declared fields
// (no $schema property, no describedBy Link header).
func Config(title, version string) huma.Config {
	cfg := huma.DefaultConfig(title, version)
	cfg.DocsPath = DocsPath
	cfg.CreateHooks = nil
	return cfg
}

// New mounts a huma API on router and advertises CBOR alongside JSON for
// every operation in the OpenAPI document.
func New(router chi.Router, title, version string) huma.API {
	api := humachi.New(router, Config(title, version))
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)
	return api
}

func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if content, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = content
		}
	}
	for _, resp := range op.Responses {
		if resp == nil || resp.Content == nil {
			continue
		}
		if content, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = content
		}
	}
}
