package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache caches compiled response schemas by endpoint.
var schemaCache sync.Map // map[Endpoint]*jsonschema.Schema

// validateResponse checks raw against the endpoint's response schema.
// Returns *InvalidResponseError on failure, nil for endpoints without a schema.
func validateResponse(ep Endpoint, raw []byte) error {
	def, ok := responseSchemas[ep]
	if !ok {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &InvalidResponseError{Endpoint: ep, Body: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(ep, def)
	if err != nil {
		return &InvalidResponseError{Endpoint: ep, Body: raw, Err: fmt.Errorf("compile schema: %w", err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &InvalidResponseError{Endpoint: ep, Body: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

func compiledSchema(ep Endpoint, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(ep); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a plain decoded JSON value, not Go maps with typed slices.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://learntrack/%s.json", ep.Name())
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(ep, compiled)
	return compiled, nil
}
