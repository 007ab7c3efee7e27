package api

// Response schemas describe the shape of the fields the dashboard reads.
// Fields are optional: a field that is present must have the right shape,
// a missing field is handled by the caller.
var responseSchemas = map[Endpoint]map[string]any{
	EndpointPredict: {
		"type": "object",
		"properties": map[string]any{
			"proficiency_level": map[string]any{},
			"roadmap":           map[string]any{},
		},
	},
	EndpointGenerate: {
		"type": "object",
	},
	EndpointRecommend: {
		"type": "object",
		"properties": map[string]any{
			"recommended_content": map[string]any{
				"type": []any{"array", "null"},
				"items": map[string]any{
					"type":     "array",
					"minItems": 2,
					"prefixItems": []any{
						map[string]any{"type": "number"},
						map[string]any{},
					},
				},
			},
		},
	},
	EndpointTrack: {
		"type": "object",
		"properties": map[string]any{
			"anomalies": map[string]any{
				"type":  []any{"array", "null"},
				"items": map[string]any{"type": "integer"},
			},
		},
	},
	EndpointPredictions: {
		"type": "object",
		"properties": map[string]any{
			"predictions": map[string]any{
				"type":  []any{"array", "null"},
				"items": map[string]any{"type": "object"},
			},
		},
	},
}
