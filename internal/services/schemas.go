package services

// Strict json_schema payloads for the structured model calls.

func roadmapSchema() map[string]any {
	position := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "number"},
			"y": map[string]any{"type": "number"},
		},
		"required":             []string{"x", "y"},
		"additionalProperties": false,
	}
	node := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "string"},
			"label":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"status":      map[string]any{"type": "string", "enum": []string{"locked", "unlocked"}},
			"position":    position,
		},
		"required":             []string{"id", "label", "description", "status", "position"},
		"additionalProperties": false,
	}
	edge := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":       map[string]any{"type": "string"},
			"source":   map[string]any{"type": "string"},
			"target":   map[string]any{"type": "string"},
			"animated": map[string]any{"type": "boolean"},
		},
		"required":             []string{"id", "source", "target", "animated"},
		"additionalProperties": false,
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nodes": map[string]any{"type": "array", "items": node},
			"edges": map[string]any{"type": "array", "items": edge},
		},
		"required":             []string{"nodes", "edges"},
		"additionalProperties": false,
	}
}

func examSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"type":     map[string]any{"type": "string", "enum": []string{"code", "concept"}},
		},
		"required":             []string{"question", "type"},
		"additionalProperties": false,
	}
}

func gradeSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"passed":   map[string]any{"type": "boolean"},
			"feedback": map[string]any{"type": "string"},
		},
		"required":             []string{"passed", "feedback"},
		"additionalProperties": false,
	}
}
