// Package schema defines the JSON schemas used to validate structured
// assistant output before it is trusted by the runtime.
package schema

// ClassificationSchema describes the router's structured reply: a request is
// either a conversational question or a code generation/modification request.
func ClassificationSchema() map[string]any {
	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]any{
			"type": map[string]any{
				"type": "string",
				"enum": []any{"chat", "code"},
			},
			"confidence": map[string]any{
				"type":    "number",
				"minimum": 0,
				"maximum": 1,
			},
			"reasoning": map[string]any{
				"type": "string",
			},
		},
		"required":             []any{"type", "confidence", "reasoning"},
		"additionalProperties": false,
	}
}

// OperationsSchema describes the INCREMENTAL_OPERATIONS payload: an array of
// edit operations addressed by line bounds or by content match.
func OperationsSchema() map[string]any {
	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type": "string",
					"enum": []any{"replace", "insert", "delete", "append", "prepend"},
				},
				"target": map[string]any{
					"type": "string",
				},
				"old_content": map[string]any{
					"type": []any{"string", "null"},
				},
				"new_content": map[string]any{
					"type": "string",
				},
				"line_start": map[string]any{
					"type":    []any{"integer", "null"},
					"minimum": 1,
				},
				"line_end": map[string]any{
					"type":    []any{"integer", "null"},
					"minimum": 1,
				},
			},
			"required": []any{"operation", "new_content"},
		},
	}
}
