package deck

// deckSchema is the JSON Schema every imported deck file must satisfy.
// Validation happens before any row touches the database, so a bad file
// can never half-import.
var deckSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "Human-readable deck name",
		},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":      "string",
						"minLength": 1,
						"pattern":   "^[a-z0-9][a-z0-9._-]*$",
					},
					"language": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"difficulty": map[string]any{
						"type": "string",
						"enum": []any{"easy", "medium", "hard"},
					},
					"tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string", "minLength": 1},
					},
					"question": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"short_answer": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"key_points": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string", "minLength": 1},
					},
					"red_flags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string", "minLength": 1},
					},
				},
				"required":             []any{"id", "language", "difficulty", "question", "short_answer"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"name", "questions"},
	"additionalProperties": false,
}
