package cardgen

import "github.com/abhisek/prepdeck/internal/llm"

// CardBatchSchema defines the JSON schema for LLM card generation
// responses: a batch of flashcards.
var CardBatchSchema = &llm.Schema{
	Name:        "flashcard-batch",
	Description: "A batch of interview-prep flashcards with short answers and grading notes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"pattern":     "^[a-z0-9][a-z0-9._-]*$",
							"description": "Stable kebab-case identifier, e.g. \"go-channels-03\"",
						},
						"language": map[string]any{
							"type":        "string",
							"description": "The language or technology this card covers, lowercase",
						},
						"difficulty": map[string]any{
							"type":        "string",
							"enum":        []any{"easy", "medium", "hard"},
							"description": "Difficulty bucket for filtering",
						},
						"tags": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Topic tags, lowercase, e.g. [\"channels\", \"concurrency\"]",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The interview question, phrased as an interviewer would ask it",
						},
						"short_answer": map[string]any{
							"type":        "string",
							"description": "The model answer in 1-3 sentences",
						},
						"key_points": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Points a strong answer must hit, used for self-grading",
						},
						"red_flags": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Common wrong claims that signal a misunderstanding",
						},
					},
					"required":             []any{"id", "language", "difficulty", "tags", "question", "short_answer", "key_points", "red_flags"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}
