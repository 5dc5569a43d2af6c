package cardgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/prepdeck/internal/deck"
)

// UniquenessValidator rejects cards whose question text duplicates a
// card already in the catalog. Comparison is case- and
// whitespace-insensitive; ID collisions are handled separately by the
// generator, which renames instead of rejecting.
type UniquenessValidator struct{}

func (v *UniquenessValidator) Name() string { return "uniqueness" }

func (v *UniquenessValidator) Validate(q *deck.Question, input GenerateInput) *ValidationError {
	normalized := normalizeQuestion(q.Question)
	for _, existing := range input.ExistingQuestions {
		if normalizeQuestion(existing) == normalized {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question duplicates existing card: %q", existing),
				Retryable: true,
			}
		}
	}
	return nil
}

func normalizeQuestion(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
