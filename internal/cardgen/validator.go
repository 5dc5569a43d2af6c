package cardgen

import (
	"fmt"

	"github.com/abhisek/prepdeck/internal/deck"
)

// Validator checks a generated card for correctness. Implementations
// should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for error messages, e.g.
	// "structural", "uniqueness".
	Name() string

	// Validate checks the card and returns nil if it passes. The full
	// GenerateInput is available for context.
	Validate(q *deck.Question, input GenerateInput) *ValidationError
}

// ValidationError describes why a card failed validation.
type ValidationError struct {
	Validator string // name of the validator that failed
	Message   string // human-readable description
	Retryable bool   // whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
