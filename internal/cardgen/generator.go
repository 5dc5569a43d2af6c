package cardgen

import (
	"context"

	"github.com/abhisek/prepdeck/internal/deck"
)

// Generator produces flashcards using an LLM provider.
type Generator interface {
	// Generate produces a batch of validated cards for the given input.
	// All configured validators run on every card before returning.
	Generate(ctx context.Context, input GenerateInput) ([]deck.Question, error)
}
