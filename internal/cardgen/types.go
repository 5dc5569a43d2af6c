// Package cardgen generates flashcards with an LLM and validates them
// before they are offered for import into the catalog.
package cardgen

import "github.com/abhisek/prepdeck/internal/deck"

// GenerateInput holds all context needed to generate a batch of cards.
type GenerateInput struct {
	// Language is the target language or technology, e.g. "go", "sql".
	Language string

	// Difficulty is the requested difficulty for the batch.
	Difficulty deck.Difficulty

	// Topics steers generation toward specific areas. Generated cards
	// carry these as tags. Empty means the LLM picks core topics.
	Topics []string

	// Count is how many cards to generate. Clamped to [1, 20].
	Count int

	// ExistingQuestions contains the question text of cards already in
	// the catalog for this language. Used for deduplication in the prompt.
	ExistingQuestions []string

	// ExistingIDs contains every card ID already in the catalog, so new
	// IDs can be made unique.
	ExistingIDs []string
}

// maxBatchSize caps a single generation request.
const maxBatchSize = 20

func clampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxBatchSize {
		return maxBatchSize
	}
	return n
}
