package cardgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated card; the first
	// failure stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response. Batches are
	// large, so this is well above a single-card budget.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxExistingQuestions caps how many catalog questions go into the
	// prompt for deduplication.
	MaxExistingQuestions int
}

// DefaultConfig returns a Config with the standard validator chain and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&UniquenessValidator{},
		},
		MaxTokens:            4096,
		Temperature:          0.7,
		MaxExistingQuestions: 40,
	}
}
