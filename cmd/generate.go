package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/cardgen"
	"github.com/abhisek/prepdeck/internal/deck"
	"github.com/abhisek/prepdeck/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new flashcards with an LLM",
	Long:  "Generates a batch of flashcards for a language and topic set, validates them, and imports them into the catalog. Requires an API key for one of the supported providers (PREPDECK_* or standard env vars).",
	RunE: func(cmd *cobra.Command, args []string) error {
		language, _ := cmd.Flags().GetString("language")
		topics, _ := cmd.Flags().GetStringArray("topic")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if language == "" {
			return fmt.Errorf("--language is required")
		}
		if difficulty != "" && !deck.ValidDifficulty(difficulty) {
			return fmt.Errorf("invalid difficulty %q (want easy, medium, or hard)", difficulty)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()

		// Existing catalog feeds ID collision handling and dedup.
		existing, err := st.Questions(ctx, deck.Filters{})
		if err != nil {
			return err
		}
		input := cardgen.GenerateInput{
			Language:   language,
			Difficulty: deck.Difficulty(difficulty),
			Topics:     topics,
			Count:      count,
		}
		for _, q := range existing {
			input.ExistingIDs = append(input.ExistingIDs, q.ID)
			input.ExistingQuestions = append(input.ExistingQuestions, q.Question)
		}

		if dryRun {
			// Preview the prompt without opening a provider connection.
			gen := cardgen.New(nil, cardgen.DefaultConfig())
			fmt.Println(llm.FormatRequest(gen.BuildRequest(input)))
			return nil
		}

		cfg := llm.ConfigFromEnv()
		if cfgErr := cfg.Validate(); cfgErr != nil {
			discovered, ok := llm.DiscoverConfig()
			if !ok {
				return fmt.Errorf("LLM not configured: %w", cfgErr)
			}
			cfg = discovered
		}

		provider, err := llm.NewProvider(ctx, cfg, st)
		if err != nil {
			return fmt.Errorf("create LLM provider: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Generating %d %s cards with %s...\n",
			count, language, provider.ModelID())

		gen := cardgen.New(provider, cardgen.DefaultConfig())
		cards, err := gen.Generate(ctx, input)
		if err != nil {
			return fmt.Errorf("generate cards: %w", err)
		}

		if err := st.ImportQuestions(ctx, cards); err != nil {
			return fmt.Errorf("import generated cards: %w", err)
		}

		for _, c := range cards {
			fmt.Printf("  %s  %s\n", c.ID, c.Question)
		}
		fmt.Printf("Added %d cards.\n", len(cards))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("language", "l", "", "Language the cards cover (required)")
	generateCmd.Flags().StringArrayP("topic", "t", nil, "Topic to cover; becomes a tag (repeatable)")
	generateCmd.Flags().StringP("difficulty", "d", "", "Target difficulty (easy|medium|hard)")
	generateCmd.Flags().IntP("count", "n", 5, "Number of cards to generate (max 20)")
	generateCmd.Flags().Bool("dry-run", false, "Print the prompt that would be sent and exit")
}
