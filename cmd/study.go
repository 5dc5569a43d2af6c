package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/app"
	"github.com/abhisek/prepdeck/internal/deck"
	"github.com/abhisek/prepdeck/internal/session"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Start a review session",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := sessionOptionsFromFlags(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		return app.RunStudy(st, opts)
	},
}

func init() {
	studyCmd.Flags().IntP("size", "s", session.DefaultSize, "Session size (1-50)")
	studyCmd.Flags().StringP("language", "l", "", "Only cards for this language")
	studyCmd.Flags().StringP("difficulty", "d", "", "Only cards of this difficulty (easy|medium|hard)")
	studyCmd.Flags().StringArrayP("tag", "t", nil, "Only cards carrying this tag (repeatable)")
	studyCmd.Flags().Bool("no-new", false, "Skip never-seen cards")
	studyCmd.Flags().Bool("extra", false, "Backfill with not-yet-due cards")
	studyCmd.Flags().Uint32("seed", 0, "Fixed shuffle seed (default: derived from today)")
}

// sessionOptionsFromFlags builds session options from the study flags.
func sessionOptionsFromFlags(cmd *cobra.Command) (session.Options, error) {
	opts := session.DefaultOptions()

	opts.Size, _ = cmd.Flags().GetInt("size")

	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return opts, err
	}
	opts.Filters = filters

	noNew, _ := cmd.Flags().GetBool("no-new")
	opts.IncludeNew = !noNew
	opts.AllowExtra, _ = cmd.Flags().GetBool("extra")

	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint32("seed")
		opts.Seed = &seed
	}

	return opts, nil
}

// filtersFromFlags reads the shared filter flags.
func filtersFromFlags(cmd *cobra.Command) (deck.Filters, error) {
	var filters deck.Filters

	filters.Language, _ = cmd.Flags().GetString("language")
	filters.Tags, _ = cmd.Flags().GetStringArray("tag")

	if d, _ := cmd.Flags().GetString("difficulty"); d != "" {
		if !deck.ValidDifficulty(d) {
			return filters, fmt.Errorf("invalid difficulty %q (want easy, medium, or hard)", d)
		}
		filters.Difficulty = deck.Difficulty(d)
	}

	return filters, nil
}
