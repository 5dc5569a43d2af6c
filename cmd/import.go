package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/deck"
)

var importCmd = &cobra.Command{
	Use:   "import <deck.json>...",
	Short: "Import deck files into the catalog",
	Long:  "Validates each deck file against the deck schema and upserts its questions into the catalog. Existing questions with the same ID are updated in place; review progress is kept.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		for _, path := range args {
			d, err := deck.LoadFile(path)
			if err != nil {
				return err
			}
			if err := st.ImportQuestions(cmd.Context(), d.Questions); err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			fmt.Printf("Imported %q: %d questions\n", d.Name, len(d.Questions))
		}

		count, err := st.CountQuestions(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Catalog now holds %d questions.\n", count)
		return nil
	},
}
