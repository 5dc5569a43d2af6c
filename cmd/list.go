package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := filtersFromFlags(cmd)
		if err != nil {
			return err
		}
		dueOnly, _ := cmd.Flags().GetBool("due")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		questions, err := st.Questions(ctx, filters)
		if err != nil {
			return err
		}
		if dueOnly {
			questions, err = st.DueQuestions(ctx, filters, time.Now())
			if err != nil {
				return err
			}
		}

		if len(questions) == 0 {
			fmt.Println("No questions match.")
			return nil
		}

		fmt.Printf("%-28s  %-10s  %-7s  %s\n", "ID", "Language", "Diff", "Question")
		fmt.Println(strings.Repeat("─", 100))
		for _, q := range questions {
			text := q.Question
			if len(text) > 50 {
				text = text[:49] + "…"
			}
			fmt.Printf("%-28s  %-10s  %-7s  %s\n", q.ID, q.Language, q.Difficulty, text)
		}
		fmt.Printf("\n%d questions\n", len(questions))
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("language", "l", "", "Only cards for this language")
	listCmd.Flags().StringP("difficulty", "d", "", "Only cards of this difficulty (easy|medium|hard)")
	listCmd.Flags().StringArrayP("tag", "t", nil, "Only cards carrying this tag (repeatable)")
	listCmd.Flags().Bool("due", false, "Only cards due for review")
}
