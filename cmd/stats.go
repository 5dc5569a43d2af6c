package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/analytics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress at a glance",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		agg := analytics.NewAggregator(st)
		stats, err := agg.Stats(cmd.Context(), time.Now())
		if err != nil {
			return fmt.Errorf("compute stats: %w", err)
		}

		weekEvents, err := st.EvaluationsSince(cmd.Context(), time.Now().AddDate(0, 0, -7))
		if err != nil {
			return fmt.Errorf("load recent evaluations: %w", err)
		}

		fmt.Printf("Cards:      %d (%d seen, %d unseen)\n",
			stats.TotalQuestions, stats.TotalSeen, stats.Unseen)
		fmt.Printf("Due now:    %d\n", stats.DueNow)
		fmt.Printf("Attempts:   %d (%d this week)\n", stats.TotalAttempts, len(weekEvents))
		fmt.Printf("Mastered:   %d%%\n", stats.MasteryPercent)
		fmt.Printf("Streak:     %d days\n", stats.DaysStreak)
		if !stats.LastActivity.IsZero() {
			fmt.Printf("Last study: %s\n", stats.LastActivity.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}
