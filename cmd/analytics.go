package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/analytics"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show the full outcome breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		topN, _ := cmd.Flags().GetInt("top")
		days, _ := cmd.Flags().GetInt("days")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		agg := analytics.NewAggregator(st)
		report, err := agg.Analytics(cmd.Context(), analytics.Options{
			TopN:      topN,
			TrendDays: days,
		}, time.Now())
		if err != nil {
			return fmt.Errorf("compute analytics: %w", err)
		}

		printOutcomes("Overall", report.Overall)

		if len(report.ByLanguage) > 0 {
			fmt.Println("\nBy language")
			fmt.Println(strings.Repeat("─", 56))
			for _, name := range sortedKeys(report.ByLanguage) {
				printBucketRow(name, report.ByLanguage[name])
			}
		}

		if len(report.ByDifficulty) > 0 {
			fmt.Println("\nBy difficulty")
			fmt.Println(strings.Repeat("─", 56))
			for diff, o := range report.ByDifficulty {
				printBucketRow(string(diff), o)
			}
		}

		if len(report.WeakTags) > 0 {
			fmt.Println("\nWeak tags")
			fmt.Println(strings.Repeat("─", 56))
			for _, ts := range report.WeakTags {
				fmt.Printf("%-24s  %3.0f%% missed  %4d attempts\n",
					ts.Tag, ts.BadRate*100, ts.Attempts)
			}
		}

		if len(report.MostMissed) > 0 {
			fmt.Println("\nMost missed")
			fmt.Println(strings.Repeat("─", 56))
			for _, qs := range report.MostMissed {
				q := qs.Question
				if len(q) > 48 {
					q = q[:47] + "…"
				}
				fmt.Printf("%2d✗  %s\n", qs.Bad, q)
			}
		}

		if len(report.Trend) > 0 {
			fmt.Printf("\nLast %d days\n", len(report.Trend))
			fmt.Println(strings.Repeat("─", 56))
			for _, d := range report.Trend {
				fmt.Printf("%s  %s %d\n", d.Day, strings.Repeat("█", d.Attempts), d.Attempts)
			}
		}

		return nil
	},
}

func init() {
	analyticsCmd.Flags().Int("top", analytics.DefaultTopN, "Entries in the weakness rankings")
	analyticsCmd.Flags().Int("days", analytics.DefaultTrendDays, "Days in the activity trend")
}

func printOutcomes(label string, o analytics.Outcomes) {
	fmt.Printf("%s: %d attempts", label, o.Attempts)
	if o.Attempts > 0 {
		fmt.Printf(" — %d good (%.0f%%), %d kind of, %d bad (%.0f%%)",
			o.Good, o.GoodRate*100, o.KindOf, o.Bad, o.BadRate*100)
	}
	fmt.Println()
}

func printBucketRow(name string, o analytics.Outcomes) {
	fmt.Printf("%-12s  %4d attempts  %3.0f%% good  %3.0f%% bad\n",
		name, o.Attempts, o.GoodRate*100, o.BadRate*100)
}

func sortedKeys(m map[string]analytics.Outcomes) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
