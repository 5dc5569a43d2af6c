package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Show LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		usage, err := st.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Printf("%-32s  %6s  %10s  %10s  %6s  %9s\n",
			"Model", "Calls", "Input", "Output", "Fail", "Cost")
		fmt.Println(strings.Repeat("─", 82))

		var totalCost float64
		var unknownModels []string
		for _, mu := range usage {
			cost := llm.LookupCost(mu.Model)
			costStr := "?"
			if cost != nil {
				c := cost.Cost(mu.InputTokens, mu.OutputTokens)
				totalCost += c
				costStr = formatCost(c)
			} else {
				unknownModels = append(unknownModels, mu.Model)
			}
			fmt.Printf("%-32s  %6d  %10d  %10d  %6d  %9s\n",
				truncateModel(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, mu.Failures, costStr)
		}

		fmt.Println(strings.Repeat("─", 82))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-32s  %6s  %10s  %10s  %6s  %9s\n", label, "", "", "", "", formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

func truncateModel(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
