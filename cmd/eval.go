package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stylefacet/tagger/internal/evaluation"
)

func newEvalCmd() *cobra.Command {
	var (
		goldPath  string
		genPath   string
		provider  string
		model     string
		jsonPath  string
		saveYAML  bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Measure generated metadata against a gold standard",
		Long: `Compares an AI-generated metadata CSV against a manually verified
gold-standard CSV, matched by product ID.

Fields are compared with normalized case-insensitive equality; a field
missing from either side of a pair is excluded from that field's
denominator. Product IDs present in only one file are reported as a
coverage gap, not counted as incorrect.`,
		Example: `  # Evaluate a bulk export against the gold set
  tagger eval --gold gold.csv --generated exports/faceted_metadata_20260828_120000.csv

  # Persist the report to evals/
  tagger eval --gold gold.csv --generated run.csv --model gemini-1.5-flash --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gold, err := evaluation.LoadCSV(goldPath)
			if err != nil {
				return fmt.Errorf("failed to load gold standard: %w", err)
			}
			generated, err := evaluation.LoadCSV(genPath)
			if err != nil {
				return fmt.Errorf("failed to load generated metadata: %w", err)
			}

			report := evaluation.Evaluate(gold, generated)
			report.Provider = provider
			report.Model = model
			report.PrintSummary()

			if saveYAML {
				path, err := report.SaveYAML()
				if err != nil {
					return err
				}
				fmt.Printf("\nEvaluation results saved to: %s\n", path)
			}
			if jsonPath != "" {
				if err := report.SaveJSON(jsonPath); err != nil {
					return err
				}
				fmt.Printf("JSON report saved to: %s\n", jsonPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&goldPath, "gold", "", "Gold-standard metadata CSV (required)")
	cmd.Flags().StringVar(&genPath, "generated", "", "Generated metadata CSV (required)")
	cmd.Flags().StringVar(&provider, "provider", "", "Provider label recorded in the report")
	cmd.Flags().StringVar(&model, "model", "", "Model label recorded in the report")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Also write the report as JSON to this path")
	cmd.Flags().BoolVar(&saveYAML, "save", false, "Save the report as YAML under evals/")
	_ = cmd.MarkFlagRequired("gold")
	_ = cmd.MarkFlagRequired("generated")

	return cmd
}
