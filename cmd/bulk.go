package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/stylefacet/tagger/internal/bulk"
	"github.com/stylefacet/tagger/internal/export"
	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/vision"
)

func newBulkCmd(vocabPath *string) *cobra.Command {
	var (
		provider    string
		model       string
		imagesDir   string
		limit       int
		concurrency int
		format      string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "bulk <dataset>",
		Short: "Tag a product dataset (CSV or Parquet)",
		Long: `Processes every product in a dataset file through the vision and
validation pipeline, then exports the assembled records.

The dataset needs a product_id column plus an image column naming each
product's image file; gender, brand and size columns are applied as
catalog overrides when present. Products whose image is missing or whose
vision call fails are still assembled, fully flagged for review.`,
		Example: `  # Process a full CSV dataset
  tagger bulk products.csv --images-dir ./images

  # Sample 50 rows from a Parquet dataset, export JSON
  tagger bulk products.parquet --limit 50 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadVocabulary(*vocabPath)
			if err != nil {
				return err
			}

			rows, err := bulk.NewLoader(args[0]).LoadSample(limit)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			if len(rows) == 0 {
				return fmt.Errorf("dataset %s contained no rows", args[0])
			}

			processor := bulk.NewProcessor(metadata.NewAssembler(v), vision.NewService(), provider, model, imagesDir)
			results := processor.Run(cmd.Context(), rows, concurrency)

			var records []*metadata.Record
			failed := 0
			for _, result := range results {
				if result.Error != "" {
					slog.Error("Product failed", "id", result.Row.ProductID, "err", result.Error)
					failed++
					continue
				}
				records = append(records, result.Record)
			}

			path, err := export.Save(records, outputDir, format)
			if err != nil {
				return err
			}

			slog.Info("Bulk run complete", "processed", len(records), "failed", failed, "output", path)
			fmt.Printf("Exported %d records to %s\n", len(records), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Vision provider: gemini, openai or ollama (default from TAGGER_PROVIDER)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default per provider)")
	cmd.Flags().StringVar(&imagesDir, "images-dir", "", "Directory holding the dataset's image files")
	cmd.Flags().IntVar(&limit, "limit", -1, "Process at most this many rows (-1 for all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Maximum vision calls in flight")
	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or json")
	cmd.Flags().StringVar(&outputDir, "output-dir", "exports", "Directory for export files")

	return cmd
}
