package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/stylefacet/tagger/internal/copywriter"
	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/vision"
)

func newTagCmd(vocabPath *string) *cobra.Command {
	var (
		provider  string
		model     string
		productID string
		gender    string
		brand     string
		size      string
	)

	cmd := &cobra.Command{
		Use:   "tag <image>",
		Short: "Tag a single product image",
		Long: `Runs vision extraction on one product image, validates every
attribute against the controlled vocabulary, and prints the assembled
record as JSON.

Gender, brand and size come from catalog data rather than the image;
supply them with flags to override whatever the model reports.`,
		Example: `  # Tag with the default provider (gemini)
  tagger tag product.jpg

  # Tag with ollama and catalog-supplied overrides
  tagger tag product.jpg --provider ollama --gender Men --brand Acme`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadVocabulary(*vocabPath)
			if err != nil {
				return err
			}
			assembler := metadata.NewAssembler(v)
			visionService := vision.NewService()

			attrs, err := visionService.ExtractFromFile(cmd.Context(), args[0], provider, model)
			if err != nil {
				slog.Warn("Vision analysis unavailable", "image", args[0], "err", err)
				attrs = vision.Unavailable()
			}

			if productID == "" {
				productID = args[0]
			}
			record, err := assembler.Assemble(productID, attrs, metadata.Overrides{
				Gender: gender,
				Brand:  brand,
				Size:   size,
			})
			if err != nil {
				return fmt.Errorf("failed to assemble record: %w", err)
			}
			record.Copy = copywriter.Generate(record)

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(record)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Vision provider: gemini, openai or ollama (default from TAGGER_PROVIDER)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default per provider)")
	cmd.Flags().StringVar(&productID, "product-id", "", "Product identifier (defaults to the image path)")
	cmd.Flags().StringVar(&gender, "gender", "", "Catalog-supplied gender override")
	cmd.Flags().StringVar(&brand, "brand", "", "Catalog-supplied brand override")
	cmd.Flags().StringVar(&size, "size", "", "Catalog-supplied size override")

	return cmd
}
