package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/stylefacet/tagger/internal/vocab"
)

func NewRootCmd() *cobra.Command {
	var vocabPath string

	cmd := &cobra.Command{
		Use:   "tagger",
		Short: "Fashion product tagging with LLM vision and a controlled vocabulary",
		Long: `Tagger extracts faceted metadata from fashion product images using
vision-capable LLMs, validates every attribute against a controlled
vocabulary, and scores each field for review prioritization.

It supports single-image tagging, bulk dataset processing, a web review
interface, and accuracy evaluation against gold-standard metadata.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&vocabPath, "vocab", "", "Path to a YAML vocabulary definition (defaults to the built-in vocabulary)")

	// Add subcommands
	cmd.AddCommand(newServeCmd(&vocabPath))
	cmd.AddCommand(newTagCmd(&vocabPath))
	cmd.AddCommand(newBulkCmd(&vocabPath))
	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newVocabCmd(&vocabPath))

	return cmd
}

// loadVocabulary resolves the --vocab flag to a parsed vocabulary.
func loadVocabulary(path string) (*vocab.Vocabulary, error) {
	if path == "" {
		return vocab.Default(), nil
	}
	v, err := vocab.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary %s: %w", path, err)
	}
	return v, nil
}
