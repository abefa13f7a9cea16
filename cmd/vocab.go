package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stylefacet/tagger/internal/vocab"
)

func newVocabCmd(vocabPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Controlled vocabulary tools",
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Validate a vocabulary definition",
		Long: `Parses the vocabulary (--vocab, or the built-in one) and enforces its
structural invariants: required facets present, terms unique within each
level, every child term under exactly one parent, and no term recurring
at two levels of the same tree. Prints a per-facet term count on success.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadVocabulary(*vocabPath)
			if err != nil {
				return err
			}

			for _, facet := range []string{
				vocab.FacetItemType, vocab.FacetStyle, vocab.FacetGender,
				vocab.FacetColour, vocab.FacetMaterial, vocab.FacetPattern,
				vocab.FacetBrand, vocab.FacetSize,
			} {
				hierarchical, exists := v.IsHierarchical(facet)
				if !exists {
					continue
				}
				if hierarchical {
					for level := 1; level <= vocab.MaxDepth; level++ {
						terms, err := v.Terms(facet, level)
						if err != nil {
							return err
						}
						fmt.Printf("%-10s level %d: %d terms\n", facet, level, len(terms))
					}
					continue
				}
				terms, err := v.Terms(facet, 0)
				if err != nil {
					return err
				}
				fmt.Printf("%-10s %d terms\n", facet, len(terms))
			}
			fmt.Println("Vocabulary OK")
			return nil
		},
	}

	cmd.AddCommand(check)
	return cmd
}
