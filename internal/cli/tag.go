package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkedscience/crosswalk/internal/ner"
)

// tagCmd represents the tag command
var tagCmd = &cobra.Command{
	Use:   "tag <uri>",
	Short: "Tag a stored publication's sentences with scientific terms",
	Long: `Tag loads the stored summary sentences for a publication and runs the
configured term-tagging provider over them, printing the recognized
terms as JSON. Requires ner.provider to be configured.

Example:
  crosswalk tag https://pubs.er.usgs.gov/publication/sir20261234`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		tagger, err := ner.NewTagger(ner.Config{
			Provider: cfg.NER.Provider,
			Model:    cfg.NER.Model,
			APIKey:   cfg.NER.APIKey,
			BaseURL:  cfg.NER.BaseURL,
		})
		if err != nil {
			return err
		}
		if tagger == nil {
			return fmt.Errorf("tagging is disabled; set ner.provider in the configuration")
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		summary, sentences, err := st.Summary(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load summary: %w", err)
		}
		if summary == nil {
			return fmt.Errorf("no stored summary for %s (run 'crosswalk harvest pubs' first)", args[0])
		}
		if len(sentences) == 0 {
			return fmt.Errorf("summary for %s has no sentences", args[0])
		}

		terms, err := tagger.Tag(ctx, sentences)
		if err != nil {
			return fmt.Errorf("tag sentences: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(terms)
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
}
