package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkedscience/crosswalk/internal/extract"
	"github.com/linkedscience/crosswalk/internal/model"
)

var saveExtracted bool

// extractors maps a source name to its claim extractor. Used by the offline
// extract command, which reads already-fetched documents from disk.
var extractors = map[string]func(map[string]any) ([]model.Claim, error){
	"directory": extract.DirectoryPerson,
	"orcid":     extract.ORCIDDocument,
	"doi":       extract.DOIRecord,
	"pubs":      extract.PublicationRecord,
	"inventory": extract.ProfileInventory,
	"profile":   extract.ProfilePage,
}

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <source> <file>",
	Short: "Extract claims from a saved source document",
	Long: `Extract normalizes one or more already-fetched source documents into
claims without touching the network. The file holds either a single
JSON object or an array of objects in the source's native format.

Sources: directory, orcid, doi, pubs, inventory, profile

Example:
  crosswalk extract directory person.json
  crosswalk extract pubs records.json --save`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		extractor, ok := extractors[args[0]]
		if !ok {
			return fmt.Errorf("unknown source %q (want directory, orcid, doi, pubs, inventory, or profile)", args[0])
		}

		raw, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		docs, err := decodeDocuments(raw)
		if err != nil {
			return fmt.Errorf("decode input: %w", err)
		}

		var claims []model.Claim
		for _, doc := range docs {
			extracted, err := extractor(doc)
			if err != nil {
				if verbose {
					fmt.Fprintf(os.Stderr, "skip document: %v\n", err)
				}
				continue
			}
			claims = append(claims, extracted...)
		}

		if saveExtracted {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			saved, err := st.SaveClaims(ctx, claims)
			if err != nil {
				return fmt.Errorf("save claims: %w", err)
			}
			fmt.Fprintf(os.Stderr, "%d claims extracted, %d new\n", len(claims), saved)
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(claims)
	},
}

// decodeDocuments accepts either one JSON object or an array of objects.
func decodeDocuments(raw []byte) ([]map[string]any, error) {
	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err == nil {
		return docs, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return []map[string]any{doc}, nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&saveExtracted, "save", false, "save claims to the store instead of printing them")
}
