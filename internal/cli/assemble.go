package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkedscience/crosswalk/internal/assemble"
	"github.com/linkedscience/crosswalk/internal/model"
)

var (
	assembleType  string
	assembleEmail string
	assembleORCID string
	assembleDOI   string
	assembleLabel string
)

var entityTypes = map[string]model.EntityType{
	"person":       model.TypePerson,
	"organization": model.TypeOrganization,
	"work":         model.TypeCreativeWork,
}

// assembleCmd represents the assemble command
var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble an entity document from stored claims",
	Long: `Assemble loads every stored claim about one subject and merges them into
a single entity document. The subject is selected by exactly one of
--email, --orcid, --doi, or --label.

Example:
  crosswalk assemble --type person --email ghydro@usgs.gov
  crosswalk assemble --type work --doi 10.5066/P9EXAMPLE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetType, ok := entityTypes[assembleType]
		if !ok {
			return fmt.Errorf("unknown entity type %q (want person, organization, or work)", assembleType)
		}

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

		var claims []model.Claim
		switch {
		case assembleEmail != "":
			claims, err = st.ClaimsBySubjectIdentifier(ctx, model.SchemeEmail, assembleEmail)
		case assembleORCID != "":
			claims, err = st.ClaimsBySubjectIdentifier(ctx, model.SchemeORCID, assembleORCID)
		case assembleDOI != "":
			claims, err = st.ClaimsBySubjectIdentifier(ctx, model.SchemeDOI, assembleDOI)
		case assembleLabel != "":
			claims, err = st.ClaimsBySubjectLabel(ctx, assembleLabel)
		default:
			return fmt.Errorf("one of --email, --orcid, --doi, or --label is required")
		}
		if err != nil {
			return fmt.Errorf("load claims: %w", err)
		}
		if len(claims) == 0 {
			return fmt.Errorf("no stored claims for that subject")
		}

		entity := assemble.Assemble(claims, targetType, assemble.DefaultConfig(), nil)
		if entity == nil {
			return fmt.Errorf("no claims matched type %s", targetType)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entity)
	},
}

func init() {
	rootCmd.AddCommand(assembleCmd)
	assembleCmd.Flags().StringVar(&assembleType, "type", "person", "entity type: person, organization, work")
	assembleCmd.Flags().StringVar(&assembleEmail, "email", "", "select subject by email")
	assembleCmd.Flags().StringVar(&assembleORCID, "orcid", "", "select subject by ORCID")
	assembleCmd.Flags().StringVar(&assembleDOI, "doi", "", "select subject by DOI")
	assembleCmd.Flags().StringVar(&assembleLabel, "label", "", "select subject by display name")
}
