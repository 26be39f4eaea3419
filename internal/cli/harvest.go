package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkedscience/crosswalk/internal/extract"
	"github.com/linkedscience/crosswalk/internal/source"
	"github.com/linkedscience/crosswalk/internal/util"
)

var (
	harvestTimeout time.Duration
	pubsModXDays   int
	pubsStartYear  int
	pubsEndYear    int
	profilePages   int
	followProfiles bool
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest source records into the claim store",
	Long: `Harvest fetches records from a configured source, normalizes them into
claims, and saves them to the claim store. Claims already present are
skipped, so repeated runs are incremental.

Example:
  crosswalk harvest directory
  crosswalk harvest pubs --mod-x-days 7
  crosswalk harvest profiles --pages 5 --follow
  crosswalk harvest orcid 0000-0001-2345-6789
  crosswalk harvest doi 10.5066/P9EXAMPLE`,
}

var harvestDirectoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Harvest the full staff directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), harvestTimeout)
		defer cancel()

		dir := source.NewDirectory(newSourceClient(cfg), cfg.Sources.DirectoryAPI)

		var seen, saved, skipped int
		err = dir.People(ctx, func(doc map[string]any) error {
			seen++
			claims, err := extract.DirectoryPerson(doc)
			if err != nil {
				skipped++
				if verbose {
					fmt.Fprintf(os.Stderr, "skip directory record: %v\n", err)
				}
				return nil
			}
			n, err := st.SaveClaims(ctx, claims)
			if err != nil {
				return err
			}
			saved += n

			if rec := source.ParsePerson(doc); rec != nil {
				if err := st.SavePerson(ctx, rec); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("harvest directory: %w", err)
		}

		fmt.Fprintf(os.Stderr, "directory: %d records, %d new claims, %d skipped\n", seen, saved, skipped)
		return nil
	},
}

var harvestPubsCmd = &cobra.Command{
	Use:   "pubs",
	Short: "Harvest the Publications Warehouse",
	Long: `Harvest publication records, saving both the normalized claims and the
publication summary with its title and abstract sentences. Use
--mod-x-days to restrict the run to recently modified records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), harvestTimeout)
		defer cancel()

		wh := source.NewWarehouse(newSourceClient(cfg), cfg.Sources.PublicationAPI)

		var seen, saved, skipped int
		query := source.RecordQuery{
			ModXDays:  pubsModXDays,
			StartYear: pubsStartYear,
			EndYear:   pubsEndYear,
		}
		err = wh.Records(ctx, query, func(rec map[string]any) error {
			seen++
			claims, err := extract.PublicationRecord(rec)
			if err != nil {
				skipped++
				if verbose {
					fmt.Fprintf(os.Stderr, "skip publication record: %v\n", err)
				}
				return nil
			}
			n, err := st.SaveClaims(ctx, claims)
			if err != nil {
				return err
			}
			saved += n

			sum, sentences, err := extract.SummarizePublication(rec)
			if err != nil {
				return nil
			}
			return st.SaveSummary(ctx, sum, sentences)
		})
		if err != nil {
			return fmt.Errorf("harvest pubs: %w", err)
		}

		fmt.Fprintf(os.Stderr, "pubs: %d records, %d new claims, %d skipped\n", seen, saved, skipped)
		return nil
	},
}

var harvestProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Harvest the staff profile listing",
	Long: `Harvest the staff profile listing pages. With --follow, each linked
profile page is fetched as well, adding expertise claims when the page
carries a resolvable email or ORCID.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), harvestTimeout)
		defer cancel()

		robots := util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
		profiles := source.NewProfiles(newSourceClient(cfg), robots, cfg.Sources.ProfileListing)

		var seen, saved, skipped int
		err = profiles.Inventory(ctx, profilePages, func(rec map[string]any) error {
			seen++
			claims, err := extract.ProfileInventory(rec)
			if err != nil {
				skipped++
				if verbose {
					fmt.Fprintf(os.Stderr, "skip inventory record: %v\n", err)
				}
				return nil
			}
			n, err := st.SaveClaims(ctx, claims)
			if err != nil {
				return err
			}
			saved += n

			if !followProfiles {
				return nil
			}
			profileURL, _ := rec["profile"].(string)
			if profileURL == "" {
				return nil
			}
			page, err := profiles.Profile(ctx, profileURL)
			if err != nil {
				if verbose {
					fmt.Fprintf(os.Stderr, "skip profile %s: %v\n", profileURL, err)
				}
				return nil
			}
			pageClaims, err := extract.ProfilePage(page)
			if err != nil {
				return nil
			}
			n, err = st.SaveClaims(ctx, pageClaims)
			if err != nil {
				return err
			}
			saved += n
			return nil
		})
		if err != nil {
			return fmt.Errorf("harvest profiles: %w", err)
		}

		fmt.Fprintf(os.Stderr, "profiles: %d records, %d new claims, %d skipped\n", seen, saved, skipped)
		return nil
	},
}

var harvestORCIDCmd = &cobra.Command{
	Use:   "orcid <orcid>...",
	Short: "Harvest ORCID records",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), harvestTimeout)
		defer cancel()

		orcid := source.NewORCID(newSourceClient(cfg))

		var saved int
		for _, id := range args {
			doc, err := orcid.Record(ctx, id)
			if err != nil {
				fmt.Fprintf(os.Stderr, "fetch %s: %v\n", id, err)
				continue
			}
			claims, err := extract.ORCIDDocument(doc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "extract %s: %v\n", id, err)
				continue
			}
			n, err := st.SaveClaims(ctx, claims)
			if err != nil {
				return err
			}
			saved += n
		}

		fmt.Fprintf(os.Stderr, "orcid: %d records, %d new claims\n", len(args), saved)
		return nil
	},
}

var harvestDOICmd = &cobra.Command{
	Use:   "doi <doi>...",
	Short: "Harvest DOI metadata records",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), harvestTimeout)
		defer cancel()

		doi := source.NewDOI(newSourceClient(cfg))

		var saved int
		for _, id := range args {
			doc, err := doi.Record(ctx, id)
			if err != nil {
				fmt.Fprintf(os.Stderr, "fetch %s: %v\n", id, err)
				continue
			}
			claims, err := extract.DOIRecord(doc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "extract %s: %v\n", id, err)
				continue
			}
			n, err := st.SaveClaims(ctx, claims)
			if err != nil {
				return err
			}
			saved += n
		}

		fmt.Fprintf(os.Stderr, "doi: %d records, %d new claims\n", len(args), saved)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(harvestCmd)
	harvestCmd.AddCommand(harvestDirectoryCmd)
	harvestCmd.AddCommand(harvestPubsCmd)
	harvestCmd.AddCommand(harvestProfilesCmd)
	harvestCmd.AddCommand(harvestORCIDCmd)
	harvestCmd.AddCommand(harvestDOICmd)

	harvestCmd.PersistentFlags().DurationVar(&harvestTimeout, "timeout", 30*time.Minute, "total harvest timeout")
	harvestPubsCmd.Flags().IntVar(&pubsModXDays, "mod-x-days", 0, "only records modified in the last N days (0 = all)")
	harvestPubsCmd.Flags().IntVar(&pubsStartYear, "start-year", 0, "only records published in or after this year")
	harvestPubsCmd.Flags().IntVar(&pubsEndYear, "end-year", 0, "only records published in or before this year")
	harvestProfilesCmd.Flags().IntVar(&profilePages, "pages", 10, "maximum listing pages to walk")
	harvestProfilesCmd.Flags().BoolVar(&followProfiles, "follow", false, "fetch each linked profile page")
}
