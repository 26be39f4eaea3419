package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkedscience/crosswalk/internal/model"
	"github.com/linkedscience/crosswalk/internal/reconcile"
	"github.com/linkedscience/crosswalk/internal/source"
	"github.com/linkedscience/crosswalk/internal/store"
	"github.com/linkedscience/crosswalk/internal/worker"
)

var (
	reconcileConcurrency int
	reconcileTimeout     time.Duration
	noWikiData           bool
	saveReconciled       bool
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile <file>",
	Short: "Reconcile person references against the directory and WikiData",
	Long: `Reconcile reads person references from a file (one per line: an email,
an ORCID, or a directory URI; blank lines and # comments are skipped),
anchors each to its unique directory record, and refreshes the ORCID
and WikiData identifier entries on the matched record.

References that match zero or several directory records resolve to
nothing rather than guessing.

Example:
  crosswalk reconcile people.txt
  crosswalk reconcile people.txt --concurrency 4 --no-wikidata`,
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().IntVar(&reconcileConcurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	reconcileCmd.Flags().DurationVar(&reconcileTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	reconcileCmd.Flags().BoolVar(&noWikiData, "no-wikidata", false, "skip WikiData QID resolution")
	reconcileCmd.Flags().BoolVar(&saveReconciled, "save", false, "save matched records to the store")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if reconcileConcurrency <= 0 {
		reconcileConcurrency = cfg.Concurrency.Workers
	}

	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	client := newSourceClient(cfg)
	dir := source.NewDirectory(client, cfg.Sources.DirectoryAPI)

	var wd reconcile.WikiDataClient
	if !noWikiData {
		wd = source.NewWikiData(client, cfg.Sources.SPARQLEndpoint)
	}

	resolver := reconcile.New(dir, wd, cfg.Reconcile)
	batch := worker.NewBatchReconciler(resolver, reconcileConcurrency)

	results, err := batch.ProcessFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	var st *store.Store
	if saveReconciled {
		if st, err = openStore(cfg); err != nil {
			return err
		}
		defer st.Close()
	}

	var matched, changed, unmatched, failed int
	enc := json.NewEncoder(os.Stdout)
	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", referenceString(result.Ref), result.Error)
			continue
		}
		if result.Record == nil {
			unmatched++
			if verbose {
				fmt.Fprintf(os.Stderr, "no unique match: %s\n", referenceString(result.Ref))
			}
			continue
		}
		matched++
		if result.Changed {
			changed++
		}
		if st != nil {
			if err := st.SavePerson(ctx, result.Record); err != nil {
				return err
			}
		}
		if err := enc.Encode(result.Record); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "\nreconcile: %d references, %d matched (%d changed), %d unmatched, %d errors\n",
		len(results), matched, changed, unmatched, failed)
	return nil
}

func referenceString(ref model.PersonReference) string {
	switch {
	case ref.Email != "":
		return ref.Email
	case ref.ORCID != "":
		return ref.ORCID
	default:
		return ref.DirectoryURI
	}
}
