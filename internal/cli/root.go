// Package cli wires the harvest, extract, assemble, and reconcile commands
// together with configuration loading.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkedscience/crosswalk/internal/cache"
	"github.com/linkedscience/crosswalk/internal/model"
	"github.com/linkedscience/crosswalk/internal/source"
	"github.com/linkedscience/crosswalk/internal/store"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "crosswalk",
	Short: "Crosswalk - cross-source research metadata harvesting",
	Long: `Crosswalk harvests person, organization, and publication metadata from
directory APIs, staff profile pages, the Publications Warehouse, ORCID,
DOI content negotiation, and WikiData.

Source records are normalized into subject-property-object claims with
full provenance, assembled into typed entity documents, and reconciled
against the directory and WikiData to maintain durable identifiers.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("crosswalk v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.crosswalk/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("db", "", "claim store path (overrides store.path)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.crosswalk")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CROSSWALK_*
	viper.SetEnvPrefix("CROSSWALK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, the config file, and environment variables.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	cfg.Output.Verbose = verbose
	if cfg.NER.Provider != "" && cfg.NER.APIKey == "" {
		cfg.NER.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

// newSourceClient builds the shared fetch layer with the configured cache.
func newSourceClient(cfg *model.Config) *source.Client {
	var responses cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			responses = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			responses = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}
	return source.NewClient(cfg.HTTP, responses, cfg.Cache.TTL)
}

func openStore(cfg *model.Config) (*store.Store, error) {
	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open claim store %s: %w", cfg.Store.Path, err)
	}
	return s, nil
}
