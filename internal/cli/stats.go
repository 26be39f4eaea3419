package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show claim store statistics",
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		count, err := st.CountClaims(ctx)
		if err != nil {
			return fmt.Errorf("count claims: %w", err)
		}

		fmt.Printf("store:  %s\n", cfg.Store.Path)
		fmt.Printf("claims: %d\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
