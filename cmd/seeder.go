package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/hr-core/internal/state"
	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/spf13/cobra"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with the sample organisation",
	Long: `Write the sample organisation (an administrator, two employees, schedules,
requests, claims, memos and settings) to the configured backend. Without
--clear only collections that were never written are seeded; with --clear
every collection is replaced.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := mustLoadConfig()
		lg := logger.LoggerWrapper()

		store, err := openStore(ctx, cfg, lg, nil)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		defer store.Close()

		if clearData {
			dataset := state.DefaultDataset(time.Now().In(cfg.Locale.Location()))
			if err := store.Replace(ctx, dataset, cfg.Admin.LegacyEmail); err != nil {
				log.Fatalf("failed to replace store contents: %v", err)
			}
			fmt.Println("Cleared existing data and seeded the sample organisation")
		} else {
			fmt.Println("Seeded collections that had never been written")
		}

		for _, e := range store.Employees() {
			fmt.Printf("  %-4d %-24s %-10s %s\n", e.ID, e.Email, e.Role, e.Status)
		}
		fmt.Println("Sample accounts use the password \"password\"")
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}
