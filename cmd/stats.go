// file: cmd/stats.go
// version: 1.0.0
// guid: 9c1d3e5f-7a8b-4c3d-4e6f-8a0b2c4d6e7f

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jstrand/notekeeper/internal/config"
	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/revisit"
)

// statsCmd prints a quick overview of the notes database.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		store := database.GlobalStore
		notes, err := store.CountNotes()
		if err != nil {
			return fmt.Errorf("failed to count notes: %w", err)
		}
		categories, err := store.CountCategories()
		if err != nil {
			return fmt.Errorf("failed to count categories: %w", err)
		}
		hashtags, err := store.GetHashtagCounts()
		if err != nil {
			return fmt.Errorf("failed to tally hashtags: %w", err)
		}
		due, err := revisit.Due(store, time.Now())
		if err != nil {
			return fmt.Errorf("failed to compute revisit list: %w", err)
		}

		fmt.Printf("Database:    %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)
		fmt.Printf("Notes:       %d\n", notes)
		fmt.Printf("Categories:  %d\n", categories)
		fmt.Printf("Hashtags:    %d\n", len(hashtags))
		fmt.Printf("Revisit due: %d\n", len(due))

		if len(hashtags) > 0 {
			fmt.Println("\nTop hashtags:")
			for i, hc := range hashtags {
				if i >= 10 {
					break
				}
				fmt.Printf("  #%-20s %d\n", hc.Tag, hc.Count)
			}
		}
		return nil
	},
}
