// file: cmd/export.go
// version: 1.0.0
// guid: 8b0c2d4e-6f7a-4b2c-3d5e-7f9a1b3c5d6e

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jstrand/notekeeper/internal/backup"
	"github.com/jstrand/notekeeper/internal/config"
	"github.com/jstrand/notekeeper/internal/database"
)

// exportCmd writes all notes to a JSON dump file.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all notes to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		out := cmd.Flag("out").Value.String()
		if out == "" {
			out = filepath.Join(config.AppConfig.DataDir, "notes-export.json")
		}

		count, err := backup.ExportNotesToFile(database.GlobalStore, out)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("Exported %d note(s) to %s\n", count, out)
		return nil
	},
}
