// file: cmd/import.go
// version: 1.0.0
// guid: 7a9b1c3d-5e6f-4a1b-2c4d-6e8f0a2b4c5d

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jstrand/notekeeper/internal/backup"
	"github.com/jstrand/notekeeper/internal/config"
	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/watcher"
)

// importCmd bulk-imports note files (.json dumps, .md, .txt) from a
// directory tree or an explicit file list.
var importCmd = &cobra.Command{
	Use:   "import [path...]",
	Short: "Import note files into the database",
	Long: `Import notes from JSON dumps or Markdown files. Directories are
walked recursively; only recognized note file types are picked up.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		var files []string
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", arg, err)
			}
			if !info.IsDir() {
				files = append(files, arg)
				continue
			}
			err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && watcher.IsNoteFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("failed to walk %s: %w", arg, err)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no note files found")
		}

		fmt.Printf("Importing %d file(s) into %s\n", len(files), config.AppConfig.DatabasePath)
		bar := progressbar.Default(int64(len(files)))

		var created, updated, failed int
		for _, file := range files {
			c, u, err := backup.ImportFile(database.GlobalStore, file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "\nskipping %s: %v\n", file, err)
				failed++
			}
			created += c
			updated += u
			bar.Add(1)
		}

		fmt.Printf("\nDone: %d created, %d updated, %d file(s) skipped\n", created, updated, failed)
		return nil
	},
}
