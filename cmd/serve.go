// file: cmd/serve.go
// version: 1.1.0
// guid: 6f8a0b2c-4d5e-4f0a-1b3c-5d7e9f1a3b4c

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jstrand/notekeeper/internal/backup"
	"github.com/jstrand/notekeeper/internal/config"
	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/metrics"
	"github.com/jstrand/notekeeper/internal/server"
	"github.com/jstrand/notekeeper/internal/watcher"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the web server providing the notes API and search.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		fmt.Printf("Using database: %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)

		// Drop-folder importer, only when configured
		if config.AppConfig.ImportDir != "" {
			w := watcher.New(func(paths []string) {
				for _, path := range paths {
					created, updated, err := backup.ImportFile(database.GlobalStore, path)
					if err != nil {
						log.Printf("[ERROR] Drop-folder import of %s failed: %v", path, err)
						continue
					}
					metrics.IncNotesImported("watcher", created)
					log.Printf("[INFO] Imported %s: %d created, %d updated", path, created, updated)
				}
			}, 0)
			if err := w.Start(config.AppConfig.ImportDir); err != nil {
				return fmt.Errorf("failed to watch import directory: %w", err)
			}
			defer w.Stop()
			fmt.Printf("Watching import directory: %s\n", config.AppConfig.ImportDir)
		}

		readTimeout, _ := time.ParseDuration(cmd.Flag("read-timeout").Value.String())
		writeTimeout, _ := time.ParseDuration(cmd.Flag("write-timeout").Value.String())
		idleTimeout, _ := time.ParseDuration(cmd.Flag("idle-timeout").Value.String())

		srv := server.NewServer()
		return srv.Start(server.ServerConfig{
			Port:         cmd.Flag("port").Value.String(),
			Host:         cmd.Flag("host").Value.String(),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		})
	},
}
