// file: cmd/root.go
// version: 1.1.0
// guid: 5e7f9a1b-3c4d-4e9f-0a2b-4c6d8e0f2a3b

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jstrand/notekeeper/internal/config"
)

var cfgFile string
var dataDir string
var databasePath string
var databaseType string
var importDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notekeeper",
	Short: "Keep, tag and search personal notes",
	Long: `Notekeeper stores personal notes with hierarchical categories and
hashtags, reminds you to revisit old notes, and serves a web API with
weighted relevance search and fuzzy fallback.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.notekeeper.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "data", "directory for database, backups and exports")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "path to database (default: <data>/notes.db)")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "sqlite", "database type: sqlite (default) or pebble")
	rootCmd.PersistentFlags().StringVar(&importDir, "import-dir", "", "drop folder watched for note files while serving")

	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data"))
	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("import_dir", rootCmd.PersistentFlags().Lookup("import-dir"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)

	serveCmd.Flags().String("port", "8080", "port to run the web server on")
	serveCmd.Flags().String("host", "localhost", "host to bind the web server to")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "15s", "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")

	exportCmd.Flags().String("out", "", "output file (default: <data>/notes-export.json)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".notekeeper")
	}

	viper.SetEnvPrefix("notekeeper")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()

	// Ensure the database directory exists
	if dbDir := filepath.Dir(config.AppConfig.DatabasePath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			fmt.Printf("Error creating database directory: %v\n", err)
		}
	}
}
