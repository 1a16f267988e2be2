// file: internal/config/config.go
// version: 1.0.0
// guid: 7e9f1a3b-5c6d-4e0f-2a4b-6c8d0e2f4a5b

package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DataDir      string
	DatabasePath string
	DatabaseType string // "sqlite" (default) or "pebble"
	ImportDir    string // drop folder watched for note files; empty disables
	BackupDir    string
	MaxBackups   int

	// Search settings
	SearchLimit int // default result cap for the search endpoint

	// Revisit settings, comma-separated day counts (e.g. "1,7,30")
	RevisitIntervals string
}

var AppConfig Config

// InitConfig populates AppConfig from viper (config file, env, flags).
func InitConfig() {
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("database_type", "sqlite")
	viper.SetDefault("max_backups", 10)
	viper.SetDefault("search_limit", 50)

	AppConfig = Config{
		DataDir:          viper.GetString("data_dir"),
		DatabasePath:     viper.GetString("database_path"),
		DatabaseType:     viper.GetString("database_type"),
		ImportDir:        viper.GetString("import_dir"),
		BackupDir:        viper.GetString("backup_dir"),
		MaxBackups:       viper.GetInt("max_backups"),
		SearchLimit:      viper.GetInt("search_limit"),
		RevisitIntervals: viper.GetString("revisit_intervals"),
	}

	// Normalize database type
	if AppConfig.DatabaseType == "sqlite3" || AppConfig.DatabaseType == "" {
		AppConfig.DatabaseType = "sqlite"
	}

	// Derive paths from the data dir when unset
	if AppConfig.DatabasePath == "" {
		name := "notes.db"
		if AppConfig.DatabaseType == "pebble" {
			name = "pebble"
		}
		AppConfig.DatabasePath = filepath.Join(AppConfig.DataDir, name)
	}
	if AppConfig.BackupDir == "" {
		AppConfig.BackupDir = filepath.Join(AppConfig.DataDir, "backups")
	}
	if AppConfig.SearchLimit <= 0 {
		AppConfig.SearchLimit = 50
	}
}
