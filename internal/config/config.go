package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Import
		Backfill
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Import struct {
		// FoldedMatch compares stored records to incoming entries
		// case-insensitively on the free-text venue fields.
		FoldedMatch bool
		// TypesPath overrides the built-in publication type table.
		TypesPath string
	}
	Backfill struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("types_path", "")
	v.SetDefault("import_folded_match", false)
	v.SetDefault("citekey_backfill_enabled", false)
	v.SetDefault("citekey_backfill_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Import: Import{
			FoldedMatch: v.GetBool("IMPORT_FOLDED_MATCH"),
			TypesPath:   v.GetString("TYPES_PATH"),
		},
		Backfill: Backfill{
			Enabled:  v.GetBool("CITEKEY_BACKFILL_ENABLED"),
			Schedule: v.GetString("CITEKEY_BACKFILL_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
