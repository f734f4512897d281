// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refmat-engine CLI, a thin
// presentation-boundary consumer of the search/selection pipeline.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refmat-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the refmat-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "refmat-engine",
	Short: "Locate and inspect certified reference materials by compound name",
	Long: `refmat-engine resolves a free-text compound name against the chemical
identity service, fans repository searches out over every known alias,
and aggregates the deduplicated materials with their certified analytes.

Each pipeline operation is a subcommand: search, resolve, analytes, and
select. Selections made with select are enriched with identity data.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./refmat-engine.yaml or ~/.config/refmat-engine/config.yaml)")
	rootCmd.PersistentFlags().String("env", "dev", "logger environment: dev, local, or prod")
	rootCmd.PersistentFlags().String("log-level", "", "log level override: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("refmat-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "refmat-engine"))
		}
	}

	viper.SetEnvPrefix("REFMAT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
