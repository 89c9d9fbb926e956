// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the transform-engine CLI.
// It opens documents into panels, runs quick actions and preset pipelines
// against them, validates outputs and keeps a local run ledger.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/transform-engine/internal/secrets"
	"github.com/pdiddy/transform-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

// rootCmd is the base command for the transform-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "transform-engine",
	Short: "Turn policy documents into briefs, slides, scripts and posts",
	Long: `transform-engine opens a document into a panel and transforms it through
quick actions (summarize, translate, convertToSlides, ...) or preset pipelines
(whatsappBrief, executiveBriefing, ...). Every output is scored against the
TTLINC rubric before it is stored in the local run ledger.

Panels, pipelines and outputs live in a SQLite database under the data
directory. Use "panel open" to start, then "action run" or "preset run".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./transform-engine.yaml or ~/.config/transform-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the run ledger (default from config: data)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log orchestrator activity at debug level")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("transform-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "transform-engine"))
		}
	}

	viper.SetEnvPrefix("TRANSFORM_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig overlays the config file and environment on the defaults, then
// applies command-line overrides and secrets.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.Store.DataDir = dir
	}
	cfg.Query.APIKey = loadedSecrets.Get(secrets.KeyQueryAPI, cfg.Query.APIKey)
	if cfg.Ingest.StoreID == "" {
		cfg.Ingest.StoreID = cfg.Query.StoreID
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
