// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ideation-engine CLI.
// Implements: prd001-primer, prd002-chain, prd003-ranking, prd004-history
// (CLI surface).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ideation-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API tokens loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the ideation-engine CLI. Invoked without
// a subcommand it runs one ideation round.
var rootCmd = &cobra.Command{
	Use:   "ideation-engine [flags] [problem]",
	Short: "Generate problem-solving ideas from cross-domain mechanisms",
	Long: `ideation-engine samples mechanism descriptions (facts about biological,
physical, or engineered systems) from a primer file and runs a three-stage
prompt chain against a hosted model: find one cross-domain connection,
generate five concrete ideas for the target problem, then score and rank
them. The top-ranked ideas are printed to stdout.

The primer file is a YAML list of free-text mechanism descriptions
(default ./primer.yaml). The API token is read from --token, the
GITHUB_TOKEN environment variable, or .secrets/github-token.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runIdeate,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ideation-engine.yaml or ~/.config/ideation-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ideation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ideation-engine"))
		}
	}

	viper.SetEnvPrefix("IDEATION_ENGINE")
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
