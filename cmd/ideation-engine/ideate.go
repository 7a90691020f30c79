// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ideation-engine/internal/chain"
	"github.com/pdiddy/ideation-engine/internal/history"
	"github.com/pdiddy/ideation-engine/internal/primer"
	"github.com/pdiddy/ideation-engine/internal/rank"
	"github.com/pdiddy/ideation-engine/internal/secrets"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

const (
	defaultEndpoint    = "https://models.github.ai/inference"
	defaultModel       = "openai/gpt-4o"
	defaultTemperature = 0.7
	defaultSamples     = 6
	defaultTimeout     = 120 * time.Second
	defaultTopN        = 3
)

var rankColor = color.New(color.FgCyan, color.Bold)

func init() {
	rootCmd.Flags().BoolP("verbose", "v", false, "also print the unranked ideation text and the raw ranking payload")
	rootCmd.Flags().StringP("model", "m", defaultModel, "model identifier")
	rootCmd.Flags().StringP("problem", "p", "", "target problem statement (or pass it as the positional argument)")
	rootCmd.Flags().StringP("primer-file", "f", "primer.yaml", "path to the mechanism primer file")
	rootCmd.Flags().IntP("samples", "s", defaultSamples, "number of mechanisms sampled per round")
	rootCmd.Flags().Float64P("temperature", "t", defaultTemperature, "base sampling temperature (0.0-1.0)")
	rootCmd.Flags().String("token", "", "API token (overrides GITHUB_TOKEN and .secrets/github-token)")
	rootCmd.Flags().String("endpoint", defaultEndpoint, "inference service base URL")
	rootCmd.Flags().Bool("save", false, "append the finished round to the local history ledger")
	rootCmd.Flags().String("history-dir", ".ideation", "directory for the history ledger")
}

func runIdeate(cmd *cobra.Command, args []string) error {
	problem, cfg, err := ideateConfig(cmd, args)
	if err != nil {
		return err
	}

	backend := chain.NewChatBackend(cfg.Inference)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return runRound(cmd.Context(), problem, cfg, backend, rng, cmd.OutOrStdout())
}

// ideateConfig assembles the pipeline configuration from flags, the viper
// config file, the environment, and loaded secrets, and validates it.
func ideateConfig(cmd *cobra.Command, args []string) (string, types.PipelineConfig, error) {
	var cfg types.PipelineConfig

	problem, _ := cmd.Flags().GetString("problem")
	if problem == "" && len(args) > 0 {
		problem = args[0]
	}
	if problem == "" {
		return "", cfg, fmt.Errorf("Problem statement is required: pass it as an argument or with --problem")
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = viperOrEnvToken()
	}
	if token == "" {
		return "", cfg, fmt.Errorf("API token is required: pass --token, set GITHUB_TOKEN, or create .secrets/github-token")
	}

	temperature, _ := cmd.Flags().GetFloat64("temperature")
	if temperature < 0.0 || temperature > 1.0 {
		return "", cfg, fmt.Errorf("temperature must be between 0.0 and 1.0, got %g", temperature)
	}

	samples, _ := cmd.Flags().GetInt("samples")
	model, _ := cmd.Flags().GetString("model")
	primerFile, _ := cmd.Flags().GetString("primer-file")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	verbose, _ := cmd.Flags().GetBool("verbose")
	save, _ := cmd.Flags().GetBool("save")
	historyDir, _ := cmd.Flags().GetString("history-dir")

	cfg = types.PipelineConfig{
		Inference: types.InferenceConfig{
			Model:       model,
			Endpoint:    endpoint,
			Token:       token,
			Temperature: temperature,
			TopP:        1.0,
			Timeout:     defaultTimeout,
		},
		Primer: types.PrimerConfig{
			Path:    primerFile,
			Samples: samples,
		},
		Output: types.OutputConfig{
			Verbose: verbose,
			TopN:    defaultTopN,
		},
		History: types.HistoryConfig{
			Enabled: save,
			Dir:     historyDir,
		},
	}
	return problem, cfg, nil
}

// viperOrEnvToken resolves the token from the config file, GITHUB_TOKEN,
// or the secrets directory, in that order.
func viperOrEnvToken() string {
	if t := viper.GetString("token"); t != "" {
		return t
	}
	if t := os.Getenv("GITHUB_TOKEN"); t != "" {
		return t
	}
	return loadedSecrets[secrets.GitHubTokenKey]
}

// runRound executes one complete round: load, sample, chain, rank, print,
// and optionally save.
func runRound(ctx context.Context, problem string, cfg types.PipelineConfig, backend chain.Completer, rng *rand.Rand, out io.Writer) error {
	pool, err := primer.Load(cfg.Primer.Path)
	if err != nil {
		return err
	}

	mechanisms, err := primer.Sample(pool, cfg.Primer.Samples, rng)
	if err != nil {
		return err
	}

	runner := &chain.Runner{
		Backend:     backend,
		Temperature: cfg.Inference.Temperature,
		MaxRetries:  cfg.Inference.MaxRetries,
	}

	result, err := runner.Run(ctx, problem, mechanisms, out)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(out, "\n--- ideation output ---\n%s\n", result.Ideation)
		fmt.Fprintf(out, "\n--- raw ranking payload ---\n%s\n", result.RankingRaw)
	}

	ranked := rank.Rank(result.RankingRaw, cfg.Output.TopN)

	fmt.Fprintf(out, "\nTop ideas for: %s\n\n", problem)
	for i, line := range ranked.Display() {
		fmt.Fprintf(out, "%s %s\n", rankColor.Sprintf("%d.", i+1), line)
	}

	if cfg.History.Enabled {
		if err := saveRound(ctx, cfg, problem, mechanisms, result, ranked); err != nil {
			return err
		}
		fmt.Fprintln(out, "\nsaved round to history")
	}

	return nil
}

func saveRound(ctx context.Context, cfg types.PipelineConfig, problem string, mechanisms []string, result *chain.Result, ranked rank.Result) error {
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SaveRound(ctx, types.Round{
		Problem:    problem,
		Mechanisms: mechanisms,
		Connection: result.Connection,
		Model:      cfg.Inference.Model,
		Ideas:      ranked.Ideas,
		Timestamp:  time.Now(),
	})
}
