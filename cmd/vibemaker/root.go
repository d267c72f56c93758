package main

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vibemaker/internal/config"
	"vibemaker/internal/llm"
	"vibemaker/internal/logging"
	"vibemaker/internal/prompts"
	"vibemaker/internal/vibe"

	vmerrors "vibemaker/internal/errors"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func errorText(msg string) string {
	return red("error: " + msg)
}

// isTTY reports whether stdout is an interactive terminal. Non-TTY output
// drops color codes.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// rootOptions are flag overrides applied on top of the loaded configuration.
type rootOptions struct {
	model   string
	apiKey  string
	baseURL string
	debug   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "vibemaker",
		Short: "Generate short social-post captions with a tone-aware pipeline",
		Long: `vibemaker generates four polished caption suggestions per request,
combining local templates with LLM generation, multi-metric scoring, and a
bounded revise-and-backfill loop.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.debug {
				logging.SetDefaultLevel(logging.LevelDebug)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.model, "model", "m", "", "Override the configured model")
	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Override the configured API key")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Override the configured API base URL")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug output")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newCategoriesCmd())

	if !isTTY() {
		color.NoColor = true
	}

	return cmd
}

// loadConfig merges file and environment configuration with flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.apiKey != "" {
		cfg.APIKey = opts.apiKey
	}
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	if opts.debug {
		cfg.Server.Debug = true
	}
	return cfg, nil
}

// buildEngine assembles the completion client chain and the generation
// pipeline from configuration.
func buildEngine(cfg *config.Config, logger logging.Logger, metrics *vibe.Metrics) (*vibe.Engine, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("no API key configured: set VIBEMAKER_API_KEY, use --api-key, or add api_key to vibemaker-config.json")
	}

	client, err := llm.NewOpenAIClient(cfg.Model, llm.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    int(cfg.Timeout.Seconds()),
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	retryConfig := vmerrors.DefaultRetryConfig()
	retryConfig.MaxAttempts = cfg.MaxRetries
	breaker := vmerrors.NewCircuitBreaker("completion", vmerrors.DefaultCircuitBreakerConfig())
	client = llm.NewRetryClient(client, retryConfig, breaker)

	client, err = llm.NewCachingClient(client, llm.CacheConfig{
		MaxSize: cfg.CacheSize,
		TTL:     cfg.CacheTTL,
	})
	if err != nil {
		return nil, err
	}

	loader, err := prompts.NewLoader()
	if err != nil {
		return nil, err
	}

	return vibe.NewEngine(client, loader, logger, metrics), nil
}
