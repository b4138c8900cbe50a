// Command sentimentctl talks to the sentiment service from a terminal and
// inspects the web client's stored visitor state.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sentiment-web/internal/config"
	"sentiment-web/internal/logging"
	"sentiment-web/internal/ml_client"
)

// cli carries the persistent flags and what PersistentPreRunE builds from them
type cli struct {
	out io.Writer

	configPath string
	apiURL     string
	timeout    time.Duration
	logLevel   string
	asJSON     bool

	cfg    *config.Config
	logger *zap.Logger
	client *ml_client.Client
}

func newRootCmd(out io.Writer) *cobra.Command {
	app := &cli{out: out}

	root := &cobra.Command{
		Use:   "sentimentctl",
		Short: "Command line client for the sentiment analysis service",
		Long: `sentimentctl sends texts and CSV files to the sentiment service and
prints the results. It reads the same configuration as the web server.

Available commands:
  health   - Show service and model status
  predict  - Analyze a single text
  upload   - Upload a local CSV file for batch analysis
  batch    - Analyze a CSV the service reads from a URL or server path
  metrics  - Show the latest model evaluation
  history  - List or clear a visitor's stored predictions`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.setup,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&app.configPath, "config", "c", "configs/config.yml", "Path to the config file")
	flags.StringVar(&app.apiURL, "api-url", "", "Sentiment service base URL (overrides config)")
	flags.DurationVar(&app.timeout, "timeout", 0, "Request timeout (overrides config)")
	flags.StringVar(&app.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.BoolVar(&app.asJSON, "json", false, "Print raw JSON responses")

	root.AddCommand(
		app.healthCmd(),
		app.predictCmd(),
		app.uploadCmd(),
		app.batchCmd(),
		app.metricsCmd(),
		app.historyCmd(),
	)
	return root
}

func (a *cli) setup(cmd *cobra.Command, args []string) error {
	if _, err := config.LoadEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if a.timeout > 0 {
		cfg.API.Timeout = a.timeout
		cfg.API.UploadTimeout = a.timeout
	}
	a.cfg = cfg

	logger, err := logging.New(a.logLevel, false)
	if err != nil {
		return err
	}
	a.logger = logger

	a.client = ml_client.NewClient(cfg.API.BaseURL, ml_client.Options{
		Timeout:       cfg.API.Timeout,
		UploadTimeout: cfg.API.UploadTimeout,
	}, logger)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
