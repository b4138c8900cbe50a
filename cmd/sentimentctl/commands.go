package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sentiment-web/internal/apperr"
	"sentiment-web/internal/csvsniff"
	"sentiment-web/internal/download"
	"sentiment-web/internal/history"
	"sentiment-web/internal/models"
	"sentiment-web/internal/repository"
	"sentiment-web/internal/service"
	"sentiment-web/internal/view"
)

func (a *cli) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *cli) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show service and model status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := service.NewHome(a.client, a.logger).Load(cmd.Context())
			if a.asJSON && state.Health != nil {
				return a.printJSON(state.Health)
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Service:\t%s\n", a.client.BaseURL())
			fmt.Fprintf(w, "System:\t%s\n", state.SystemStatus())
			if state.Health != nil {
				fmt.Fprintf(w, "API version:\t%s\n", state.Health.Version)
				fmt.Fprintf(w, "Model build:\t%s\n", state.ModelBuild())
				fmt.Fprintf(w, "Last training:\t%s\n", state.LastTraining())
			}
			if state.Info != nil && state.Info.Message != "" {
				fmt.Fprintf(w, "Message:\t%s\n", state.Info.Message)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return state.Err
		},
	}
}

func (a *cli) predictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict <text>...",
		Short: "Analyze a single text",
		Long:  "Analyze a text between 3 and 1000 characters. Multiple arguments are joined with spaces.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if err := service.ValidateText(text); err != nil {
				return err
			}

			result, err := a.client.Predict(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("%s: %w", service.MsgPredictFailed, err)
			}
			if a.asJSON {
				return a.printJSON(result)
			}
			return printPrediction(a, result)
		},
	}
}

func printPrediction(a *cli, result *models.PredictionResult) error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Sentiment:\t%s\n", result.Sentiment)
	fmt.Fprintf(w, "Confidence:\t%s\n", view.Percent(result.Confidence))
	fmt.Fprintf(w, "Probability:\t%s\n", view.Percent(result.Probability))
	fmt.Fprintf(w, "Cleaned text:\t%s\n", result.CleanedText)
	fmt.Fprintf(w, "Time:\t%s\n", view.ProcessingTime(result.ProcessingTimeMs))
	return w.Flush()
}

// batchFlags are shared by upload and batch
type batchFlags struct {
	name string
	dir  string
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Name of the results file (\".csv\" is appended)")
	cmd.Flags().StringVarP(&f.dir, "output-dir", "o", ".", "Directory the results file is written to")
}

func (a *cli) uploadCmd() *cobra.Command {
	var flags batchFlags
	cmd := &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload a local CSV file for batch analysis",
		Long: `Upload a local CSV file with a "text" column. The file is checked locally
before it is sent, and the annotated results are saved next to it unless
--output-dir says otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			name := filepath.Base(path)
			if err := csvsniff.CheckFileName(name); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			preview, err := csvsniff.Sniff(string(data))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Uploading %s (%s, columns: %s)\n", name, view.KB(len(data)), strings.Join(preview.Headers, ", "))

			result, err := a.client.UploadAndPredict(cmd.Context(), name, bytes.NewReader(data))
			if err != nil {
				if apperr.IsNotFound(err) {
					return fmt.Errorf("%s: %w", service.MsgUploadNotFound, err)
				}
				return fmt.Errorf("%s: %w", service.MsgUploadFailed, err)
			}
			return a.saveBatch(cmd, result, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *cli) batchCmd() *cobra.Command {
	var flags batchFlags
	cmd := &cobra.Command{
		Use:   "batch <url-or-path>",
		Short: "Analyze a CSV the service reads from a URL or server path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(args[0])
			if input == "" {
				return apperr.NewValidation("input_file", service.MsgNoRemotePath)
			}

			result, err := a.client.BatchPredict(cmd.Context(), input, service.RemoteOutputFile)
			if err != nil {
				return fmt.Errorf("%s: %w", service.MsgRemoteFailed, err)
			}
			return a.saveBatch(cmd, result, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

// saveBatch prints the summary and writes the artifact, if any
func (a *cli) saveBatch(cmd *cobra.Command, result *models.BatchResult, flags batchFlags) error {
	if a.asJSON {
		if err := a.printJSON(result); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Total records:\t%s\n", view.Thousands(result.TotalRecords))
		fmt.Fprintf(w, "Successful:\t%s\n", view.Thousands(result.Successful))
		fmt.Fprintf(w, "Failed:\t%s\n", view.Thousands(result.Failed))
		fmt.Fprintf(w, "Avg confidence:\t%s\n", view.PercentOrZero(result.AvgConfidence))
		fmt.Fprintf(w, "Time:\t%s min\n", view.Minutes(result.ProcessingTimeMinutes))
		if err := w.Flush(); err != nil {
			return err
		}
	}

	artifact, err := download.Resolve(cmd.Context(), a.client, result, flags.name, time.Now())
	if errors.Is(err, download.ErrNoArtifact) {
		fmt.Fprintln(a.out, "The service returned no results file")
		return nil
	}
	if err != nil {
		return err
	}

	target := filepath.Join(flags.dir, artifact.Filename)
	if err := os.WriteFile(target, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	fmt.Fprintf(a.out, "Results saved to %s\n", target)
	return nil
}

func (a *cli) metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show the latest model evaluation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := service.NewDashboard(a.client, a.logger).Load(cmd.Context())
			if a.asJSON {
				return a.printJSON(state.Metrics)
			}
			if state.Demo {
				fmt.Fprintln(a.out, state.Advisory)
			}

			m := state.Metrics
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Model:\t%s\n", m.ModelName)
			for _, score := range state.Scores {
				fmt.Fprintf(w, "%s:\t%s\n", score.Name, view.PercentPrecise(score.Value))
			}
			fmt.Fprintf(w, "Confusion matrix:\tTN %d\tFP %d\n", m.ConfusionMatrix.TrueNegative(), m.ConfusionMatrix.FalsePositive())
			fmt.Fprintf(w, "\tFN %d\tTP %d\n", m.ConfusionMatrix.FalseNegative(), m.ConfusionMatrix.TruePositive())
			return w.Flush()
		},
	}
}

func (a *cli) historyCmd() *cobra.Command {
	var (
		visitor  string
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear a visitor's stored predictions",
		Long: `Read the prediction history the web server keeps for a visitor. The
visitor id is the subject of the visitor cookie.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if visitor == "" {
				return apperr.NewValidation("visitor", "--visitor is required")
			}

			storage, err := repository.New(repository.Options{
				Driver: a.cfg.Database.Type,
				DSN:    a.cfg.Database.Path,
			}, a.logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			store := history.NewStore(repository.Scoped(storage, visitor), a.logger)
			if clearAll {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "History cleared")
				return nil
			}

			entries := store.Load(cmd.Context())
			if a.asJSON {
				return a.printJSON(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No predictions yet")
				return nil
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04"),
					e.Result.Sentiment,
					view.Percent(e.Result.Confidence),
					view.Truncate(e.Text, 60),
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&visitor, "visitor", "", "Visitor id whose history is shown")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete the history instead of listing it")
	return cmd
}
