package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tabclass/adapters/excel"
	"tabclass/adapters/postgres"
	"tabclass/adapters/postgres/migrations"
	"tabclass/app"
	"tabclass/domain/classification"
	"tabclass/internal"
	"tabclass/internal/config"
	"tabclass/internal/evaluation"
	"tabclass/internal/report"
	"tabclass/internal/threshold"
)

type env struct {
	config      *config.Config
	logger      *internal.Logger
	loader      *excel.Loader
	preparation *app.PreparationService
	evaluation  *app.EvaluationService
}

func newEnv() (*env, error) {
	_ = godotenv.Load()
	appConfig, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	loader := excel.NewLoader(excel.DefaultLoaderConfig(), logger)
	return &env{
		config:      appConfig,
		logger:      logger,
		loader:      loader,
		preparation: app.NewPreparationService(loader, appConfig.Pipeline, logger),
		evaluation:  app.NewEvaluationService(nil, nil, threshold.NewTuner(appConfig.Pipeline.TunerWorkers), logger),
	}, nil
}

// withReportStore points the evaluation service at PostgreSQL when a
// database is configured. The returned func releases the connection.
func (e *env) withReportStore(ctx context.Context) (func(), error) {
	if !e.config.Database.Enabled() {
		e.logger.Info("DATABASE_URL not set, report will not be stored")
		return func() {}, nil
	}
	db, err := postgres.Open(ctx, e.config.Database)
	if err != nil {
		return nil, err
	}
	if _, err := migrations.NewMigrator(db.DB).Up(ctx); err != nil {
		db.Close()
		return nil, err
	}
	e.evaluation = app.NewEvaluationService(nil, postgres.NewReportRepository(db),
		threshold.NewTuner(e.config.Pipeline.TunerWorkers), e.logger)
	return func() { db.Close() }, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "tabclass",
		Short:        "Prepare tabular datasets for classification and evaluate scored predictions",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newCharacterizeCmd(),
		newPrepareCmd(),
		newTuneCmd(),
		newEvaluateCmd(),
		newReportCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCharacterizeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "characterize [data-file]",
		Short: "Report whether a CSV or XLSX table suits binary or category classification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			result, err := e.preparation.Characterize(cmd.Context(), app.PrepareRequest{Path: args[0]})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(result)
			}

			fmt.Printf("Source:      %s\n", result.Source)
			fmt.Printf("Rows:        %d\n", result.Rows)
			fmt.Printf("Columns:     %s\n", strings.Join(result.Headers, ", "))
			fmt.Printf("Suitability: %s\n", result.Suitability)
			if result.Label != nil {
				fmt.Printf("Label:       %s (%s)\n", result.Label.Name, result.Label.Kind)
			}
			fmt.Printf("\n%s\n\n", result.Description)

			fmt.Printf("%-20s %-8s %8s %9s %8s %6s\n", "COLUMN", "KIND", "MISSING", "COMPLETE", "DISTINCT", "BINARY")
			for _, p := range result.Profiles {
				fmt.Printf("%-20s %-8s %8d %8.1f%% %8d %6t\n", p.Name, p.Kind, p.Missing, p.Completeness*100, p.Distinct, p.BinaryEligible)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newPrepareCmd() *cobra.Command {
	var (
		algorithm    string
		validation   bool
		labels       []string
		featureCount int
		outDir       string
		format       string
		seed         int64
		generic      bool
	)

	cmd := &cobra.Command{
		Use:   "prepare [data-file]",
		Short: "Split, balance and weight a table for training",
		Long: `Prepare a table for an external trainer.

Binary algorithms: logistic_regression (class weighted), averaged_perceptron.
Category algorithms: naive_bayes, fast_forest.

Example: tabclass prepare diabetes.csv --algorithm logistic_regression --validation --out-dir ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				e.config.Pipeline.Seed = seed
				e.preparation = app.NewPreparationService(e.loader, e.config.Pipeline, e.logger)
			}

			req := app.PrepareRequest{
				Path:         args[0],
				Algorithm:    algorithm,
				FeatureCount: featureCount,
				Validation:   validation,
				LabelsToKeep: labels,
			}
			var prepared *app.PreparedDataset
			if generic {
				prepared, err = e.preparation.PrepareGeneric(cmd.Context(), req)
			} else {
				prepared, err = e.preparation.Prepare(cmd.Context(), req)
			}
			if err != nil {
				return err
			}
			printPrepared(prepared)

			if outDir == "" {
				return nil
			}
			written, err := excel.NewPartitionWriter(excel.FileType(format)).
				WritePartitions(cmd.Context(), outDir, prepared.Split, prepared.TrainWeights)
			if err != nil {
				return err
			}
			for _, part := range []string{"train", "validation", "test"} {
				if path, ok := written[part]; ok {
					fmt.Printf("Wrote %-10s %s\n", part, path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "", "Training algorithm: logistic_regression|averaged_perceptron|naive_bayes|fast_forest")
	cmd.Flags().BoolVar(&validation, "validation", false, "Hold out a validation partition (70/15/15)")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Category labels to keep (category tasks only)")
	cmd.Flags().IntVar(&featureCount, "feature-count", 0, "Expected number of feature columns")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write partitions to this directory")
	cmd.Flags().StringVar(&format, "format", "csv", "Partition file format: csv|xlsx")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for the split")
	cmd.Flags().BoolVar(&generic, "generic", false, "Split without task handling, falling back to the last column as label")
	return cmd
}

func newTuneCmd() *cobra.Command {
	var scoreColumn, labelColumn string

	cmd := &cobra.Command{
		Use:   "tune [scores-file]",
		Short: "Find the F1-optimal decision threshold for scored validation rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			rows, err := loadScoredRows(cmd.Context(), e.loader, args[0], scoreColumn, labelColumn)
			if err != nil {
				return err
			}
			result, err := e.evaluation.Tune(cmd.Context(), rows)
			if err != nil {
				return err
			}

			fmt.Printf("Threshold:  %.2f\n", result.Threshold)
			fmt.Printf("F1:         %.4f\n", result.F1)
			fmt.Printf("Candidates: %d\n", result.Candidates)
			if result.Degenerate {
				fmt.Println("Warning: validation rows hold a single class")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scoreColumn, "score-column", "score", "Column holding model scores")
	cmd.Flags().StringVar(&labelColumn, "label-column", "label", "Column holding the true binary label")
	return cmd
}

func newEvaluateCmd() *cobra.Command {
	var (
		cutoff                   float64
		scoreColumn, labelColumn string
		asJSON                   bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate [scores-file]",
		Short: "Compute binary metrics, ROC and AUC for scored test rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			rows, err := loadScoredRows(cmd.Context(), e.loader, args[0], scoreColumn, labelColumn)
			if err != nil {
				return err
			}
			metrics, err := evaluation.Binary(rows, cutoff)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(metrics)
			}
			printBinary(metrics)
			return nil
		},
	}

	cmd.Flags().Float64Var(&cutoff, "threshold", threshold.DefaultThreshold, "Decision threshold")
	cmd.Flags().StringVar(&scoreColumn, "score-column", "score", "Column holding model scores")
	cmd.Flags().StringVar(&labelColumn, "label-column", "label", "Column holding the true binary label")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the metrics as JSON")
	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		format                   string
		output                   string
		scoreColumn, labelColumn string
	)

	cmd := &cobra.Command{
		Use:   "report [data-file] [scores-file]",
		Short: "Render a Markdown or HTML report for a table and its scored rows",
		Long: `Characterize the data file, tune the threshold on the scored rows and
render the resulting metrics. The report is stored in PostgreSQL when
DATABASE_URL is set.

Example: tabclass report diabetes.csv scores.csv --format html --output report.html`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			release, err := e.withReportStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			r, err := buildReport(cmd.Context(), e, args[0], args[1], scoreColumn, labelColumn)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Run: %s\n", r.ID)

			var content []byte
			switch format {
			case "html":
				content, err = report.HTML(r)
			case "markdown", "md":
				var md string
				md, err = report.Markdown(r)
				content = []byte(md)
			default:
				return fmt.Errorf("unknown format %q (use markdown or html)", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err = os.Stdout.Write(content)
				return err
			}
			return os.WriteFile(output, content, 0o644)
		},
	}

	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown|html")
	cmd.Flags().StringVar(&output, "output", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&scoreColumn, "score-column", "score", "Column holding model scores")
	cmd.Flags().StringVar(&labelColumn, "label-column", "label", "Column holding the true binary label")
	return cmd
}

func buildReport(ctx context.Context, e *env, dataFile, scoresFile, scoreColumn, labelColumn string) (*classification.PipelineReport, error) {
	characterized, err := e.preparation.Characterize(ctx, app.PrepareRequest{Path: dataFile})
	if err != nil {
		return nil, err
	}
	rows, err := loadScoredRows(ctx, e.loader, scoresFile, scoreColumn, labelColumn)
	if err != nil {
		return nil, err
	}

	run := app.ScoredRun{
		Source:      characterized.Source,
		Fingerprint: characterized.Fingerprint,
		Suitability: characterized.Suitability,
		Validation:  rows,
		Test:        rows,
	}
	if characterized.Label != nil {
		run.Label = characterized.Label.Name
	}
	return e.evaluation.Record(ctx, run)
}

func printPrepared(p *app.PreparedDataset) {
	fmt.Printf("Run:        %s\n", p.RunID)
	fmt.Printf("Task:       %s (%s)\n", p.Task, p.Suitability)
	fmt.Printf("Label:      %s\n", p.Label.Name)
	if p.Text != nil {
		fmt.Printf("Text:       %s\n", p.Text.Name)
	}
	fmt.Printf("Features:   %s\n", strings.Join(p.Features, ", "))
	fmt.Printf("Partitions: train=%d validation=%d test=%d\n", p.Counts.Train, p.Counts.Validation, p.Counts.Test)
	if p.Weights != nil {
		fmt.Printf("Weights:    true=%.4f (%d rows) false=%.4f (%d rows)\n",
			p.Weights.True, p.Weights.CountTrue, p.Weights.False, p.Weights.CountFalse)
	}
	fmt.Printf("Runtime:    %dms\n", p.RuntimeMs)
}

func printBinary(m classification.BinaryMetrics) {
	c := m.Confusion
	fmt.Printf("Threshold:          %.2f\n", m.Threshold)
	fmt.Printf("Confusion:          TP=%d FP=%d TN=%d FN=%d\n", c.TP, c.FP, c.TN, c.FN)
	fmt.Printf("Accuracy:           %.4f\n", m.Accuracy)
	fmt.Printf("Positive precision: %.4f\n", m.PositivePrecision)
	fmt.Printf("Positive recall:    %.4f\n", m.PositiveRecall)
	fmt.Printf("Negative precision: %.4f\n", m.NegativePrecision)
	fmt.Printf("Negative recall:    %.4f\n", m.NegativeRecall)
	fmt.Printf("F1:                 %.4f\n", m.F1)
	fmt.Printf("AUC:                %.4f\n", m.AUC)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
