package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylab/autosketch/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunToken string
	Task     string
}

// RunSummary describes one stored run for output.
type RunSummary struct {
	Token         string `json:"token"`
	TaskName      string `json:"task_name"`
	Target        string `json:"target"`
	Seed          int64  `json:"seed"`
	Strategy      string `json:"strategy"`
	EngineVersion string `json:"engine_version"`
	CreatedAt     string `json:"created_at"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Runs     []RunSummary    `json:"runs,omitempty"`
	Run      *RunSummary     `json:"run,omitempty"`
	Sketches []SketchSummary `json:"sketches,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect stored runs and sketches",
		Long: `Inspect sketch runs stored in a database.

Without --run, lists stored runs (optionally filtered by --task).
With --run, shows the run's metadata and every stored sketch in
generation order.

Examples:
  autosketch trace --db ./runs.db
  autosketch trace --db ./runs.db --task matmul
  autosketch trace --db ./runs.db --run 0192f0c1-...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "run token to inspect")
	cmd.Flags().StringVar(&opts.Task, "task", "", "filter run listing by task name")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if opts.RunToken == "" {
		runs, err := st.ListRuns(ctx, opts.Task)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return outputRunList(formatter, runs)
	}

	run, err := st.ReadRun(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	sketches, err := st.ReadSketches(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read sketches", err)
	}

	return outputRunDetail(formatter, run, sketches)
}

func summarizeRun(run store.Run) RunSummary {
	return RunSummary{
		Token:         run.Token,
		TaskName:      run.TaskName,
		Target:        run.Target,
		Seed:          run.Seed,
		Strategy:      run.Strategy,
		EngineVersion: run.EngineVersion,
		CreatedAt:     run.CreatedAt,
	}
}

func outputRunList(formatter *OutputFormatter, runs []store.Run) error {
	summaries := make([]RunSummary, len(runs))
	for i, run := range runs {
		summaries[i] = summarizeRun(run)
	}

	if formatter.Format == "json" {
		return formatter.Success(TraceResult{Runs: summaries})
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs found")
		return nil
	}
	for _, run := range summaries {
		fmt.Fprintf(formatter.Writer, "%s  %s  seed=%d  strategy=%s  %s\n",
			run.Token, run.TaskName, run.Seed, run.Strategy, run.CreatedAt)
	}
	return nil
}

func outputRunDetail(formatter *OutputFormatter, run store.Run, sketches []store.Sketch) error {
	summary := summarizeRun(run)
	sketchSummaries := make([]SketchSummary, len(sketches))
	for i, sk := range sketches {
		sketchSummaries[i] = SketchSummary{
			Ordinal:       sk.Ordinal,
			Fingerprint:   sk.Fingerprint,
			PredictedCost: sk.PredictedCost,
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(TraceResult{Run: &summary, Sketches: sketchSummaries})
	}

	fmt.Fprintf(formatter.Writer, "Run %s\n", run.Token)
	fmt.Fprintf(formatter.Writer, "  task: %s  target: %s\n", run.TaskName, run.Target)
	fmt.Fprintf(formatter.Writer, "  seed: %d  strategy: %s  engine: %s\n",
		run.Seed, run.Strategy, run.EngineVersion)
	fmt.Fprintf(formatter.Writer, "  created: %s\n", run.CreatedAt)
	for _, sk := range sketches {
		fmt.Fprintf(formatter.Writer, "  [%d] %s cost=%.2f\n",
			sk.Ordinal, sk.Fingerprint, sk.PredictedCost)
	}
	return nil
}
