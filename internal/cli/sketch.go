package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylab/autosketch/internal/cost"
	"github.com/quarrylab/autosketch/internal/rules"
	"github.com/quarrylab/autosketch/internal/search"
	"github.com/quarrylab/autosketch/internal/store"
	"github.com/quarrylab/autosketch/internal/task"
)

// StrategyRandomWalk is the stored strategy name for batches generated by
// unpruned random walks (--random). Not a GetInitialSketch strategy; replay
// dispatches on it separately.
const StrategyRandomWalk = "random"

// SketchOptions holds flags for the sketch command.
type SketchOptions struct {
	*RootOptions
	Database string
	Num      int
	Seed     int64
	Random   bool
}

// SketchSummary describes one generated sketch for output.
type SketchSummary struct {
	Ordinal       int     `json:"ordinal"`
	Fingerprint   string  `json:"fingerprint"`
	PredictedCost float64 `json:"predicted_cost"`
	Blocks        int     `json:"blocks"`
}

// SketchResult holds the complete sketch command output.
type SketchResult struct {
	Task     string          `json:"task"`
	RunToken string          `json:"run_token,omitempty"`
	Seed     int64           `json:"seed"`
	Strategy string          `json:"strategy"`
	Sketches []SketchSummary `json:"sketches"`
}

// NewSketchCommand creates the sketch command.
func NewSketchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SketchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sketch <task.yaml>",
		Short: "Generate initial schedule sketches for a task",
		Long: `Generate initial schedule sketches for a tuning task.

Loads the task definition, builds the search space with the default rule
registry, and generates the configured number of sketches using the
task's strategy. With --db, the run and every sketch are persisted for
later inspection and replay.

Examples:
  autosketch sketch matmul.yaml
  autosketch sketch matmul.yaml --seed 42 --num 10
  autosketch sketch matmul.yaml --db ./runs.db
  autosketch sketch matmul.yaml --random`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSketch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for persistence")
	cmd.Flags().IntVar(&opts.Num, "num", 0, "number of sketches (overrides task file)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "root random seed (overrides task file)")
	cmd.Flags().BoolVar(&opts.Random, "random", false, "use unpruned random walks instead of the task strategy")

	return cmd
}

func runSketch(opts *SketchOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	t, err := task.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load task", err)
	}
	if cmd.Flags().Changed("num") {
		t.SketchCount = opts.Num
	}
	if cmd.Flags().Changed("seed") {
		t.Seed = opts.Seed
	}

	model := cost.NewOpCountModel()
	space, err := search.NewSpace(
		t.BuildModule(), rules.DefaultRegistry(), model, t.SearchConfig())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build search space", err)
	}

	formatter.VerboseLog("Task %q: seed %d, strategy %s, %d sketch(es)",
		t.Name, space.Seed(), t.Strategy, t.SketchCount)

	var states []*search.State
	strategy := t.Strategy
	if opts.Random {
		strategy = StrategyRandomWalk
		states = space.GetRandomInitialSketch(t.SketchCount)
	} else {
		states, err = space.GetInitialSketch(t.SketchCount, t.Strategy)
		if err != nil {
			return WrapExitError(ExitCommandError, "sketch generation failed", err)
		}
	}

	// Initial sketches carry no cost until mutation predicts one; fill
	// them in here so the summary is useful on its own.
	if t.UseCostModel {
		for _, st := range states {
			if st.PredictedCost == search.NotInitCost {
				if c, err := model.Predict(st.Sched, t.Target); err == nil {
					st.PredictedCost = c
				}
			}
		}
	}

	result := SketchResult{
		Task:     t.Name,
		Seed:     space.Seed(),
		Strategy: strategy,
		Sketches: make([]SketchSummary, len(states)),
	}
	for i, st := range states {
		result.Sketches[i] = SketchSummary{
			Ordinal:       i,
			Fingerprint:   st.Fingerprint(),
			PredictedCost: st.PredictedCost,
			Blocks:        len(st.Sched.BlockNames()),
		}
	}

	if opts.Database != "" {
		token, err := persistSketches(cmd.Context(), opts.Database, t, strategy, space, states)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to persist run", err)
		}
		result.RunToken = token
		formatter.VerboseLog("Persisted run %s to %s", token, opts.Database)
	}

	return outputSketchResult(formatter, result)
}

// persistSketches writes the run and its sketches in one transaction and
// returns the run token.
func persistSketches(ctx context.Context, dbPath string, t *task.TuneTask, strategy string, space *search.Space, states []*search.State) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	token := space.NewRunToken()
	run := store.Run{
		Token:         token,
		TaskName:      t.Name,
		Target:        t.Target,
		Seed:          space.Seed(),
		Strategy:      strategy,
		EngineVersion: search.EngineVersion,
	}

	sketches := make([]store.Sketch, len(states))
	for i, state := range states {
		moduleJSON, err := json.Marshal(state.Sched)
		if err != nil {
			return "", fmt.Errorf("marshal sketch %d: %w", i, err)
		}
		sketches[i] = store.Sketch{
			RunToken:      token,
			Ordinal:       i,
			Fingerprint:   state.Fingerprint(),
			PredictedCost: state.PredictedCost,
			ModuleJSON:    string(moduleJSON),
		}
	}

	if err := st.WriteBatch(ctx, run, sketches); err != nil {
		return "", err
	}
	return token, nil
}

func outputSketchResult(formatter *OutputFormatter, result SketchResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "Task %s: %d sketch(es), seed %d, strategy %s\n",
		result.Task, len(result.Sketches), result.Seed, result.Strategy)
	if result.RunToken != "" {
		fmt.Fprintf(formatter.Writer, "Run token: %s\n", result.RunToken)
	}
	for _, sk := range result.Sketches {
		fmt.Fprintf(formatter.Writer, "  [%d] %s cost=%.2f blocks=%d\n",
			sk.Ordinal, sk.Fingerprint[:12], sk.PredictedCost, sk.Blocks)
	}
	return nil
}
