package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylab/autosketch/internal/cost"
	"github.com/quarrylab/autosketch/internal/rules"
	"github.com/quarrylab/autosketch/internal/search"
	"github.com/quarrylab/autosketch/internal/store"
	"github.com/quarrylab/autosketch/internal/task"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunToken string
}

// ReplayReport holds the replay command output.
type ReplayReport struct {
	RunToken      string `json:"run_token"`
	Deterministic bool   `json:"deterministic"`
	Count         int    `json:"count"`
	Ordinal       int    `json:"ordinal,omitempty"`
	Want          string `json:"want,omitempty"`
	Got           string `json:"got,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <task.yaml>",
		Short: "Verify a stored run regenerates identically",
		Long: `Regenerate a stored run from its recorded seed and strategy and
compare the fingerprints sketch by sketch.

This is the determinism audit: the same task, seed, and strategy must
always produce the same batch. A divergence means the engine changed
behavior since the run was recorded, or the task file differs from the
one the run was generated with.

Exits 1 on divergence, 2 on command errors.

Examples:
  autosketch replay matmul.yaml --db ./runs.db --run 0192f0c1-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "run token to verify (required)")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
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

	run, err := st.ReadRun(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	stored, err := st.ReadSketches(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read sketches", err)
	}
	if len(stored) == 0 {
		return NewExitError(ExitCommandError, "run has no stored sketches")
	}

	t, err := task.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load task", err)
	}

	// The stored seed and strategy override the task file: the audit
	// reproduces the recorded run, not whatever the file says today.
	t.Seed = run.Seed
	t.Strategy = run.Strategy
	t.Target = run.Target

	space, err := search.NewSpace(
		t.BuildModule(), rules.DefaultRegistry(), cost.NewOpCountModel(), t.SearchConfig())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build search space", err)
	}

	formatter.VerboseLog("Regenerating %d sketch(es) with seed %d, strategy %s",
		len(stored), run.Seed, run.Strategy)

	var states []*search.State
	if run.Strategy == StrategyRandomWalk {
		states = space.GetRandomInitialSketch(len(stored))
	} else {
		states, err = space.GetInitialSketch(len(stored), run.Strategy)
		if err != nil {
			return WrapExitError(ExitCommandError, "sketch regeneration failed", err)
		}
	}

	fingerprints := make([]string, len(states))
	for i, state := range states {
		fingerprints[i] = state.Fingerprint()
	}

	result, err := st.ReplayCheck(ctx, opts.RunToken, fingerprints)
	if err != nil {
		return WrapExitError(ExitCommandError, "replay check failed", err)
	}

	return outputReplayReport(formatter, ReplayReport{
		RunToken:      result.RunToken,
		Deterministic: result.Match,
		Count:         result.Count,
		Ordinal:       result.Ordinal,
		Want:          result.Want,
		Got:           result.Got,
	})
}

func outputReplayReport(formatter *OutputFormatter, report ReplayReport) error {
	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else if report.Deterministic {
		fmt.Fprintf(formatter.Writer, "✓ Run %s deterministic (%d sketches)\n",
			report.RunToken, report.Count)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ Run %s diverged at sketch %d\n",
			report.RunToken, report.Ordinal)
		fmt.Fprintf(formatter.Writer, "  stored:      %s\n", report.Want)
		fmt.Fprintf(formatter.Writer, "  regenerated: %s\n", report.Got)
	}

	if !report.Deterministic {
		return NewExitError(ExitFailure,
			fmt.Sprintf("replay diverged at sketch %d", report.Ordinal))
	}
	return nil
}
