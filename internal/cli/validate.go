package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylab/autosketch/internal/task"
)

// ValidationResult holds validation results for JSON output.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Task   string `json:"task,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <task.yaml>",
		Short: "Validate a tuning task definition",
		Long: `Validate a tuning task definition without generating sketches.

Checks YAML syntax, schema conformance, and field constraints.
Faster than a full sketch run for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	t, err := task.Load(path)
	if err != nil {
		if formatter.Format == "json" {
			_ = formatter.Success(ValidationResult{Valid: false, Detail: err.Error()})
		} else {
			fmt.Fprintln(formatter.Writer, "✗ Validation failed")
			fmt.Fprintf(formatter.Writer, "  %v\n", err)
		}
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	formatter.VerboseLog("Loaded task %q: %d block(s), target %s", t.Name, len(t.Blocks), t.Target)

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Task: t.Name})
	}
	fmt.Fprintf(formatter.Writer, "✓ Task %q valid\n", t.Name)
	return nil
}
