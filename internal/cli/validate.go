package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/paysim/internal/fixtures"
)

// ValidationResult holds fixture validation results.
type ValidationResult struct {
	Path     string                  `json:"path"`
	Valid    bool                    `json:"valid"`
	Accounts int                     `json:"accounts"`
	Errors   []fixtures.FixtureError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <fixture>",
		Short: "Validate an account fixture",
		Long: `Validate a YAML or CUE account fixture without running anything.

Reports every problem found: empty or duplicate ids, unknown status or
scheme names, and balances that are not decimal numbers. CUE fixtures are
also checked against the built-in account schema.

Exit codes:
  0 - Fixture is valid
  1 - Fixture has validation errors
  2 - Fixture could not be read or parsed`,
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
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	logger := newLogger(opts, cmd.ErrOrStderr())

	f, err := fixtures.Parse(path)
	if err != nil {
		if ferr := formatter.Failure(ErrCodeGeneric, err.Error(), nil, nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "failed to parse fixture", err)
	}
	logger.Debug("fixture parsed", "path", path, "accounts", len(f.Accounts))

	result := ValidationResult{
		Path:     path,
		Valid:    true,
		Accounts: len(f.Accounts),
		Errors:   fixtures.Validate(f),
	}

	if len(result.Errors) > 0 {
		result.Valid = false
		msg := fmt.Sprintf("%d validation error(s)", len(result.Errors))
		if opts.Format == "json" {
			if err := formatter.Failure(ErrCodeFixture, msg, result, nil); err != nil {
				return err
			}
		} else {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "✗ %s: %s\n", path, msg)
			for _, e := range result.Errors {
				fmt.Fprintf(w, "  %s\n", e.Error())
			}
		}
		return NewExitError(ExitFailure, msg)
	}

	return formatter.Result(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %s: %d account(s) valid\n", path, result.Accounts)
	})
}
