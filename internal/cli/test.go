package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/paysim/internal/scenario"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // rewrite golden summaries instead of comparing
	Filter string // glob over scenario file names without extension
}

// Golden summary states reported per scenario.
const (
	GoldenAbsent   = "absent"
	GoldenMatched  = "matched"
	GoldenMismatch = "mismatch"
	GoldenUpdated  = "updated"
)

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Pass     bool     `json:"pass"`
	Recorded int      `json:"recorded"`
	Golden   string   `json:"golden,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// TestResult aggregates every scenario in a run of the test command.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *TestResult) add(sr ScenarioResult) {
	r.Scenarios = append(r.Scenarios, sr)
	r.Total++
	if sr.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run simulation scenarios",
		Long: `Run every scenario file in a directory and check its assertions.

Scenarios run on fresh in-memory stores with a fixed seed. When
<scenarios-dir>/golden/<file>.golden exists the run summary must also
match it byte for byte; --update rewrites those files.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing directory, bad filter)

Examples:
  paysim test ./scenarios
  paysim test ./scenarios --filter "reference-*"
  paysim test ./scenarios --update
  paysim test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden summaries")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose name matches this glob")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	files, err := scenarioFiles(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot list scenarios", err)
	}
	logger.Debug("scenarios found", "dir", dir, "count", len(files))

	result := TestResult{Scenarios: []ScenarioResult{}}
	ctx := commandContext(cmd)
	for _, file := range files {
		sr := runScenarioFile(ctx, file, opts.Update)
		logger.Debug("scenario finished", "name", sr.Name, "pass", sr.Pass, "golden", sr.Golden)
		result.add(sr)
	}

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		if opts.Format == "json" {
			if err := formatter.Failure(ErrCodeTestsFailed, msg, result, nil); err != nil {
				return err
			}
		} else {
			printTestResult(cmd.OutOrStdout(), result)
		}
		return NewExitError(ExitFailure, msg)
	}

	return formatter.Result(result, func(w io.Writer) {
		printTestResult(w, result)
	})
}

// scenarioFiles lists the .yaml and .yml files directly inside dir.
// Subdirectories such as golden/ and fixtures/ are not searched.
func scenarioFiles(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("scenarios directory not found: %s", dir)
		}
		return nil, err
	}
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, strings.TrimSuffix(name, ext)); !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}

// runScenarioFile loads, runs and checks one scenario. Problems of every
// kind are reported in the result rather than returned.
func runScenarioFile(ctx context.Context, file string, update bool) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(file), File: file}

	s, err := scenario.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return sr
	}
	sr.Name = s.Name

	run, err := scenario.Run(ctx, s)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}
	sr.Recorded = run.Report.Recorded()
	sr.Errors = run.Errors

	summary, err := scenario.Summarize(s, run)
	if err != nil {
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to summarize: %v", err))
		return sr
	}

	golden, err := checkGolden(goldenPathFor(file), summary, update)
	sr.Golden = golden
	switch {
	case err != nil:
		sr.Errors = append(sr.Errors, err.Error())
	case golden == GoldenMismatch:
		sr.Errors = append(sr.Errors, "summary does not match golden file (run with --update to regenerate)")
	}

	sr.Pass = len(sr.Errors) == 0
	return sr
}

// checkGolden compares summary with the file at path, or rewrites the file
// when update is set. A missing file is not an error.
func checkGolden(path string, summary []byte, update bool) (string, error) {
	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return GoldenUpdated, fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, summary, 0644); err != nil {
			return GoldenUpdated, fmt.Errorf("failed to update golden file: %w", err)
		}
		return GoldenUpdated, nil
	}

	want, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return GoldenAbsent, nil
	case err != nil:
		return GoldenMismatch, fmt.Errorf("failed to read golden file: %w", err)
	case !bytes.Equal(want, summary):
		return GoldenMismatch, nil
	}
	return GoldenMatched, nil
}

// goldenPathFor maps dir/name.yaml to dir/golden/name.golden.
func goldenPathFor(file string) string {
	base := filepath.Base(file)
	return filepath.Join(filepath.Dir(file), "golden", strings.TrimSuffix(base, filepath.Ext(base))+".golden")
}

func printTestResult(w io.Writer, result TestResult) {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}

	for _, sr := range result.Scenarios {
		if !sr.Pass {
			fmt.Fprintf(w, "✗ %s\n", sr.Name)
			for _, msg := range sr.Errors {
				fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(msg, "\n", "\n  "))
			}
			continue
		}
		note := ""
		if sr.Golden == GoldenUpdated {
			note = " (golden updated)"
		}
		fmt.Fprintf(w, "✓ %s%s\n", sr.Name, note)
	}

	fmt.Fprintf(w, "\nScenarios: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}
