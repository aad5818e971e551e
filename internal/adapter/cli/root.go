// Package cli defines the lintdiff command surface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bkyoung/lintdiff/internal/usecase/lintdiff"
)

// Runner executes one full pipeline run.
type Runner interface {
	Run(ctx context.Context) (lintdiff.Result, error)
}

// Reporter renders a run result for the user.
type Reporter interface {
	Write(result lintdiff.Result) error
}

// BuildOptions carries the resolved settings the host uses to assemble a
// runner for one repository.
type BuildOptions struct {
	RepoDir       string
	LintCommand   string
	LintFormat    string
	LintConfigDir string
	Include       []string
	Exclude       []string
	StoreEnabled  bool
	Verbose       bool
	LogFormat     string
}

// BuildFunc assembles a runner. The returned cleanup func releases runner
// resources (store handles) and may be nil.
type BuildFunc func(opts BuildOptions) (Runner, func(), error)

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Defaults holds configuration-derived defaults that flags may override.
type Defaults struct {
	RepoDir       string
	LintCommand   string
	LintFormat    string
	LintConfigDir string
	Include       []string
	Exclude       []string
	StoreEnabled  bool
	LogFormat     string
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Build    BuildFunc
	Reporter Reporter
	Args     Arguments
	Defaults Defaults
	Version  string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	var showVersion bool
	var verbose bool
	var logFormat string
	var linter string
	var linterConfig string
	var include []string
	var exclude []string
	var noStore bool

	root := &cobra.Command{
		Use:   "lintdiff [repo-path]",
		Short: "Report only the lint findings introduced by your working-tree changes",
		Long: "lintdiff diffs the working tree against the last commit, lints changed\n" +
			"files in both states, and prints only the findings the change introduced.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
				return nil
			}

			repoDir := deps.Defaults.RepoDir
			if len(args) > 0 {
				repoDir = args[0]
			}
			if repoDir == "" {
				// No repository given: print usage and exit cleanly.
				return cmd.Help()
			}

			opts := BuildOptions{
				RepoDir:       repoDir,
				LintCommand:   resolveString(linter, deps.Defaults.LintCommand),
				LintFormat:    deps.Defaults.LintFormat,
				LintConfigDir: resolveString(linterConfig, deps.Defaults.LintConfigDir),
				Include:       resolveSlice(include, deps.Defaults.Include),
				Exclude:       resolveSlice(exclude, deps.Defaults.Exclude),
				StoreEnabled:  deps.Defaults.StoreEnabled && !noStore,
				Verbose:       verbose,
				LogFormat:     resolveString(logFormat, deps.Defaults.LogFormat),
			}

			runner, cleanup, err := deps.Build(opts)
			if err != nil {
				return err
			}
			if cleanup != nil {
				defer cleanup()
			}

			result, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			return deps.Reporter.Write(result)
		},
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.Flags().BoolVar(&showVersion, "version", false, "Show version and exit")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.Flags().StringVar(&logFormat, "log-format", "", "Log output format (human, json)")
	root.Flags().StringVar(&linter, "linter", "", "Linter command template (overrides config lint.command)")
	root.Flags().StringVar(&linterConfig, "linter-config", "", "Directory passed to the linter via {config}")
	root.Flags().StringSliceVar(&include, "include", nil, "Glob of files to consider (repeatable)")
	root.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob of files to skip (repeatable)")
	root.Flags().BoolVar(&noStore, "no-store", false, "Disable the run history store for this run")

	return root
}

// resolveString returns the override value if non-empty, otherwise the
// default.
func resolveString(override, defaultValue string) string {
	if override != "" {
		return override
	}
	return defaultValue
}

func resolveSlice(override, defaultValue []string) []string {
	if len(override) > 0 {
		return override
	}
	return defaultValue
}
