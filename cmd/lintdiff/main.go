package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bkyoung/lintdiff/internal/adapter/cli"
	"github.com/bkyoung/lintdiff/internal/adapter/git"
	"github.com/bkyoung/lintdiff/internal/adapter/lint"
	"github.com/bkyoung/lintdiff/internal/adapter/observability"
	"github.com/bkyoung/lintdiff/internal/adapter/output/terminal"
	"github.com/bkyoung/lintdiff/internal/adapter/store/sqlite"
	"github.com/bkyoung/lintdiff/internal/config"
	"github.com/bkyoung/lintdiff/internal/usecase/lintdiff"
	"github.com/bkyoung/lintdiff/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Cancellable context with signal handling so an interrupted run still
	// unwinds the pristine-tree scope.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "lintdiff",
		EnvPrefix:   "LINTDIFF",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	reporter := terminal.NewWriter(os.Stdout, os.Stderr)

	root := cli.NewRootCommand(cli.Dependencies{
		Build:    buildRunner(cfg),
		Reporter: reporter,
		Defaults: cli.Defaults{
			RepoDir:       cfg.Git.RepositoryDir,
			LintCommand:   cfg.Lint.Command,
			LintFormat:    cfg.Lint.Format,
			LintConfigDir: cfg.Lint.ConfigDir,
			Include:       cfg.Lint.Include,
			Exclude:       cfg.Lint.Exclude,
			StoreEnabled:  cfg.Store.Enabled,
			LogFormat:     cfg.Log.Format,
		},
		Version: version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// buildRunner returns the factory the CLI uses to assemble the pipeline for
// a resolved repository and flag set.
func buildRunner(cfg config.Config) cli.BuildFunc {
	return func(opts cli.BuildOptions) (cli.Runner, func(), error) {
		engine := git.NewEngine(opts.RepoDir)
		if err := engine.Validate(); err != nil {
			return nil, nil, err
		}

		runner, err := lint.NewRunner(opts.LintCommand, opts.LintConfigDir, opts.LintFormat)
		if err != nil {
			return nil, nil, err
		}

		level := observability.ParseLevel(cfg.Log.Level)
		if opts.Verbose {
			level = observability.LogLevelDebug
		}
		logger := observability.NewDefaultLogger(level, observability.ParseFormat(opts.LogFormat))

		var store lintdiff.Store
		cleanup := func() {}
		if opts.StoreEnabled {
			storeDir := filepath.Dir(cfg.Store.Path)
			if err := os.MkdirAll(storeDir, 0o755); err != nil {
				log.Printf("warning: failed to create store directory: %v", err)
			} else if sqliteStore, err := sqlite.NewStore(cfg.Store.Path); err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				store = sqliteStore
				cleanup = func() { _ = sqliteStore.Close() }
			}
		}

		orchestrator := lintdiff.NewOrchestrator(lintdiff.OrchestratorDeps{
			Git:     engine,
			Linter:  runner,
			Filter:  lintdiff.NewPathFilter(opts.Include, opts.Exclude),
			Store:   store,
			Logger:  logger,
			RepoDir: opts.RepoDir,
		})
		return orchestrator, cleanup, nil
	}
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lintdiff"))
	}
	return paths
}

// Compile-time interface compliance checks
var _ lintdiff.GitEngine = (*git.Engine)(nil)
var _ lintdiff.Linter = (*lint.Runner)(nil)
var _ lintdiff.Store = (*sqlite.Store)(nil)
var _ lintdiff.Logger = (*observability.DefaultLogger)(nil)
var _ cli.Runner = (*lintdiff.Orchestrator)(nil)
var _ cli.Reporter = (*terminal.Writer)(nil)
