// Package lintdiff orchestrates the pipeline: diff the working tree, lint
// changed files in both states, and keep only the findings the change
// introduced.
package lintdiff

import (
	"context"
	"fmt"
	"time"

	"github.com/bkyoung/lintdiff/internal/diff"
	"github.com/bkyoung/lintdiff/internal/domain"
	"github.com/bkyoung/lintdiff/internal/usecase/reconcile"
)

// GitEngine is the version-control collaborator.
type GitEngine interface {
	ChangedFiles(ctx context.Context) ([]string, error)
	WorkingTreeDiff(ctx context.Context) (string, error)
	WithPristineTree(ctx context.Context, fn func(context.Context) error) error
	Head(ctx context.Context) (string, error)
}

// Linter runs one full, independent lint of a single file.
type Linter interface {
	Lint(ctx context.Context, dir, file string) ([]domain.Finding, error)
}

// Store optionally records completed runs.
type Store interface {
	RecordRun(ctx context.Context, run RunRecord) error
}

// Logger is the optional structured logger dependency.
type Logger interface {
	LogDebug(ctx context.Context, message string, fields map[string]interface{})
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
	LogError(ctx context.Context, message string, fields map[string]interface{})
}

// RunRecord summarizes one completed run for the history store.
type RunRecord struct {
	Timestamp    time.Time
	Repository   string
	Head         string
	ChangedFiles int
	Findings     []domain.Finding
}

// FileReport holds the newly introduced findings for one file, in ascending
// line order.
type FileReport struct {
	Path     string
	Findings []domain.Finding
}

// FileError records a per-file failure that did not abort the run.
type FileError struct {
	Path string
	Err  error
}

// Result is the outcome of one run. Files follow the diff order of the
// repository comparison; Errors are reported alongside, never silently
// dropped.
type Result struct {
	Files        []FileReport
	Errors       []FileError
	ChangedFiles int
}

// NewFindingCount returns the total number of reported findings.
func (r Result) NewFindingCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Findings)
	}
	return n
}

// OrchestratorDeps captures the collaborators for the pipeline.
type OrchestratorDeps struct {
	Git     GitEngine
	Linter  Linter
	Filter  *PathFilter
	Store   Store
	Logger  Logger
	RepoDir string
	Now     func() time.Time
}

// Orchestrator wires the pipeline together.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator constructs an orchestrator from its dependencies.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{deps: deps}
}

// fileState tracks one changed file through the passes.
type fileState struct {
	fd        diff.FileDiff
	newByLine domain.FindingsByLine
	oldByLine domain.FindingsByLine
	oldLinted bool
	failed    bool
}

// Run executes the full pipeline. Per-file failures are collected in the
// Result; the returned error is reserved for run-fatal conditions (git
// failures, working-tree restore failure).
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	var result Result

	changed, err := o.deps.Git.ChangedFiles(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list changed files: %w", err)
	}
	changed = o.deps.Filter.Apply(changed)
	result.ChangedFiles = len(changed)
	if len(changed) == 0 {
		o.logDebug(ctx, "no changed files", nil)
		return result, nil
	}

	raw, err := o.deps.Git.WorkingTreeDiff(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("diff working tree: %w", err)
	}

	states, inputErrs := o.collectFileStates(raw, changed)
	result.Errors = append(result.Errors, inputErrs...)

	// Pass 1: lint the new version of every candidate file.
	for _, st := range states {
		path := st.fd.NewPath
		findings, lintErr := o.deps.Linter.Lint(ctx, o.deps.RepoDir, path)
		if lintErr != nil {
			// Soft failure: this file is skipped, the run continues.
			o.logWarning(ctx, "lint failed on working tree", map[string]interface{}{"file": path, "error": lintErr.Error()})
			result.Errors = append(result.Errors, FileError{Path: path, Err: lintErr})
			st.failed = true
			continue
		}
		st.newByLine = domain.GroupByLine(findings)
	}

	// Pass 2: lint the old version of files that still have candidate
	// findings and previously existed. One stash scope for the whole run;
	// repository-state mutation is exclusive.
	var needOld []*fileState
	for _, st := range states {
		if !st.failed && len(st.newByLine) > 0 && st.fd.OldPath != "" {
			needOld = append(needOld, st)
		}
	}
	if len(needOld) > 0 {
		err := o.deps.Git.WithPristineTree(ctx, func(ctx context.Context) error {
			for _, st := range needOld {
				findings, lintErr := o.deps.Linter.Lint(ctx, o.deps.RepoDir, st.fd.OldPath)
				if lintErr != nil {
					o.logWarning(ctx, "lint failed on committed state", map[string]interface{}{"file": st.fd.OldPath, "error": lintErr.Error()})
					result.Errors = append(result.Errors, FileError{Path: st.fd.Path(), Err: lintErr})
					st.failed = true
					continue
				}
				st.oldByLine = domain.GroupByLine(findings)
				st.oldLinted = true
			}
			return nil
		})
		if err != nil {
			// Includes restore failure, which leaves the tree indeterminate.
			o.logError(ctx, "pristine-tree scope failed", map[string]interface{}{"error": err.Error()})
			return result, err
		}
	}

	// Pass 3: map lines and reconcile.
	for _, st := range states {
		if st.failed || len(st.newByLine) == 0 {
			continue
		}

		var introduced []domain.Finding
		if !st.oldLinted {
			// Created or untracked file: no old side, everything is new.
			introduced = reconcile.Reconcile(st.newByLine, nil, identityMap(st.newByLine))
		} else {
			lineMap, mapErr := diff.MapLineHeaders(st.fd.HunkHeaders, st.newByLine.Lines())
			if mapErr != nil {
				result.Errors = append(result.Errors, FileError{Path: st.fd.Path(), Err: mapErr})
				continue
			}
			introduced = reconcile.Reconcile(st.newByLine, st.oldByLine, lineMap)
		}

		if len(introduced) > 0 {
			result.Files = append(result.Files, FileReport{Path: st.fd.NewPath, Findings: introduced})
		}
	}

	o.recordRun(ctx, result)
	return result, nil
}

// collectFileStates merges the segmented diff with the changed-file list.
// Diff order is preserved; changed files absent from the diff (untracked
// files) are appended as created files. Deleted and binary records are
// skipped; malformed blocks become per-file input errors.
func (o *Orchestrator) collectFileStates(raw string, changed []string) ([]*fileState, []FileError) {
	changedSet := make(map[string]bool, len(changed))
	for _, path := range changed {
		changedSet[path] = true
	}

	var states []*fileState
	var errs []FileError
	seen := make(map[string]bool)

	for _, fd := range diff.Segment(raw) {
		seen[fd.Path()] = true
		switch {
		case fd.Malformed:
			// Unprocessable, not droppable.
			errs = append(errs, FileError{Path: fd.Path(), Err: fmt.Errorf("diff block missing ---/+++ markers")})
			continue
		case fd.NewPath == "":
			// Deleted file: nothing to lint.
			continue
		case fd.IsBinary:
			continue
		case !changedSet[fd.NewPath]:
			// Filtered out.
			continue
		}
		states = append(states, &fileState{fd: fd})
	}

	for _, path := range changed {
		if !seen[path] {
			// Untracked file: created, no old side.
			states = append(states, &fileState{fd: diff.FileDiff{NewPath: path}})
		}
	}

	return states, errs
}

// identityMap builds a line map sending every line to "none"; used for files
// with no previous version.
func identityMap(byLine domain.FindingsByLine) diff.LineMap {
	lm := make(diff.LineMap, len(byLine))
	for line := range byLine {
		lm[line] = diff.NoOldLine
	}
	return lm
}

func (o *Orchestrator) recordRun(ctx context.Context, result Result) {
	if o.deps.Store == nil {
		return
	}

	head := ""
	if h, err := o.deps.Git.Head(ctx); err == nil {
		head = h
	}

	var findings []domain.Finding
	for _, f := range result.Files {
		findings = append(findings, f.Findings...)
	}
	record := RunRecord{
		Timestamp:    o.deps.Now(),
		Repository:   o.deps.RepoDir,
		Head:         head,
		ChangedFiles: result.ChangedFiles,
		Findings:     findings,
	}
	if err := o.deps.Store.RecordRun(ctx, record); err != nil {
		// History is ancillary; a store failure never fails the run.
		o.logWarning(ctx, "failed to record run", map[string]interface{}{"error": err.Error()})
	}
}

func (o *Orchestrator) logDebug(ctx context.Context, msg string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogDebug(ctx, msg, fields)
	}
}

func (o *Orchestrator) logWarning(ctx context.Context, msg string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, msg, fields)
	}
}

func (o *Orchestrator) logError(ctx context.Context, msg string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogError(ctx, msg, fields)
	}
}
