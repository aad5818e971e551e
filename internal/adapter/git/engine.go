// Package git implements the version-control collaborator: changed-file
// listing, zero-context working-tree diffs, and the pristine-tree scope used
// to lint the last committed state.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	goGit "github.com/go-git/go-git/v5"
)

// ErrRestoreFailed indicates the working tree could not be restored after a
// pristine-tree scope. The tree may be in an indeterminate state; this must
// never be swallowed.
var ErrRestoreFailed = errors.New("failed to restore working tree from stash")

// ErrNotARepository indicates the configured directory is not inside a git
// repository.
var ErrNotARepository = errors.New("not a git repository")

// Engine runs version-control operations for one repository. Repository
// discovery and ref resolution go through go-git; working-tree operations
// (status, diff, stash) shell out to git, which go-git does not cover.
type Engine struct {
	repoDir string
}

// NewEngine constructs an engine for the provided repository directory.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// Validate confirms repoDir is inside a git repository.
func (e *Engine) Validate() error {
	if _, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true}); err != nil {
		return fmt.Errorf("%w: %s", ErrNotARepository, e.repoDir)
	}
	return nil
}

// Head returns the current HEAD commit hash.
func (e *Engine) Head(ctx context.Context) (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// ChangedFiles lists files with staged or unstaged changes, plus untracked
// files, in status order. Deleted files are included; rename lines yield the
// new path.
func (e *Engine) ChangedFiles(ctx context.Context) ([]string, error) {
	out, err := runGitCommand(ctx, e.repoDir, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	return parseChangedFiles(out), nil
}

// parseChangedFiles extracts file paths from porcelain status output,
// preserving status order.
func parseChangedFiles(out string) []string {
	trimmed := strings.TrimRight(out, "\r\n")
	if trimmed == "" {
		return nil
	}

	lines := strings.Split(trimmed, "\n")
	files := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(line) < 4 {
			continue
		}
		path, _ := ExtractPathAndOldPath(line)
		// Untracked directories are reported with a trailing slash.
		if path != "" && !strings.HasSuffix(path, "/") {
			files = append(files, path)
		}
	}
	return files
}

// WorkingTreeDiff returns the zero-context unified diff of the working tree
// against HEAD, covering staged and unstaged changes.
func (e *Engine) WorkingTreeDiff(ctx context.Context) (string, error) {
	out, err := runGitCommand(ctx, e.repoDir, "diff", "--unified=0", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}
	return out, nil
}

// WithPristineTree stashes the working-tree changes, runs fn against the
// last committed state, and restores the stash on every exit path. Only one
// such scope may be active for a repository; callers must not nest it. A
// restore failure wraps ErrRestoreFailed and outranks fn's error.
func (e *Engine) WithPristineTree(ctx context.Context, fn func(context.Context) error) (err error) {
	status, statusErr := runGitCommand(ctx, e.repoDir, "status", "--porcelain", "--untracked-files=no")
	if statusErr != nil {
		return fmt.Errorf("git status: %w", statusErr)
	}
	if strings.TrimSpace(status) == "" {
		// Nothing to stash; the tree already is the committed state.
		return fn(ctx)
	}

	if _, stashErr := runGitCommand(ctx, e.repoDir, "stash", "push", "--quiet"); stashErr != nil {
		return fmt.Errorf("git stash push: %w", stashErr)
	}

	defer func() {
		// Restore runs unconditionally, including when fn failed or the
		// context was cancelled mid-scope. --index reinstates staged hunks
		// as staged; a plain pop would demote them to unstaged.
		if _, popErr := runGitCommand(context.WithoutCancel(ctx), e.repoDir, "stash", "pop", "--index", "--quiet"); popErr != nil {
			err = fmt.Errorf("%w: %v", ErrRestoreFailed, popErr)
		}
	}()

	return fn(ctx)
}

func runGitCommand(ctx context.Context, repoDir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", repoDir}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git %v: %w", args, ctx.Err())
		}
		if stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %v: %w", args, err)
	}
	return stdout.String(), nil
}

// ExtractPathAndOldPath extracts the current path and, for renames, the old
// path from one porcelain status line ("R  old -> new").
func ExtractPathAndOldPath(line string) (path, oldPath string) {
	if len(line) <= 3 {
		return strings.TrimSpace(line), ""
	}
	pathPart := strings.TrimSpace(line[3:])
	if strings.Contains(pathPart, " -> ") {
		parts := strings.Split(pathPart, " -> ")
		if len(parts) == 2 {
			return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0])
		}
	}
	return pathPart, ""
}
