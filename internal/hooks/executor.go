package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/brunorios1080/Isaac-Installer/internal/command"
	"github.com/brunorios1080/Isaac-Installer/internal/config"
	apperrors "github.com/brunorios1080/Isaac-Installer/internal/errors"
)

const (
	directoryPermissions = 0o755
)

// Environment variables exported to command hooks
const (
	EnvCloneDir = "ISAAC_INSTALLER_CLONE_DIR"
	EnvWorkDir  = "ISAAC_INSTALLER_WORK_DIR"
)

// Executor handles hook execution
type Executor struct {
	config   *config.Config
	workDir  string // directory the installer runs from; copy sources resolve here
	cloneDir string // clone destination; copy targets and commands resolve here
	runner   command.Runner
}

// NewExecutor creates a new hook executor
func NewExecutor(cfg *config.Config, workDir, cloneDir string, runner command.Runner) *Executor {
	return &Executor{
		config:   cfg,
		workDir:  workDir,
		cloneDir: cloneDir,
		runner:   runner,
	}
}

// ExecutePostBuildHooks executes all post-build hooks and streams output to writer
func (e *Executor) ExecutePostBuildHooks(ctx context.Context, w io.Writer) error {
	if !e.config.HasHooks() {
		return nil
	}

	for i, hook := range e.config.Hooks.PostBuild {
		if err := e.executeHook(ctx, w, &hook); err != nil {
			return apperrors.HookExecutionFailed(i, hook.Type, err)
		}
	}

	return nil
}

func (e *Executor) executeHook(ctx context.Context, w io.Writer, hook *config.Hook) error {
	switch hook.Type {
	case config.HookTypeCopy:
		return e.executeCopyHook(w, hook)
	case config.HookTypeCommand:
		return e.executeCommandHook(ctx, w, hook)
	default:
		return fmt.Errorf("unknown hook type: %s", hook.Type)
	}
}

func (e *Executor) executeCopyHook(w io.Writer, hook *config.Hook) error {
	srcPath := hook.From
	if !filepath.IsAbs(srcPath) {
		srcPath = filepath.Join(e.workDir, srcPath)
	}

	dstPath := hook.To
	if !filepath.IsAbs(dstPath) {
		dstPath = filepath.Join(e.cloneDir, dstPath)
	}

	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("source path does not exist: %s: %w", srcPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), directoryPermissions); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	relSrc, _ := filepath.Rel(e.workDir, srcPath)
	relDst, _ := filepath.Rel(e.cloneDir, dstPath)
	fmt.Fprintf(w, "  Copying: %s → %s\n", relSrc, relDst)

	if srcInfo.IsDir() {
		return copyDir(srcPath, dstPath)
	}
	return copyFile(srcPath, dstPath)
}

func (e *Executor) executeCommandHook(ctx context.Context, w io.Writer, hook *config.Hook) error {
	workDir := hook.WorkDir
	if workDir == "" {
		workDir = e.cloneDir
	} else if !filepath.IsAbs(workDir) {
		workDir = filepath.Join(e.cloneDir, workDir)
	}

	env := make([]string, 0, len(hook.Env)+2)
	for key, value := range hook.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	env = append(env,
		fmt.Sprintf("%s=%s", EnvCloneDir, e.cloneDir),
		fmt.Sprintf("%s=%s", EnvWorkDir, e.workDir))

	_, err := e.runner.Run(ctx, w, command.Command{
		Line:    hook.Command,
		WorkDir: workDir,
		Env:     env,
	})
	return err
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	srcInfo, err := sourceFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to get source file info: %w", err)
	}

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}

	return nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return copyFile(path, target)
	})
}
