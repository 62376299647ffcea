// Package installer runs the clone, dependency, build, hook and launch steps.
package installer

import (
	"context"
	"io"
	"os"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/brunorios1080/Isaac-Installer/internal/command"
	"github.com/brunorios1080/Isaac-Installer/internal/config"
	apperrors "github.com/brunorios1080/Isaac-Installer/internal/errors"
	"github.com/brunorios1080/Isaac-Installer/internal/git"
	"github.com/brunorios1080/Isaac-Installer/internal/hooks"
)

// Step names in execution order
const (
	StepClone  = "clone"
	StepDeps   = "deps"
	StepBuild  = "build"
	StepHooks  = "hooks"
	StepLaunch = "launch"
)

// Steps lists every step in the order Run executes them
var Steps = []string{StepClone, StepDeps, StepBuild, StepHooks, StepLaunch}

// Installer orchestrates the installation steps
type Installer struct {
	cfg      *config.Config
	workDir  string
	cloneDir string
	python   []string
	runner   command.Runner
	report   *Reporter
	logger   logrus.FieldLogger
	hooks    *hooks.Executor
}

// New creates an Installer for cfg rooted at workDir
func New(cfg *config.Config, workDir string, runner command.Runner, out io.Writer, logger logrus.FieldLogger) (*Installer, error) {
	python, err := cfg.PythonCommand()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	cloneDir := cfg.ResolveCloneDir(workDir)
	return &Installer{
		cfg:      cfg,
		workDir:  workDir,
		cloneDir: cloneDir,
		python:   python,
		runner:   runner,
		report:   NewReporter(out),
		logger:   logger,
		hooks:    hooks.NewExecutor(cfg, workDir, cloneDir, runner),
	}, nil
}

// CloneDir returns the absolute clone destination
func (i *Installer) CloneDir() string {
	return i.cloneDir
}

// ValidateSteps rejects unknown step names
func ValidateSteps(names []string) error {
	for _, name := range names {
		if !slices.Contains(Steps, name) {
			return apperrors.UnknownStep(name, Steps)
		}
	}
	return nil
}

// Run executes the named steps in canonical order, or every step when none
// are named. The first failing step aborts the rest.
func (i *Installer) Run(ctx context.Context, steps ...string) error {
	if err := ValidateSteps(steps); err != nil {
		return err
	}

	selected := make(map[string]bool, len(steps))
	for _, s := range steps {
		selected[s] = true
	}

	for _, step := range Steps {
		if len(steps) > 0 && !selected[step] {
			continue
		}
		if i.cfg.IsSkipped(step) {
			i.report.Info("Skipping %s step (disabled in configuration)", step)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		log := i.logger.WithField("step", step)
		log.Debug("Step started")
		if err := i.runStep(ctx, step); err != nil {
			log.WithError(err).Debug("Step failed")
			return apperrors.StepFailed(step, err)
		}
		log.Debug("Step finished")
	}

	i.report.Success("All steps completed")
	return nil
}

func (i *Installer) runStep(ctx context.Context, step string) error {
	switch step {
	case StepClone:
		return i.Clone(ctx)
	case StepDeps:
		return i.InstallDependencies(ctx)
	case StepBuild:
		return i.Build(ctx)
	case StepHooks:
		return i.RunHooks(ctx)
	case StepLaunch:
		return i.Launch(ctx)
	default:
		return apperrors.UnknownStep(step, Steps)
	}
}

// Clone clones the repository unless the destination already exists
func (i *Installer) Clone(ctx context.Context) error {
	state, repo, err := git.Inspect(i.cloneDir)
	if err != nil {
		return err
	}

	switch state {
	case git.Cloned:
		i.describeExisting(repo)
		if i.cfg.UseLFS() && repo.UsesLFS() {
			// An interrupted earlier clone may have left pointer files behind.
			_, err := i.runner.Run(ctx, i.report.Writer(), command.GitLFSPull(i.cloneDir))
			return err
		}
		return nil
	case git.NotRepository:
		i.report.Warn("%s exists but is not a git repository. Skipping clone.", i.cloneDir)
		i.logger.WithField("path", i.cloneDir).Warn("Clone destination is not a repository")
		return nil
	}

	i.report.Step("Cloning Isaac Sim into %s...", i.cloneDir)

	repoCfg := i.cfg.Repository
	clone := command.GitClone(repoCfg.URL, i.cloneDir, command.GitCloneOptions{
		Branch: repoCfg.Branch,
		Depth:  repoCfg.Depth,
	})
	clone.WorkDir = i.workDir

	cmds := []command.Command{clone}
	if i.cfg.UseLFS() {
		cmds = []command.Command{command.GitLFSInstall(), clone, command.GitLFSPull(i.cloneDir)}
	}

	if _, err := command.RunSequence(ctx, i.runner, i.report.Writer(), cmds...); err != nil {
		return err
	}
	i.report.Success("Cloned %s", repoCfg.URL)
	return nil
}

func (i *Installer) describeExisting(repo *git.Repository) {
	head, err := repo.Head()
	if err != nil {
		i.report.Info("%s already exists. Skipping clone.", i.cloneDir)
	} else {
		i.report.Info("%s already exists (%s). Skipping clone.", i.cloneDir, head)
	}

	remote, err := repo.RemoteURL("origin")
	if err == nil && !git.SameRemote(remote, i.cfg.Repository.URL) {
		i.report.Warn("origin of %s is %s, expected %s", i.cloneDir, remote, i.cfg.Repository.URL)
	}
}

// InstallDependencies upgrades pip and installs the dependency manifest.
// A missing manifest skips the step with a warning.
func (i *Installer) InstallDependencies(ctx context.Context) error {
	manifest := config.ResolveStepPath(i.cloneDir, i.cfg.Steps.Requirements)
	if !fileExists(manifest) {
		i.warnMissing(apperrors.EnvironmentMissing("dependency manifest", manifest),
			"Check Isaac Sim docs for dependencies.")
		return nil
	}

	i.report.Step("Installing Python dependencies...")
	upgrade := command.PipUpgrade(i.python)
	install := command.PipInstallRequirements(i.python, manifest)
	upgrade.WorkDir, install.WorkDir = i.cloneDir, i.cloneDir

	if _, err := command.RunSequence(ctx, i.runner, i.report.Writer(), upgrade, install); err != nil {
		return err
	}
	i.report.Success("Dependencies installed")
	return nil
}

// Build runs the vendor build script. A missing script skips the step.
func (i *Installer) Build(ctx context.Context) error {
	script := config.ResolveStepPath(i.cloneDir, i.cfg.Steps.BuildScript)
	if !fileExists(script) {
		i.warnMissing(apperrors.EnvironmentMissing("build script", script),
			"Isaac Sim may be launchable as-is.")
		return nil
	}

	i.report.Step("Running Isaac Sim build script...")
	cmd := command.Script(i.python, script, i.cfg.Steps.BuildArgs...)
	cmd.WorkDir = i.cloneDir
	if _, err := i.runner.Run(ctx, i.report.Writer(), cmd); err != nil {
		return err
	}
	i.report.Success("Build finished")
	return nil
}

// RunHooks executes the configured post-build hooks
func (i *Installer) RunHooks(ctx context.Context) error {
	if !i.cfg.HasHooks() {
		i.logger.Debug("No post-build hooks configured")
		return nil
	}

	i.report.Step("Running post-build hooks...")
	if err := i.hooks.ExecutePostBuildHooks(ctx, i.report.Writer()); err != nil {
		return err
	}
	i.report.Success("All hooks executed successfully")
	return nil
}

// Launch runs the launch script. Unlike the other steps a missing script is
// an error.
func (i *Installer) Launch(ctx context.Context) error {
	script := config.ResolveStepPath(i.cloneDir, i.cfg.Steps.LaunchScript)
	if !fileExists(script) {
		return apperrors.LaunchScriptMissing(script)
	}

	i.report.Step("Launching Isaac Sim...")
	cmd := command.Script(i.python, script, i.cfg.Steps.LaunchArgs...)
	cmd.WorkDir = i.cloneDir
	_, err := i.runner.Run(ctx, i.report.Writer(), cmd)
	return err
}

func (i *Installer) warnMissing(err error, hint string) {
	i.logger.WithError(err).Warn("Skipping step")
	i.report.Warn("%v. %s", err, hint)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
