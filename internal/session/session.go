// Package session tracks a single background installation run.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "github.com/brunorios1080/Isaac-Installer/internal/errors"
)

// State of a background installation
type State int

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	// LockFileName is created in the temp directory while a run is in flight
	LockFileName        = "isaac-installer.lock"
	filePrefix          = "isaac-installer-"
	scriptPermissions   = 0o700
	logFilePermissions  = 0o600
	DefaultPollInterval = time.Second
)

var (
	// ErrAlreadyRunning is returned by Start while a run is in flight
	ErrAlreadyRunning = errors.New("an installation is already running")
	// ErrNotRunning is returned by Wait when nothing was started
	ErrNotRunning = errors.New("no installation is running")
)

// Observer is notified on every state change. It runs with the session locked
// and must not call back into it.
type Observer func(state State, status string)

// Options configure a Session
type Options struct {
	TempDir      string        // defaults to os.TempDir()
	Extension    string        // script file extension, e.g. ".sh"
	PollInterval time.Duration // defaults to DefaultPollInterval
	Starter      Starter
	Observer     Observer
	Logger       logrus.FieldLogger
}

// Session runs one background installation at a time
type Session struct {
	opts Options

	mu         sync.Mutex
	state      State
	err        error
	runID      string
	lock       *flock.Flock
	proc       Process
	scriptPath string
	logPath    string
	logFile    *os.File
}

// New creates an idle session
func New(opts Options) *Session {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	return &Session{opts: opts}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error of the last finished run
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// RunID identifies the current or last run
func (s *Session) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// LogPath is the file receiving the script's output
func (s *Session) LogPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logPath
}

// ScriptPath is the temporary script of the current or last run
func (s *Session) ScriptPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scriptPath
}

// Start writes script to a temporary file and spawns it. Any failure leaves
// the session Idle with nothing on disk but the run log.
func (s *Session) Start(script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Running {
		return ErrAlreadyRunning
	}

	if err := s.start(script); err != nil {
		s.cleanupLocked()
		s.setStateLocked(Idle, err.Error())
		return err
	}

	s.err = nil
	s.setStateLocked(Running, fmt.Sprintf("Installation running (pid %d)", s.proc.Pid()))
	return nil
}

func (s *Session) start(script string) error {
	lockPath := filepath.Join(s.opts.TempDir, LockFileName)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", lockPath, err)
	}
	if !locked {
		return apperrors.InstallationInProgress(lockPath)
	}
	s.lock = lock

	s.runID = uuid.New().String()
	s.proc = nil

	f, err := os.CreateTemp(s.opts.TempDir, filePrefix+"*"+s.opts.Extension)
	if err != nil {
		return fmt.Errorf("failed to create temporary script: %w", err)
	}
	s.scriptPath = f.Name()
	_, writeErr := f.WriteString(script)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("failed to write temporary script: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to write temporary script: %w", closeErr)
	}
	if err := os.Chmod(s.scriptPath, scriptPermissions); err != nil {
		return fmt.Errorf("failed to make script executable: %w", err)
	}

	s.logPath = filepath.Join(s.opts.TempDir, filePrefix+s.runID+".log")
	s.logFile, err = os.OpenFile(s.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}

	proc, err := s.opts.Starter.Start(s.scriptPath, s.logFile)
	if err != nil {
		return err
	}
	s.proc = proc

	s.opts.Logger.WithFields(logrus.Fields{
		"run_id": s.runID,
		"script": s.scriptPath,
		"log":    s.logPath,
		"pid":    proc.Pid(),
	}).Info("Background installation started")
	return nil
}

// Wait polls the running process until it exits or ctx is done. On
// cancellation the process is killed. The returned error is nil only when
// the script exited with status zero.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	proc, scriptPath := s.proc, s.scriptPath
	s.mu.Unlock()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := proc.Kill(); err != nil {
				s.opts.Logger.WithError(err).Warn("Failed to kill background installation")
			}
			return s.finish(Failed, fmt.Errorf("installation interrupted: %w", ctx.Err()))
		case <-ticker.C:
			exited, code, err := proc.Poll()
			if !exited {
				continue
			}
			switch {
			case err != nil:
				return s.finish(Failed, apperrors.SpawnFailed(scriptPath, err))
			case code != 0:
				return s.finish(Failed, apperrors.CommandFailed(scriptPath, code))
			default:
				return s.finish(Succeeded, nil)
			}
		}
	}
}

// Run starts script and waits for it
func (s *Session) Run(ctx context.Context, script string) error {
	if err := s.Start(script); err != nil {
		return err
	}
	return s.Wait(ctx)
}

func (s *Session) finish(state State, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupLocked()
	s.err = err

	status := "Installation completed successfully"
	if err != nil {
		status = fmt.Sprintf("Installation failed: %v", err)
	}
	s.opts.Logger.WithFields(logrus.Fields{
		"run_id": s.runID,
		"state":  state.String(),
	}).Info("Background installation finished")
	s.setStateLocked(state, status)
	return err
}

func (s *Session) cleanupLocked() {
	if s.scriptPath != "" {
		if err := os.Remove(s.scriptPath); err != nil && !os.IsNotExist(err) {
			s.opts.Logger.WithError(err).Warn("Failed to remove temporary script")
		}
	}
	if s.logFile != nil {
		_ = s.logFile.Close()
		s.logFile = nil
	}
	if s.lock != nil {
		_ = s.lock.Unlock()
		s.lock = nil
	}
}

func (s *Session) setStateLocked(state State, status string) {
	s.state = state
	if s.opts.Observer != nil {
		s.opts.Observer(state, status)
	}
}
