package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// ErrNotFound is returned when the command binary is not on PATH
var ErrNotFound = errors.New("command not found")

// Command is a single external program invocation
type Command struct {
	Name  string
	Args  []string
	Stdin string // Written to the process stdin when non-empty
}

// New builds a Command from a program name and its arguments
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// CommandRunner is the seam between the wallpaper code and the OS.
//
//go:generate mockgen -destination=mocks/runner_mock.go -package=mocks github.com/genricoloni/weatherdesk/internal/runner CommandRunner
type CommandRunner interface {
	// Run executes the command and waits for it to exit.
	// A missing binary or a non-zero exit status is an error.
	Run(ctx context.Context, cmd Command) error

	// Start spawns the command without waiting for it to exit.
	// Only a failure to spawn is reported.
	Start(ctx context.Context, cmd Command) error

	// Output executes the command and returns its stdout
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands through os/exec, each bounded by a timeout
type ExecRunner struct {
	logger  *zap.Logger
	timeout time.Duration
}

// NewExecRunner creates a runner; a non-positive timeout selects the default
func NewExecRunner(logger *zap.Logger, timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ExecRunner{logger: logger, timeout: timeout}
}

// Run executes the command and waits for it
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if _, err := exec.LookPath(cmd.Name); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	c := r.build(ctx, cmd)
	r.logger.Debug("Running command", zap.Stringer("cmd", cmd))

	output, err := c.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w (output: %s)",
			cmd.Name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Start spawns the command and reaps it in the background
func (r *ExecRunner) Start(ctx context.Context, cmd Command) error {
	if _, err := exec.LookPath(cmd.Name); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, ErrNotFound)
	}

	// Detached from ctx: the process may outlive this call
	c := r.build(context.Background(), cmd)
	r.logger.Debug("Starting command", zap.Stringer("cmd", cmd))

	if err := c.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Name, err)
	}

	go func() {
		if err := c.Wait(); err != nil {
			r.logger.Debug("Background command exited with error",
				zap.String("cmd", cmd.Name),
				zap.Error(err))
		}
	}()
	return nil
}

// Output executes the command and returns what it wrote to stdout
func (r *ExecRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	if _, err := exec.LookPath(cmd.Name); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name, ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	c := r.build(ctx, cmd)
	var stderr bytes.Buffer
	c.Stderr = &stderr

	r.logger.Debug("Reading command output", zap.Stringer("cmd", cmd))

	out, err := c.Output()
	if err != nil {
		return out, fmt.Errorf("%s failed: %w (stderr: %s)",
			cmd.Name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

func (r *ExecRunner) build(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.WaitDelay = time.Second
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}
	return c
}
