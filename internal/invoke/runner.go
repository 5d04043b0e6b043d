// pattern: Imperative Shell

package invoke

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"tagsentry/internal/logging"
)

// Runner executes assembled invocations with the external tool's
// stdout and stderr captured into the logger.
type Runner struct {
	logger *logging.ScopedLogger
}

// NewRunner creates a Runner.
func NewRunner(logger *logging.ScopedLogger) *Runner {
	return &Runner{logger: logger}
}

// Run executes one invocation and blocks until it exits. A non-zero
// exit status is returned as an error.
func (r *Runner) Run(ctx context.Context, inv Invocation) error {
	cmd := exec.CommandContext(ctx, inv.ToolPath, inv.Argv()...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	r.logger.Info("running indexer", "command", inv.CommandString())

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", inv.ToolPath, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			r.logger.Info(scanner.Text(), "stream", "stdout", "root", inv.ScanDir)
		}
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			r.logger.Info(scanner.Text(), "stream", "stderr", "root", inv.ScanDir)
		}
	}()

	wg.Wait()
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Warn("indexer exited", "root", inv.ScanDir, "exit_code", exitErr.ExitCode())
			return fmt.Errorf("%s exited with code %d", inv.ToolPath, exitErr.ExitCode())
		}
		return fmt.Errorf("run %s: %w", inv.ToolPath, err)
	}

	r.logger.Info("indexer finished", "root", inv.ScanDir)
	return nil
}

// RunAll executes invocations strictly sequentially and stops on the
// first failure, leaving the remaining invocations unexecuted.
func (r *Runner) RunAll(ctx context.Context, invs []Invocation) error {
	for _, inv := range invs {
		if err := r.Run(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}
