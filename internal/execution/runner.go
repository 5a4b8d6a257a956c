package execution

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kballard/go-shellquote"

	"pytexp/internal/config"
	"pytexp/internal/domain"
)

// Runner executes a single pytest entity and waits for it
type Runner struct {
	config *config.Config
	exec   Executor
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg, exec: SystemExecutor}
}

// SetExecutor replaces the process executor
func (r *Runner) SetExecutor(exec Executor) {
	if exec != nil {
		r.exec = exec
	}
}

// Command builds the runner invocation for an entity full path
func (r *Runner) Command(fullPath string) Command {
	args := append([]string{fullPath}, r.config.RunnerArgs...)

	env := os.Environ()
	env = append(env, r.config.RunnerEnv...)

	return Command{
		Name: r.config.GetRunnerPath(),
		Args: args,
		Dir:  r.config.ProjectPath,
		Env:  env,
	}
}

// ShellCommand returns the runner invocation as a single shell-quoted line
func (r *Runner) ShellCommand(fullPath string) string {
	words := append([]string{r.config.Runner, fullPath}, r.config.RunnerArgs...)
	return shellquote.Join(words...)
}

// Run executes the runner for one entity. Test failures are not errors; a runner that cannot start is.
func (r *Runner) Run(ctx context.Context, fullPath string) (domain.RunOutput, error) {
	start := time.Now()
	result, err := r.exec(ctx, r.Command(fullPath))
	if err != nil {
		return domain.RunOutput{}, fmt.Errorf("failed to start %s: %w", r.config.Runner, err)
	}

	return domain.RunOutput{
		Target:   fullPath,
		Stdout:   string(result.Stdout),
		Stderr:   string(result.Stderr),
		ExitCode: result.ExitCode,
		Duration: time.Since(start),
	}, nil
}
