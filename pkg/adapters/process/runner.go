package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// waitDelay bounds how long a cancelled tool may keep its output pipes open.
const waitDelay = time.Second

// Runner implements ports.ToolRunner by executing local processes.
// Only registered tools can run.
type Runner struct {
	mu       sync.RWMutex
	registry map[string]registeredProcess
	baseDir  string
	invalid  []error
}

type registeredProcess struct {
	Command string
	Args    []string
	Env     map[string]string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithTools registers every configured tool.
// Invalid command lines are reported by NewRunner.
func WithTools(tools []ToolConfig) RunnerOption {
	return func(r *Runner) {
		for _, tool := range tools {
			cmd, args, err := tool.commandLine()
			if err != nil {
				r.invalid = append(r.invalid, err)
				continue
			}
			r.register(tool.Name, registeredProcess{Command: cmd, Args: args, Env: tool.Env})
		}
	}
}

// WithBaseDir sets the working directory for calls that do not name one.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a new process runner.
func NewRunner(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		registry: make(map[string]registeredProcess),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := errors.Join(r.invalid...); err != nil {
		return nil, err
	}
	r.invalid = nil
	return r, nil
}

// Register adds a trusted command to the allow-list.
func (r *Runner) Register(name string, command string, args ...string) {
	r.register(name, registeredProcess{Command: command, Args: args})
}

func (r *Runner) register(name string, p registeredProcess) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry[name] = p
}

// Tools returns the registered tool names, sorted.
func (r *Runner) Tools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run implements ports.ToolRunner.
// The call's arguments are appended to the registered command line.
func (r *Runner) Run(ctx context.Context, call domain.ToolCall) (domain.ToolResult, error) {
	r.mu.RLock()
	proc, ok := r.registry[call.Name]
	r.mu.RUnlock()
	if !ok {
		return domain.ToolResult{ID: call.ID}, fmt.Errorf("%w: %s", domain.ErrToolNotRegistered, call.Name)
	}

	args := append(append([]string(nil), proc.Args...), call.Args...)
	cmd := exec.CommandContext(ctx, proc.Command, args...)
	cmd.WaitDelay = waitDelay
	cmd.Dir = r.baseDir
	if call.Dir != "" {
		cmd.Dir = call.Dir
	}
	cmd.Env = append(cmd.Environ(), envList(proc.Env)...)
	cmd.Env = append(cmd.Env, envList(call.Env)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := domain.ToolResult{
		ID:       call.ID,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("tool %s interrupted: %w", call.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.IsError = true
		result.ExitCode = exitErr.ExitCode()
		result.Error = fmt.Sprintf("exit status %d", result.ExitCode)
		return result, nil
	default:
		// The process never started.
		return result, fmt.Errorf("tool %s: %w", call.Name, err)
	}
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(env))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
