// Package scriptrun executes skill-scoped scripts and captures their output.
//
// A failing script is a successful invocation with failure-shaped content:
// non-zero exit surfaces as an exit-code marker in the combined output, not
// as an error. Dispatcher errors are reserved for the host's own failures
// (missing file, spawn failure).
package scriptrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// interpreters maps script extensions to interpreter commands. Files with
// the executable bit set bypass the table; unrecognized extensions fall back
// to direct execution, which surfaces the operating system's error as
// execution failure content.
var interpreters = map[string]string{
	".py": "python3",
	".sh": "bash",
	".js": "node",
}

// DefaultTimeout bounds script runtime. Disable with WithTimeout(0).
const DefaultTimeout = 2 * time.Minute

type Runner struct {
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Runner)

// WithTimeout sets the per-run wall-clock bound. Non-positive disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func New(opts ...Option) *Runner {
	r := &Runner{timeout: DefaultTimeout, logger: slog.Default()}
	for _, o := range opts {
		if o != nil {
			o(r)
		}
	}
	return r
}

// Request describes one script execution. Path must already be resolved and
// contained (see fscatalog.ResolvePath); WorkDir is the skill root, so
// relative paths inside the script resolve against the skill.
type Request struct {
	Path    string
	WorkDir string
	Args    []string

	// Stdin, when non-empty, is written to the child in full and the pipe
	// closed before waiting for completion. No streaming.
	Stdin string
}

type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
}

// Combined assembles the human-readable transcript: stdout, a "[stderr]"
// section, a timeout marker, and an explicit exit-code marker on non-zero
// exit. "(no output)" when nothing else applies.
func (r Result) Combined() string {
	var parts []string
	if r.Stdout != "" {
		parts = append(parts, r.Stdout)
	}
	if r.Stderr != "" {
		parts = append(parts, "[stderr]\n"+r.Stderr)
	}
	if r.TimedOut {
		parts = append(parts, "[timed out]")
	}
	if r.ExitCode != 0 {
		parts = append(parts, fmt.Sprintf("[exit code: %d]", r.ExitCode))
	}
	if len(parts) == 0 {
		return "(no output)"
	}
	return strings.Join(parts, "\n")
}

// Run executes the script synchronously and captures stdout and stderr
// separately. It returns an error only when the invocation itself fails;
// script failure is reported inside the Result.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	info, err := os.Stat(req.Path)
	if err != nil {
		return Result{}, fmt.Errorf("stat script: %w", err)
	}
	program, argv := launchPlan(req.Path, info, req.Args)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, program, argv...)
	cmd.Dir = req.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if req.Stdin != "" {
		cmd.Stdin = strings.NewReader(req.Stdin)
	}

	r.logger.Debug("running skill script", "program", program, "script", req.Path, "workdir", req.WorkDir)

	start := time.Now()
	runErr := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(runErr, &exitErr):
			res.ExitCode = exitErr.ExitCode()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				res.TimedOut = true
			}
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			res.TimedOut = true
			res.ExitCode = -1
		default:
			return Result{}, fmt.Errorf("execute script: %w", runErr)
		}
	}
	return res, nil
}

// launchPlan decides between direct execution and interpreter dispatch.
func launchPlan(path string, info fs.FileInfo, args []string) (program string, argv []string) {
	if isExecutable(info) {
		return path, args
	}
	ext := strings.ToLower(filepath.Ext(path))
	interp, ok := interpreters[ext]
	if !ok {
		// Fallback: direct execution, typically failing at the OS level.
		return path, args
	}
	return interp, append([]string{path}, args...)
}

func isExecutable(info fs.FileInfo) bool {
	if runtime.GOOS == "windows" {
		// No executable bit; every file is treated as directly executable.
		return true
	}
	return info.Mode()&0o111 != 0
}
