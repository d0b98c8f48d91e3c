package scriptrun

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLaunchPlan(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("executable-bit semantics are POSIX")
	}
	dir := t.TempDir()

	tests := []struct {
		name        string
		file        string
		mode        os.FileMode
		args        []string
		wantProgram string // "SELF" means the script path itself
		wantArgv    []string
	}{
		{
			name: "executable bit wins over extension",
			file: "tool.py", mode: 0o755,
			args:        []string{"a", "b"},
			wantProgram: "SELF",
			wantArgv:    []string{"a", "b"},
		},
		{
			name: "python script via interpreter",
			file: "extract.py", mode: 0o644,
			args:        []string{"x"},
			wantProgram: "python3",
			wantArgv:    []string{"SELF", "x"},
		},
		{
			name: "shell script via bash",
			file: "run.sh", mode: 0o644,
			wantProgram: "bash",
			wantArgv:    []string{"SELF"},
		},
		{
			name: "javascript via node",
			file: "index.js", mode: 0o644,
			wantProgram: "node",
			wantArgv:    []string{"SELF"},
		},
		{
			name: "unknown extension falls back to direct",
			file: "data.xyz", mode: 0o644,
			wantProgram: "SELF",
			wantArgv:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeScript(t, dir, tt.file, "#!/bin/sh\n", tt.mode)
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			program, argv := launchPlan(path, info, tt.args)

			wantProgram := tt.wantProgram
			if wantProgram == "SELF" {
				wantProgram = path
			}
			if program != wantProgram {
				t.Errorf("program = %q, want %q", program, wantProgram)
			}
			wantArgv := make([]string, 0, len(tt.wantArgv))
			for _, a := range tt.wantArgv {
				if a == "SELF" {
					a = path
				}
				wantArgv = append(wantArgv, a)
			}
			if len(argv) != len(wantArgv) {
				t.Fatalf("argv = %v, want %v", argv, wantArgv)
			}
			for i := range wantArgv {
				if argv[i] != wantArgv[i] {
					t.Errorf("argv[%d] = %q, want %q", i, argv[i], wantArgv[i])
				}
			}
		})
	}
}

func TestRunCapturesOutput(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("test scripts are POSIX shell")
	}
	ctx := context.Background()
	dir := t.TempDir()

	path := writeScript(t, dir, "hello.sh", "echo out-line\necho err-line >&2\n", 0o644)

	res, err := New().Run(ctx, Request{Path: path, WorkDir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "out-line" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "err-line" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	combined := res.Combined()
	if !strings.Contains(combined, "out-line") || !strings.Contains(combined, "[stderr]") {
		t.Errorf("Combined = %q", combined)
	}
	if strings.Contains(combined, "[exit code:") {
		t.Errorf("Combined for success should not carry an exit-code marker: %q", combined)
	}
}

func TestRunNonZeroExitIsContentNotError(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("test scripts are POSIX shell")
	}
	ctx := context.Background()
	dir := t.TempDir()

	path := writeScript(t, dir, "fail.sh", "echo before-failure\nexit 3\n", 0o644)

	res, err := New().Run(ctx, Request{Path: path, WorkDir: dir})
	if err != nil {
		t.Fatalf("Run returned dispatcher error for failing script: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.Combined(), "[exit code: 3]") {
		t.Errorf("Combined = %q, want exit-code marker", res.Combined())
	}
}

func TestRunExecutableDirectly(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("executable-bit semantics are POSIX")
	}
	ctx := context.Background()
	dir := t.TempDir()

	path := writeScript(t, dir, "direct", "#!/bin/sh\necho direct-run\n", 0o755)

	res, err := New().Run(ctx, Request{Path: path, WorkDir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "direct-run" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestRunPipesStdin(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("test scripts are POSIX shell")
	}
	ctx := context.Background()
	dir := t.TempDir()

	path := writeScript(t, dir, "echoin.sh", "cat\n", 0o644)

	res, err := New().Run(ctx, Request{Path: path, WorkDir: dir, Stdin: "piped input\n"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stdout != "piped input\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestRunWorkdirIsSkillRoot(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("test scripts are POSIX shell")
	}
	ctx := context.Background()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("here"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeScript(t, dir, "readrel.sh", "cat marker.txt\n", 0o644)

	res, err := New().Run(ctx, Request{Path: path, WorkDir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stdout != "here" {
		t.Errorf("Stdout = %q, want relative read against workdir", res.Stdout)
	}
}

func TestRunTimeout(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("test scripts are POSIX shell")
	}
	ctx := context.Background()
	dir := t.TempDir()

	path := writeScript(t, dir, "hang.sh", "sleep 30\n", 0o644)

	start := time.Now()
	res, err := New(WithTimeout(100 * time.Millisecond)).Run(ctx, Request{Path: path, WorkDir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.TimedOut {
		t.Errorf("TimedOut = false")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("timeout not enforced, run took %v", elapsed)
	}
	if !strings.Contains(res.Combined(), "[timed out]") {
		t.Errorf("Combined = %q, want timeout marker", res.Combined())
	}
}

func TestRunMissingScriptIsDispatcherError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := New().Run(ctx, Request{Path: filepath.Join(t.TempDir(), "nope.sh"), WorkDir: t.TempDir()})
	if err == nil {
		t.Fatalf("Run of missing script: err = nil")
	}
}

func TestCombinedEmpty(t *testing.T) {
	t.Parallel()
	if got := (Result{}).Combined(); got != "(no output)" {
		t.Errorf("Combined = %q", got)
	}
}
