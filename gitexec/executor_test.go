package gitexec

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestOSExecutor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}

	e := NewOSExecutor(false, nil)

	tests := []struct {
		name         string
		cmd          Command
		wantExitCode int
		wantStdout   string
		wantStderr   string
	}{
		{
			"success",
			Command{Executable: "sh", Args: []string{"-c", "echo out; echo err >&2"}},
			0, "out\n", "err\n",
		},
		{
			"non-zero-exit-is-not-an-error",
			Command{Executable: "sh", Args: []string{"-c", "echo broken >&2; exit 3"}},
			3, "", "broken\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Execute(context.Background(), tt.cmd)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.ExitCode != tt.wantExitCode {
				t.Errorf("exit code = %d, want %d", res.ExitCode, tt.wantExitCode)
			}
			if string(res.Stdout) != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", res.Stdout, tt.wantStdout)
			}
			if string(res.Stderr) != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", res.Stderr, tt.wantStderr)
			}
		})
	}
}

func TestOSExecutorWorkingDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on pwd")
	}

	dir := t.TempDir()
	e := NewOSExecutor(false, nil)

	res, err := e.Execute(context.Background(), Command{Executable: "pwd", Dir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// on darwin TempDir may resolve through /private symlinks
	if got := strings.TrimSpace(string(res.Stdout)); !strings.HasSuffix(got, dir) {
		t.Errorf("pwd = %q, want suffix %q", got, dir)
	}
}

func TestOSExecutorSpawnFailure(t *testing.T) {
	e := NewOSExecutor(false, nil)

	if _, err := e.Execute(context.Background(), Command{Executable: "no-such-binary-copybara"}); err == nil {
		t.Error("expected error for missing executable")
	}
}

func TestOSExecutorContextCancelled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	e := NewOSExecutor(false, nil)
	if _, err := e.Execute(ctx, Command{Executable: "sh", Args: []string{"-c", "sleep 10"}}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
