// Package gitexec executes external commands on behalf of the mirror
// manager. The Executor interface is the only way the rest of the module
// spawns processes, so tests can substitute scripted outcomes without
// invoking a real binary.
package gitexec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Command describes a single process invocation.
type Command struct {
	Executable string   // executable path or name resolvable via PATH
	Args       []string // arguments, excluding the executable itself
	Dir        string   // working directory, empty for the caller's cwd
	Envs       []string // extra env vars in KEY=VALUE form
}

func (c Command) String() string {
	return c.Executable + " " + strings.Join(c.Args, " ")
}

// Result is the captured outcome of a finished process. Stdout and Stderr
// are raw byte captures and are not assumed to be valid text.
// A non-zero exit is reported here, not as a Go error.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Executor runs a command to completion and reports its outcome.
// Implementations return a Go error only when no outcome exists, ie the
// process could not be spawned or the context was cancelled.
type Executor interface {
	Execute(ctx context.Context, cmd Command) (Result, error)
}

// OSExecutor executes commands using os/exec. When verbose it also echoes
// the command line and streams output to the operator in real time without
// altering the captured result.
type OSExecutor struct {
	verbose bool
	log     *slog.Logger
}

var commandEcho = color.New(color.FgCyan)

func NewOSExecutor(verbose bool, log *slog.Logger) *OSExecutor {
	if log == nil {
		log = slog.Default()
	}
	return &OSExecutor{verbose: verbose, log: log}
}

// Execute runs the command and captures stdout and stderr.
func (e *OSExecutor) Execute(ctx context.Context, cmd Command) (Result, error) {
	e.log.Log(ctx, -8, "running command", "cwd", cmd.Dir, "cmd", cmd.String())

	c := exec.CommandContext(ctx, cmd.Executable, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Envs) > 0 {
		c.Env = append(os.Environ(), cmd.Envs...)
	}

	outbuf := bytes.NewBuffer(nil)
	errbuf := bytes.NewBuffer(nil)
	c.Stdout = outbuf
	c.Stderr = errbuf

	if e.verbose {
		commandEcho.Fprintln(os.Stderr, "+ "+cmd.String())
		c.Stdout = io.MultiWriter(outbuf, os.Stdout)
		c.Stderr = io.MultiWriter(errbuf, os.Stderr)
	}

	start := time.Now()
	err := c.Run()
	runTime := time.Since(start)

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	if err != nil {
		exitErr := &exec.ExitError{}
		if !errors.As(err, &exitErr) {
			// process could not be spawned
			return Result{}, err
		}
	}

	res := Result{
		ExitCode: c.ProcessState.ExitCode(),
		Stdout:   outbuf.Bytes(),
		Stderr:   errbuf.Bytes(),
	}
	e.log.Log(ctx, -8, "command result",
		"exit-code", res.ExitCode,
		"stdout", strings.TrimSpace(string(res.Stdout)),
		"stderr", strings.TrimSpace(string(res.Stderr)),
		"time", runTime)

	return res, nil
}
