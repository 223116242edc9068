/*
Copyright 2025 The AlaudaDevops Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package runner executes external commands and reports their outcome as a Result
package runner

//go:generate mockgen -package=runner -destination=../../testing/mock/github.com/AlaudaDevops/toolbox/auto-release/pkg/runner/runner.go github.com/AlaudaDevops/toolbox/auto-release/pkg/runner Runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// RedactedPlaceholder replaces secret values in logs and errors
const RedactedPlaceholder = "[REDACTED]"

// Command describes a single external command invocation
type Command struct {
	// Name is the executable to run
	Name string
	// Args are the command arguments
	Args []string
	// Dir overrides the runner working directory when set
	Dir string
	// Env is appended to the current process environment
	Env []string
	// Redact lists secret values that must never be logged
	Redact []string
}

// NewCommand creates a command from an executable name and its arguments
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// WithRedact returns a copy of the command that hides the given secrets
func (c Command) WithRedact(secrets ...string) Command {
	redact := append([]string{}, c.Redact...)
	for _, secret := range secrets {
		if secret != "" {
			redact = append(redact, secret)
		}
	}
	if len(redact) == len(c.Redact) {
		return c
	}
	c.Redact = redact
	return c
}

// String returns the command line with secrets redacted
func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return c.Sanitize(strings.Join(parts, " "))
}

// Sanitize removes the command's secrets from text
func (c Command) Sanitize(text string) string {
	for _, secret := range c.Redact {
		if secret == "" {
			continue
		}
		text = strings.ReplaceAll(text, secret, RedactedPlaceholder)
	}
	return text
}

// Result is the outcome of a successful command
type Result struct {
	// Command is the command that produced this result
	Command Command
	// Stdout is the captured standard output
	Stdout string
	// Stderr is the captured standard error
	Stderr string
	// ExitCode is the process exit status
	ExitCode int
	// Duration is the wall time spent running the command
	Duration time.Duration
}

// Output returns trimmed standard output
func (r *Result) Output() string {
	return strings.TrimSpace(r.Stdout)
}

// CommandError reports a command that could not start or exited non-zero
type CommandError struct {
	// Command is the redacted command line
	Command string
	// ExitCode is the exit status, -1 when the process did not start
	ExitCode int
	// Stderr is the redacted standard error text
	Stderr string
	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed with exit code %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Unwrap returns the underlying error
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner runs external commands
type Runner interface {
	// Run executes cmd and blocks until it exits.
	// A non-zero exit status is returned as *CommandError.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// waitDelay bounds how long output pipes are drained after a cancelled process is killed
const waitDelay = 2 * time.Second

// ExecRunner implements Runner with os/exec
type ExecRunner struct {
	// workingDir is the default working directory for commands
	workingDir string
}

// NewExecRunner creates a runner that executes commands in workingDir
func NewExecRunner(workingDir string) *ExecRunner {
	return &ExecRunner{
		workingDir: workingDir,
	}
}

// Run executes the command and captures its output
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	logrus.Infof("Running: %s", cmd)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.WaitDelay = waitDelay
	c.Dir = r.workingDir
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	result := &Result{
		Command:  cmd,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if out := strings.TrimSpace(result.Stdout); out != "" {
		logrus.Debugf("%s output:\n%s", cmd.Name, cmd.Sanitize(out))
	}

	if err != nil {
		cmdErr := &CommandError{
			Command:  cmd.String(),
			ExitCode: -1,
			Stderr:   cmd.Sanitize(result.Stderr),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		result.ExitCode = cmdErr.ExitCode
		logrus.Errorf("Error: %s", cmdErr.Stderr)
		return result, cmdErr
	}

	return result, nil
}

// DryRunRunner logs commands instead of executing them
type DryRunRunner struct{}

// NewDryRunRunner creates a runner that never executes anything
func NewDryRunRunner() *DryRunRunner {
	return &DryRunRunner{}
}

// Run logs the command and reports success
func (r *DryRunRunner) Run(_ context.Context, cmd Command) (*Result, error) {
	logrus.Infof("[dry-run] Would run: %s", cmd)
	return &Result{Command: cmd}, nil
}

var (
	_ Runner = (*ExecRunner)(nil)
	_ Runner = (*DryRunRunner)(nil)
)
