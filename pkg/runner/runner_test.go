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

package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandString_RedactsSecrets(t *testing.T) {
	cmd := NewCommand("vsce", "publish", "-p", "s3cr3t").WithRedact("s3cr3t", "")

	assert.Equal(t, "vsce publish -p [REDACTED]", cmd.String())
	assert.Equal(t, "bad token [REDACTED]", cmd.Sanitize("bad token s3cr3t"))
}

func TestWithRedact_DoesNotMutateOriginal(t *testing.T) {
	base := NewCommand("echo").WithRedact("a")
	derived := base.WithRedact("b")

	assert.Equal(t, []string{"a"}, base.Redact)
	assert.Equal(t, []string{"a", "b"}, derived.Redact)
}

func TestExecRunner_Success(t *testing.T) {
	r := NewExecRunner(t.TempDir())

	result, err := r.Run(context.Background(), NewCommand("sh", "-c", "echo hello; echo warn 1>&2"))
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Output())
	assert.Equal(t, "warn\n", result.Stderr)
	assert.Equal(t, 0, result.ExitCode)
}

func TestExecRunner_UsesWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0o644))
	r := NewExecRunner(dir)

	result, err := r.Run(context.Background(), NewCommand("ls"))
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "marker")

	other := t.TempDir()
	result, err = r.Run(context.Background(), Command{Name: "ls", Dir: other})
	require.NoError(t, err)
	assert.NotContains(t, result.Stdout, "marker")
}

func TestExecRunner_PassesEnv(t *testing.T) {
	r := NewExecRunner(t.TempDir())

	result, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo $AUTO_RELEASE_TEST_VALUE"},
		Env:  []string{"AUTO_RELEASE_TEST_VALUE=42"},
	})
	require.NoError(t, err)
	assert.Equal(t, "42", result.Output())
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	r := NewExecRunner(t.TempDir())

	cmd := NewCommand("sh", "-c", "echo 'token abc123 rejected' 1>&2; exit 3").WithRedact("abc123")
	result, err := r.Run(context.Background(), cmd)
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, cmdErr.Stderr, "token [REDACTED] rejected")
	assert.NotContains(t, err.Error(), "abc123")
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	r := NewExecRunner(t.TempDir())

	_, err := r.Run(context.Background(), NewCommand("auto-release-definitely-missing-binary"))
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, -1, cmdErr.ExitCode)
}

func TestExecRunner_ContextCancelled(t *testing.T) {
	r := NewExecRunner(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, NewCommand("sleep", "5"))
	assert.Error(t, err)
}

func TestDryRunRunner(t *testing.T) {
	r := NewDryRunRunner()

	result, err := r.Run(context.Background(), NewCommand("git", "push"))
	require.NoError(t, err)
	assert.Equal(t, "git", result.Command.Name)
	assert.Empty(t, result.Stdout)
}
