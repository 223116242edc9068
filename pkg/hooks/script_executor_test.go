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


package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
	mock_runner "github.com/AlaudaDevops/toolbox/auto-release/testing/mock/github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
)

func TestExecuteScript_NilConfig(t *testing.T) {
	executor := NewScriptExecutor(runner.NewExecRunner(t.TempDir()))

	assert.NoError(t, executor.ExecuteScript(context.Background(), StagePreCommit, nil, nil))
	assert.NoError(t, executor.ExecuteScript(context.Background(), StagePreCommit, &config.ScriptConfig{}, nil))
}

func TestExecuteScript_RunsInWorkDirWithEnv(t *testing.T) {
	dir := t.TempDir()
	executor := NewScriptExecutor(runner.NewExecRunner(dir))
	scriptConfig := &config.ScriptConfig{
		Script: `echo "$RELEASE_VERSION" > version.txt`,
	}

	err := executor.ExecuteScript(context.Background(), StagePreCommit, scriptConfig, map[string]string{"RELEASE_VERSION": "1.3.0"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "version.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1.3.0\n", string(data))
}

func TestExecuteScript_TimeoutExceeded(t *testing.T) {
	executor := NewScriptExecutor(runner.NewExecRunner(t.TempDir()))
	scriptConfig := &config.ScriptConfig{
		Script:  "sleep 10",
		Timeout: "1s",
	}

	err := executor.ExecuteScript(context.Background(), StagePrePublish, scriptConfig, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pre-publish script failed")
}

func TestExecuteScript_InvalidTimeoutFormat(t *testing.T) {
	executor := NewScriptExecutor(runner.NewExecRunner(t.TempDir()))
	scriptConfig := &config.ScriptConfig{
		Script:  "echo 'Test'",
		Timeout: "invalid-timeout",
	}

	assert.NoError(t, executor.ExecuteScript(context.Background(), StagePreCommit, scriptConfig, nil))
}

func TestExecuteScript_ContinueOnError(t *testing.T) {
	executor := NewScriptExecutor(runner.NewExecRunner(t.TempDir()))
	scriptConfig := &config.ScriptConfig{
		Script:          "exit 1",
		ContinueOnError: true,
	}

	assert.NoError(t, executor.ExecuteScript(context.Background(), StagePreCommit, scriptConfig, nil))
}

func TestExecuteScript_ErrorWithoutContinue(t *testing.T) {
	executor := NewScriptExecutor(runner.NewExecRunner(t.TempDir()))
	scriptConfig := &config.ScriptConfig{
		Script: "echo 'Error output' >&2 && exit 3",
	}

	err := executor.ExecuteScript(context.Background(), StagePreCommit, scriptConfig, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pre-commit script failed")

	var cmdErr *runner.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Contains(t, cmdErr.Stderr, "Error output")
}

func TestExecuteScript_RemovesTempFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)

	var scriptPath string
	r.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cmd runner.Command) (*runner.Result, error) {
		require.Equal(t, "bash", cmd.Name)
		require.Len(t, cmd.Args, 1)
		scriptPath = cmd.Args[0]

		data, err := os.ReadFile(scriptPath)
		require.NoError(t, err)
		assert.Equal(t, "npm test", string(data))
		return &runner.Result{}, nil
	})

	executor := NewScriptExecutor(r)
	require.NoError(t, executor.ExecuteScript(context.Background(), StagePrePublish, &config.ScriptConfig{Script: "npm test"}, nil))

	_, err := os.Stat(scriptPath)
	assert.True(t, os.IsNotExist(err))
}
