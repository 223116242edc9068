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


// Package hooks runs user-provided scripts at fixed points of a release
package hooks

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
)

const (
	// StagePreCommit runs after the local file edits and before committing
	StagePreCommit = "pre-commit"
	// StagePrePublish runs after pushing and before publishing
	StagePrePublish = "pre-publish"
)

// ScriptExecutor handles execution of custom scripts
type ScriptExecutor struct {
	runner runner.Runner
}

// NewScriptExecutor creates a new script executor
func NewScriptExecutor(r runner.Runner) *ScriptExecutor {
	return &ScriptExecutor{
		runner: r,
	}
}

// ExecuteScript executes a custom script with bash, exposing env to it
func (e *ScriptExecutor) ExecuteScript(ctx context.Context, stage string, scriptConfig *config.ScriptConfig, env map[string]string) error {
	if scriptConfig == nil || scriptConfig.Script == "" {
		return nil
	}

	tempScriptFile, err := createTempScriptFile(stage, scriptConfig.Script)
	if err != nil {
		return fmt.Errorf("failed to create temporary script file for %s: %w", stage, err)
	}
	defer cleanupTempFile(tempScriptFile)

	logrus.Infof("Executing %s script using bash from temporary file: %s", stage, tempScriptFile)

	if scriptConfig.Timeout != "" {
		timeout, err := time.ParseDuration(scriptConfig.Timeout)
		if err != nil {
			logrus.Warnf("Invalid timeout format '%s' for %s script, continuing without timeout: %v", scriptConfig.Timeout, stage, err)
		} else if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
	}

	cmd := runner.NewCommand("bash", tempScriptFile)
	cmd.Env = envList(env)

	result, err := e.runner.Run(ctx, cmd)
	if result != nil && result.Stdout != "" {
		logrus.Debugf("%s script output:\n%s", stage, result.Stdout)
	}

	if err != nil {
		if scriptConfig.ContinueOnError {
			logrus.Warnf("Warning: %s script failed: %v", stage, err)
			return nil
		}
		return fmt.Errorf("%s script failed: %w", stage, err)
	}

	logrus.Infof("✅ %s script completed successfully", stage)
	return nil
}

func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	return list
}

func createTempScriptFile(stage, scriptContent string) (string, error) {
	tempFile, err := os.CreateTemp("", fmt.Sprintf("auto_release_%s_*.sh", strings.ReplaceAll(strings.ToLower(stage), "-", "_")))
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := tempFile.WriteString(scriptContent); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to write script content to temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempFile.Name(), 0o755); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to make script executable: %w", err)
	}

	return tempFile.Name(), nil
}

func cleanupTempFile(tempFilePath string) {
	if err := os.Remove(tempFilePath); err != nil {
		logrus.Debugf("Failed to cleanup temporary file %s: %v", tempFilePath, err)
	}
}
