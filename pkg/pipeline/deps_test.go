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


package pipeline

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/decision"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/llm/anthropic"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/metrics"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
)

func TestNewDecider(t *testing.T) {
	d, err := NewDecider(config.LLMConfig{Provider: config.ProviderAnthropic, APIKey: "key", Timeout: "30s"})
	require.NoError(t, err)
	assert.IsType(t, &anthropic.Client{}, d)

	d, err = NewDecider(config.LLMConfig{Provider: config.ProviderConventional})
	require.NoError(t, err)
	assert.IsType(t, &decision.ConventionalDecider{}, d)

	_, err = NewDecider(config.LLMConfig{Provider: config.ProviderAnthropic, APIKey: "key", Timeout: "soon"})
	assert.ErrorContains(t, err, "invalid llm timeout")

	_, err = NewDecider(config.LLMConfig{Provider: config.ProviderAnthropic})
	assert.Error(t, err)

	_, err = NewDecider(config.LLMConfig{Provider: "openai"})
	assert.ErrorContains(t, err, "unsupported llm provider")
}

func TestNewDependencies(t *testing.T) {
	reader := config.NewConfigReader()

	cfg := reader.ApplyDefaults(&config.Config{
		WorkDir: t.TempDir(),
		LLM:     config.LLMConfig{Provider: config.ProviderConventional},
	})
	deps, err := NewDependencies(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &runner.ExecRunner{}, deps.ReadRunner)
	assert.IsType(t, &runner.ExecRunner{}, deps.WriteRunner)
	assert.IsType(t, &metrics.NoOpRecorder{}, deps.Recorder)
	assert.Nil(t, deps.Platform)
	assert.Nil(t, deps.Notifier)

	cfg.DryRun = true
	cfg.Platform.Token = "token"
	cfg.Platform.Repository = "owner/ext"
	cfg.Metrics.Pushgateway = "http://localhost:9091"
	cfg.Notice = config.NoticeConfig{Type: "wecom", Params: map[string]interface{}{"webhook_url": "http://localhost/hook"}}
	deps, err = NewDependencies(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &runner.DryRunRunner{}, deps.WriteRunner)
	assert.IsType(t, &metrics.PrometheusRecorder{}, deps.Recorder)
	require.NotNil(t, deps.Platform)
	assert.Equal(t, "github", deps.Platform.GetPlatformType())
	assert.NotNil(t, deps.Notifier)

	cfg.Notice.Type = "pager"
	_, err = NewDependencies(context.Background(), cfg)
	assert.ErrorContains(t, err, "failed to create notifier")
}

func TestNewDependenciesRepositoryFromOrigin(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-q"},
		{"remote", "add", "origin", "https://gitlab.com/group/sub/app.git"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	cfg := config.NewConfigReader().ApplyDefaults(&config.Config{
		WorkDir:  dir,
		LLM:      config.LLMConfig{Provider: config.ProviderConventional},
		Platform: config.PlatformConfig{Provider: "gitlab", Token: "token"},
	})
	deps, err := NewDependencies(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.com/group/sub/app.git", cfg.Platform.Repository)
	require.NotNil(t, deps.Platform)
	assert.Equal(t, "gitlab", deps.Platform.GetPlatformType())
}
