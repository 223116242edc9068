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
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/decision"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/git"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/llm/anthropic"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/metrics"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/notice"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/platform"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
)

// NewDependencies builds the production collaborators described by cfg
func NewDependencies(ctx context.Context, cfg *config.Config) (Dependencies, error) {
	execRunner := runner.NewExecRunner(cfg.WorkDir)
	deps := Dependencies{
		ReadRunner:  execRunner,
		WriteRunner: execRunner,
		Recorder:    &metrics.NoOpRecorder{},
	}
	if cfg.DryRun {
		deps.WriteRunner = runner.NewDryRunRunner()
	}

	decider, err := NewDecider(cfg.LLM)
	if err != nil {
		return deps, err
	}
	deps.Decider = decider

	if cfg.Platform.Token != "" && cfg.Platform.Repository == "" {
		repoURL, err := git.NewOperator(execRunner).GetRepoURL(ctx)
		if err != nil {
			logrus.Warnf("Warning: platform repository not set and origin remote unavailable: %v", err)
		} else {
			cfg.Platform.Repository = repoURL
		}
	}
	if cfg.Platform.Token != "" && cfg.Platform.Repository != "" {
		client, err := platform.NewClient(ctx, cfg.Platform)
		if err != nil {
			return deps, fmt.Errorf("failed to initialize platform client: %w", err)
		}
		deps.Platform = client
	}

	if notice.IsNotificationEnabled(cfg.Notice) {
		notifier, err := notice.NewNotifier(cfg.Notice)
		if err != nil {
			return deps, fmt.Errorf("failed to create notifier: %w", err)
		}
		deps.Notifier = notifier
	}

	if cfg.Metrics.Pushgateway != "" {
		deps.Recorder = metrics.NewPrometheusRecorder()
	}
	return deps, nil
}

// NewDecider creates the decider selected by the LLM provider
func NewDecider(cfg config.LLMConfig) (decision.Decider, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic, "":
		var timeout time.Duration
		if cfg.Timeout != "" {
			var err error
			timeout, err = time.ParseDuration(cfg.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid llm timeout %q: %w", cfg.Timeout, err)
			}
		}
		logrus.Debugf("Using Anthropic decider (model %q)", cfg.Model)
		return anthropic.NewClient(anthropic.Options{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   timeout,
		})
	case config.ProviderConventional:
		logrus.Debug("Using conventional commit decider")
		return decision.NewConventionalDecider(), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
