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


package cmd

import (
	"github.com/spf13/viper"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
)

// configFromViper builds the CLI/env layer of the configuration.
// Only keys that were explicitly set are filled so file values are not overridden by flag defaults.
func configFromViper(v *viper.Viper) *config.Config {
	cfg := &config.Config{
		DryRun: v.GetBool("dry-run"),
	}

	setString(v, "dir", &cfg.WorkDir)

	setString(v, "pr.base", &cfg.PR.BaseSHA)
	setString(v, "pr.head", &cfg.PR.HeadSHA)
	setString(v, "pr.title", &cfg.PR.Title)
	setString(v, "pr.body", &cfg.PR.Body)
	setInt(v, "pr.number", &cfg.PR.Number)

	setString(v, "llm.provider", &cfg.LLM.Provider)
	setString(v, "llm.api-key", &cfg.LLM.APIKey)
	setString(v, "llm.model", &cfg.LLM.Model)
	setString(v, "llm.base-url", &cfg.LLM.BaseURL)
	setInt(v, "llm.max-tokens", &cfg.LLM.MaxTokens)
	setString(v, "llm.timeout", &cfg.LLM.Timeout)

	setString(v, "manifest.path", &cfg.Manifest.Path)
	setString(v, "manifest.bump-command", &cfg.Manifest.BumpCommand)
	setString(v, "changelog.path", &cfg.Changelog.Path)

	cfg.Publish.Enabled = boolIfSet(v, "publish.enabled")

	setString(v, "platform.provider", &cfg.Platform.Provider)
	setString(v, "platform.base-url", &cfg.Platform.BaseURL)
	setString(v, "platform.token", &cfg.Platform.Token)
	setString(v, "platform.repository", &cfg.Platform.Repository)
	cfg.Platform.CreateRelease = boolIfSet(v, "platform.create-release")

	setString(v, "output.github-output", &cfg.Output.GitHubOutput)

	setString(v, "metrics.pushgateway", &cfg.Metrics.Pushgateway)
	setString(v, "metrics.job", &cfg.Metrics.Job)

	return cfg
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func boolIfSet(v *viper.Viper, key string) *bool {
	if !v.IsSet(key) {
		return nil
	}
	b := v.GetBool(key)
	return &b
}
