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


package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrMissingConfig is returned when a required setting is absent
var ErrMissingConfig = errors.New("missing required configuration")

const (
	// ProviderAnthropic decides with the Anthropic Messages API
	ProviderAnthropic = "anthropic"
	// ProviderConventional decides offline from conventional commit messages
	ProviderConventional = "conventional"
)

// ConfigReader handles reading and merging configuration from multiple sources
type ConfigReader struct{}

// NewConfigReader creates a new configuration reader
func NewConfigReader() *ConfigReader {
	return &ConfigReader{}
}

// ReadRepoConfig reads configuration from repository .github/auto-release.yml
func (c *ConfigReader) ReadRepoConfig(projectPath string) (*Config, error) {
	configPaths := []string{
		filepath.Join(projectPath, ".github", "auto-release.yml"),
		filepath.Join(projectPath, ".github", "auto-release.yaml"),
	}

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err == nil {
			logrus.Debugf("Found repository configuration: %s", configPath)
			return c.readAndParseConfigFile(configPath)
		}
	}

	logrus.Debug("No repository configuration found, using defaults")
	return &Config{}, nil
}

// ReadExternalConfig reads configuration from external file specified by CLI
func (c *ConfigReader) ReadExternalConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}

	logrus.Debugf("Reading external configuration: %s", configPath)
	return c.readAndParseConfigFile(configPath)
}

func (c *ConfigReader) readAndParseConfigFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	return &config, nil
}

// MergeConfigs merges multiple configurations with priority order
// Later configurations override earlier ones
func (c *ConfigReader) MergeConfigs(configs ...*Config) *Config {
	merged := &Config{}

	for _, config := range configs {
		if config == nil {
			continue
		}

		mergeString(&merged.WorkDir, config.WorkDir)
		if config.DryRun {
			merged.DryRun = true
		}

		mergeString(&merged.PR.BaseSHA, config.PR.BaseSHA)
		mergeString(&merged.PR.HeadSHA, config.PR.HeadSHA)
		mergeString(&merged.PR.Title, config.PR.Title)
		mergeString(&merged.PR.Body, config.PR.Body)
		if config.PR.Number != 0 {
			merged.PR.Number = config.PR.Number
		}

		mergeString(&merged.Manifest.Path, config.Manifest.Path)
		mergeString(&merged.Manifest.Lockfile, config.Manifest.Lockfile)
		mergeString(&merged.Manifest.BumpCommand, config.Manifest.BumpCommand)
		mergeString(&merged.Changelog.Path, config.Changelog.Path)

		mergeString(&merged.LLM.Provider, config.LLM.Provider)
		mergeString(&merged.LLM.APIKey, config.LLM.APIKey)
		mergeString(&merged.LLM.Model, config.LLM.Model)
		mergeString(&merged.LLM.BaseURL, config.LLM.BaseURL)
		mergeString(&merged.LLM.Timeout, config.LLM.Timeout)
		if config.LLM.MaxTokens != 0 {
			merged.LLM.MaxTokens = config.LLM.MaxTokens
		}

		mergeString(&merged.Git.UserName, config.Git.UserName)
		mergeString(&merged.Git.UserEmail, config.Git.UserEmail)
		mergeString(&merged.Git.CommitMessage, config.Git.CommitMessage)
		mergeString(&merged.Git.TagPrefix, config.Git.TagPrefix)
		mergeString(&merged.Git.TagMessage, config.Git.TagMessage)

		if config.Publish.Enabled != nil {
			merged.Publish.Enabled = config.Publish.Enabled
		}
		mergeString(&merged.Publish.InstallCommand, config.Publish.InstallCommand)
		mergeString(&merged.Publish.PackageCommand, config.Publish.PackageCommand)
		if len(config.Publish.Registries) > 0 {
			merged.Publish.Registries = config.Publish.Registries
		}

		mergeString(&merged.Platform.Provider, config.Platform.Provider)
		mergeString(&merged.Platform.BaseURL, config.Platform.BaseURL)
		mergeString(&merged.Platform.Token, config.Platform.Token)
		mergeString(&merged.Platform.Repository, config.Platform.Repository)
		if config.Platform.CreateRelease != nil {
			merged.Platform.CreateRelease = config.Platform.CreateRelease
		}

		mergeString(&merged.Output.GitHubOutput, config.Output.GitHubOutput)

		mergeString(&merged.Notice.Type, config.Notice.Type)
		if len(config.Notice.Params) > 0 {
			merged.Notice.Params = config.Notice.Params
		}

		mergeString(&merged.Metrics.Pushgateway, config.Metrics.Pushgateway)
		mergeString(&merged.Metrics.Job, config.Metrics.Job)

		if config.Hooks.PreCommit != nil {
			merged.Hooks.PreCommit = config.Hooks.PreCommit
		}
		if config.Hooks.PrePublish != nil {
			merged.Hooks.PrePublish = config.Hooks.PrePublish
		}
	}

	return merged
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// ApplyDefaults applies default values to configuration
func (c *ConfigReader) ApplyDefaults(config *Config) *Config {
	if config.WorkDir == "" {
		config.WorkDir = "."
	}
	if config.Manifest.Path == "" {
		config.Manifest.Path = "package.json"
	}
	if config.Manifest.Lockfile == "" {
		config.Manifest.Lockfile = "package-lock.json"
	}
	if config.Manifest.BumpCommand == "" {
		config.Manifest.BumpCommand = "npm version {version} --no-git-tag-version"
	}
	if config.Changelog.Path == "" {
		config.Changelog.Path = "CHANGELOG.md"
	}

	if config.LLM.Provider == "" {
		config.LLM.Provider = ProviderAnthropic
	}
	if config.LLM.Timeout == "" {
		config.LLM.Timeout = "2m"
	}

	if config.Git.UserName == "" {
		config.Git.UserName = "github-actions[bot]"
	}
	if config.Git.UserEmail == "" {
		config.Git.UserEmail = "github-actions[bot]@users.noreply.github.com"
	}
	if config.Git.CommitMessage == "" {
		config.Git.CommitMessage = "chore: bump version to {version} [skip ci]"
	}
	if config.Git.TagPrefix == "" {
		config.Git.TagPrefix = "v"
	}
	if config.Git.TagMessage == "" {
		config.Git.TagMessage = "Release version {version}"
	}

	if config.Publish.InstallCommand == "" {
		config.Publish.InstallCommand = "npm install -g @vscode/vsce ovsx"
	}
	if config.Publish.PackageCommand == "" {
		config.Publish.PackageCommand = "npm run package"
	}
	if len(config.Publish.Registries) == 0 {
		config.Publish.Registries = DefaultRegistries()
	}

	if config.Platform.Provider == "" {
		config.Platform.Provider = "github"
	}
	if config.Metrics.Job == "" {
		config.Metrics.Job = "auto-release"
	}

	return config
}

// DefaultRegistries returns the Visual Studio Marketplace and Open VSX registries
func DefaultRegistries() []RegistryConfig {
	return []RegistryConfig{
		{
			Name:     "vsce",
			Command:  "vsce publish -p {token}",
			TokenEnv: []string{"VSCE_PAT", "WILDESTAI_AZURE_PUBLISH_PAT"},
		},
		{
			Name:     "ovsx",
			Command:  "ovsx publish -p {token}",
			TokenEnv: []string{"OPENVSX_TOKEN"},
		},
	}
}

// ResolveSecrets fills registry tokens from the environment
func (c *ConfigReader) ResolveSecrets(config *Config, lookup func(string) (string, bool)) *Config {
	for i := range config.Publish.Registries {
		registry := &config.Publish.Registries[i]
		if registry.Token != "" {
			continue
		}
		for _, name := range registry.TokenEnv {
			if value, ok := lookup(name); ok && value != "" {
				registry.Token = value
				break
			}
		}
	}
	return config
}

// Validate reports every missing required setting in one error wrapping ErrMissingConfig
func (c *ConfigReader) Validate(config *Config) error {
	var missing []string

	if config.PR.BaseSHA == "" {
		missing = append(missing, "BASE_SHA")
	}
	if config.PR.HeadSHA == "" {
		missing = append(missing, "HEAD_SHA")
	}

	switch config.LLM.Provider {
	case ProviderAnthropic:
		if config.LLM.APIKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	case ProviderConventional:
	default:
		return fmt.Errorf("unsupported llm provider %q", config.LLM.Provider)
	}

	if config.Publish.NeedPublish() && !config.DryRun {
		for _, registry := range config.Publish.Registries {
			if registry.Token == "" && strings.Contains(registry.Command, "{token}") {
				name := registry.Name
				if len(registry.TokenEnv) > 0 {
					name = registry.TokenEnv[0]
				}
				missing = append(missing, name)
			}
		}
	}

	if config.Platform.NeedCreateRelease() && config.Platform.Token == "" {
		missing = append(missing, "platform.token (GITHUB_TOKEN)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Render replaces "{version}" in template
func Render(template, version string) string {
	return strings.ReplaceAll(template, "{version}", version)
}
