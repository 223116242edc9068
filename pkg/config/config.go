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

// Package config provides configuration management for auto-release
package config

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Config is the complete configuration of a release run
type Config struct {
	// WorkDir is the repository working directory
	WorkDir string `yaml:"workDir" json:"workDir" mapstructure:"workDir"`
	// DryRun logs every command after the local file edits instead of running it
	DryRun bool `yaml:"dryRun" json:"dryRun" mapstructure:"dryRun"`
	// PR contains the pull request being released
	PR PRConfig `yaml:"pr" json:"pr" mapstructure:"pr"`
	// Manifest contains package manifest settings
	Manifest ManifestConfig `yaml:"manifest" json:"manifest" mapstructure:"manifest"`
	// Changelog contains changelog settings
	Changelog ChangelogConfig `yaml:"changelog" json:"changelog" mapstructure:"changelog"`
	// LLM contains the decision provider settings
	LLM LLMConfig `yaml:"llm" json:"llm" mapstructure:"llm"`
	// Git contains commit and tag settings
	Git GitConfig `yaml:"git" json:"git" mapstructure:"git"`
	// Publish contains packaging and registry settings
	Publish PublishConfig `yaml:"publish" json:"publish" mapstructure:"publish"`
	// Platform contains the code hosting platform settings
	Platform PlatformConfig `yaml:"platform" json:"platform" mapstructure:"platform"`
	// Output contains CI output settings
	Output OutputConfig `yaml:"output" json:"output" mapstructure:"output"`
	// Notice contains notice configuration
	Notice NoticeConfig `yaml:"notice" json:"notice" mapstructure:"notice"`
	// Metrics contains metrics push configuration
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
	// Hooks contains custom script configuration for pipeline hooks
	Hooks HooksConfig `yaml:"hooks" json:"hooks" mapstructure:"hooks"`
}

// PRConfig describes the merged pull request
type PRConfig struct {
	// BaseSHA is the base commit of the pull request
	BaseSHA string `yaml:"baseSHA" json:"baseSHA" mapstructure:"baseSHA"`
	// HeadSHA is the head commit of the pull request
	HeadSHA string `yaml:"headSHA" json:"headSHA" mapstructure:"headSHA"`
	// Title is the pull request title
	Title string `yaml:"title" json:"title" mapstructure:"title"`
	// Body is the pull request description
	Body string `yaml:"body" json:"body" mapstructure:"body"`
	// Number is used to look up title and body when Title is empty
	Number int `yaml:"number" json:"number" mapstructure:"number"`
}

// ManifestConfig describes the package manifest
type ManifestConfig struct {
	// Path is the JSON manifest holding the version field
	Path string `yaml:"path" json:"path" mapstructure:"path"`
	// Lockfile is committed together with the manifest when it exists
	Lockfile string `yaml:"lockfile" json:"lockfile" mapstructure:"lockfile"`
	// BumpCommand rewrites the manifest version, "{version}" is the new version
	BumpCommand string `yaml:"bumpCommand" json:"bumpCommand" mapstructure:"bumpCommand"`
}

// ChangelogConfig describes the changelog document
type ChangelogConfig struct {
	// Path is the markdown changelog with an "## [Unreleased]" section
	Path string `yaml:"path" json:"path" mapstructure:"path"`
}

// LLMConfig configures the decision provider
type LLMConfig struct {
	// Provider is "anthropic" or "conventional"
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"`
	// APIKey is the provider credential
	APIKey string `yaml:"apiKey" json:"apiKey" mapstructure:"apiKey"`
	// Model is the model name
	Model string `yaml:"model" json:"model" mapstructure:"model"`
	// BaseURL overrides the API endpoint
	BaseURL string `yaml:"baseURL" json:"baseURL" mapstructure:"baseURL"`
	// MaxTokens bounds the response size
	MaxTokens int `yaml:"maxTokens" json:"maxTokens" mapstructure:"maxTokens"`
	// Timeout bounds the API call (e.g., "2m")
	Timeout string `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// GitConfig configures the release commit and tag
type GitConfig struct {
	// UserName is the committer name
	UserName string `yaml:"userName" json:"userName" mapstructure:"userName"`
	// UserEmail is the committer email
	UserEmail string `yaml:"userEmail" json:"userEmail" mapstructure:"userEmail"`
	// CommitMessage is the release commit message, "{version}" is the new version
	CommitMessage string `yaml:"commitMessage" json:"commitMessage" mapstructure:"commitMessage"`
	// TagPrefix is prepended to the version to form the tag name
	TagPrefix string `yaml:"tagPrefix" json:"tagPrefix" mapstructure:"tagPrefix"`
	// TagMessage is the annotated tag message, "{version}" is the new version
	TagMessage string `yaml:"tagMessage" json:"tagMessage" mapstructure:"tagMessage"`
}

// PublishConfig configures packaging and publishing
type PublishConfig struct {
	// Enabled turns the publish step on or off
	Enabled *bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	// InstallCommand installs the publishing tools
	InstallCommand string `yaml:"installCommand" json:"installCommand" mapstructure:"installCommand"`
	// PackageCommand builds the packaged artifact
	PackageCommand string `yaml:"packageCommand" json:"packageCommand" mapstructure:"packageCommand"`
	// Registries are published to in order
	Registries []RegistryConfig `yaml:"registries" json:"registries" mapstructure:"registries"`
}

// RegistryConfig describes one distribution registry
type RegistryConfig struct {
	// Name is used in logs and metrics
	Name string `yaml:"name" json:"name" mapstructure:"name"`
	// Command publishes the artifact, "{token}" is the registry token
	Command string `yaml:"command" json:"command" mapstructure:"command"`
	// TokenEnv lists environment variables holding the token, first non-empty wins
	TokenEnv []string `yaml:"tokenEnv" json:"tokenEnv" mapstructure:"tokenEnv"`
	// Token is resolved from TokenEnv at startup
	Token string `yaml:"-" json:"token,omitempty" mapstructure:"-"`
}

// PlatformConfig configures the code hosting platform
type PlatformConfig struct {
	// Provider is the type of git provider (e.g., "github", "gitlab")
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"`
	// BaseURL is the API base URL of the git provider
	BaseURL string `yaml:"baseURL" json:"baseURL" mapstructure:"baseURL"`
	// Token is the authentication token for the git provider
	Token string `yaml:"token" json:"token" mapstructure:"token"`
	// Repository is "owner/name" or a repository URL
	Repository string `yaml:"repository" json:"repository" mapstructure:"repository"`
	// CreateRelease creates a platform release after tagging
	CreateRelease *bool `yaml:"createRelease" json:"createRelease" mapstructure:"createRelease"`
}

// OutputConfig configures CI outputs
type OutputConfig struct {
	// GitHubOutput is the GITHUB_OUTPUT file path
	GitHubOutput string `yaml:"githubOutput" json:"githubOutput" mapstructure:"githubOutput"`
}

// NoticeConfig configures release notifications
type NoticeConfig struct {
	// Type is the type of notice (e.g., "wecom")
	Type string `yaml:"type" json:"type" mapstructure:"type"`
	// Params contains notice-specific parameters
	Params map[string]interface{} `yaml:"params" json:"params" mapstructure:"params"`
}

// MetricsConfig configures metrics export
type MetricsConfig struct {
	// Pushgateway is the Prometheus Pushgateway URL, empty disables pushing
	Pushgateway string `yaml:"pushgateway" json:"pushgateway" mapstructure:"pushgateway"`
	// Job is the Pushgateway job name
	Job string `yaml:"job" json:"job" mapstructure:"job"`
}

// HooksConfig contains custom script configuration for pipeline hooks
type HooksConfig struct {
	// PreCommit runs after the local file edits and before committing
	PreCommit *ScriptConfig `yaml:"preCommit" json:"preCommit" mapstructure:"preCommit"`
	// PrePublish runs after pushing and before publishing
	PrePublish *ScriptConfig `yaml:"prePublish" json:"prePublish" mapstructure:"prePublish"`
}

// ScriptConfig contains configuration for a single script
type ScriptConfig struct {
	// Script contains the script content to execute
	Script string `yaml:"script" json:"script" mapstructure:"script"`
	// Timeout for script execution (e.g., "5m", "30s")
	Timeout string `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
	// ContinueOnError determines whether to continue the release if the script fails
	ContinueOnError bool `yaml:"continueOnError" json:"continueOnError" mapstructure:"continueOnError"`
}

// NeedPublish reports whether the publish step runs
func (p *PublishConfig) NeedPublish() bool {
	return p.Enabled == nil || *p.Enabled
}

// NeedCreateRelease reports whether a platform release is created
func (p *PlatformConfig) NeedCreateRelease() bool {
	return p.CreateRelease != nil && *p.CreateRelease
}

// TagName returns the tag for version
func (g *GitConfig) TagName(version string) string {
	return g.TagPrefix + version
}

// String implements fmt.Stringer with secrets masked
func (c *Config) String() string {
	masked := *c
	masked.LLM.APIKey = mask(c.LLM.APIKey)
	masked.Platform.Token = mask(c.Platform.Token)
	masked.Publish.Registries = make([]RegistryConfig, len(c.Publish.Registries))
	for i, r := range c.Publish.Registries {
		r.Token = mask(r.Token)
		masked.Publish.Registries[i] = r
	}

	data, err := json.MarshalIndent(masked, "", "  ")
	if err != nil {
		logrus.Errorf("Failed to marshal config to JSON: %v", err)
		return fmt.Sprintf("%+v", masked)
	}
	return string(data)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "******"
}
