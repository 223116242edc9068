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


// Package cmd provides command line interface for the auto-release application
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/pipeline"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "auto-release",
	Short: "Automated version bump, changelog and publication for a merged pull request",
	Long: `auto-release decides the semantic version bump of a merged pull request,
updates package.json and CHANGELOG.md, commits and pushes the change,
publishes the extension to the Visual Studio Marketplace and Open VSX,
and tags the release.

Configuration can be provided via:
1. Repository configuration: .github/auto-release.yml or .github/auto-release.yaml
2. External configuration file (--config flag)
3. Environment variables and command line flags (highest priority)

A .env file in the working directory is loaded first when present.

Example usage:
  # In a GitHub Actions workflow
  BASE_SHA=... HEAD_SHA=... PR_TITLE="feat: add command" auto-release

  # Offline decision from conventional commits, nothing pushed or published
  auto-release --llm.provider conventional --pr.base main~1 --pr.head main --dry-run`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRelease(cmd.Context(), viper.GetViper())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logrus.Errorf("%+v", err)
		os.Exit(1)
	}
}

// runRelease reads and merges all configurations and runs the release pipeline
func runRelease(ctx context.Context, v *viper.Viper) error {
	workDir := v.GetString("dir")
	if workDir == "" {
		workDir = "."
	}
	if err := loadDotEnv(workDir); err != nil {
		return err
	}

	if cfgFile != "" {
		logrus.Infof("Using config file: %s", cfgFile)
	}

	logrus.Info("Reading and merging configurations...")
	configReader := config.NewConfigReader()

	repoConfig, err := configReader.ReadRepoConfig(workDir)
	if err != nil {
		logrus.Warnf("Warning: failed to read repository config: %v", err)
		repoConfig = &config.Config{}
	}

	externalConfig, err := configReader.ReadExternalConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to read external config: %w", err)
	}

	cliConfig := configFromViper(v)

	cfg := configReader.MergeConfigs(repoConfig, externalConfig, cliConfig)
	cfg = configReader.ApplyDefaults(cfg)
	cfg = configReader.ResolveSecrets(cfg, os.LookupEnv)
	logrus.Debugf("Configuration:\n%s", cfg)

	if err := configReader.Validate(cfg); err != nil {
		return err
	}

	deps, err := pipeline.NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.NewPipeline(cfg, deps).Run(ctx)
	if err != nil {
		return err
	}

	logrus.Infof("Released %s (%s → %s)", result.Tag, result.PreviousVersion, result.Decision.NewVersion)
	return nil
}

// loadDotEnv loads workDir/.env without overriding variables already set
func loadDotEnv(workDir string) error {
	path := filepath.Join(workDir, ".env")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	logrus.Debugf("Loaded environment from %s", path)
	return nil
}
