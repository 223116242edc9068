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


// Package publish packages the extension and publishes it to its registries
package publish

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
)

// Publisher installs the publishing tools, builds the artifact and uploads it
type Publisher struct {
	runner runner.Runner
	config config.PublishConfig
}

// NewPublisher creates a new Publisher
func NewPublisher(r runner.Runner, cfg config.PublishConfig) *Publisher {
	return &Publisher{
		runner: r,
		config: cfg,
	}
}

// Publish runs install, package and every registry upload in order
// and stops at the first failure
func (p *Publisher) Publish(ctx context.Context, version string) error {
	vars := map[string]string{"version": version}

	if p.config.InstallCommand != "" {
		logrus.Info("Installing publishing tools")
		if err := p.run(ctx, "install", p.config.InstallCommand, vars); err != nil {
			return err
		}
	}

	if p.config.PackageCommand != "" {
		logrus.Info("Packaging extension")
		if err := p.run(ctx, "package", p.config.PackageCommand, vars); err != nil {
			return err
		}
	}

	for _, registry := range p.config.Registries {
		if err := p.PublishTo(ctx, registry, version); err != nil {
			return err
		}
	}
	return nil
}

// PublishTo uploads the packaged artifact to a single registry
func (p *Publisher) PublishTo(ctx context.Context, registry config.RegistryConfig, version string) error {
	logrus.Infof("Publishing version %s to %s", version, registry.Name)

	vars := map[string]string{
		"version": version,
		"token":   registry.Token,
	}
	if err := p.run(ctx, "publish to "+registry.Name, registry.Command, vars, registry.Token); err != nil {
		return err
	}

	logrus.Infof("✅ Published to %s", registry.Name)
	return nil
}

func (p *Publisher) run(ctx context.Context, step, line string, vars map[string]string, secrets ...string) error {
	cmd, err := runner.ParseCommandLine(line, vars)
	if err != nil {
		return fmt.Errorf("invalid %s command: %w", step, err)
	}

	if _, err := p.runner.Run(ctx, cmd.WithRedact(secrets...)); err != nil {
		return fmt.Errorf("failed to %s: %w", step, err)
	}
	return nil
}
