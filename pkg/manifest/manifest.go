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

// Package manifest reads and bumps the version of a JSON package manifest
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/version"
)

// DefaultBumpCommand rewrites package.json and package-lock.json without tagging
const DefaultBumpCommand = "npm version {version} --no-git-tag-version"

// ReadVersion returns the "version" field of the JSON manifest at path
func ReadVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var pkg struct {
		Version *string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if pkg.Version == nil || strings.TrimSpace(*pkg.Version) == "" {
		return "", fmt.Errorf("manifest %s has no version field", path)
	}

	current := strings.TrimSpace(*pkg.Version)
	if _, err := version.Parse(current); err != nil {
		return "", fmt.Errorf("manifest %s: %w", path, err)
	}
	return current, nil
}

// Bumper rewrites the manifest version with an external tool
type Bumper struct {
	runner runner.Runner
	// command is the command line template, "{version}" is replaced by the new version
	command string
}

// NewBumper creates a new Bumper; an empty command uses DefaultBumpCommand
func NewBumper(r runner.Runner, command string) *Bumper {
	if command == "" {
		command = DefaultBumpCommand
	}
	return &Bumper{
		runner:  r,
		command: command,
	}
}

// Bump sets the manifest version to newVersion
func (b *Bumper) Bump(ctx context.Context, newVersion string) error {
	logrus.Infof("Updating manifest to version %s", newVersion)

	cmd, err := runner.ParseCommandLine(b.command, map[string]string{"version": newVersion})
	if err != nil {
		return fmt.Errorf("invalid bump command: %w", err)
	}

	if _, err := b.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("failed to bump manifest version to %s: %w", newVersion, err)
	}
	return nil
}
