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

// Package git provides the Git operations of a release
package git

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
)

// CommitLogFormat prints each commit subject followed by its body
const CommitLogFormat = "%s%n%b"

// Operator runs git commands through a runner
type Operator struct {
	runner runner.Runner
}

// NewOperator creates a new Git operator
func NewOperator(r runner.Runner) *Operator {
	return &Operator{
		runner: r,
	}
}

func (g *Operator) git(ctx context.Context, args ...string) (*runner.Result, error) {
	return g.runner.Run(ctx, runner.NewCommand("git", args...))
}

// CommitLog returns subjects and bodies of the commits in base..head
func (g *Operator) CommitLog(ctx context.Context, base, head string) (string, error) {
	result, err := g.git(ctx, "log", "--format="+CommitLogFormat, fmt.Sprintf("%s..%s", base, head))
	if err != nil {
		return "", fmt.Errorf("failed to read commit log %s..%s: %w", base, head, err)
	}
	return result.Output(), nil
}

// GetRepoURL returns the URL of the origin remote
func (g *Operator) GetRepoURL(ctx context.Context) (string, error) {
	result, err := g.git(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("failed to get repo: %w", err)
	}
	return result.Output(), nil
}

// ConfigureIdentity sets the committer name and email for the repository
func (g *Operator) ConfigureIdentity(ctx context.Context, name, email string) error {
	if _, err := g.git(ctx, "config", "user.name", name); err != nil {
		return fmt.Errorf("failed to set git user.name: %w", err)
	}
	if _, err := g.git(ctx, "config", "user.email", email); err != nil {
		return fmt.Errorf("failed to set git user.email: %w", err)
	}
	return nil
}

// CommitFiles stages the given files and commits them with message
func (g *Operator) CommitFiles(ctx context.Context, message string, files ...string) error {
	if len(files) == 0 {
		return fmt.Errorf("no files to commit")
	}

	if _, err := g.git(ctx, append([]string{"add"}, files...)...); err != nil {
		return fmt.Errorf("failed to add changes: %w", err)
	}

	if _, err := g.git(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}

	logrus.Debugf("Committed %v: %s", files, message)
	return nil
}

// Push pushes the current branch to its upstream
func (g *Operator) Push(ctx context.Context) error {
	if _, err := g.git(ctx, "push"); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}

// CreateTag creates an annotated tag on HEAD
func (g *Operator) CreateTag(ctx context.Context, name, message string) error {
	if _, err := g.git(ctx, "tag", "-a", name, "-m", message); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// PushTags pushes all tags to the remote
func (g *Operator) PushTags(ctx context.Context) error {
	if _, err := g.git(ctx, "push", "--tags"); err != nil {
		return fmt.Errorf("failed to push tags: %w", err)
	}
	return nil
}
