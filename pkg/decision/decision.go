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

// Package decision decides the semantic version bump and changelog entry for a release
package decision

//go:generate mockgen -package=decision -destination=../../testing/mock/github.com/AlaudaDevops/toolbox/auto-release/pkg/decision/decider.go github.com/AlaudaDevops/toolbox/auto-release/pkg/decision Decider

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/version"
)

// DefaultPRBody is used when the pull request has no description
const DefaultPRBody = "No description provided"

// PRDetails holds the pull request metadata fed to the decision step
type PRDetails struct {
	// Title is the pull request title
	Title string `json:"title" yaml:"title"`
	// Body is the pull request description
	Body string `json:"body" yaml:"body"`
	// Commits is the concatenated commit log of the pull request
	Commits string `json:"commits" yaml:"commits"`
}

// VersionDecision is the outcome of the decision step
type VersionDecision struct {
	// Bump is the semantic-versioning impact of the change
	Bump version.BumpKind `json:"version_bump"`
	// NewVersion is the version to release
	NewVersion string `json:"new_version"`
	// ChangelogEntry is the markdown entry starting with "## [X.Y.Z] - YYYY-MM-DD"
	ChangelogEntry string `json:"changelog_entry"`
}

// Decider decides a VersionDecision from the current version and PR metadata
type Decider interface {
	Decide(ctx context.Context, currentVersion string, pr PRDetails) (*VersionDecision, error)
}

// Validate checks that d is a consistent bump of currentVersion and that the
// changelog entry is headed by the new version
func Validate(currentVersion string, d *VersionDecision) error {
	if d == nil {
		return fmt.Errorf("%w: empty decision", ErrInvalidDecision)
	}

	kind, err := version.ParseBumpKind(string(d.Bump))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDecision, err)
	}

	if err := version.CheckBump(currentVersion, d.NewVersion, kind); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDecision, err)
	}

	header := fmt.Sprintf("## [%s]", d.NewVersion)
	if !strings.HasPrefix(strings.TrimSpace(d.ChangelogEntry), header) {
		return fmt.Errorf("%w: changelog entry must start with %q", ErrInvalidDecision, header)
	}
	return nil
}
