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


// Package platform talks to the code hosting platform of the repository
package platform

import (
	"context"
	"fmt"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/git"
)

// PullRequest is the metadata of a pull (or merge) request
type PullRequest struct {
	// Number is the pull request number
	Number int `json:"number"`
	// Title is the pull request title
	Title string `json:"title"`
	// Body is the pull request description
	Body string `json:"body"`
}

// Release describes a platform release attached to a tag
type Release struct {
	// TagName is the existing tag the release points at
	TagName string `json:"tag_name"`
	// Name is the release title
	Name string `json:"name"`
	// Body is the release notes in markdown
	Body string `json:"body"`
}

// Client defines the platform operations of a release
type Client interface {
	// GetPullRequest returns the pull request with the given number
	GetPullRequest(ctx context.Context, number int) (*PullRequest, error)

	// CreateRelease publishes release notes for an existing tag and returns its URL
	CreateRelease(ctx context.Context, release Release) (string, error)

	// GetPlatformType returns the type of platform (github, gitlab, etc.)
	GetPlatformType() string
}

// NewClient creates a new Client based on the platform configuration
func NewClient(ctx context.Context, cfg config.PlatformConfig) (Client, error) {
	if cfg.Repository == "" {
		return nil, fmt.Errorf("platform repository is not configured")
	}
	repo, err := git.ParseRepoURL(cfg.Repository)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository %q: %w", cfg.Repository, err)
	}

	switch cfg.Provider {
	case "github":
		return NewGitHubClient(ctx, cfg.BaseURL, cfg.Token, repo)
	case "gitlab":
		return NewGitLabClient(cfg.BaseURL, cfg.Token, repo)
	default:
		return nil, fmt.Errorf("unsupported platform type: %s", cfg.Provider)
	}
}
