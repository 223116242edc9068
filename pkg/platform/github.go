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


package platform

import (
	"context"
	"fmt"

	"github.com/google/go-github/v74/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/git"
)

// GitHubClient implements Client for GitHub using the GitHub SDK
type GitHubClient struct {
	client *github.Client
	repo   *git.Repository
}

// NewGitHubClient creates a new GitHub client for repo
func NewGitHubClient(ctx context.Context, baseURL, token string, repo *git.Repository) (*GitHubClient, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if baseURL != "" && baseURL != "https://api.github.com" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub enterprise URL: %w", err)
		}
	}

	return &GitHubClient{
		client: client,
		repo:   repo,
	}, nil
}

// GetPullRequest returns the pull request with the given number
func (g *GitHubClient) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, g.repo.Group, g.repo.Repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}

	logrus.Debugf("Fetched pull request #%d: %s", pr.GetNumber(), pr.GetTitle())
	return &PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
	}, nil
}

// CreateRelease creates a GitHub release for an existing tag
func (g *GitHubClient) CreateRelease(ctx context.Context, release Release) (string, error) {
	created, _, err := g.client.Repositories.CreateRelease(ctx, g.repo.Group, g.repo.Repo, &github.RepositoryRelease{
		TagName: github.Ptr(release.TagName),
		Name:    github.Ptr(release.Name),
		Body:    github.Ptr(release.Body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create release %s: %w", release.TagName, err)
	}

	logrus.Debugf("Created GitHub release %s: %s", release.TagName, created.GetHTMLURL())
	return created.GetHTMLURL(), nil
}

// GetPlatformType returns the type of platform
func (g *GitHubClient) GetPlatformType() string {
	return "github"
}
