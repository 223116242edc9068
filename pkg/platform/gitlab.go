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

	"github.com/sirupsen/logrus"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/git"
)

// GitLabClient implements Client for GitLab
type GitLabClient struct {
	client *gitlab.Client
	repo   *git.Repository
}

// NewGitLabClient creates a new GitLab client for repo
func NewGitLabClient(baseURL, token string, repo *git.Repository) (*GitLabClient, error) {
	var options []gitlab.ClientOptionFunc
	if baseURL != "" {
		options = append(options, gitlab.WithBaseURL(baseURL))
	}

	client, err := gitlab.NewClient(token, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &GitLabClient{
		client: client,
		repo:   repo,
	}, nil
}

// GetPullRequest returns the merge request with the given IID
func (g *GitLabClient) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	mr, _, err := g.client.MergeRequests.GetMergeRequest(g.repo.String(), number, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get merge request !%d: %w", number, err)
	}

	logrus.Debugf("Fetched merge request !%d: %s", mr.IID, mr.Title)
	return &PullRequest{
		Number: mr.IID,
		Title:  mr.Title,
		Body:   mr.Description,
	}, nil
}

// CreateRelease creates a GitLab release for an existing tag
func (g *GitLabClient) CreateRelease(ctx context.Context, release Release) (string, error) {
	opts := &gitlab.CreateReleaseOptions{
		Name:        gitlab.Ptr(release.Name),
		TagName:     gitlab.Ptr(release.TagName),
		Description: gitlab.Ptr(release.Body),
	}

	created, _, err := g.client.Releases.CreateRelease(g.repo.String(), opts, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to create release %s: %w", release.TagName, err)
	}

	url := created.Links.Self
	logrus.Debugf("Created GitLab release %s: %s", created.TagName, url)
	return url, nil
}

// GetPlatformType returns the type of platform
func (g *GitLabClient) GetPlatformType() string {
	return "gitlab"
}
