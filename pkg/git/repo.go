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

package git

import (
	"errors"
	"net/url"
	"strings"
)

// Repository represents a Git repository with its group and name.
type Repository struct {
	Group string
	Repo  string
}

// String returns the repository in the format "group/repo".
func (r *Repository) String() string {
	return strings.Trim(r.Group+"/"+r.Repo, "/")
}

// ParseRepoURL extracts the repository name and owner from a Git repository URL.
// It supports various formats including:
// - https://github.com/example/toolbox.git => group: example, repo: toolbox
// - https://gitlab.example.com/group/subgroup/repo.git => group: group/subgroup, repo: repo
// - git@github.com:example/toolbox.git => group: example, repo: toolbox
// - example/toolbox (GITHUB_REPOSITORY form) => group: example, repo: toolbox
func ParseRepoURL(repoURL string) (*Repository, error) {
	path := repoURL
	switch {
	case strings.Contains(repoURL, "://"):
		u, err := url.Parse(repoURL)
		if err != nil {
			return nil, err
		}
		path = u.Path
	case strings.Contains(repoURL, "@") && strings.Contains(repoURL, ":"):
		path = repoURL[strings.Index(repoURL, ":")+1:]
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 {
		return nil, errors.New("invalid repository URL: not enough path segments")
	}

	group := strings.Join(segments[:len(segments)-1], "/")
	repo := strings.TrimSuffix(segments[len(segments)-1], ".git")
	if group == "" || repo == "" {
		return nil, errors.New("invalid repository URL: empty group or repository name")
	}

	return &Repository{
		Group: group,
		Repo:  repo,
	}, nil
}
