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

package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
	mock_runner "github.com/AlaudaDevops/toolbox/auto-release/testing/mock/github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadVersion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "valid manifest",
			content: `{"name": "ext", "version": "1.2.3", "engines": {"vscode": "^1.80.0"}}`,
			want:    "1.2.3",
		},
		{
			name:    "missing version",
			content: `{"name": "ext"}`,
			wantErr: true,
		},
		{
			name:    "empty version",
			content: `{"version": ""}`,
			wantErr: true,
		},
		{
			name:    "non semver version",
			content: `{"version": "latest"}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			content: `{"version": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadVersion(writeManifest(t, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadVersion_MissingFile(t *testing.T) {
	_, err := ReadVersion(filepath.Join(t.TempDir(), "package.json"))
	assert.Error(t, err)
}

func TestBumper_DefaultCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)
	r.EXPECT().
		Run(gomock.Any(), runner.NewCommand("npm", "version", "1.2.4", "--no-git-tag-version")).
		Return(&runner.Result{}, nil)

	assert.NoError(t, NewBumper(r, "").Bump(context.Background(), "1.2.4"))
}

func TestBumper_CustomCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)
	r.EXPECT().
		Run(gomock.Any(), runner.NewCommand("yarn", "version", "--new-version", "2.0.0", "--no-git-tag-version")).
		Return(&runner.Result{}, nil)

	b := NewBumper(r, "yarn version --new-version {version} --no-git-tag-version")
	assert.NoError(t, b.Bump(context.Background(), "2.0.0"))
}

func TestBumper_CommandFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)
	r.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, &runner.CommandError{Command: "npm version", ExitCode: 1})

	err := NewBumper(r, "").Bump(context.Background(), "1.2.4")
	require.Error(t, err)
	var cmdErr *runner.CommandError
	assert.True(t, errors.As(err, &cmdErr))
}

func TestBumper_InvalidTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)

	assert.Error(t, NewBumper(r, "npm version {next}").Bump(context.Background(), "1.2.4"))
}
