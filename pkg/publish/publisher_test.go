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


package publish

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
	mock_runner "github.com/AlaudaDevops/toolbox/auto-release/testing/mock/github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
)

func defaultPublishConfig() config.PublishConfig {
	registries := config.DefaultRegistries()
	registries[0].Token = "vsce-pat"
	registries[1].Token = "ovsx-token"
	return config.PublishConfig{
		InstallCommand: "npm install -g @vscode/vsce ovsx",
		PackageCommand: "npm run package",
		Registries:     registries,
	}
}

func TestPublish_RunsStepsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)

	gomock.InOrder(
		r.EXPECT().Run(gomock.Any(), runner.NewCommand("npm", "install", "-g", "@vscode/vsce", "ovsx")).Return(&runner.Result{}, nil),
		r.EXPECT().Run(gomock.Any(), runner.NewCommand("npm", "run", "package")).Return(&runner.Result{}, nil),
		r.EXPECT().Run(gomock.Any(), runner.NewCommand("vsce", "publish", "-p", "vsce-pat").WithRedact("vsce-pat")).Return(&runner.Result{}, nil),
		r.EXPECT().Run(gomock.Any(), runner.NewCommand("ovsx", "publish", "-p", "ovsx-token").WithRedact("ovsx-token")).Return(&runner.Result{}, nil),
	)

	assert.NoError(t, NewPublisher(r, defaultPublishConfig()).Publish(context.Background(), "1.2.4"))
}

func TestPublish_StopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)

	gomock.InOrder(
		r.EXPECT().Run(gomock.Any(), gomock.Any()).Return(&runner.Result{}, nil),
		r.EXPECT().Run(gomock.Any(), gomock.Any()).Return(&runner.Result{}, nil),
		r.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, &runner.CommandError{Command: "vsce publish -p [REDACTED]", ExitCode: 1}),
	)

	err := NewPublisher(r, defaultPublishConfig()).Publish(context.Background(), "1.2.4")
	require.Error(t, err)
	var cmdErr *runner.CommandError
	assert.True(t, errors.As(err, &cmdErr))
	assert.Contains(t, err.Error(), "publish to vsce")
	assert.False(t, strings.Contains(err.Error(), "vsce-pat"))
}

func TestPublish_SkipsEmptyCommands(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)

	cfg := config.PublishConfig{
		Registries: []config.RegistryConfig{
			{Name: "npm", Command: "npm publish --tag v{version}"},
		},
	}
	r.EXPECT().Run(gomock.Any(), runner.NewCommand("npm", "publish", "--tag", "v2.0.0")).Return(&runner.Result{}, nil)

	assert.NoError(t, NewPublisher(r, cfg).Publish(context.Background(), "2.0.0"))
}

func TestPublish_InvalidCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mock_runner.NewMockRunner(ctrl)

	cfg := config.PublishConfig{PackageCommand: "npm run {target}"}
	err := NewPublisher(r, cfg).Publish(context.Background(), "1.0.0")
	assert.ErrorContains(t, err, "invalid package command")
}
