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


package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
	})

	assert.Nil(t, setupLogging(false, ""))
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())

	path := filepath.Join(t.TempDir(), "logs", "auto-release.log")
	fileLogger := setupLogging(true, path)
	require.NotNil(t, fileLogger)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	logrus.Info("release step finished")
	require.NoError(t, fileLogger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "release step finished")
}
