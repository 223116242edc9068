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
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables
const EnvPrefix = "AUTO_RELEASE"

// legacyEnv maps configuration keys to the unprefixed variables set by CI workflows
var legacyEnv = map[string][]string{
	"pr.base":              {"BASE_SHA"},
	"pr.head":              {"HEAD_SHA"},
	"pr.title":             {"PR_TITLE"},
	"pr.body":              {"PR_BODY"},
	"pr.number":            {"PR_NUMBER"},
	"llm.api-key":          {"ANTHROPIC_API_KEY"},
	"platform.token":       {"GITHUB_TOKEN"},
	"platform.repository":  {"GITHUB_REPOSITORY"},
	"output.github-output": {"GITHUB_OUTPUT"},
}

var (
	// cfgFile is the external configuration file path
	cfgFile string
	// outputFormat is the version output format
	outputFormat string
)

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	addFlags(rootCmd.Flags())
	rootCmd.Flags().Bool("debug", false, "enable debug log output")
	rootCmd.Flags().String("log-file", "", "also write logs to this file, rotated by size")

	if err := bindViper(viper.GetViper(), rootCmd.Flags()); err != nil {
		logrus.Fatalf("Failed to bind flags: %v", err)
	}
}

// addFlags registers the release flags; every flag is also readable from
// AUTO_RELEASE_<KEY> with dots and dashes replaced by underscores
func addFlags(fs *pflag.FlagSet) {
	fs.String("dir", ".", "path to the repository working directory")
	fs.Bool("dry-run", false, "log commit, push, publish and tag commands instead of running them")

	fs.String("pr.base", "", "base commit SHA of the pull request (env BASE_SHA)")
	fs.String("pr.head", "", "head commit SHA of the pull request (env HEAD_SHA)")
	fs.String("pr.title", "", "pull request title (env PR_TITLE)")
	fs.String("pr.body", "", "pull request description (env PR_BODY)")
	fs.Int("pr.number", 0, "pull request number, used to fetch title and body when the title is empty (env PR_NUMBER)")

	fs.String("llm.provider", "", "decision provider (anthropic|conventional)")
	fs.String("llm.api-key", "", "Anthropic API key (env ANTHROPIC_API_KEY)")
	fs.String("llm.model", "", "model name")
	fs.String("llm.base-url", "", "API base URL")
	fs.Int("llm.max-tokens", 0, "maximum response tokens")
	fs.String("llm.timeout", "", "API request timeout (e.g., 2m)")

	fs.String("manifest.path", "", "package manifest path (default package.json)")
	fs.String("manifest.bump-command", "", "command that sets the manifest version, {version} is the new version")
	fs.String("changelog.path", "", "changelog path (default CHANGELOG.md)")

	fs.Bool("publish.enabled", true, "package and publish the extension")

	fs.String("platform.provider", "", "Git provider type (e.g., github, gitlab)")
	fs.String("platform.base-url", "", "Base API URL of the Git provider")
	fs.String("platform.token", "", "Access token for the Git provider (env GITHUB_TOKEN)")
	fs.String("platform.repository", "", "repository as owner/name or URL (env GITHUB_REPOSITORY)")
	fs.Bool("platform.create-release", false, "create a platform release for the new tag")

	fs.String("output.github-output", "", "GitHub Actions output file (env GITHUB_OUTPUT)")

	fs.String("metrics.pushgateway", "", "Prometheus Pushgateway URL")
	fs.String("metrics.job", "", "Pushgateway job name")
}

// bindViper binds flags and environment variables into v
func bindViper(v *viper.Viper, fs *pflag.FlagSet) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return err
		}
	}
	return nil
}

func initLogging() {
	setupLogging(viper.GetBool("debug"), viper.GetString("log-file"))
}
