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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlaudaDevops/toolbox/auto-release/internal/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long: `Display detailed version information including version number,
git commit, build date, Go version, and platform information.

Examples:
  auto-release version               # Display detailed version info
  auto-release version --output json # Display version info in JSON format`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text|json)")
}

func runVersion(cmd *cobra.Command) error {
	versionInfo := version.Get()
	out := cmd.OutOrStdout()

	switch outputFormat {
	case "json":
		output, err := json.MarshalIndent(versionInfo, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info to JSON: %w", err)
		}
		fmt.Fprintln(out, string(output))
		return nil
	case "text":
		fmt.Fprintf(out, "auto-release Version Information:\n")
		fmt.Fprintf(out, "  Version:     %s\n", versionInfo.Version)
		if versionInfo.GitCommit != "" {
			fmt.Fprintf(out, "  Git Commit:  %s\n", versionInfo.GitCommit)
		}
		if versionInfo.BuildDate != "" {
			fmt.Fprintf(out, "  Build Date:  %s\n", versionInfo.BuildDate)
		}
		fmt.Fprintf(out, "  Go Version:  %s\n", versionInfo.GoVersion)
		fmt.Fprintf(out, "  Compiler:    %s\n", versionInfo.Compiler)
		fmt.Fprintf(out, "  Platform:    %s\n", versionInfo.Platform)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: text, json)", outputFormat)
	}
}
