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

package decision

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the changelog header date format
const DateLayout = "2006-01-02"

// BuildPrompt formats the current version and PR metadata for the model
func BuildPrompt(currentVersion string, pr PRDetails, today time.Time) string {
	var b strings.Builder

	b.WriteString("You are analyzing a merged pull request to determine the appropriate semantic version bump and generate a changelog entry.\n\n")
	fmt.Fprintf(&b, "Current version: %s\n\n", currentVersion)
	fmt.Fprintf(&b, "PR Title: %s\n\n", pr.Title)
	fmt.Fprintf(&b, "PR Description:\n%s\n\n", valueOr(pr.Body, DefaultPRBody))
	fmt.Fprintf(&b, "Commit messages:\n%s\n\n", pr.Commits)

	b.WriteString("Based on semantic versioning rules:\n")
	b.WriteString("- PATCH (x.x.X): Bug fixes, documentation, minor improvements that don't add features\n")
	b.WriteString("- MINOR (x.X.x): New features, enhancements (backward compatible)\n")
	b.WriteString("- MAJOR (X.x.x): Breaking changes\n\n")

	b.WriteString("Analyze the changes and provide:\n")
	b.WriteString("1. The type of version bump needed (patch, minor, or major)\n")
	b.WriteString("2. The new version number calculated from the current version\n")
	b.WriteString("3. A changelog entry in markdown format\n\n")

	b.WriteString("Guidelines for changelog:\n")
	fmt.Fprintf(&b, "- Use today's date: %s\n", today.Format(DateLayout))
	b.WriteString("- Only include user-facing changes that affect the published extension\n")
	b.WriteString("- Be specific and accurate about what was fixed or added\n")
	b.WriteString("- Use categories: ### Fixed, ### Added, ### Changed, ### Removed\n")
	b.WriteString("- Focus on what users will experience, not implementation details\n")
	b.WriteString("- Don't mention internal refactorings unless they affect user experience\n")
	b.WriteString("- Start with ## [X.Y.Z] - YYYY-MM-DD format")
	return b.String()
}

func valueOr(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
