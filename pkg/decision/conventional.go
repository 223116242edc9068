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
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/version"
)

var (
	// conventionalRegexp matches "type(scope)!: description"
	conventionalRegexp = regexp.MustCompile(`^([a-zA-Z]+)(\([^)]*\))?(!)?:\s*(.+)$`)
	// breakingFooterRegexp matches a BREAKING CHANGE footer line
	breakingFooterRegexp = regexp.MustCompile(`^BREAKING[ -]CHANGE:`)
	// breakingProseRegexp matches prose describing a breaking change
	breakingProseRegexp = regexp.MustCompile(`(?i)\bbreaking\b[\w\s-]{0,20}\bchange`)
)

// negations that turn "breaking change" into a non-breaking statement
var negations = map[string]bool{"no": true, "not": true, "non": true, "without": true, "any": true}

// changelog sections in output order
var sections = []string{"Added", "Fixed", "Changed", "Removed"}

// sectionByType maps conventional commit types to changelog sections.
// Types missing from the map are not user facing.
var sectionByType = map[string]string{
	"feat":     "Added",
	"fix":      "Fixed",
	"perf":     "Changed",
	"refactor": "Changed",
	"docs":     "Changed",
	"revert":   "Removed",
	"remove":   "Removed",
}

// ConventionalDecider decides the bump from conventional commit prefixes without calling a model
type ConventionalDecider struct {
	// now returns the release date
	now func() time.Time
}

// NewConventionalDecider creates a deterministic decider
func NewConventionalDecider() *ConventionalDecider {
	return &ConventionalDecider{now: time.Now}
}

// Decide implements Decider
func (c *ConventionalDecider) Decide(_ context.Context, currentVersion string, pr PRDetails) (*VersionDecision, error) {
	lines := candidateLines(pr)
	kind := classify(pr, lines)

	newVersion, err := version.Bump(currentVersion, kind)
	if err != nil {
		return nil, err
	}

	logrus.Debugf("Conventional commits classified the change as %s", kind)
	return &VersionDecision{
		Bump:           kind,
		NewVersion:     newVersion,
		ChangelogEntry: buildEntry(newVersion, c.now(), pr, lines),
	}, nil
}

// candidateLines returns the title followed by every non-empty commit log line
func candidateLines(pr PRDetails) []string {
	lines := []string{strings.TrimSpace(pr.Title)}
	for _, line := range strings.Split(pr.Commits, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func classify(pr PRDetails, lines []string) version.BumpKind {
	kind := version.Patch
	for _, line := range append(lines, strings.Split(pr.Body, "\n")...) {
		line = strings.TrimSpace(line)
		if breakingFooterRegexp.MatchString(line) {
			return version.Major
		}
		m := conventionalRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if m[3] == "!" {
			return version.Major
		}
		if strings.EqualFold(m[1], "feat") {
			kind = version.Minor
		}
	}
	if mentionsBreakingChange(pr.Title) || mentionsBreakingChange(pr.Body) {
		return version.Major
	}
	return kind
}

// mentionsBreakingChange reports prose such as "breaking API change", ignoring negations
func mentionsBreakingChange(text string) bool {
	lower := strings.ToLower(text)
	for _, loc := range breakingProseRegexp.FindAllStringIndex(lower, -1) {
		words := strings.Fields(lower[:loc[0]])
		if len(words) == 0 {
			return true
		}
		last := words[len(words)-1]
		if strings.HasSuffix(last, "non-") || negations[last] {
			continue
		}
		return true
	}
	return false
}

func buildEntry(newVersion string, date time.Time, pr PRDetails, lines []string) string {
	items := map[string][]string{}
	seen := map[string]bool{}
	for _, line := range lines {
		m := conventionalRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		section, ok := sectionByType[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		text := capitalize(strings.TrimSpace(m[4]))
		if seen[text] {
			continue
		}
		seen[text] = true
		items[section] = append(items[section], text)
	}

	if len(items) == 0 {
		title := strings.TrimSpace(pr.Title)
		if m := conventionalRegexp.FindStringSubmatch(title); m != nil {
			title = m[4]
		}
		items["Changed"] = []string{capitalize(valueOr(title, "Maintenance release"))}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## [%s] - %s", newVersion, date.Format(DateLayout))
	for _, section := range sections {
		if len(items[section]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n\n### %s\n", section)
		for i, item := range items[section] {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "- %s", item)
		}
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

var _ Decider = (*ConventionalDecider)(nil)
