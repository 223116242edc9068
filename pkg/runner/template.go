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

package runner

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// ParseCommandLine splits a shell-like command line into a Command and expands
// "{name}" placeholders inside each argument from vars. The line is never passed
// to a shell, so placeholder values cannot inject extra arguments.
func ParseCommandLine(line string, vars map[string]string) (Command, error) {
	parts, err := shlex.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("failed to parse command line %q: %w", line, err)
	}
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("empty command line")
	}

	for i, part := range parts {
		parts[i] = expand(part, vars)
	}
	if unresolved := findPlaceholder(parts); unresolved != "" {
		return Command{}, fmt.Errorf("unknown placeholder %s in command line %q", unresolved, line)
	}
	if len(parts) == 1 {
		return NewCommand(parts[0]), nil
	}
	return NewCommand(parts[0], parts[1:]...), nil
}

func expand(s string, vars map[string]string) string {
	for name, value := range vars {
		s = strings.ReplaceAll(s, "{"+name+"}", value)
	}
	return s
}

// findPlaceholder returns the first "{name}" left after expansion
func findPlaceholder(parts []string) string {
	for _, part := range parts {
		start := strings.IndexByte(part, '{')
		if start < 0 {
			continue
		}
		end := strings.IndexByte(part[start:], '}')
		if end <= 1 {
			continue
		}
		name := part[start+1 : start+end]
		if isIdentifier(name) {
			return "{" + name + "}"
		}
	}
	return ""
}

func isIdentifier(s string) bool {
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return s != ""
}
