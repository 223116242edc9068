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


// Package actions writes step outputs for GitHub Actions
package actions

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// OutputWriter appends name/value pairs to the GITHUB_OUTPUT file
type OutputWriter struct {
	path string
}

// NewOutputWriter creates a writer for path; an empty path disables output
func NewOutputWriter(path string) *OutputWriter {
	return &OutputWriter{path: path}
}

// Enabled reports whether outputs are written
func (w *OutputWriter) Enabled() bool {
	return w.path != ""
}

// WriteRelease records the new version and its changelog entry
func (w *OutputWriter) WriteRelease(newVersion, changelogEntry string) error {
	return w.Write(
		Output{Name: "new_version", Value: newVersion},
		Output{Name: "changelog", Value: changelogEntry, Multiline: true},
	)
}

// Output is a single step output
type Output struct {
	Name      string
	Value     string
	Multiline bool
}

// Write appends outputs to the file in one write
func (w *OutputWriter) Write(outputs ...Output) error {
	if !w.Enabled() {
		logrus.Debug("GITHUB_OUTPUT not set, skipping step outputs")
		return nil
	}

	var b strings.Builder
	for _, o := range outputs {
		if o.Multiline || strings.ContainsAny(o.Value, "\r\n") {
			delimiter := heredocDelimiter(o.Value)
			fmt.Fprintf(&b, "%s<<%s\n%s\n%s\n", o.Name, delimiter, o.Value, delimiter)
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", o.Name, o.Value)
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open GITHUB_OUTPUT %s: %w", w.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write GITHUB_OUTPUT %s: %w", w.path, err)
	}
	logrus.Debugf("Wrote %d outputs to %s", len(outputs), w.path)
	return nil
}

// heredocDelimiter returns "EOF" unless a line of value equals it
func heredocDelimiter(value string) string {
	delimiter := "EOF"
	for i := 1; containsLine(value, delimiter); i++ {
		delimiter = fmt.Sprintf("EOF_%d", i)
	}
	return delimiter
}

func containsLine(value, line string) bool {
	for _, l := range strings.Split(value, "\n") {
		if strings.TrimRight(l, "\r") == line {
			return true
		}
	}
	return false
}
