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

// Package changelog inserts release entries into a Keep a Changelog style document
package changelog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// UnreleasedMarker is the heading under which unreleased changes accumulate
const UnreleasedMarker = "## [Unreleased]"

// ErrUnreleasedNotFound is returned when the document has no usable Unreleased section
var ErrUnreleasedNotFound = errors.New("could not find [Unreleased] section")

// InsertOffset returns the byte offset where a new entry is inserted: the end of the
// line that immediately follows the first "## [Unreleased]" heading.
func InsertOffset(doc string) (int, error) {
	start := strings.Index(doc, UnreleasedMarker)
	if start < 0 {
		return 0, ErrUnreleasedNotFound
	}

	pos := start + len(UnreleasedMarker)
	headingEnd := strings.IndexByte(doc[pos:], '\n')
	if headingEnd < 0 {
		return 0, ErrUnreleasedNotFound
	}
	pos += headingEnd + 1

	lineEnd := strings.IndexByte(doc[pos:], '\n')
	if lineEnd < 0 {
		return 0, ErrUnreleasedNotFound
	}
	return pos + lineEnd + 1, nil
}

// Block returns the exact text Splice inserts for entry
func Block(entry string) string {
	return "\n" + entry + "\n\n"
}

// Splice inserts entry, surrounded by blank lines, after the Unreleased section.
// Every other byte of doc is preserved.
func Splice(doc, entry string) (string, error) {
	offset, err := InsertOffset(doc)
	if err != nil {
		return "", err
	}
	return doc[:offset] + Block(entry) + doc[offset:], nil
}

// UpdateFile splices entry into the changelog at path. The file is left untouched
// when the Unreleased section is missing.
func UpdateFile(path, entry string) error {
	logrus.Infof("Updating %s", path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat changelog %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read changelog %s: %w", path, err)
	}

	updated, err := Splice(string(data), entry)
	if err != nil {
		return fmt.Errorf("failed to update changelog %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write changelog %s: %w", path, err)
	}

	logrus.Debugf("Inserted %d bytes into %s", len(updated)-len(data), path)
	return nil
}
