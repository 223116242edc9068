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

// Package version provides semantic version comparison and bump arithmetic
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// BumpKind classifies the semantic-versioning impact of a change
type BumpKind string

const (
	// Patch increments the third component
	Patch BumpKind = "patch"
	// Minor increments the second component and zeroes the third
	Minor BumpKind = "minor"
	// Major increments the first component and zeroes the other two
	Major BumpKind = "major"
)

// BumpKinds lists every accepted bump kind, lowest impact first
var BumpKinds = []BumpKind{Patch, Minor, Major}

// ParseBumpKind parses a bump kind case-insensitively
func ParseBumpKind(s string) (BumpKind, error) {
	kind := BumpKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range BumpKinds {
		if kind == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown version bump %q, expected one of patch, minor, major", s)
}

// String implements fmt.Stringer
func (k BumpKind) String() string {
	return string(k)
}

// Parse parses a strict three-component release version such as "1.2.3".
// A leading "v" is accepted, pre-release and build metadata are not.
func Parse(v string) (*semver.Version, error) {
	parsed, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(v), "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", v, err)
	}
	if parsed.Prerelease() != "" || parsed.Metadata() != "" {
		return nil, fmt.Errorf("invalid version %q: pre-release and build metadata are not supported", v)
	}
	return parsed, nil
}

// Bump returns current incremented according to kind, formatted as X.Y.Z
func Bump(current string, kind BumpKind) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}

	var next semver.Version
	switch kind {
	case Patch:
		next = v.IncPatch()
	case Minor:
		next = v.IncMinor()
	case Major:
		next = v.IncMajor()
	default:
		return "", fmt.Errorf("unknown version bump %q", kind)
	}
	return next.String(), nil
}

// CheckBump verifies that next is exactly current bumped by kind, written
// as a bare X.Y.Z. This also guarantees next is strictly greater than current.
func CheckBump(current, next string, kind BumpKind) error {
	expected, err := Bump(current, kind)
	if err != nil {
		return err
	}
	if _, err := Parse(next); err != nil {
		return err
	}
	if CompareVersions(next, current) <= 0 {
		return fmt.Errorf("%s bump of %s must be greater than the current version, got %s", kind, current, next)
	}
	if next != expected {
		return fmt.Errorf("%s bump of %s must produce %s, got %s", kind, current, expected, next)
	}
	return nil
}

// CompareVersions compares two semantic version strings and returns:
// -1 if version1 < version2
//
//	0 if version1 == version2
//	1 if version1 > version2
//
// Versions are normalized first ("v" prefix removed, "1.2" read as "1.2.0").
func CompareVersions(version1, version2 string) int {
	if version1 == "" && version2 == "" {
		return 0
	}
	if version1 == "" {
		return -1
	}
	if version2 == "" {
		return 1
	}

	v1 := normalizeVersionForSemver(version1)
	v2 := normalizeVersionForSemver(version2)

	semVer1, err1 := semver.NewVersion(v1)
	semVer2, err2 := semver.NewVersion(v2)
	if err1 == nil && err2 == nil {
		return semVer1.Compare(semVer2)
	}

	// Fallback to lexicographic comparison if semver parsing fails
	if v1 < v2 {
		return -1
	}
	if v1 > v2 {
		return 1
	}
	return 0
}

// normalizeVersionForSemver strips the "v" prefix and pads short versions to three parts
func normalizeVersionForSemver(version string) string {
	if version == "" {
		return version
	}

	normalized := strings.TrimPrefix(version, "v")

	parts := strings.Split(normalized, ".")
	if len(parts) == 1 {
		normalized = normalized + ".0.0"
	} else if len(parts) == 2 {
		normalized = normalized + ".0"
	}

	return normalized
}
