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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/version"
)

// ErrInvalidDecision is returned when a response does not satisfy the output schema
var ErrInvalidDecision = errors.New("invalid version decision")

// SchemaName is the name under which the output schema is registered with the model
const SchemaName = "version_analysis"

// Schema returns the strict JSON schema of a VersionDecision
func Schema() map[string]any {
	kinds := make([]string, 0, len(version.BumpKinds))
	for _, k := range version.BumpKinds {
		kinds = append(kinds, k.String())
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"version_bump": map[string]any{
				"type":        "string",
				"enum":        kinds,
				"description": "Type of version bump: 'patch', 'minor', or 'major'",
			},
			"new_version": map[string]any{
				"type":        "string",
				"pattern":     `^\d+\.\d+\.\d+$`,
				"description": "The new version number in X.Y.Z format",
			},
			"changelog_entry": map[string]any{
				"type":        "string",
				"description": "Full changelog entry in markdown format with ## [X.Y.Z] header",
			},
		},
		"required":             []string{"version_bump", "new_version", "changelog_entry"},
		"additionalProperties": false,
	}
}

// ParseResponse decodes a structured response into a VersionDecision.
// Unknown fields, missing fields and non-string values are rejected.
func ParseResponse(raw []byte) (*VersionDecision, error) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object: %v", ErrInvalidDecision, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidDecision)
	}

	values := make(map[string]string, len(fields))
	for key, value := range fields {
		switch key {
		case "version_bump", "new_version", "changelog_entry":
		default:
			return nil, fmt.Errorf("%w: unexpected field %q", ErrInvalidDecision, key)
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, fmt.Errorf("%w: field %q must be a string", ErrInvalidDecision, key)
		}
		values[key] = s
	}

	for _, key := range []string{"version_bump", "new_version", "changelog_entry"} {
		if strings.TrimSpace(values[key]) == "" {
			return nil, fmt.Errorf("%w: missing required field %q", ErrInvalidDecision, key)
		}
	}

	kind, err := version.ParseBumpKind(values["version_bump"])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDecision, err)
	}

	return &VersionDecision{
		Bump:           kind,
		NewVersion:     strings.TrimSpace(values["new_version"]),
		ChangelogEntry: strings.TrimSpace(values["changelog_entry"]),
	}, nil
}
