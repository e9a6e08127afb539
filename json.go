// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2agraph

import (
	"github.com/go-json-experiment/json"

	"github.com/go-a2a/a2a-graph/a2a"
)

// parseDataOrText attempts to parse raw as JSON. On success it returns a
// DataPart carrying the parsed value; on any parse error it returns a
// TextPart carrying raw verbatim. It never fails: content whose shape is
// ambiguous is forwarded rather than dropped.
func parseDataOrText(raw string) a2a.Part {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil || value == nil {
		return a2a.NewTextPart(raw)
	}
	return a2a.NewDataPart(value)
}
