// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package builderoutput provides the JSON summary written at the end of a run.
package builderoutput

import (
	"encoding/json"
	"fmt"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildermetrics"
)

// JSON encodes a BuilderOutput as json
func (bo BuilderOutput) JSON() ([]byte, error) {
	bytes, err := json.Marshal(bo)
	if err != nil {
		return nil, fmt.Errorf("marshalling json: %w", err)
	}
	return bytes, nil
}

// BuilderOutput contains data about the outcome of a run.
type BuilderOutput struct {
	RunID           string                         `json:"runId"`
	URL             string                         `json:"url,omitempty"`
	BuildSystem     string                         `json:"buildSystem,omitempty"`
	Artifact        string                         `json:"artifact,omitempty"`
	Published       string                         `json:"published,omitempty"`
	MainClass       string                         `json:"mainClass,omitempty"`
	Error           *buildererror.Error            `json:"error,omitempty"`
	Stats           []BuilderStat                  `json:"stats"`
	Metrics         *buildermetrics.BuilderMetrics `json:"metrics,omitempty"`
	Warnings        []string                       `json:"warnings"`
	TotalDurationMs int64                          `json:"totalDurationMs"`
	UserDurationMs  int64                          `json:"userDurationMs"`
}

// Succeeded reports whether the run finished without an error.
func (bo BuilderOutput) Succeeded() bool {
	return bo.Error == nil
}

// IsSystemError determines if the error is attributed to the system rather than the user.
func (bo BuilderOutput) IsSystemError() bool {
	return bo.Error != nil && bo.Error.Attribution == buildererror.AttributionSystem
}

// BuilderStat contains statistics about a stage or command of the run.
type BuilderStat struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	DurationMs int64  `json:"durationMs"`
}
