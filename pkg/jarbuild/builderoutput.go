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

package jarbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/builderoutput"
)

const (
	// BuilderOutputFilename is the name of the summary file inside the builder output directory.
	BuilderOutputFilename = "output"
)

var (
	maxMessageBytes = 3000
	maxOutputBytes  = 16000
)

// MessageProducer is a function that produces a useful message from the result.
type MessageProducer func(result *ExecResult) string

// KeepCombinedTail returns the tail of the combined stdout/stderr from the result.
var KeepCombinedTail = func(result *ExecResult) string { return keepTail(result.Combined) }

// KeepStderrTail returns the tail of stderr from the result.
var KeepStderrTail = func(result *ExecResult) string { return keepTail(result.Stderr) }

// KeepStdoutTail returns the tail of stdout from the result.
var KeepStdoutTail = func(result *ExecResult) string { return keepTail(result.Stdout) }

func keepTail(message string) string {
	message = strings.TrimSpace(message)

	if len(message) <= maxMessageBytes {
		return message
	}

	return "..." + message[len(message)-maxMessageBytes+3:]
}

func keepHead(message string) string {
	message = strings.TrimSpace(message)

	if len(message) <= maxMessageBytes {
		return message
	}

	return message[:maxMessageBytes-3] + "..."
}

func truncateWarning(format string, args ...interface{}) string {
	return keepHead(fmt.Sprintf(format, args...))
}

// SaveBuilderOutput completes bo with the run ID, timings and warnings of this context and
// writes it as JSON to dir/output. A failed write is reported as a warning only.
func (ctx *Context) SaveBuilderOutput(dir string, bo builderoutput.BuilderOutput, total time.Duration) {
	if dir == "" {
		return
	}

	bo.RunID = ctx.RunID()
	bo.TotalDurationMs = total.Milliseconds()
	bo.UserDurationMs = ctx.UserDuration().Milliseconds()
	bo.Metrics = ctx.Metrics()
	for _, s := range ctx.Spans() {
		bo.Stats = append(bo.Stats, builderoutput.BuilderStat{
			Name:       s.Name,
			Status:     string(s.Status),
			DurationMs: s.Duration().Milliseconds(),
		})
	}
	bo.Warnings = append(bo.Warnings, ctx.Warnings()...)
	if bo.Error != nil && len(bo.Error.Message) > maxMessageBytes {
		trimmed := *bo.Error
		trimmed.Message = keepTail(trimmed.Message)
		bo.Error = &trimmed
	}

	var content []byte
	// Make sure the summary is smaller than the maximum allowed size.
	for {
		var err error
		content, err = bo.JSON()
		if err != nil {
			ctx.Warnf("Failed to marshal builder output, skipping: %v", err)
			return
		}
		if len(content) <= maxOutputBytes || len(bo.Warnings) == 0 {
			break
		}
		bo.Warnings = bo.Warnings[:len(bo.Warnings)-1]
	}

	if err := ctx.MkdirAll(dir, 0755); err != nil {
		ctx.Warnf("Failed to create dir %s, skipping builder output: %v", dir, err)
		return
	}

	// Write to a temp file and rename so that readers never observe a partial summary.
	tname := filepath.Join(dir, fmt.Sprintf("%s-%s", BuilderOutputFilename, ctx.RunID()))
	if err := os.WriteFile(tname, content, 0644); err != nil {
		ctx.Warnf("Failed to write %s, skipping builder output: %v", tname, err)
		return
	}
	fname := filepath.Join(dir, BuilderOutputFilename)
	if err := ctx.Rename(tname, fname); err != nil {
		ctx.Warnf("Failed to move %s to %s, skipping builder output: %v", tname, fname, err)
		return
	}
	ctx.Debugf("Wrote builder output to %s", fname)
}
