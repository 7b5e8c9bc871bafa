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
	"strings"
	"time"
)

// Status is the outcome of a timed span.
type Status string

const (
	// StatusOk marks a span that completed.
	StatusOk Status = "OK"
	// StatusFailed marks a span that returned an error.
	StatusFailed Status = "FAILED"
)

// SpanInfo is a timed section of a run: a pipeline stage or an external command.
type SpanInfo struct {
	Name   string
	Start  time.Time
	End    time.Time
	Status Status
}

// Duration is the wall time the span covered.
func (s SpanInfo) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

func newSpanInfo(name string, start, end time.Time, status Status) (*SpanInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("span name required")
	}
	if start.After(end) {
		return nil, fmt.Errorf("start is after end")
	}
	return &SpanInfo{
		Name:   name,
		Start:  start,
		End:    end,
		Status: status,
	}, nil
}

// Span records and logs a timed section that began at start and ends now.
func (ctx *Context) Span(label string, start time.Time, status Status) {
	now := time.Now()
	ctx.Logf("Timing %v %s `%s`", now.Sub(start), status, label)
	si, err := newSpanInfo(label, start, now, status)
	if err != nil {
		ctx.Logf("Warning: invalid span dropped: %v", err)
		return
	}
	ctx.stats.spans = append(ctx.stats.spans, si)
}

// Spans returns the spans recorded so far, oldest first.
func (ctx *Context) Spans() []SpanInfo {
	spans := make([]SpanInfo, 0, len(ctx.stats.spans))
	for _, s := range ctx.stats.spans {
		spans = append(spans, *s)
	}
	return spans
}

// UserDuration is the time spent in commands attributed to the user, such as the project build.
func (ctx *Context) UserDuration() time.Duration {
	return ctx.stats.user
}

func (ctx *Context) createSpanName(cmd []string) string {
	var trimmed []string
	for _, c := range cmd {
		t := strings.TrimSpace(c)
		if t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return fmt.Sprintf("Exec %q", strings.Join(trimmed, " "))
}
