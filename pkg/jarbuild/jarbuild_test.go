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
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/env"
	"github.com/google/go-cmp/cmp"
)

func TestDebugf(t *testing.T) {
	testCases := []struct {
		name  string
		debug bool
		want  string
	}{
		{
			name:  "debug enabled",
			debug: true,
			want:  "DEBUG: detail 1\n",
		},
		{
			name: "debug disabled",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := NewContext(WithLogWriter(&buf), WithDebug(tc.debug))

			ctx.Debugf("detail %d", 1)

			if got := buf.String(); got != tc.want {
				t.Errorf("Debugf() logged %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDebugFromEnv(t *testing.T) {
	t.Setenv(env.DebugMode, "true")
	ctx := NewContext(WithLogWriter(&bytes.Buffer{}))
	if !ctx.Debug() {
		t.Errorf("Debug()=false with %s=true, want true", env.DebugMode)
	}
}

func TestWarnfRecordsWarnings(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(WithLogWriter(&buf), WithDebug(false))

	ctx.Warnf("build exited with %d", 1)
	ctx.Warnf("second")

	if !strings.Contains(buf.String(), "Warning: build exited with 1") {
		t.Errorf("Warnf() did not log the warning, got %q", buf.String())
	}
	want := []string{"build exited with 1", "second"}
	if diff := cmp.Diff(want, ctx.Warnings()); diff != "" {
		t.Errorf("Warnings() mismatch (-want +got):\n%s", diff)
	}
}

func TestRunID(t *testing.T) {
	if got := NewContext(WithRunID("abc"), WithLogWriter(&bytes.Buffer{})).RunID(); got != "abc" {
		t.Errorf("RunID()=%q, want abc", got)
	}
	a := NewContext(WithLogWriter(&bytes.Buffer{})).RunID()
	b := NewContext(WithLogWriter(&bytes.Buffer{})).RunID()
	if a == "" || a == b {
		t.Errorf("generated run IDs %q and %q should be non-empty and distinct", a, b)
	}
}

func TestExitCode(t *testing.T) {
	usage := buildererror.UserErrorf("accepts 1 arg(s), received 0")
	usage.Stage = buildererror.StageUsage
	build := buildererror.UserErrorf("build failed")
	build.Stage = buildererror.StageBuild

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", want: ExitOK},
		{name: "usage", err: usage, want: ExitUsage},
		{name: "wrapped usage", err: fmt.Errorf("parsing: %w", usage), want: ExitUsage},
		{name: "build", err: build, want: ExitFailure},
		{name: "plain error", err: fmt.Errorf("boom"), want: ExitFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Errorf("ExitCode(%v)=%d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestReportFailure(t *testing.T) {
	testCases := []struct {
		name  string
		stage buildererror.Stage
		want  string
	}{
		{
			name:  "detect",
			stage: buildererror.StageDetect,
			want:  "gradle wrapper",
		},
		{
			name:  "select",
			stage: buildererror.StageSelect,
			want:  "build/libs/",
		},
		{
			name:  "build",
			stage: buildererror.StageBuild,
			want:  "build output above",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := NewContext(WithLogWriter(&buf), WithDebug(false))
			err := buildererror.UserErrorf("it broke")
			err.Stage = tc.stage

			ctx.ReportFailure(err)

			got := buf.String()
			for _, want := range []string{"Failure: ", "it broke", tc.want, "--debug"} {
				if !strings.Contains(got, want) {
					t.Errorf("ReportFailure() output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestReportFailureNil(t *testing.T) {
	var buf bytes.Buffer
	NewContext(WithLogWriter(&buf), WithDebug(false)).ReportFailure(nil)
	if buf.Len() != 0 {
		t.Errorf("ReportFailure(nil) logged %q, want nothing", buf.String())
	}
}
