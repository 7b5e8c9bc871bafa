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

package builderoutput

import (
	"encoding/json"
	"testing"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildermetrics"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestUnmarshal(t *testing.T) {
	serialized := `
{
	"runId": "cn1a2b3c4d5e6f7g8h9i",
	"url": "https://example.com/app.tar.gz",
	"buildSystem": "maven",
	"error": {
		"stage": "select",
		"attribution": "USER",
		"errorId": "abc123",
		"errorMessage": "no jar found",
		"anotherThing": 123
	},
	"stats": [
		{
			"name": "fetch",
			"status": "OK",
			"durationMs": 100,
			"anotherThing": "shouldn't cause a problem"
		},
		{
			"name": "build",
			"status": "FAILED",
			"durationMs": 200
		}
	],
	"warnings": [
		"Some warning"
	],
	"totalDurationMs": 300,
	"userDurationMs": 200
}
`

	var got BuilderOutput
	if err := json.Unmarshal([]byte(serialized), &got); err != nil {
		t.Fatal(err)
	}

	want := BuilderOutput{
		RunID:       "cn1a2b3c4d5e6f7g8h9i",
		URL:         "https://example.com/app.tar.gz",
		BuildSystem: "maven",
		Error: &buildererror.Error{
			Stage:       buildererror.StageSelect,
			Attribution: buildererror.AttributionUser,
			ID:          "abc123",
			Message:     "no jar found",
		},
		Stats: []BuilderStat{
			{Name: "fetch", Status: "OK", DurationMs: 100},
			{Name: "build", Status: "FAILED", DurationMs: 200},
		},
		Warnings:        []string{"Some warning"},
		TotalDurationMs: 300,
		UserDurationMs:  200,
	}

	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(buildererror.Error{})); diff != "" {
		t.Errorf("json.Unmarshal() mismatch (-want +got):\n%s", diff)
	}
	if got.Succeeded() {
		t.Errorf("Succeeded()=true, want false")
	}
	if got.IsSystemError() {
		t.Errorf("IsSystemError()=true, want false")
	}
}

func TestUnmarshalMetrics(t *testing.T) {
	var got BuilderOutput
	if err := json.Unmarshal([]byte(`{"runId":"id","metrics":{"c":{"1":2},"f":{"2":1.5}}}`), &got); err != nil {
		t.Fatal(err)
	}
	if got.Metrics == nil {
		t.Fatal("Metrics=nil, want metrics")
	}
	if v := got.Metrics.GetCounter(buildermetrics.FetchAttemptsCounterID).Value(); v != 2 {
		t.Errorf("fetch attempts=%d, want 2", v)
	}
	if v := got.Metrics.GetFloatDP(buildermetrics.PublishedMegabytesFloatDPID).Value(); v != 1.5 {
		t.Errorf("published megabytes=%v, want 1.5", v)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var got BuilderOutput
	if err := json.Unmarshal([]byte(`{"stats": "not a list"}`), &got); err == nil {
		t.Errorf("json.Unmarshal() got nil error, want error")
	}
}

func TestJSONOmitsEmptyResult(t *testing.T) {
	bo := BuilderOutput{RunID: "id"}
	b, err := bo.JSON()
	if err != nil {
		t.Fatalf("JSON() got error: %v", err)
	}
	want := `{"runId":"id","stats":null,"warnings":null,"totalDurationMs":0,"userDurationMs":0}`
	if string(b) != want {
		t.Errorf("JSON()=%s, want %s", b, want)
	}
	if !bo.Succeeded() {
		t.Errorf("Succeeded()=false, want true")
	}
}
