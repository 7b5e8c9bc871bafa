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

// Package buildermetrics provides functionality to record metrics about a jarbuild run.
package buildermetrics

import (
	"encoding/json"
	"fmt"
)

// CounterID identifies a Counter. IDs are short so the builder output stays small.
type CounterID string

// FloatDPID identifies a FloatDP.
type FloatDPID string

const (
	// FetchAttemptsCounterID counts HTTP requests made for the archive, retries included.
	FetchAttemptsCounterID CounterID = "1"
	// FlattenedEntriesCounterID counts entries moved out of a wrapper directory.
	FlattenedEntriesCounterID CounterID = "2"
	// IgnoredBuildFailuresCounterID counts failed builds that were followed by an artifact scan.
	IgnoredBuildFailuresCounterID CounterID = "3"
	// JarCandidatesCounterID counts the jars that were considered for publishing.
	JarCandidatesCounterID CounterID = "4"
)

const (
	// ArchiveMegabytesFloatDPID is the size of the downloaded archive.
	ArchiveMegabytesFloatDPID FloatDPID = "1"
	// PublishedMegabytesFloatDPID is the size of the published jar.
	PublishedMegabytesFloatDPID FloatDPID = "2"
)

// Descriptor names a metric for humans.
type Descriptor struct {
	Name        string
	Description string
}

var counterDescriptors = map[CounterID]Descriptor{
	FetchAttemptsCounterID:        {"fetch_attempts", "The number of HTTP requests made to download the archive"},
	FlattenedEntriesCounterID:     {"flattened_entries", "The number of entries moved out of the archive's wrapper directory"},
	IgnoredBuildFailuresCounterID: {"ignored_build_failures", "The number of failed builds that continued to artifact selection"},
	JarCandidatesCounterID:        {"jar_candidates", "The number of jars found in the build output directory"},
}

var floatDPDescriptors = map[FloatDPID]Descriptor{
	ArchiveMegabytesFloatDPID:   {"archive_megabytes", "The size of the downloaded source archive in MB"},
	PublishedMegabytesFloatDPID: {"published_megabytes", "The size of the published jar in MB"},
}

// Descriptor returns the name and description of the counter.
func (c CounterID) Descriptor() (Descriptor, error) {
	desc, ok := counterDescriptors[c]
	if !ok {
		return Descriptor{}, fmt.Errorf("Descriptor for CounterID %q not found", c)
	}
	return desc, nil
}

// Descriptor returns the name and description of the data point.
func (f FloatDPID) Descriptor() (Descriptor, error) {
	desc, ok := floatDPDescriptors[f]
	if !ok {
		return Descriptor{}, fmt.Errorf("Descriptor for FloatDPID %q not found", f)
	}
	return desc, nil
}

// BuilderMetrics contains the metrics recorded during one run.
type BuilderMetrics struct {
	counters map[CounterID]*Counter
	floatDPs map[FloatDPID]*FloatDP
}

// NewBuilderMetrics returns an empty BuilderMetrics.
func NewBuilderMetrics() *BuilderMetrics {
	return &BuilderMetrics{make(map[CounterID]*Counter), make(map[FloatDPID]*FloatDP)}
}

// GetCounter returns the Counter for m, creating it on first use.
func (b *BuilderMetrics) GetCounter(m CounterID) *Counter {
	if _, found := b.counters[m]; !found {
		b.counters[m] = &Counter{}
	}
	return b.counters[m]
}

// ForEachCounter calls f for every counter that was used.
func (b *BuilderMetrics) ForEachCounter(f func(CounterID, *Counter)) {
	for id, c := range b.counters {
		f(id, c)
	}
}

// GetFloatDP returns the FloatDP for m, creating it on first use.
func (b *BuilderMetrics) GetFloatDP(m FloatDPID) *FloatDP {
	if _, found := b.floatDPs[m]; !found {
		b.floatDPs[m] = &FloatDP{}
	}
	return b.floatDPs[m]
}

// ForEachFloatDP calls f for every data point that was used.
func (b *BuilderMetrics) ForEachFloatDP(f func(FloatDPID, *FloatDP)) {
	for id, fm := range b.floatDPs {
		f(id, fm)
	}
}

type metricsMaps struct {
	Counters map[CounterID]*Counter `json:"c,omitempty"`
	FloatDPs map[FloatDPID]*FloatDP `json:"f,omitempty"`
}

// MarshalJSON is a custom marshaler for BuilderMetrics.
func (b BuilderMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(metricsMaps{Counters: b.counters, FloatDPs: b.floatDPs})
}

// UnmarshalJSON is a custom unmarshaler for BuilderMetrics.
func (b *BuilderMetrics) UnmarshalJSON(j []byte) error {
	var val metricsMaps
	if err := json.Unmarshal(j, &val); err != nil {
		return err
	}
	b.counters = val.Counters
	if b.counters == nil {
		b.counters = make(map[CounterID]*Counter)
	}
	b.floatDPs = val.FloatDPs
	if b.floatDPs == nil {
		b.floatDPs = make(map[FloatDPID]*FloatDP)
	}
	return nil
}
