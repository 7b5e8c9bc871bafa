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

// Package env specifies environment variables used to configure jarbuild behavior.
package env

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// DebugMode enables more verbose logging.
	// Example: `true`, `True`, `1` will enable debug logging.
	DebugMode = "JARBUILD_DEBUG"

	// ScratchDir is the directory, relative to the working directory unless absolute, that is
	// wiped and recreated at the start of each run.
	// Example: `temp`.
	ScratchDir = "JARBUILD_SCRATCH_DIR"

	// OutputDir is the directory the selected jar is copied into.
	// Example: `/output`.
	OutputDir = "JARBUILD_OUTPUT_DIR"

	// BuildArgs is an env var used to append arguments to the build command.
	// Example: `-Pprod` for Maven apps runs "mvn clean package ... -Pprod".
	BuildArgs = "JARBUILD_BUILD_ARGS"

	// FailOnBuildError controls whether a non-zero exit from the build command aborts the run.
	// Example: `false` falls back to scanning for artifacts after a failed build.
	FailOnBuildError = "JARBUILD_FAIL_ON_BUILD_ERROR"

	// MavenVersion is a semver constraint the installed Maven must satisfy.
	// Example: `>= 3.6`.
	MavenVersion = "JARBUILD_MAVEN_VERSION"

	// FetchRetries is the number of times a failed download is retried.
	FetchRetries = "JARBUILD_FETCH_RETRIES"

	// FetchToken is a bearer token sent with the archive download.
	FetchToken = "JARBUILD_FETCH_TOKEN"

	// BuilderOutput is the directory a JSON summary of the run is written to.
	BuilderOutput = "JARBUILD_BUILDER_OUTPUT"

	// Config is the path of an optional TOML or YAML config file.
	Config = "JARBUILD_CONFIG"
)

// IsDebugMode returns true if debug mode is enabled.
func IsDebugMode() (bool, error) {
	return IsPresentAndTrue(DebugMode)
}

// IsPresentAndTrue returns true if the environment variable evaluates to True.
func IsPresentAndTrue(varName string) (bool, error) {
	v, _, err := LookupBool(varName)
	return v, err
}

// LookupBool returns the parsed value of a boolean environment variable and whether it was set.
func LookupBool(varName string) (value bool, present bool, err error) {
	varValue, present := os.LookupEnv(varName)
	if !present {
		return false, false, nil
	}
	parsed, err := strconv.ParseBool(varValue)
	if err != nil {
		return false, true, fmt.Errorf("parsing %s: %v", varName, err)
	}
	return parsed, true, nil
}

// LookupInt returns the parsed value of an integer environment variable and whether it was set.
func LookupInt(varName string) (value int, present bool, err error) {
	varValue, present := os.LookupEnv(varName)
	if !present {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(varValue)
	if err != nil {
		return 0, true, fmt.Errorf("parsing %s: %v", varName, err)
	}
	return parsed, true, nil
}
