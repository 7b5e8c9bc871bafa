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

// Package mockprocessutil contains the pieces of mockprocess shared by the test and the
// re-executed helper process.
package mockprocessutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// EnvHelperMockProcessMap is the env var used to communicate the intended
	// behavior of the mock process for various commands. It contains a
	// []MockProcess serialized to JSON.
	EnvHelperMockProcessMap = "HELPER_MOCK_PROCESS_MAP"
)

// MockProcess pairs a command regex with the behavior of matching commands.
type MockProcess struct {
	CommandRegex string
	Config       *MockProcessConfig
}

// MockProcessConfig is the behavior of a mocked command.
type MockProcessConfig struct {
	// Stdout is the message that should be printed to stdout.
	Stdout string
	// Stderr is the message that should be printed to stderr.
	Stderr string
	// ExitCode is the exit code that the process should use.
	ExitCode int
	// Files are written relative to the working directory before exiting, mimicking build outputs.
	Files map[string]string
}

// UnmarshalMockProcesses parses the JSON from EnvHelperMockProcessMap.
func UnmarshalMockProcesses(data string) ([]MockProcess, error) {
	var mocks []MockProcess
	if err := json.Unmarshal([]byte(data), &mocks); err != nil {
		return nil, err
	}
	return mocks, nil
}

// Run plays the first mock whose regex matches the space-joined args and returns the exit
// code. Commands without a matching mock succeed silently.
func Run(mocks []MockProcess, args []string, stdout, stderr io.Writer) int {
	fullCommand := strings.Join(args, " ")
	var mockMatch *MockProcessConfig
	for _, m := range mocks {
		re := regexp.MustCompile(m.CommandRegex)
		if re.MatchString(fullCommand) {
			mockMatch = m.Config
			break
		}
	}
	if mockMatch == nil {
		// To avoid needing to mock every call to Exec, assume
		// the process should pass if it wasn't specified by the test.
		return 0
	}

	for name, content := range mockMatch.Files {
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			fmt.Fprintf(stderr, "mock process: %v", err)
			return 127
		}
		if err := os.WriteFile(name, []byte(content), 0644); err != nil {
			fmt.Fprintf(stderr, "mock process: %v", err)
			return 127
		}
	}

	if mockMatch.Stdout != "" {
		fmt.Fprint(stdout, mockMatch.Stdout)
	}

	if mockMatch.Stderr != "" {
		fmt.Fprint(stderr, mockMatch.Stderr)
	}

	return mockMatch.ExitCode
}
