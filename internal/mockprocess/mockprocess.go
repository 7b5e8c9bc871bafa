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

// Package mockprocess stands in for external commands such as mvn and gradlew in tests.
//
// The test binary re-executes itself as the mocked command, so packages using it must call
// RunIfHelper from TestMain:
//
//	func TestMain(m *testing.M) {
//		mockprocess.RunIfHelper()
//		os.Exit(m.Run())
//	}
package mockprocess

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/GoogleCloudPlatform/jarbuild/internal/mockprocess/mockprocessutil"
)

// Mock describes the output and exit code of commands matching a regex.
type Mock struct {
	commandRegex  string
	processConfig *mockprocessutil.MockProcessConfig
}

// New creates a mock for commands matching commandRegex. The regex is matched against the
// command name and its arguments joined by spaces.
func New(commandRegex string, opts ...Option) *Mock {
	mp := &mockprocessutil.MockProcessConfig{}
	for _, o := range opts {
		o(mp)
	}
	return &Mock{
		commandRegex:  commandRegex,
		processConfig: mp,
	}
}

// Option configures a Mock.
type Option func(*mockprocessutil.MockProcessConfig)

// WithStdout sets what the mocked command prints to stdout.
func WithStdout(msg string) Option {
	return func(mp *mockprocessutil.MockProcessConfig) {
		mp.Stdout = msg
	}
}

// WithStderr sets what the mocked command prints to stderr.
func WithStderr(msg string) Option {
	return func(mp *mockprocessutil.MockProcessConfig) {
		mp.Stderr = msg
	}
}

// WithExitCode sets the exit code of the mocked command.
func WithExitCode(code int) Option {
	return func(mp *mockprocessutil.MockProcessConfig) {
		mp.ExitCode = code
	}
}

// WithFiles makes the mocked command write files, relative to its working directory.
func WithFiles(files map[string]string) Option {
	return func(mp *mockprocessutil.MockProcessConfig) {
		mp.Files = files
	}
}

// NewExecCmd returns a replacement for exec.Command that runs the matching mock instead of the
// real command. Mocks are tried in order.
func NewExecCmd(mocks ...*Mock) (func(name string, args ...string) *exec.Cmd, error) {
	var processes []mockprocessutil.MockProcess
	for _, mock := range mocks {
		processes = append(processes, mockprocessutil.MockProcess{CommandRegex: mock.commandRegex, Config: mock.processConfig})
	}

	b, err := json.Marshal(processes)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal mock processes to JSON: %v", err)
	}

	testBinary, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("unable to locate the test binary: %w", err)
	}

	return func(name string, args ...string) *exec.Cmd {
		cmd := exec.Command(testBinary, append([]string{name}, args...)...)
		cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%s", mockprocessutil.EnvHelperMockProcessMap, string(b)))
		return cmd
	}, nil
}

// RunIfHelper turns the current process into the mocked command and exits when it was started
// by an exec.Cmd from NewExecCmd. Otherwise it returns immediately.
func RunIfHelper() {
	mocksJSON, ok := os.LookupEnv(mockprocessutil.EnvHelperMockProcessMap)
	if !ok {
		return
	}
	mocks, err := mockprocessutil.UnmarshalMockProcesses(mocksJSON)
	if err != nil {
		log.Fatalf("unable to unmarshal mock processes from JSON '%s': %v", mocksJSON, err)
	}
	os.Exit(mockprocessutil.Run(mocks, os.Args[1:], os.Stdout, os.Stderr))
}
