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
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
)

var (
	divider = strings.Repeat("—", 80)
)

// ExecResult bundles exec results.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Combined string
}

type execParams struct {
	cmd         []string
	userFailure bool
	userTiming  bool
	dir         string
	env         []string
	mp          MessageProducer
}

// ExecOption configures a single Exec call.
type ExecOption func(o *execParams)

// WithMessageProducer sets how the error message is derived from a failed command's output.
func WithMessageProducer(mp MessageProducer) ExecOption {
	return func(o *execParams) {
		o.mp = mp
	}
}

// WithEnv sets environment variables (of the form "KEY=value").
func WithEnv(env ...string) ExecOption {
	return func(o *execParams) {
		o.env = env
	}
}

// WithWorkDir sets a specific working directory.
func WithWorkDir(dir string) ExecOption {
	return func(o *execParams) {
		o.dir = dir
	}
}

// WithUserAttribution indicates that failure and timing both are attributed to the user.
var WithUserAttribution ExecOption = func(o *execParams) {
	o.userFailure = true
	o.userTiming = true
}

// WithUserTimingAttribution indicates that only timing is attributed to the user.
var WithUserTimingAttribution ExecOption = func(o *execParams) {
	o.userTiming = true
}

// Exec runs the given command. A command that ran but exited non-zero returns both its result
// and an error; a command that could not be started returns a nil result.
func (ctx *Context) Exec(cmd []string, opts ...ExecOption) (*ExecResult, error) {
	params := execParams{cmd: cmd, mp: KeepCombinedTail}
	for _, o := range opts {
		o(&params)
	}

	start := time.Now()
	result, err := ctx.configuredExec(params)
	if params.userTiming {
		ctx.stats.user += time.Since(start)
	}
	if err == nil {
		return result, nil
	}

	readableCmd := strings.Join(params.cmd, " ")
	var be *buildererror.Error
	switch {
	case result == nil && params.userFailure:
		be = buildererror.UserErrorf("running %q: %v", readableCmd, err)
	case result == nil:
		be = buildererror.InternalErrorf("running %q: %v", readableCmd, err)
	case params.userFailure:
		be = buildererror.UserErrorf("%q exited with code %d:\n%s", readableCmd, result.ExitCode, params.mp(result))
	default:
		be = buildererror.InternalErrorf("%q exited with code %d:\n%s", readableCmd, result.ExitCode, params.mp(result))
	}
	be.ID = buildererror.GenerateErrorID(params.cmd...)
	return result, be
}

func (ctx *Context) configuredExec(params execParams) (*ExecResult, error) {
	if len(params.cmd) < 1 {
		return nil, errors.New("no command provided")
	}
	if params.cmd[0] == "" {
		return nil, errors.New("empty command provided")
	}

	log := params.userFailure || ctx.debug

	optionalLogf := func(format string, args ...interface{}) {
		if !log {
			return
		}
		ctx.Logf(format, args...)
	}

	readableCmd := strings.Join(params.cmd, " ")
	if len(params.env) > 0 {
		env := strings.Join(params.env, " ")
		readableCmd = fmt.Sprintf("%s (%s)", readableCmd, env)
	}
	optionalLogf(divider)
	optionalLogf("Running %q", readableCmd)

	status := StatusFailed
	defer func(start time.Time) {
		truncated := readableCmd
		if len(truncated) > 60 {
			truncated = truncated[:60] + "..."
		}
		optionalLogf("Done %q (%v)", truncated, time.Since(start))
		ctx.Span(ctx.createSpanName(params.cmd), start, status)
	}(time.Now())

	exitCode := 0
	ecmd := ctx.execCmd(params.cmd[0], params.cmd[1:]...)

	if params.dir != "" {
		ecmd.Dir = params.dir
	}

	if len(params.env) > 0 {
		base := ecmd.Env
		if base == nil {
			base = os.Environ()
		}
		ecmd.Env = append(base, params.env...)
	}

	var outb, errb bytes.Buffer
	combinedb := lockingBuffer{log: log, w: ctx.logWriter}
	ecmd.Stdout = io.MultiWriter(&outb, &combinedb)
	ecmd.Stderr = io.MultiWriter(&errb, &combinedb)

	if err := ecmd.Run(); err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			return nil, err
		}
		// The command returned a non-zero result.
		exitCode = ee.ExitCode()
	}

	result := &ExecResult{
		ExitCode: exitCode,
		Stdout:   strings.TrimSpace(outb.String()),
		Stderr:   strings.TrimSpace(errb.String()),
		Combined: strings.TrimSpace(string(combinedb.Bytes())),
	}

	if exitCode != 0 {
		return result, fmt.Errorf("exit code %d", exitCode)
	}

	status = StatusOk
	return result, nil
}

type lockingBuffer struct {
	buf bytes.Buffer
	sync.Mutex

	// log tells the buffer to also copy the output to w.
	log bool
	w   io.Writer
}

func (lb *lockingBuffer) Write(p []byte) (int, error) {
	lb.Lock()
	defer lb.Unlock()
	if lb.log && lb.w != nil {
		lb.w.Write(p)
	}
	return lb.buf.Write(p)
}

func (lb *lockingBuffer) Bytes() []byte {
	lb.Lock()
	defer lb.Unlock()
	return lb.buf.Bytes()
}
