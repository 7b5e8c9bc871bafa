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

// Package jarbuild provides the run context shared by every stage of a jarbuild run: logging,
// command execution, filesystem helpers and timing.
package jarbuild

import (
	"io"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildermetrics"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/env"
	"github.com/rs/xid"
)

var (
	// InternalErrorf constructs an Error attributed to the system.
	InternalErrorf = buildererror.InternalErrorf
	// UserErrorf constructs an Error attributed to the operator or the project.
	UserErrorf = buildererror.UserErrorf
)

type stats struct {
	spans []*SpanInfo
	user  time.Duration
}

// Context provides contextually aware functions for the stages of a run.
type Context struct {
	runID      string
	debug      bool
	logger     *log.Logger
	logWriter  io.Writer
	execCmd    func(name string, args ...string) *exec.Cmd
	stats      stats
	metrics    *buildermetrics.BuilderMetrics
	warnings   []string
	debugIsSet bool
}

// ContextOption configures a Context.
type ContextOption func(ctx *Context)

// WithDebug forces debug logging on or off, ignoring JARBUILD_DEBUG.
func WithDebug(debug bool) ContextOption {
	return func(ctx *Context) {
		ctx.debug = debug
		ctx.debugIsSet = true
	}
}

// WithLogWriter sends all log output to w instead of stderr.
func WithLogWriter(w io.Writer) ContextOption {
	return func(ctx *Context) {
		ctx.logWriter = w
	}
}

// WithExecCmd replaces exec.Command, used by tests to mock external processes.
func WithExecCmd(execCmd func(name string, args ...string) *exec.Cmd) ContextOption {
	return func(ctx *Context) {
		ctx.execCmd = execCmd
	}
}

// WithRunID sets the run identifier instead of generating one.
func WithRunID(id string) ContextOption {
	return func(ctx *Context) {
		ctx.runID = id
	}
}

// NewContext creates a context.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{
		logWriter: os.Stderr,
		execCmd:   exec.Command,
		metrics:   buildermetrics.NewBuilderMetrics(),
	}
	for _, o := range opts {
		o(ctx)
	}
	ctx.logger = log.New(ctx.logWriter, "", 0)
	if ctx.runID == "" {
		ctx.runID = xid.New().String()
	}
	if !ctx.debugIsSet {
		debug, err := env.IsDebugMode()
		if err != nil {
			ctx.Warnf("Failed to parse env var %s: %v", env.DebugMode, err)
		}
		ctx.debug = debug
	}
	return ctx
}

// Metrics returns the metrics recorded for this run.
func (ctx *Context) Metrics() *buildermetrics.BuilderMetrics {
	return ctx.metrics
}

// RunID returns the unique identifier of this run.
func (ctx *Context) RunID() string {
	return ctx.runID
}

// Debug returns whether debug logging is enabled.
func (ctx *Context) Debug() bool {
	return ctx.debug
}

// Logf emits a logging line.
func (ctx *Context) Logf(format string, args ...interface{}) {
	ctx.logger.Printf(format, args...)
}

// Debugf emits a logging line if the debug flag is set.
func (ctx *Context) Debugf(format string, args ...interface{}) {
	if !ctx.debug {
		return
	}
	ctx.Logf("DEBUG: "+format, args...)
}

// Warnf emits a logging line for warnings and records it for the builder output.
func (ctx *Context) Warnf(format string, args ...interface{}) {
	ctx.Logf("Warning: "+format, args...)
	ctx.warnings = append(ctx.warnings, truncateWarning(format, args...))
}

// Tipf emits a logging line with advice for the operator.
func (ctx *Context) Tipf(format string, args ...interface{}) {
	ctx.Logf(format, args...)
}

// Warnings returns the warnings emitted so far.
func (ctx *Context) Warnings() []string {
	return append([]string(nil), ctx.warnings...)
}
