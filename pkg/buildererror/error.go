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

// Package buildererror provides the structured error reported by a jarbuild run.
package buildererror

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	errorIDLength = 8
)

// ID is a short error code passed to the operator for supportability.
type ID string

// Error is a jarbuild structured error.
type Error struct {
	Stage       Stage       `json:"stage"`
	Attribution Attribution `json:"attribution"`
	ID          ID          `json:"errorId"`
	Message     string      `json:"errorMessage"`

	cause error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Stage != StageUnknown {
		msg = fmt.Sprintf("%s: %s", e.Stage.Description(), msg)
	}
	if e.ID == "" {
		return msg
	}
	return fmt.Sprintf("%s [id:%s]", msg, e.ID)
}

// Unwrap returns the error this Error was created from, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsUser reports whether the failure is attributed to the operator or the project being built.
func (e *Error) IsUser() bool {
	return e.Attribution == AttributionUser
}

// Errorf constructs an Error.
func Errorf(attribution Attribution, format string, args ...interface{}) *Error {
	// fmt.Errorf so that %w verbs stay reachable through errors.Is and errors.As.
	wrapped := fmt.Errorf(format, args...)
	msg := wrapped.Error()
	return &Error{
		Attribution: attribution,
		ID:          GenerateErrorID(msg),
		Message:     msg,
		cause:       errors.Unwrap(wrapped),
	}
}

// InternalErrorf constructs an Error attributed to the system running jarbuild.
func InternalErrorf(format string, args ...interface{}) *Error {
	return Errorf(AttributionSystem, format, args...)
}

// UserErrorf constructs an Error attributed to the operator or the project being built.
func UserErrorf(format string, args ...interface{}) *Error {
	return Errorf(AttributionUser, format, args...)
}

// Wrap tags err with the pipeline stage it came from. A *Error keeps its attribution and
// message; any other error becomes a system error. A stage that is already set is not replaced.
func Wrap(stage Stage, err error) *Error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		if be.Stage == StageUnknown {
			be.Stage = stage
		}
		return be
	}
	msg := err.Error()
	return &Error{
		Stage:       stage,
		Attribution: AttributionSystem,
		ID:          GenerateErrorID(stage.String(), msg),
		Message:     msg,
		cause:       err,
	}
}

// GenerateErrorID creates a short hash from the provided parts.
func GenerateErrorID(parts ...string) ID {
	h := sha256.New()
	for _, p := range parts {
		io.WriteString(h, p)
	}
	result := fmt.Sprintf("%x", h.Sum(nil))

	// Since this is only a reporting aid for support, we truncate the hash to make it more human friendly.
	return ID(strings.ToLower(result[:errorIDLength]))
}
