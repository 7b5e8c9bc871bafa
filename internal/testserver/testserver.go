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

// Package testserver provides a stub HTTP server for tests that download archives.
package testserver

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

type config struct {
	httpStatus     int
	statusSequence []int
	responseFile   string
	responseBytes  []byte
	contentLength  int
	headers        *http.Header
}

// Option configures the stub server.
type Option func(o *config)

// WithStatus sets the HTTP status of every response.
func WithStatus(httpStatus int) Option {
	return func(c *config) {
		c.httpStatus = httpStatus
	}
}

// WithStatusSequence answers the first requests with the given statuses in order and any
// later request with the status from WithStatus (200 by default).
func WithStatusSequence(statuses ...int) Option {
	return func(c *config) {
		c.statusSequence = statuses
	}
}

// WithFile serves the file at path.
func WithFile(path string) Option {
	return func(c *config) {
		c.responseFile = path
	}
}

// WithBytes serves b as the response body.
func WithBytes(b []byte) Option {
	return func(c *config) {
		c.responseBytes = b
	}
}

// WithContentLength announces n bytes regardless of the body actually sent.
func WithContentLength(n int) Option {
	return func(c *config) {
		c.contentLength = n
	}
}

// WithRequestHeaders records the headers of the last request in h.
func WithRequestHeaders(h *http.Header) Option {
	return func(c *config) {
		c.headers = h
	}
}

// New starts a server that is closed when the test ends.
func New(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	options := config{}
	for _, o := range opts {
		o(&options)
	}

	var mu sync.Mutex
	requests := 0
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		n := requests
		requests++
		if options.headers != nil {
			*options.headers = r.Header.Clone()
		}
		mu.Unlock()

		status := options.httpStatus
		if n < len(options.statusSequence) {
			status = options.statusSequence[n]
		}
		if options.contentLength != 0 {
			w.Header().Set("Content-Length", strconv.Itoa(options.contentLength))
		}
		if status != 0 {
			w.WriteHeader(status)
		}
		if options.responseFile != "" {
			http.ServeFile(w, r, options.responseFile)
			return
		}
		if _, err := w.Write(options.responseBytes); err != nil && options.contentLength == 0 {
			// Not using Fatalf because this runs in a separate Go Routine.
			t.Errorf("sending stubbed http response: %v", err)
		}
	}))
	t.Cleanup(svr.Close)
	return svr
}
