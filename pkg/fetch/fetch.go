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

// Package fetch contains functions for downloading source archives.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildermetrics"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/jarbuild"
	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
)

const (
	userAgent = "jarbuild"

	// OCIScheme prefixes image references whose first layer is the source archive.
	OCIScheme = "oci://"
)

var (
	// Overridden in tests to keep retries fast.
	retryWaitMin = 1 * time.Second
	retryWaitMax = 30 * time.Second
)

// Options configures a download.
type Options struct {
	// Retries is the number of additional attempts after a connection error or 5xx response.
	Retries int
	// Token, if set, is sent as an OAuth2 bearer token.
	Token string
}

// Download describes an archive written to disk.
type Download struct {
	Path string
	// Size is the number of bytes written.
	Size int64
	// DeclaredLength is the length announced by the server, or -1 if none was.
	DeclaredLength int64
}

// Archive downloads rawURL and writes the full body to outPath. Nothing is written unless the
// whole body was received. URLs starting with oci:// name an image whose first layer is
// saved instead.
func Archive(ctx *jarbuild.Context, rawURL, outPath string, opts Options) (*Download, error) {
	if ref, ok := strings.CutPrefix(rawURL, OCIScheme); ok {
		return imageLayer(ctx, ref, outPath)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, buildererror.UserErrorf("parsing URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, buildererror.UserErrorf("unsupported URL scheme %q in %q, want http, https or oci", u.Scheme, rawURL)
	}
	if opts.Token != "" && u.Scheme != "https" {
		ctx.Warnf("Sending the fetch token over plain http to %s", u.Host)
	}

	ctx.Logf("Downloading %s", rawURL)
	response, err := doGet(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, buildererror.UserErrorf("reading response body from %q: %v", rawURL, err)
	}
	dl := &Download{Path: outPath, Size: int64(len(body)), DeclaredLength: response.ContentLength}
	if dl.DeclaredLength >= 0 && dl.DeclaredLength != dl.Size {
		return nil, buildererror.UserErrorf("downloading %s: received %d bytes, server declared %d", rawURL, dl.Size, dl.DeclaredLength)
	}

	if err := os.WriteFile(outPath, body, 0644); err != nil {
		return nil, buildererror.InternalErrorf("writing %s: %v", outPath, err)
	}
	ctx.Metrics().GetFloatDP(buildermetrics.ArchiveMegabytesFloatDPID).Add(megabytes(dl.Size))
	ctx.Logf("Downloaded %d bytes to %s", dl.Size, outPath)
	return dl, nil
}

// imageLayer pulls the image and saves its first layer, still compressed, to outPath.
func imageLayer(ctx *jarbuild.Context, ref, outPath string) (*Download, error) {
	ctx.Logf("Pulling %s", ref)
	image, err := crane.Pull(ref)
	if err != nil {
		return nil, buildererror.UserErrorf("pulling image %s: %v", ref, err)
	}
	layers, err := image.Layers()
	if err != nil {
		return nil, buildererror.UserErrorf("reading layers of %s: %v", ref, err)
	}
	if len(layers) < 1 {
		return nil, buildererror.UserErrorf("image %s has no layer", ref)
	}
	l := layers[0]
	declared, err := l.Size()
	if err != nil {
		return nil, buildererror.UserErrorf("reading layer size of %s: %v", ref, err)
	}
	rc, err := l.Compressed()
	if err != nil {
		return nil, buildererror.UserErrorf("opening layer of %s: %v", ref, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, buildererror.UserErrorf("reading layer of %s: %v", ref, err)
	}
	if err := os.WriteFile(outPath, body, 0644); err != nil {
		return nil, buildererror.InternalErrorf("writing %s: %v", outPath, err)
	}
	ctx.Metrics().GetFloatDP(buildermetrics.ArchiveMegabytesFloatDPID).Add(megabytes(int64(len(body))))
	ctx.Logf("Saved %d bytes from the first layer of %s to %s", len(body), ref, outPath)
	return &Download{Path: outPath, Size: int64(len(body)), DeclaredLength: declared}, nil
}

func megabytes(n int64) float64 {
	return float64(n) / (1 << 20)
}

// debugLogger routes retryablehttp's request logging to debug output.
type debugLogger struct {
	ctx *jarbuild.Context
}

func (l debugLogger) Printf(format string, args ...interface{}) {
	l.ctx.Debugf(strings.TrimSpace(format), args...)
}

func doGet(ctx *jarbuild.Context, url string, opts Options) (*http.Response, error) {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.Retries
	retryClient.RetryWaitMin = retryWaitMin
	retryClient.RetryWaitMax = retryWaitMax
	retryClient.Logger = debugLogger{ctx: ctx}
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, _ *http.Request, attempt int) {
		ctx.Metrics().GetCounter(buildermetrics.FetchAttemptsCounterID).Increment(1)
		if attempt > 0 {
			ctx.Logf("Retrying download of %s (attempt %d of %d)", url, attempt+1, opts.Retries+1)
		}
	}
	if opts.Token != "" {
		retryClient.HTTPClient = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, buildererror.UserErrorf("fetching %s: %v", url, err)
	}

	req.Header.Set("User-Agent", userAgent)

	response, err := retryClient.StandardClient().Do(req)
	if err != nil {
		return nil, buildererror.UserErrorf("requesting %s: %v", url, err)
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		defer response.Body.Close()
		return nil, buildererror.UserErrorf("fetching %s returned HTTP status: %d", url, response.StatusCode)
	}
	return response, err
}
