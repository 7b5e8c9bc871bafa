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

// Package publish copies the selected jar to the output directory.
package publish

import (
	"os"
	"path/filepath"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildermetrics"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/fileutil"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/jarbuild"
)

// Artifact copies src into outDir under its own name and returns the destination path. outDir
// is created if missing and an existing file with the same name is replaced. Other files in
// outDir are left alone.
func Artifact(ctx *jarbuild.Context, src, outDir string) (string, error) {
	if err := ctx.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	writable, err := fileutil.IsWritable(outDir)
	if err != nil {
		return "", buildererror.InternalErrorf("checking %s: %v", outDir, err)
	}
	if !writable {
		return "", buildererror.UserErrorf("output directory %s is not writable", outDir)
	}

	dest := filepath.Join(outDir, filepath.Base(src))
	if err := fileutil.CopyFile(dest, src); err != nil {
		return "", buildererror.InternalErrorf("copying %s to %s: %v", src, dest, err)
	}
	if fi, err := os.Stat(dest); err == nil {
		ctx.Metrics().GetFloatDP(buildermetrics.PublishedMegabytesFloatDPID).Add(float64(fi.Size()) / (1 << 20))
	}
	ctx.Logf("Published %s", dest)
	return dest, nil
}
