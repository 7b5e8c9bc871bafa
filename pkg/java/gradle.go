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

package java

import (
	"path/filepath"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/jarbuild"
)

// GradleCmd returns the Gradle wrapper launcher for the project at dir, making it executable.
func GradleCmd(ctx *jarbuild.Context, dir string) (string, error) {
	if err := ensureExecutable(ctx, filepath.Join(dir, GradleMarker)); err != nil {
		return "", err
	}
	return "./" + GradleMarker, nil
}

// GradleBuildCmd is the assemble command, with check and test tasks excluded.
func GradleBuildCmd(gradle string, buildArgs []string) []string {
	cmd := []string{gradle, "clean", "build", "-x", "check", "-x", "test"}
	return append(cmd, buildArgs...)
}
