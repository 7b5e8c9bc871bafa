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

package archive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildermetrics"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/fileutil"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/jarbuild"
	"github.com/rs/xid"
)

// FlattenResult describes what Flatten did to a directory.
type FlattenResult struct {
	// Flattened is true when a wrapper directory was found and its contents moved up.
	Flattened bool
	// Wrapper is the name of the flattened directory, empty when Flattened is false.
	Wrapper string
	// Moved lists the entries moved out of the wrapper.
	Moved []string
}

// Flatten moves the contents of a single top-level wrapper directory in dir up into dir and
// removes the wrapper. The entry named archiveName is never treated as a wrapper. With zero or
// several candidate directories the tree is left as extracted.
func Flatten(ctx *jarbuild.Context, dir, archiveName string) (*FlattenResult, error) {
	entries, err := ctx.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	// Symlinks that resolve to directories count as directories.
	var wrappers []string
	linked := false
	for _, e := range entries {
		if e.Name() == archiveName {
			continue
		}
		switch {
		case e.IsDir():
			wrappers = append(wrappers, e.Name())
		case e.Type()&os.ModeSymlink != 0:
			if fi, err := os.Stat(filepath.Join(dir, e.Name())); err == nil && fi.IsDir() {
				wrappers = append(wrappers, e.Name())
				linked = true
			}
		}
	}
	if len(wrappers) != 1 {
		ctx.Debugf("Found %d top-level directories in %s (%s), leaving layout as extracted", len(wrappers), dir, strings.Join(wrappers, ", "))
		return &FlattenResult{}, nil
	}
	if linked {
		ctx.Debugf("Top-level directory %q in %s is a symlink, leaving layout as extracted", wrappers[0], dir)
		return &FlattenResult{}, nil
	}

	wrapper := wrappers[0]
	wrapperPath := filepath.Join(dir, wrapper)
	inner, err := ctx.ReadDir(wrapperPath)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(entries))
	for _, e := range entries {
		existing[e.Name()] = true
	}
	var collisions []string
	selfNamed := false
	for _, e := range inner {
		switch {
		case e.Name() == wrapper:
			selfNamed = true
		case existing[e.Name()]:
			collisions = append(collisions, e.Name())
		}
	}
	if len(collisions) > 0 {
		return nil, buildererror.UserErrorf("flattening %s: %s would overwrite existing entries: %s", wrapper, dir, strings.Join(collisions, ", "))
	}

	if selfNamed {
		// The wrapper holds an entry with its own name; move it out of the way first.
		tmp := filepath.Join(dir, ".jarbuild-"+xid.New().String())
		if err := ctx.Rename(wrapperPath, tmp); err != nil {
			return nil, err
		}
		wrapperPath = tmp
	}

	moved, err := fileutil.MoveDirContents(dir, wrapperPath)
	if err != nil {
		var ce *fileutil.CollisionError
		if errors.As(err, &ce) {
			return nil, buildererror.UserErrorf("flattening %s: %v", wrapper, err)
		}
		return nil, buildererror.InternalErrorf("flattening %s: %v", wrapper, err)
	}
	if err := ctx.Remove(wrapperPath); err != nil {
		return nil, err
	}

	ctx.Metrics().GetCounter(buildermetrics.FlattenedEntriesCounterID).Increment(int64(len(moved)))
	ctx.Logf("Flattened wrapper directory %q (%d entries)", wrapper, len(moved))
	return &FlattenResult{Flattened: true, Wrapper: wrapper, Moved: moved}, nil
}
