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
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
)

const (
	// JarExtension marks build artifacts.
	JarExtension = ".jar"
	// ShadedSuffix marks a jar bundling its dependencies (maven-shade-plugin with
	// shadedArtifactAttached).
	ShadedSuffix = "-shaded" + JarExtension
	// OriginalPrefix marks the unshaded jar that maven-shade-plugin keeps aside.
	OriginalPrefix = "original-"
)

// ErrNoArtifact is wrapped by errors for output directories without jars.
var ErrNoArtifact = errors.New("no artifact found")

// Candidate is a jar found in a build output directory.
type Candidate struct {
	Path string
	Name string
}

// Candidates lists the jars directly inside dir, ordered by name. Subdirectories, symlinks and
// other files are ignored.
func Candidates(dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, buildererror.UserErrorf("%w: output directory %s does not exist", ErrNoArtifact, dir)
	}
	if err != nil {
		return nil, buildererror.InternalErrorf("reading directory %q: %v", dir, err)
	}

	var cands []Candidate
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), JarExtension) {
			continue
		}
		cands = append(cands, Candidate{Path: filepath.Join(dir, e.Name()), Name: e.Name()})
	}
	return cands, nil
}

// Choose picks the jar to publish. For Maven a shaded jar wins, then any jar not prefixed with
// original-; within the preferred group, and for Gradle over all candidates, the longest name
// wins and ties go to the earliest candidate.
func Choose(cands []Candidate, system BuildSystem) (Candidate, error) {
	if len(cands) == 0 {
		return Candidate{}, buildererror.UserErrorf("%w: the build output contains no %s files", ErrNoArtifact, JarExtension)
	}
	if system == Maven {
		if shaded := filter(cands, func(c Candidate) bool { return strings.HasSuffix(c.Name, ShadedSuffix) }); len(shaded) > 0 {
			return longestName(shaded), nil
		}
		if final := filter(cands, func(c Candidate) bool { return !strings.HasPrefix(c.Name, OriginalPrefix) }); len(final) > 0 {
			return longestName(final), nil
		}
	}
	return longestName(cands), nil
}

func filter(cands []Candidate, keep func(Candidate) bool) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func longestName(cands []Candidate) Candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if len(c.Name) > len(best.Name) {
			best = c
		}
	}
	return best
}
