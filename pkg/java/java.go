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

// Package java contains Java build system detection, build invocation and jar selection.
package java

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/jarbuild"
)

const (
	// ManifestPath specifies the path of MANIFEST.MF inside a jar.
	ManifestPath = "META-INF/MANIFEST.MF"
	mainClassKey = "Main-Class"
	// manifestRegexTemplate is a regexp template that matches lines in the manifest for a given entry.
	manifestRegexTemplate = `(?m)^%s: \S+`

	// GradleMarker is the Gradle wrapper script that marks a Gradle project.
	GradleMarker = "gradlew"
)

// MavenMarkers are the project files that mark a Maven project, including the Polyglot Maven
// dialects.
var MavenMarkers = []string{
	"pom.xml",
	"pom.atom",
	"pom.clj",
	"pom.groovy",
	"pom.rb",
	"pom.scala",
	"pom.yaml",
	"pom.yml",
}

// BuildSystem is the build tool that governs a project.
type BuildSystem int

const (
	// Unknown means no build marker was found.
	Unknown BuildSystem = iota
	// Maven projects have one of MavenMarkers at the root.
	Maven
	// Gradle projects have a gradlew script at the root.
	Gradle
)

func (b BuildSystem) String() string {
	switch b {
	case Maven:
		return "maven"
	case Gradle:
		return "gradle"
	default:
		return "unknown"
	}
}

// OutputDir returns where the build system puts packaged jars, relative to the project root.
func OutputDir(b BuildSystem) string {
	switch b {
	case Maven:
		return "target"
	case Gradle:
		return filepath.Join("build", "libs")
	default:
		return ""
	}
}

// DetectBuildSystem classifies the project at dir. Maven markers win over the Gradle wrapper.
func DetectBuildSystem(ctx *jarbuild.Context, dir string) (BuildSystem, error) {
	for _, m := range MavenMarkers {
		exists, err := ctx.FileExists(dir, m)
		if err != nil {
			return Unknown, err
		}
		if exists {
			ctx.Debugf("Found Maven marker %s", m)
			return Maven, nil
		}
	}
	exists, err := ctx.FileExists(dir, GradleMarker)
	if err != nil {
		return Unknown, err
	}
	if exists {
		ctx.Debugf("Found Gradle marker %s", GradleMarker)
		return Gradle, nil
	}
	return Unknown, buildererror.UserErrorf("no build system detected. Make sure your project contains a %s or %s file. If you're using Gradle but there is no gradlew file, run 'gradle wrapper' to generate one", strings.Join(MavenMarkers, "/"), GradleMarker)
}

// MainManifestEntry returns the Main-Class entry of the jar's manifest, or "" if there is none.
func MainManifestEntry(jar string) (string, error) {
	return FindManifestValueFromJar(jar, mainClassKey)
}

// FindManifestValueFromJar returns the value of key in the jar's manifest, or "" if absent.
func FindManifestValueFromJar(jarPath, key string) (string, error) {
	r, err := zip.OpenReader(jarPath)
	if err != nil {
		return "", buildererror.UserErrorf("unzipping jar %s: %v", jarPath, err)
	}
	defer r.Close()
	for _, f := range r.File {
		if f.Name != ManifestPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening file %s in jar %s: %v", f.FileInfo().Name(), jarPath, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		return findValueFromManifest(content, key)
	}
	return "", nil
}

func findValueFromManifest(manifestContent []byte, key string) (string, error) {
	reRaw := fmt.Sprintf(manifestRegexTemplate, regexp.QuoteMeta(key))
	re, err := regexp.Compile(reRaw)
	if err != nil {
		return "", fmt.Errorf("invalid manifest key unsuitable for regexp: %q, %w", key, err)
	}
	match := re.Find(manifestContent)
	if len(match) != 0 {
		return strings.TrimPrefix(string(match), key+": "), nil
	}
	return "", nil
}

// ensureExecutable adds execute permission to a wrapper script; archives built on Windows
// often drop it.
func ensureExecutable(ctx *jarbuild.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return buildererror.InternalErrorf("stat %q: %v", path, err)
	}
	if info.Mode().Perm()&0100 != 0 {
		return nil
	}
	ctx.Debugf("Making %s executable", path)
	return ctx.Chmod(path, info.Mode().Perm()|0111)
}
