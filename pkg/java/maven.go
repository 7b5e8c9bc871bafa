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
	"encoding/xml"
	"path/filepath"
	"regexp"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/jarbuild"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/version"
)

var mavenVersionRe = regexp.MustCompile(`Apache Maven (\S+)`)

// MavenProject is the part of a pom.xml jarbuild reports on.
type MavenProject struct {
	GroupID    string        `xml:"groupId"`
	ArtifactID string        `xml:"artifactId"`
	Version    string        `xml:"version"`
	Packaging  string        `xml:"packaging"`
	Plugins    []MavenPlugin `xml:"build>plugins>plugin"`
}

// MavenPlugin is a plugin declared in the pom's build section.
type MavenPlugin struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// ParsePomFile parses the pom.xml content.
func ParsePomFile(pomFile []byte) (*MavenProject, error) {
	var proj MavenProject
	if err := xml.Unmarshal(pomFile, &proj); err != nil {
		return nil, buildererror.UserErrorf("parsing pom.xml: %v", err)
	}

	return &proj, nil
}

// HasPlugin reports whether the project declares the plugin with the given artifact ID.
func (p *MavenProject) HasPlugin(artifactID string) bool {
	for _, plugin := range p.Plugins {
		if plugin.ArtifactID == artifactID {
			return true
		}
	}
	return false
}

// MvnCmd returns the Maven launcher for the project at dir.
func MvnCmd(ctx *jarbuild.Context, dir string) (string, error) {
	exists, err := ctx.FileExists(dir, "mvnw")
	if err != nil {
		return "", err
	}
	// If this project has the Maven Wrapper, we should use it
	if exists {
		if err := ensureExecutable(ctx, filepath.Join(dir, "mvnw")); err != nil {
			return "", err
		}
		return "./mvnw", nil
	}
	return "mvn", nil
}

// ParseMavenVersion extracts the version from `mvn --version` output.
func ParseMavenVersion(output string) (string, bool) {
	m := mavenVersionRe.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MavenBuildCmd is the packaging command, with tests skipped.
func MavenBuildCmd(mvn string, buildArgs []string) []string {
	cmd := []string{mvn, "clean", "package", "--batch-mode", "-Dmaven.test.skip=true"}
	return append(cmd, buildArgs...)
}

// describePom logs what the pom says is being built. A missing or broken pom.xml is not an
// error here; Maven reports those itself.
func describePom(ctx *jarbuild.Context, dir string) {
	exists, err := ctx.FileExists(dir, "pom.xml")
	if err != nil || !exists {
		return
	}
	content, err := ctx.ReadFile(dir, "pom.xml")
	if err != nil {
		ctx.Warnf("Failed to read pom.xml: %v", err)
		return
	}
	proj, err := ParsePomFile(content)
	if err != nil {
		ctx.Warnf("Failed to parse pom.xml: %v", err)
		return
	}
	if proj.ArtifactID != "" {
		ctx.Logf("Building Maven project %s %s", proj.ArtifactID, proj.Version)
	}
	if proj.Packaging != "" && proj.Packaging != "jar" {
		ctx.Warnf("pom.xml declares packaging %q, the build may not produce a jar", proj.Packaging)
	}
	if proj.HasPlugin("maven-shade-plugin") {
		ctx.Debugf("Project uses maven-shade-plugin")
	}
}

// checkMavenVersion runs `mvn --version`, logs it and, if constraint is set, fails when the
// reported version does not satisfy it. A bare version such as "3.9.6" pins that exact version.
func checkMavenVersion(ctx *jarbuild.Context, dir, mvn, constraint string) error {
	result, err := ctx.Exec([]string{mvn, "--version"}, jarbuild.WithWorkDir(dir), jarbuild.WithUserTimingAttribution)
	if result == nil {
		return buildererror.UserErrorf("running %s --version: %v", mvn, err)
	}
	ctx.Logf("Maven version: %s", result.Stdout)
	if err != nil {
		if constraint != "" {
			return err
		}
		ctx.Warnf("%s --version exited with code %d", mvn, result.ExitCode)
		return nil
	}
	if constraint == "" {
		return nil
	}

	v, ok := ParseMavenVersion(result.Stdout)
	if !ok {
		return buildererror.UserErrorf("could not find the Maven version in %s --version output to check against %q", mvn, constraint)
	}
	if version.IsExactSemver(constraint) {
		ok, err = version.Satisfies("="+constraint, v)
		if err == nil && !ok {
			return buildererror.UserErrorf("Maven version %s does not match the pinned version %s", v, constraint)
		}
	} else {
		ok, err = version.Satisfies(constraint, v)
		if err == nil && !ok {
			return buildererror.UserErrorf("Maven version %s does not satisfy %q", v, constraint)
		}
	}
	if err != nil {
		return buildererror.UserErrorf("checking Maven version: %v", err)
	}
	return nil
}
