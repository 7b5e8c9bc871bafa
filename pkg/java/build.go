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

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildermetrics"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/jarbuild"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// System is the detected build system. Build detects it when Unknown.
	System BuildSystem
	// BuildArgs are appended to the build command.
	BuildArgs []string
	// FailOnBuildError makes a non-zero build exit fatal. Otherwise it is logged as a warning and
	// the caller relies on the artifact scan.
	FailOnBuildError bool
	// MavenVersion is an optional semver constraint for the Maven in use.
	MavenVersion string
}

// BuildResult describes a finished build command.
type BuildResult struct {
	System BuildSystem
	// OutputDir is the directory to scan for jars: the project dir joined with OutputDir(System).
	OutputDir string
	Command   []string
	ExitCode  int
}

// Build runs the packaging command for the project at dir. Tests are never run.
func Build(ctx *jarbuild.Context, dir string, opts BuildOptions) (*BuildResult, error) {
	system := opts.System
	if system == Unknown {
		var err error
		if system, err = DetectBuildSystem(ctx, dir); err != nil {
			return nil, err
		}
	}

	var cmd []string
	switch system {
	case Maven:
		ctx.Logf("Using Maven")
		mvn, err := MvnCmd(ctx, dir)
		if err != nil {
			return nil, err
		}
		if err := checkMavenVersion(ctx, dir, mvn, opts.MavenVersion); err != nil {
			return nil, err
		}
		describePom(ctx, dir)
		cmd = MavenBuildCmd(mvn, opts.BuildArgs)
	case Gradle:
		ctx.Logf("Using Gradle")
		gradle, err := GradleCmd(ctx, dir)
		if err != nil {
			return nil, err
		}
		cmd = GradleBuildCmd(gradle, opts.BuildArgs)
	default:
		return nil, buildererror.InternalErrorf("unsupported build system %v", system)
	}

	br := &BuildResult{
		System:    system,
		OutputDir: filepath.Join(dir, OutputDir(system)),
		Command:   cmd,
	}
	result, err := ctx.Exec(cmd, jarbuild.WithWorkDir(dir), jarbuild.WithUserAttribution)
	if result == nil {
		return nil, err
	}
	br.ExitCode = result.ExitCode
	if err != nil {
		if opts.FailOnBuildError {
			return br, err
		}
		ctx.Metrics().GetCounter(buildermetrics.IgnoredBuildFailuresCounterID).Increment(1)
		ctx.Warnf("%s build exited with code %d, looking for artifacts anyway", system, result.ExitCode)
	}
	return br, nil
}
