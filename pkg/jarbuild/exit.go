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

package jarbuild

import (
	"errors"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
)

const (
	// ExitOK is returned when the jar was published.
	ExitOK = 0
	// ExitFailure is returned when any stage of the run failed.
	ExitFailure = 1
	// ExitUsage is returned when the command line was invalid and nothing was done.
	ExitUsage = 2
)

// ExitCode maps the result of a run to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var be *buildererror.Error
	if errors.As(err, &be) && be.Stage == buildererror.StageUsage {
		return ExitUsage
	}
	return ExitFailure
}

// ReportFailure logs a failed run and the tips that go with its stage.
func (ctx *Context) ReportFailure(err error) {
	if err == nil {
		return
	}
	ctx.Logf(divider)
	ctx.Logf("Failure: %v", err)

	ctx.Tipf(divider)
	ctx.Tipf("Sorry, the project couldn't be built into a jar.")
	var be *buildererror.Error
	if errors.As(err, &be) {
		switch be.Stage {
		case buildererror.StageDetect:
			ctx.Tipf("Add a pom.xml (or another pom.* file) for Maven, or run 'gradle wrapper' to generate gradlew for Gradle.")
		case buildererror.StageBuild:
			ctx.Tipf("The build output above shows why the project failed to build.")
		case buildererror.StageSelect:
			ctx.Tipf("Check that the build packages a jar into target/ (Maven) or build/libs/ (Gradle).")
		case buildererror.StageFetch:
			ctx.Tipf("Check that the URL points to a .tar.gz archive that is reachable from this machine.")
		}
	}
	if !ctx.debug {
		ctx.Tipf("Rerun with --debug for more detail.")
	}
	ctx.Tipf(divider)
}
