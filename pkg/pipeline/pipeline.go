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

// Package pipeline runs the stages that turn a source archive URL into a published jar.
package pipeline

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/archive"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildermetrics"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/builderoutput"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/config"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/fetch"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/jarbuild"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/java"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/publish"
)

// Result is what a run produced. Fields are filled in as stages complete, so a failed run
// still reports how far it got.
type Result struct {
	RunID       string
	URL         string
	ScratchDir  string
	Download    *fetch.Download
	Flatten     *archive.FlattenResult
	BuildSystem java.BuildSystem
	Build       *java.BuildResult
	Artifact    string
	MainClass   string
	Published   string
}

// Run fetches url, builds it and publishes the selected jar according to cfg. Every error is
// a *buildererror.Error tagged with the stage that failed.
func Run(ctx *jarbuild.Context, cfg config.Config, url string) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: ctx.RunID(), URL: url}

	err := run(ctx, cfg, url, res)
	if cfg.BuilderOutput != "" {
		ctx.SaveBuilderOutput(cfg.BuilderOutput, summary(res, err), time.Since(start))
	}
	if err != nil {
		return res, err
	}
	ctx.Logf("Build of %s finished in %v, published %s", url, time.Since(start).Round(time.Millisecond), res.Published)
	return res, nil
}

func run(ctx *jarbuild.Context, cfg config.Config, url string, res *Result) error {
	if err := stage(ctx, buildererror.StageSetup, func() error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		scratch, err := filepath.Abs(cfg.ScratchDir)
		if err != nil {
			return buildererror.InternalErrorf("resolving %s: %v", cfg.ScratchDir, err)
		}
		res.ScratchDir = scratch
		return resetScratch(ctx, scratch)
	}); err != nil {
		return err
	}
	archivePath := filepath.Join(res.ScratchDir, config.ArchiveName)

	if err := stage(ctx, buildererror.StageFetch, func() error {
		var err error
		res.Download, err = fetch.Archive(ctx, url, archivePath, fetch.Options{Retries: cfg.FetchRetries, Token: cfg.FetchToken})
		return err
	}); err != nil {
		return err
	}

	if err := stage(ctx, buildererror.StageExtract, func() error {
		ctx.Logf("Extracting archive to: %s", res.ScratchDir)
		return archive.Untar(archivePath, res.ScratchDir)
	}); err != nil {
		return err
	}

	if err := stage(ctx, buildererror.StageNormalize, func() error {
		var err error
		res.Flatten, err = archive.Flatten(ctx, res.ScratchDir, config.ArchiveName)
		return err
	}); err != nil {
		return err
	}

	if err := stage(ctx, buildererror.StageDetect, func() error {
		var err error
		res.BuildSystem, err = java.DetectBuildSystem(ctx, res.ScratchDir)
		return err
	}); err != nil {
		return err
	}

	if err := stage(ctx, buildererror.StageBuild, func() error {
		var err error
		res.Build, err = java.Build(ctx, res.ScratchDir, java.BuildOptions{
			System:           res.BuildSystem,
			BuildArgs:        cfg.BuildArgs,
			FailOnBuildError: cfg.FailOnBuildError,
			MavenVersion:     cfg.MavenVersion,
		})
		return err
	}); err != nil {
		return err
	}

	if err := stage(ctx, buildererror.StageSelect, func() error {
		cands, err := java.Candidates(res.Build.OutputDir)
		if err != nil {
			return err
		}
		ctx.Metrics().GetCounter(buildermetrics.JarCandidatesCounterID).Increment(int64(len(cands)))
		for _, c := range cands {
			ctx.Debugf("Candidate artifact: %s", c.Name)
		}
		chosen, err := java.Choose(cands, res.BuildSystem)
		if err != nil {
			return err
		}
		res.Artifact = chosen.Path
		ctx.Logf("Selected artifact %s", filepath.Base(res.Artifact))
		if res.MainClass, err = java.MainManifestEntry(res.Artifact); err != nil {
			ctx.Warnf("Failed to read the manifest of %s: %v", res.Artifact, err)
		} else if res.MainClass == "" {
			ctx.Logf("%s has no Main-Class manifest entry", filepath.Base(res.Artifact))
		} else {
			ctx.Logf("Main-Class: %s", res.MainClass)
		}
		return nil
	}); err != nil {
		return err
	}

	return stage(ctx, buildererror.StagePublish, func() error {
		var err error
		res.Published, err = publish.Artifact(ctx, res.Artifact, cfg.OutputDir)
		return err
	})
}

// stage runs fn, records its timing and tags any error with s.
func stage(ctx *jarbuild.Context, s buildererror.Stage, fn func() error) error {
	start := time.Now()
	err := fn()
	status := jarbuild.StatusOk
	if err != nil {
		status = jarbuild.StatusFailed
	}
	ctx.Span(s.String(), start, status)
	if err == nil {
		return nil
	}
	return buildererror.Wrap(s, err)
}

// resetScratch leaves an empty scratch directory so nothing from a previous run is built.
func resetScratch(ctx *jarbuild.Context, dir string) error {
	exists, err := ctx.FileExists(dir)
	if err != nil {
		return err
	}
	if exists {
		if err := ctx.RemoveAll(dir); err != nil {
			return err
		}
		ctx.Logf("Removed existing scratch directory %s", dir)
	}
	if err := ctx.MkdirAll(dir, 0755); err != nil {
		return err
	}
	ctx.Logf("Created directory at: %s", dir)
	return nil
}

func summary(res *Result, err error) builderoutput.BuilderOutput {
	bo := builderoutput.BuilderOutput{
		URL:       res.URL,
		Artifact:  res.Artifact,
		Published: res.Published,
		MainClass: res.MainClass,
	}
	if res.BuildSystem != java.Unknown {
		bo.BuildSystem = res.BuildSystem.String()
	}
	var be *buildererror.Error
	if errors.As(err, &be) {
		bo.Error = be
	}
	return bo
}
