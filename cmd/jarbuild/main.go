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

// jarbuild downloads a Maven or Gradle project archive, builds it and publishes the resulting jar.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/config"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/env"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/jarbuild"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagValues holds the command line overrides; a flag only applies when it was set.
type flagValues struct {
	configPath       string
	scratchDir       string
	outputDir        string
	debug            bool
	failOnBuildError bool
	buildArgs        []string
	mavenVersion     string
	fetchRetries     int
	builderOutput    string
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line in args and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer, opts ...jarbuild.ContextOption) int {
	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}
	code := jarbuild.ExitOK
	var fv flagValues
	cmd := &cobra.Command{
		Use:   "jarbuild DOWNLOAD_URL",
		Short: "Build a Maven or Gradle project archive into a jar",
		Long: `jarbuild downloads a .tar.gz project archive, builds it with Maven or Gradle and copies
the selected jar to the output directory.

DOWNLOAD_URL is an http(s) URL of the archive, or oci://REFERENCE for an image whose first
layer is the archive.

Settings are read from the defaults, then the config file (--config or ` + env.Config + `),
then the JARBUILD_* environment variables, then the flags below.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, args []string) {
			code = run(cmd.Flags(), fv, args[0], stderr, opts...)
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fv.register(cmd.Flags())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprint(stderr, cmd.UsageString())
		return jarbuild.ExitUsage
	}
	return code
}

func (fv *flagValues) register(f *pflag.FlagSet) {
	f.StringVar(&fv.configPath, "config", "", "path of a TOML or YAML config file")
	f.StringVar(&fv.scratchDir, "scratch-dir", config.DefaultScratchDir, "directory that is wiped and used for the download and the build")
	f.StringVar(&fv.outputDir, "output-dir", config.DefaultOutputDir, "directory the selected jar is copied into")
	f.BoolVar(&fv.debug, "debug", false, "log debug output")
	f.BoolVar(&fv.failOnBuildError, "fail-on-build-error", true, "abort when the build command exits with a non-zero status")
	f.StringArrayVar(&fv.buildArgs, "build-arg", nil, "argument appended to the build command, repeatable")
	f.StringVar(&fv.mavenVersion, "maven-version", "", "semver constraint the Maven installation must satisfy, e.g. \">= 3.6\"")
	f.IntVar(&fv.fetchRetries, "fetch-retries", 0, "number of times a failed download is retried")
	f.StringVar(&fv.builderOutput, "builder-output", "", "directory a JSON summary of the run is written to")
}

func run(flags *pflag.FlagSet, fv flagValues, url string, stderr io.Writer, opts ...jarbuild.ContextOption) int {
	cfg, err := loadConfig(flags, fv)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		ctx := jarbuild.NewContext(append(opts, jarbuild.WithLogWriter(stderr))...)
		err = buildererror.Wrap(buildererror.StageUsage, err)
		ctx.ReportFailure(err)
		return jarbuild.ExitCode(err)
	}

	ctx := jarbuild.NewContext(append(opts, jarbuild.WithLogWriter(stderr), jarbuild.WithDebug(cfg.Debug))...)
	ctx.Debugf("Run %s with config %+v", ctx.RunID(), redacted(cfg))
	if _, err := pipeline.Run(ctx, cfg, url); err != nil {
		ctx.ReportFailure(err)
		return jarbuild.ExitCode(err)
	}
	return jarbuild.ExitOK
}

// loadConfig layers the flags that were set over the file and environment settings.
func loadConfig(flags *pflag.FlagSet, fv flagValues) (config.Config, error) {
	path := fv.configPath
	if !flags.Changed("config") {
		path = os.Getenv(env.Config)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("scratch-dir") {
		cfg.ScratchDir = fv.scratchDir
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = fv.outputDir
	}
	if flags.Changed("debug") {
		cfg.Debug = fv.debug
	}
	if flags.Changed("fail-on-build-error") {
		cfg.FailOnBuildError = fv.failOnBuildError
	}
	if flags.Changed("build-arg") {
		cfg.BuildArgs = fv.buildArgs
	}
	if flags.Changed("maven-version") {
		cfg.MavenVersion = fv.mavenVersion
	}
	if flags.Changed("fetch-retries") {
		cfg.FetchRetries = fv.fetchRetries
	}
	if flags.Changed("builder-output") {
		cfg.BuilderOutput = fv.builderOutput
	}
	return cfg, nil
}

func redacted(cfg config.Config) config.Config {
	if cfg.FetchToken != "" {
		cfg.FetchToken = "REDACTED"
	}
	return cfg
}
