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

// Package config holds the settings of a jarbuild run.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/env"
	"github.com/GoogleCloudPlatform/jarbuild/pkg/version"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultScratchDir is the scratch directory, relative to the working directory.
	DefaultScratchDir = "temp"
	// DefaultOutputDir is where the selected jar is published.
	DefaultOutputDir = "/output"
	// ArchiveName is the file name the downloaded archive is saved as inside the scratch directory.
	ArchiveName = "archive.tar.gz"
)

// Config is the complete set of knobs for one run.
type Config struct {
	ScratchDir       string   `toml:"scratch_dir" yaml:"scratch_dir"`
	OutputDir        string   `toml:"output_dir" yaml:"output_dir"`
	BuildArgs        []string `toml:"build_args" yaml:"build_args"`
	FailOnBuildError bool     `toml:"fail_on_build_error" yaml:"fail_on_build_error"`
	MavenVersion     string   `toml:"maven_version" yaml:"maven_version"`
	FetchRetries     int      `toml:"fetch_retries" yaml:"fetch_retries"`
	Debug            bool     `toml:"debug" yaml:"debug"`
	BuilderOutput    string   `toml:"builder_output" yaml:"builder_output"`

	// FetchToken is only ever read from the environment so it does not end up in config files.
	FetchToken string `toml:"-" yaml:"-"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		ScratchDir:       DefaultScratchDir,
		OutputDir:        DefaultOutputDir,
		FailOnBuildError: true,
	}
}

// Load returns the defaults overlaid with the config file at path (if path is not empty) and
// then with the JARBUILD_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return buildererror.UserErrorf("reading config file %s: %v", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(content), c)
		if err != nil {
			return buildererror.UserErrorf("parsing %s: %v", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return buildererror.UserErrorf("parsing %s: unknown keys %v", path, undecoded)
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(content, c); err != nil {
			return buildererror.UserErrorf("parsing %s: %v", path, err)
		}
	default:
		return buildererror.UserErrorf("unsupported config file extension %q, expected .toml, .yaml or .yml", ext)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v, ok := os.LookupEnv(env.ScratchDir); ok {
		c.ScratchDir = v
	}
	if v, ok := os.LookupEnv(env.OutputDir); ok {
		c.OutputDir = v
	}
	if v, ok := os.LookupEnv(env.BuildArgs); ok {
		c.BuildArgs = strings.Fields(v)
	}
	if v, ok := os.LookupEnv(env.MavenVersion); ok {
		c.MavenVersion = v
	}
	if v, ok := os.LookupEnv(env.FetchToken); ok {
		c.FetchToken = v
	}
	if v, ok := os.LookupEnv(env.BuilderOutput); ok {
		c.BuilderOutput = v
	}
	if v, ok, err := env.LookupBool(env.FailOnBuildError); err != nil {
		return buildererror.UserErrorf("%v", err)
	} else if ok {
		c.FailOnBuildError = v
	}
	if v, ok, err := env.LookupBool(env.DebugMode); err != nil {
		return buildererror.UserErrorf("%v", err)
	} else if ok {
		c.Debug = v
	}
	if v, ok, err := env.LookupInt(env.FetchRetries); err != nil {
		return buildererror.UserErrorf("%v", err)
	} else if ok {
		c.FetchRetries = v
	}
	return nil
}

// Validate reports the first setting that would make a run misbehave.
func (c Config) Validate() error {
	if c.ScratchDir == "" {
		return buildererror.UserErrorf("scratch directory must not be empty")
	}
	if c.OutputDir == "" {
		return buildererror.UserErrorf("output directory must not be empty")
	}
	scratch, err := filepath.Abs(c.ScratchDir)
	if err != nil {
		return buildererror.InternalErrorf("resolving %s: %v", c.ScratchDir, err)
	}
	out, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return buildererror.InternalErrorf("resolving %s: %v", c.OutputDir, err)
	}
	// The scratch directory is wiped on every run, so it must never contain the published jars.
	if scratch == out || strings.HasPrefix(out, scratch+string(filepath.Separator)) {
		return buildererror.UserErrorf("output directory %s must not be inside scratch directory %s", c.OutputDir, c.ScratchDir)
	}
	if wd, err := os.Getwd(); err == nil && (wd == scratch || strings.HasPrefix(wd, scratch+string(filepath.Separator))) {
		return buildererror.UserErrorf("scratch directory %s must not contain the working directory", c.ScratchDir)
	}
	if c.FetchRetries < 0 {
		return buildererror.UserErrorf("fetch retries must not be negative, got %d", c.FetchRetries)
	}
	if err := version.ValidateConstraint(c.MavenVersion); err != nil {
		return buildererror.UserErrorf("%v", err)
	}
	return nil
}
