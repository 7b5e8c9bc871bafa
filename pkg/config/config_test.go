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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/env"
	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		name     string
		fileName string
		content  string
		env      map[string]string
		want     Config
		wantErr  bool
	}{
		{
			name: "defaults",
			want: Default(),
		},
		{
			name:     "toml file",
			fileName: "jarbuild.toml",
			content: `
scratch_dir = "work"
output_dir = "/srv/jars"
build_args = ["-Pprod"]
fail_on_build_error = false
maven_version = ">= 3.6"
`,
			want: Config{
				ScratchDir:   "work",
				OutputDir:    "/srv/jars",
				BuildArgs:    []string{"-Pprod"},
				MavenVersion: ">= 3.6",
			},
		},
		{
			name:     "yaml file",
			fileName: "jarbuild.yaml",
			content: `
output_dir: /srv/jars
fetch_retries: 2
debug: true
`,
			want: Config{
				ScratchDir:       DefaultScratchDir,
				OutputDir:        "/srv/jars",
				FailOnBuildError: true,
				FetchRetries:     2,
				Debug:            true,
			},
		},
		{
			name:     "env overrides file",
			fileName: "jarbuild.yml",
			content:  "output_dir: /srv/jars\n",
			env: map[string]string{
				env.OutputDir:        "/from/env",
				env.BuildArgs:        "-Pprod -Dfoo=bar",
				env.FailOnBuildError: "false",
				env.FetchToken:       "s3cr3t",
			},
			want: Config{
				ScratchDir: DefaultScratchDir,
				OutputDir:  "/from/env",
				BuildArgs:  []string{"-Pprod", "-Dfoo=bar"},
				FetchToken: "s3cr3t",
			},
		},
		{
			name:     "unknown yaml key",
			fileName: "jarbuild.yaml",
			content:  "outputdir: /srv/jars\n",
			wantErr:  true,
		},
		{
			name:     "unknown toml key",
			fileName: "jarbuild.toml",
			content:  "output_directory = \"/srv/jars\"\n",
			wantErr:  true,
		},
		{
			name:     "unsupported extension",
			fileName: "jarbuild.json",
			content:  "{}",
			wantErr:  true,
		},
		{
			name:    "bad env bool",
			env:     map[string]string{env.FailOnBuildError: "maybe"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.fileName != "" {
				path = filepath.Join(t.TempDir(), tc.fileName)
				if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
					t.Fatalf("writing %s: %v", path, err)
				}
			}

			got, err := Load(path)
			if tc.wantErr != (err != nil) {
				t.Fatalf("Load(%q) got error: %v, want error? %t", path, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Load(%q) mismatch (-want +got):\n%s", path, diff)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty scratch dir",
			mutate:  func(c *Config) { c.ScratchDir = "" },
			wantErr: true,
		},
		{
			name:    "empty output dir",
			mutate:  func(c *Config) { c.OutputDir = "" },
			wantErr: true,
		},
		{
			name:    "output inside scratch",
			mutate:  func(c *Config) { c.OutputDir = filepath.Join(c.ScratchDir, "out") },
			wantErr: true,
		},
		{
			name:    "output equals scratch",
			mutate:  func(c *Config) { c.OutputDir = c.ScratchDir },
			wantErr: true,
		},
		{
			name:   "output is a sibling with a common prefix",
			mutate: func(c *Config) { c.OutputDir = c.ScratchDir + "-out" },
		},
		{
			name:    "scratch is the working directory",
			mutate:  func(c *Config) { c.ScratchDir = "." },
			wantErr: true,
		},
		{
			name:    "scratch contains the working directory",
			mutate:  func(c *Config) { c.ScratchDir = ".." },
			wantErr: true,
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.FetchRetries = -1 },
			wantErr: true,
		},
		{
			name:    "bad maven constraint",
			mutate:  func(c *Config) { c.MavenVersion = "latest please" },
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			if err := c.Validate(); tc.wantErr != (err != nil) {
				t.Errorf("Validate() got error: %v, want error? %t", err, tc.wantErr)
			}
		})
	}
}
