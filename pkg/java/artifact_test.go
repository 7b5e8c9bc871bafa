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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func candidates(names ...string) []Candidate {
	var cands []Candidate
	for _, n := range names {
		cands = append(cands, Candidate{Path: filepath.Join("out", n), Name: n})
	}
	return cands
}

func TestChoose(t *testing.T) {
	testCases := []struct {
		name   string
		system BuildSystem
		cands  []string
		want   string
	}{
		{
			name:   "maven prefers shaded",
			system: Maven,
			cands:  []string{"app-1.0.jar", "original-app-1.0.jar", "app-1.0-shaded.jar"},
			want:   "app-1.0-shaded.jar",
		},
		{
			name:   "maven sole original jar",
			system: Maven,
			cands:  []string{"original-app-1.0.jar"},
			want:   "original-app-1.0.jar",
		},
		{
			name:   "maven prefers unprefixed over longer original",
			system: Maven,
			cands:  []string{"app.jar", "original-app-with-a-long-name.jar"},
			want:   "app.jar",
		},
		{
			name:   "maven longest among unprefixed",
			system: Maven,
			cands:  []string{"app-1.0.jar", "app-1.0-sources.jar", "original-app-1.0.jar"},
			want:   "app-1.0-sources.jar",
		},
		{
			name:   "maven longest among shaded",
			system: Maven,
			cands:  []string{"a-shaded.jar", "app-all-shaded.jar", "app-1.0-javadoc-extra.jar"},
			want:   "app-all-shaded.jar",
		},
		{
			name:   "maven longest among all originals",
			system: Maven,
			cands:  []string{"original-a.jar", "original-abc.jar"},
			want:   "original-abc.jar",
		},
		{
			name:   "maven tie goes to first",
			system: Maven,
			cands:  []string{"abc.jar", "xyz.jar"},
			want:   "abc.jar",
		},
		{
			name:   "gradle longest name",
			system: Gradle,
			cands:  []string{"app.jar", "app-sources.jar"},
			want:   "app-sources.jar",
		},
		{
			name:   "gradle ignores shaded suffix",
			system: Gradle,
			cands:  []string{"app-shaded.jar", "app-1.0-plain.jar"},
			want:   "app-1.0-plain.jar",
		},
		{
			name:   "gradle ignores original prefix",
			system: Gradle,
			cands:  []string{"app.jar", "original-app.jar"},
			want:   "original-app.jar",
		},
		{
			name:   "gradle tie goes to first",
			system: Gradle,
			cands:  []string{"one.jar", "two.jar"},
			want:   "one.jar",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cands := candidates(tc.cands...)
			got, err := Choose(cands, tc.system)
			if err != nil {
				t.Fatalf("Choose() got error: %v", err)
			}
			if got.Name != tc.want {
				t.Errorf("Choose(%v, %v)=%q, want %q", tc.cands, tc.system, got.Name, tc.want)
			}

			// Selection is deterministic.
			again, err := Choose(cands, tc.system)
			if err != nil || again != got {
				t.Errorf("second Choose()=%v, %v, want %v", again, err, got)
			}
		})
	}
}

func TestChooseEmpty(t *testing.T) {
	for _, system := range []BuildSystem{Maven, Gradle} {
		_, err := Choose(nil, system)
		if !errors.Is(err, ErrNoArtifact) {
			t.Errorf("Choose(nil, %v) got error %v, want ErrNoArtifact", system, err)
		}
	}
}

func TestCandidates(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.jar", "a.jar", "notes.txt", "app.jar.sha1", "classes/Main.class", "nested/inner.jar")
	if err := os.Mkdir(filepath.Join(dir, "dir.jar"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "a.jar"), filepath.Join(dir, "link.jar")); err != nil {
		t.Fatal(err)
	}

	got, err := Candidates(dir)
	if err != nil {
		t.Fatalf("Candidates() got error: %v", err)
	}
	want := []Candidate{
		{Path: filepath.Join(dir, "a.jar"), Name: "a.jar"},
		{Path: filepath.Join(dir, "b.jar"), Name: "b.jar"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Candidates() mismatch (-want +got):\n%s", diff)
	}
}

func TestChooseFromOutputDir(t *testing.T) {
	testCases := []struct {
		name    string
		system  BuildSystem
		files   []string
		want    string
		wantErr bool
	}{
		{
			name:   "maven",
			system: Maven,
			files:  []string{"target/app-1.0.jar", "target/original-app-1.0.jar", "target/app-1.0-shaded.jar"},
			want:   "target/app-1.0-shaded.jar",
		},
		{
			name:   "gradle",
			system: Gradle,
			files:  []string{"build/libs/app.jar", "build/libs/app-sources.jar"},
			want:   "build/libs/app-sources.jar",
		},
		{
			name:    "empty output dir",
			system:  Maven,
			files:   []string{"target/classes/App.class"},
			wantErr: true,
		},
		{
			name:    "missing output dir",
			system:  Gradle,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tc.files...)

			cands, err := Candidates(filepath.Join(dir, OutputDir(tc.system)))
			var got Candidate
			if err == nil {
				got, err = Choose(cands, tc.system)
			}
			if tc.wantErr {
				if !errors.Is(err, ErrNoArtifact) {
					t.Fatalf("Candidates() and Choose() got %q, %v, want ErrNoArtifact", got.Path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Candidates() and Choose() got error: %v", err)
			}
			if want := filepath.Join(dir, tc.want); got.Path != want {
				t.Errorf("Choose()=%q, want %q", got.Path, want)
			}
		})
	}
}
