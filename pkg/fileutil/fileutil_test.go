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

package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/GoogleCloudPlatform/jarbuild/internal/archivetest"
	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMoveDirContents(t *testing.T) {
	testCases := []struct {
		name      string
		src       map[string]string
		dest      map[string]string
		wantMoved []string
		wantTree  []string
	}{
		{
			name:      "files and dirs",
			src:       map[string]string{"pom.xml": "<project/>", "src/main/App.java": "class App {}"},
			dest:      map[string]string{"archive.tar.gz": "x"},
			wantMoved: []string{"pom.xml", "src"},
			wantTree: []string{
				"archive.tar.gz",
				"pom.xml",
				"src/",
				"src/main/",
				"src/main/App.java",
				"wrapper/",
			},
		},
		{
			name:      "empty source",
			dest:      map[string]string{"archive.tar.gz": "x"},
			wantMoved: []string{},
			wantTree:  []string{"archive.tar.gz", "wrapper/"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dest := t.TempDir()
			src := filepath.Join(dest, "wrapper")
			if err := os.Mkdir(src, 0755); err != nil {
				t.Fatal(err)
			}
			writeFiles(t, src, tc.src)
			writeFiles(t, dest, tc.dest)

			moved, err := MoveDirContents(dest, src)
			if err != nil {
				t.Fatalf("MoveDirContents() got error: %v", err)
			}
			if diff := cmp.Diff(tc.wantMoved, moved); diff != "" {
				t.Errorf("MoveDirContents() moved mismatch (-want +got):\n%s", diff)
			}
			got, err := archivetest.Walk(dest)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.wantTree, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMoveDirContentsCollision(t *testing.T) {
	dest := t.TempDir()
	src := filepath.Join(dest, "wrapper")
	writeFiles(t, src, map[string]string{"a.txt": "new", "pom.xml": "new"})
	writeFiles(t, dest, map[string]string{"pom.xml": "old"})

	_, err := MoveDirContents(dest, src)
	var ce *CollisionError
	if !errors.As(err, &ce) {
		t.Fatalf("MoveDirContents() got error %v, want *CollisionError", err)
	}
	if diff := cmp.Diff([]string{"pom.xml"}, ce.Names); diff != "" {
		t.Errorf("collision names mismatch (-want +got):\n%s", diff)
	}

	// Nothing may have moved.
	got, err := archivetest.Walk(dest)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"pom.xml", "wrapper/", "wrapper/a.txt", "wrapper/pom.xml"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch after collision (-want +got):\n%s", diff)
	}
	content, err := os.ReadFile(filepath.Join(dest, "pom.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "old" {
		t.Errorf("pom.xml was overwritten with %q", content)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.jar")
	if err := os.WriteFile(src, []byte("new content"), 0750); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "out.jar")
	if err := os.WriteFile(dest, []byte("a much longer stale content"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(dest, src); err != nil {
		t.Fatalf("CopyFile() got error: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new content" {
		t.Errorf("dest content=%q, want %q", got, "new content")
	}
	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0750 {
		t.Errorf("dest mode=%v, want %v", info.Mode().Perm(), os.FileMode(0750))
	}
}

func TestCopyFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "out"), dir); err == nil {
		t.Error("CopyFile() of a directory got nil error, want error")
	}
}

func TestIsWritable(t *testing.T) {
	dir := t.TempDir()
	ok, err := IsWritable(dir)
	if err != nil {
		t.Fatalf("IsWritable() got error: %v", err)
	}
	if !ok {
		t.Errorf("IsWritable(%s)=false, want true", dir)
	}

	if os.Geteuid() == 0 {
		t.Skip("root can write to read-only directories")
	}
	ro := filepath.Join(dir, "ro")
	if err := os.Mkdir(ro, 0555); err != nil {
		t.Fatal(err)
	}
	ok, err = IsWritable(ro)
	if err != nil {
		t.Fatalf("IsWritable() got error: %v", err)
	}
	if ok {
		t.Errorf("IsWritable(%s)=true, want false", ro)
	}
}
