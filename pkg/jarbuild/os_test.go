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
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pom.xml"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	ctx, _ := simpleContext(t)

	testCases := []struct {
		name string
		elem []string
		want bool
	}{
		{name: "present", elem: []string{dir, "pom.xml"}, want: true},
		{name: "absent", elem: []string{dir, "gradlew"}},
		{name: "dir", elem: []string{dir}, want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ctx.FileExists(tc.elem...)
			if err != nil {
				t.Fatalf("FileExists() got error: %v", err)
			}
			if got != tc.want {
				t.Errorf("FileExists(%v)=%t, want %t", tc.elem, got, tc.want)
			}
		})
	}
}

func TestReadDirMissing(t *testing.T) {
	ctx, _ := simpleContext(t)
	if _, err := ctx.ReadDir(t.TempDir(), "missing"); err == nil {
		t.Error("ReadDir() got nil error for a missing dir, want error")
	}
}

func TestRemoveAllAndMkdir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "temp")
	ctx, _ := simpleContext(t)

	if err := ctx.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatalf("MkdirAll() got error: %v", err)
	}
	if err := ctx.Mkdir(dir, 0755); err == nil {
		t.Error("Mkdir() on an existing dir got nil error, want error")
	}
	if err := ctx.RemoveAll(dir); err != nil {
		t.Fatalf("RemoveAll() got error: %v", err)
	}
	if exists, _ := ctx.FileExists(dir); exists {
		t.Errorf("%s still exists after RemoveAll()", dir)
	}
}
