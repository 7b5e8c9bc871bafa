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

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
)

// Rename is a pass through for os.Rename(...) and logs a debug statement and returns any error with proper user / system attribution
func (ctx *Context) Rename(old, new string) error {
	ctx.Debugf("Renaming %q to %q", old, new)
	if err := os.Rename(old, new); err != nil {
		return buildererror.InternalErrorf("renaming %s to %s: %v", old, new, err)
	}
	return nil
}

// MkdirAll is a pass through for os.MkdirAll(...) and returns any error with proper user / system attribution
func (ctx *Context) MkdirAll(path string, perm os.FileMode) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return buildererror.InternalErrorf("creating %s: %v", path, err)
	}
	return nil
}

// Mkdir is a pass through for os.Mkdir(...) and returns any error with proper user / system attribution
func (ctx *Context) Mkdir(path string, perm os.FileMode) error {
	if err := os.Mkdir(path, perm); err != nil {
		return buildererror.InternalErrorf("creating %s: %v", path, err)
	}
	return nil
}

// RemoveAll is a pass through for os.RemoveAll(...) and returns any error with proper user / system attribution
func (ctx *Context) RemoveAll(elem ...string) error {
	path := filepath.Join(elem...)
	if err := os.RemoveAll(path); err != nil {
		return buildererror.InternalErrorf("removing %s: %v", path, err)
	}
	return nil
}

// Remove is a pass through for os.Remove(...) and returns any error with proper user / system attribution
func (ctx *Context) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return buildererror.InternalErrorf("removing %s: %v", path, err)
	}
	return nil
}

// FileExists returns true if a file exists at the path joined by elem
func (ctx *Context) FileExists(elem ...string) (bool, error) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, buildererror.InternalErrorf("stat %q: %v", path, err)
	}
	return true, nil
}

// ReadDir is a pass through for os.ReadDir(...) and returns any error with proper user / system attribution
func (ctx *Context) ReadDir(elem ...string) ([]os.DirEntry, error) {
	path := filepath.Join(elem...)
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, buildererror.InternalErrorf("reading directory %q: %v", path, err)
	}
	return entries, nil
}

// ReadFile is a pass through for os.ReadFile(...) and returns any error with proper user / system attribution
func (ctx *Context) ReadFile(elem ...string) ([]byte, error) {
	path := filepath.Join(elem...)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, buildererror.InternalErrorf("reading file %q: %v", path, err)
	}
	return data, nil
}

// Chmod is a pass through for os.Chmod(...) and returns any error with proper user / system attribution
func (ctx *Context) Chmod(path string, mode os.FileMode) error {
	if err := os.Chmod(path, mode); err != nil {
		return buildererror.InternalErrorf("changing mode of %s: %v", path, err)
	}
	return nil
}
