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

// Package fileutil contains utilities for moving and copying files.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CollisionError is returned by MoveDirContents when entries of the source already exist in
// the destination. Nothing has been moved when it is returned.
type CollisionError struct {
	Dest  string
	Names []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%d entries already exist in %s: %s", len(e.Names), e.Dest, strings.Join(e.Names, ", "))
}

// MoveDirContents moves every top-level entry of srcPath into destPath under the same name and
// returns the names that were moved. Directories are moved whole, symlinks are moved as links.
// All destination names are checked before the first move, so a collision leaves both
// directories untouched.
func MoveDirContents(destPath, srcPath string) ([]string, error) {
	entries, err := os.ReadDir(srcPath)
	if err != nil {
		return nil, err
	}

	var collisions []string
	for _, e := range entries {
		_, err := os.Lstat(filepath.Join(destPath, e.Name()))
		if err == nil {
			collisions = append(collisions, e.Name())
			continue
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	if len(collisions) > 0 {
		return nil, &CollisionError{Dest: destPath, Names: collisions}
	}

	moved := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := os.Rename(filepath.Join(srcPath, e.Name()), filepath.Join(destPath, e.Name())); err != nil {
			return moved, err
		}
		moved = append(moved, e.Name())
	}
	return moved, nil
}

// CopyFile copies src to dest, replacing dest if it exists. The file mode of src is kept.
func CopyFile(dest, src string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	destFile, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, srcFile); err != nil {
		destFile.Close()
		return err
	}
	if err := destFile.Close(); err != nil {
		return err
	}
	// OpenFile only applies the mode when it creates the file.
	return os.Chmod(dest, info.Mode().Perm())
}
