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

// Package archivetest builds gzip-compressed tar archives for tests.
package archivetest

import (
	"archive/tar"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// Entry is one member of a test archive. Names ending in "/" are directories.
type Entry struct {
	Name     string
	Content  string
	Mode     int64
	Linkname string
	// Type overrides the header type derived from Name and Linkname.
	Type byte
}

// File returns a regular file entry.
func File(name, content string) Entry {
	return Entry{Name: name, Content: content}
}

// Dir returns a directory entry.
func Dir(name string) Entry {
	return Entry{Name: strings.TrimSuffix(name, "/") + "/"}
}

// Symlink returns a symbolic link entry.
func Symlink(name, target string) Entry {
	return Entry{Name: name, Linkname: target, Type: tar.TypeSymlink}
}

// TarGz returns the entries as a gzip-compressed tar stream.
func TarGz(t *testing.T, entries ...Entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for _, e := range entries {
		if e.Type == tar.TypeXGlobalHeader {
			// Mimics the commit comment GitHub puts in its archives.
			hdr := &tar.Header{Name: e.Name, Typeflag: e.Type, PAXRecords: map[string]string{"comment": "0123456789abcdef"}}
			if err := tw.WriteHeader(hdr); err != nil {
				t.Fatalf("writing global header: %v", err)
			}
			continue
		}
		hdr := &tar.Header{
			Name:     e.Name,
			Mode:     e.Mode,
			Linkname: e.Linkname,
			Typeflag: e.Type,
		}
		if hdr.Typeflag == 0 {
			hdr.Typeflag = tar.TypeReg
			if strings.HasSuffix(e.Name, "/") {
				hdr.Typeflag = tar.TypeDir
			}
		}
		if hdr.Mode == 0 {
			hdr.Mode = 0644
			if hdr.Typeflag == tar.TypeDir {
				hdr.Mode = 0755
			}
		}
		if hdr.Typeflag == tar.TypeReg {
			hdr.Size = int64(len(e.Content))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("writing tar header %q: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.Content)); err != nil {
				t.Fatalf("writing tar content %q: %v", e.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar writer: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}
	return buf.Bytes()
}

// WriteTarGz writes the archive to dir/name and returns its path.
func WriteTarGz(t *testing.T, dir, name string, entries ...Entry) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, TarGz(t, entries...), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// IsDirEmpty reports whether dir has no entries.
func IsDirEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err == io.EOF {
		return true, nil
	} else if err != nil {
		return false, err
	}
	return false, nil
}

// Walk returns the slash-separated paths of every entry under root, relative to root, in
// lexical order. Directories are suffixed with "/".
func Walk(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			rel += "/"
		}
		paths = append(paths, rel)
		return nil
	})
	return paths, err
}
