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

// Package archive unpacks downloaded source archives and normalizes their layout.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GoogleCloudPlatform/jarbuild/pkg/buildererror"
	"github.com/klauspost/compress/gzip"
)

// maxSymlinkHops bounds symlink resolution so that link cycles in an archive terminate.
const maxSymlinkHops = 40

var errTooManyLinks = errors.New("too many levels of symbolic links")

// Untar unpacks the gzip-compressed tar file at archivePath into dir, keeping the archive's
// internal paths. The archive itself may live inside dir.
func Untar(archivePath, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return buildererror.InternalErrorf("opening archive %s: %v", archivePath, err)
	}
	defer f.Close()

	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return buildererror.InternalErrorf("resolving %s: %v", archivePath, err)
	}
	if absArchive, err = filepath.EvalSymlinks(absArchive); err != nil {
		return buildererror.InternalErrorf("resolving %s: %v", archivePath, err)
	}
	return untar(dir, f, absArchive)
}

func untar(dir string, r io.Reader, protected string) error {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return buildererror.UserErrorf("archive is not gzip-compressed: %v", err)
	}
	defer gzr.Close()

	// Every containment check below compares resolved paths.
	if err := os.MkdirAll(dir, 0755); err != nil {
		return buildererror.InternalErrorf("creating directory %q: %v", dir, err)
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return buildererror.InternalErrorf("resolving %s: %v", dir, err)
	}
	if dir, err = filepath.EvalSymlinks(dir); err != nil {
		return buildererror.InternalErrorf("resolving %s: %v", dir, err)
	}

	tr := tar.NewReader(gzr)

	for {
		header, err := tr.Next()

		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return buildererror.UserErrorf("reading archive: %v", err)
		case header == nil:
			continue
		}

		// GitHub archives carry the commit ID in a global header; it is not a file.
		if header.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		target, err := tarDestination(header.Name, dir, header.Typeflag)
		if err != nil {
			return err
		}
		if target == dir {
			if header.Typeflag == tar.TypeDir {
				continue
			}
			return buildererror.UserErrorf("tar entry %q has no name", header.Name)
		}

		// The archive may already have placed symlinks on the way to target.
		parent, err := resolveWithin(dir, dir, filepath.Dir(target))
		if err != nil {
			return buildererror.UserErrorf("tar entry %q traverses out of root: %v", header.Name, err)
		}
		target = filepath.Join(parent, filepath.Base(target))
		if protected != "" && target == protected {
			return buildererror.UserErrorf("archive entry %q would overwrite the archive itself", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if _, err := resolveWithin(dir, parent, filepath.Base(target)); err != nil {
				return buildererror.UserErrorf("tar entry %q traverses out of root: %v", header.Name, err)
			}
			if _, err := os.Stat(target); err != nil {
				if err := os.MkdirAll(target, os.FileMode(header.Mode).Perm()|0700); err != nil {
					return buildererror.InternalErrorf("creating directory %q: %v", target, err)
				}
			}
		case tar.TypeReg:
			// Entries for parent directories are optional in tar files.
			if err := os.MkdirAll(parent, 0755); err != nil {
				return buildererror.InternalErrorf("creating directory %q: %v", parent, err)
			}
			// A later entry replaces an earlier symlink instead of writing through it.
			if fi, err := os.Lstat(target); err == nil && fi.Mode()&os.ModeSymlink != 0 {
				if err := os.Remove(target); err != nil {
					return buildererror.InternalErrorf("replacing symlink %q: %v", target, err)
				}
			}

			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return buildererror.InternalErrorf("opening file %q: %v", target, err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return buildererror.UserErrorf("extracting %q: %v", header.Name, err)
			}
			if err := f.Close(); err != nil {
				return buildererror.InternalErrorf("closing file %q: %v", target, err)
			}
		case tar.TypeSymlink:
			targetPath := header.Linkname
			if !filepath.IsAbs(targetPath) {
				targetPath = filepath.Join(filepath.Dir(target), header.Linkname)
			}
			if !isValidTarDestination(targetPath, dir, header.Typeflag) {
				return buildererror.UserErrorf("symlink %q -> %q traverses out of root", header.Name, header.Linkname)
			}
			base := parent
			if filepath.IsAbs(header.Linkname) {
				base = string(filepath.Separator)
			}
			if _, err := resolveWithin(dir, base, header.Linkname); err != nil {
				return buildererror.UserErrorf("symlink %q -> %q traverses out of root: %v", header.Name, header.Linkname, err)
			}
			if err := os.MkdirAll(parent, 0755); err != nil {
				return buildererror.InternalErrorf("creating directory %q: %v", parent, err)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return buildererror.InternalErrorf("symlinking %q to %q: %v", target, header.Linkname, err)
			}
		case tar.TypeLink:
			link, err := tarDestination(header.Linkname, dir, header.Typeflag)
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, link)
			if err != nil {
				return buildererror.InternalErrorf("resolving %q: %v", link, err)
			}
			if link, err = resolveWithin(dir, dir, rel); err != nil {
				return buildererror.UserErrorf("hard link %q -> %q traverses out of root: %v", header.Name, header.Linkname, err)
			}
			if err := os.Link(link, target); err != nil {
				return buildererror.InternalErrorf("linking %q to %q: %v", target, link, err)
			}
		default:
			return buildererror.UserErrorf("unsupported tar entry %q of type %q", header.Name, string(header.Typeflag))
		}
	}
}

// resolveWithin resolves rel against base, following symlinks that already exist on disk, and
// returns an error unless the result stays inside root. Components that do not exist yet are
// taken literally. base must already be resolved.
func resolveWithin(root, base, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		if r, err := filepath.Rel(base, rel); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		} else {
			base, rel = string(filepath.Separator), strings.TrimPrefix(rel, string(filepath.Separator))
		}
	}
	resolved, err := resolvePath(base, rel, 0)
	if err != nil {
		return "", err
	}
	if !isWithin(resolved, root) {
		return "", fmt.Errorf("%s is outside of %s", resolved, root)
	}
	return resolved, nil
}

func resolvePath(base, rel string, hops int) (string, error) {
	cur := base
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			cur = filepath.Dir(cur)
			continue
		}
		next := filepath.Join(cur, part)
		fi, err := os.Lstat(next)
		if err != nil || fi.Mode()&os.ModeSymlink == 0 {
			cur = next
			continue
		}
		if hops >= maxSymlinkHops {
			return "", errTooManyLinks
		}
		link, err := os.Readlink(next)
		if err != nil {
			return "", err
		}
		from := cur
		if filepath.IsAbs(link) {
			from = string(filepath.Separator)
		}
		if cur, err = resolvePath(from, link, hops+1); err != nil {
			return "", err
		}
	}
	return cur, nil
}

func isWithin(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

func tarDestination(tarPath, rootDir string, tarType byte) (string, error) {
	rootDir = filepath.Clean(rootDir)
	path := filepath.Join(rootDir, filepath.Clean(tarPath))

	// Only allow extraction either directly into the root, or within a subdirectory from the root.
	if isValidTarDestination(path, rootDir, tarType) {
		return path, nil
	}
	return "", buildererror.UserErrorf("tar entry %q traverses out of root", tarPath)
}

func isValidTarDestination(dest, rootDir string, tarType byte) bool {
	destDir := dest
	if tarType != tar.TypeDir {
		destDir = filepath.Dir(dest)
	}
	return isWithin(destDir, rootDir)
}
