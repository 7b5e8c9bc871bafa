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

//go:build !unix

package fileutil

import (
	"os"
)

// IsWritable reports whether the current user may create files in dir.
func IsWritable(dir string) (bool, error) {
	f, err := os.CreateTemp(dir, ".jarbuild-writable-")
	if err != nil {
		if os.IsPermission(err) {
			return false, nil
		}
		return false, err
	}
	name := f.Name()
	f.Close()
	return true, os.Remove(name)
}
