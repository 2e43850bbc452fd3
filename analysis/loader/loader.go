// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
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

// Package loader turns PHP files into the control-flow graphs of the lang package, and resolves the paths of
// included files.
package loader

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/awslabs/ar-php-tools/analysis/lang"
)

// ErrParse is wrapped by the errors of parsers that could not parse a file
var ErrParse = errors.New("parse error")

// A Parser builds the control-flow graph of a file
type Parser interface {
	ParseFile(path string) (*lang.Script, error)
}

// A FileHelper answers questions about the file system
type FileHelper interface {
	// IsFile returns true if path names an existing regular file
	IsFile(path string) bool
	// Resolve returns the file that an include of path from the file base refers to, and false if there is none
	Resolve(base string, path string) (string, bool)
}

// OSFileHelper is a FileHelper on the local file system
type OSFileHelper struct {
	// IncludePaths are the directories searched for relative paths, after the directory of the including file
	IncludePaths []string
}

// NewFileHelper returns a FileHelper searching includePaths
func NewFileHelper(includePaths []string) *OSFileHelper {
	return &OSFileHelper{IncludePaths: includePaths}
}

// IsFile returns true if path names an existing regular file
func (h *OSFileHelper) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Resolve returns the cleaned path of the file that base includes with path
func (h *OSFileHelper) Resolve(base string, path string) (string, bool) {
	return ResolveWith(h, h.IncludePaths, base, path)
}

// ResolveWith resolves path as included from base, checking candidates with isFile: absolute paths are used as-is,
// relative paths are looked up in the directory of base and then in each of includePaths.
func ResolveWith(h interface{ IsFile(string) bool }, includePaths []string, base string, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	if filepath.IsAbs(path) {
		p := filepath.Clean(path)
		return p, h.IsFile(p)
	}
	candidates := []string{filepath.Join(filepath.Dir(base), path)}
	for _, dir := range includePaths {
		candidates = append(candidates, filepath.Join(dir, path))
	}
	for _, c := range candidates {
		if h.IsFile(c) {
			return c, true
		}
	}
	return "", false
}
