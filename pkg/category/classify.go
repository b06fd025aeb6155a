// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package category

import (
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/cases"
)

// 📄 Descriptor describes a file (or directory) about to be classified
type Descriptor struct {
	Path  string // Source path as given
	Name  string // Final path element
	Ext   string // Lowercased extension without the leading dot, may be empty
	IsDir bool   // Whether the source is a directory (bundles are directories)
}

// 🏭 NewDescriptor builds a descriptor without touching the filesystem
func NewDescriptor(path string, isDir bool) Descriptor {
	name := filepath.Base(filepath.Clean(path))
	return Descriptor{
		Path:  path,
		Name:  name,
		Ext:   strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")),
		IsDir: isDir,
	}
}

// 🔍 Describe stats path and builds its descriptor. Symlinks are not followed.
func Describe(path string) (Descriptor, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Descriptor{}, errors.Errorf("stat %s: %w", path, err)
	}
	return NewDescriptor(path, info.IsDir()), nil
}

// 🧭 Classifier assigns categories to descriptors.
// It only reads its table and is safe for concurrent use.
type Classifier struct {
	table *Table
}

// 🏭 NewClassifier creates a classifier over table; a nil table means Default()
func NewClassifier(table *Table) *Classifier {
	if table == nil {
		table = Default()
	}
	return &Classifier{table: table}
}

// Table returns the table the classifier reads from.
func (c *Classifier) Table() *Table {
	return c.table
}

// 🏷️ Classify returns the category name for d. Every input has a result.
func (c *Classifier) Classify(d Descriptor) string {
	if d.IsDir {
		if name, ok := bundleCategories[d.Ext]; ok {
			return name
		}
	}

	if screenshotExtensions[d.Ext] && containsAny(d.Name, screenshotMarkers) {
		return Screenshots
	}

	if recordingExtensions[d.Ext] && containsAny(d.Name, recordingMarkers) {
		return ScreenRecordings
	}

	if d.IsDir {
		return Folders
	}

	if d.Ext != "" {
		if name, ok := c.table.Lookup(d.Ext); ok {
			return name
		}
	}

	return Others
}

// containsAny reports whether the case-folded name contains one of markers.
// A fresh Caser per call: casers carry state and must not be shared.
func containsAny(name string, markers []string) bool {
	folded := cases.Fold().String(name)
	for _, m := range markers {
		if strings.Contains(folded, m) {
			return true
		}
	}
	return false
}
