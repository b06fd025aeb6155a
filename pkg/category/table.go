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
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Well-known category names
const (
	Applications     = "Applications"
	LogicProjects    = "Logic Projects"
	Screenshots      = "Screenshots"
	ScreenRecordings = "Screen Recordings"
	Images           = "Images"
	Documents        = "Documents"
	Audio            = "Audio"
	Video            = "Video"
	Archives         = "Archives"
	Code             = "Code"
	Config           = "Config"
	ThreeD           = "3D"
	Design           = "Design"
	Fonts            = "Fonts"
	ML               = "ML"
	Folders          = "Folders"
	Others           = "Others"
)

var (
	// ErrDuplicateExtension is returned when an extension would map to two categories
	ErrDuplicateExtension = errors.Base("extension assigned to more than one category")
	// ErrDuplicateCategory is returned when a category name appears twice
	ErrDuplicateCategory = errors.Base("duplicate category name")
	// ErrInvalidCategory is returned for empty category names or extensions
	ErrInvalidCategory = errors.Base("invalid category")
)

// 📦 Category is a named bucket of file extensions
type Category struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// 📚 Table is an ordered, validated set of categories.
// A Table is immutable once built and safe for concurrent reads.
type Table struct {
	categories []Category
	byExt      map[string]string
	byName     map[string]int
}

// 🔍 ConflictError describes an extension claimed by two categories
type ConflictError struct {
	Extension string
	First     string
	Second    string
}

func (e *ConflictError) Error() string {
	return "extension " + e.Extension + " is in both " + e.First + " and " + e.Second
}

// Is reports ErrDuplicateExtension so callers can match on the sentinel.
func (e *ConflictError) Is(target error) bool {
	return target == ErrDuplicateExtension
}

// 🏭 NewTable validates categories and builds a lookup table.
// Order is priority order. Construction fails fast if an extension
// would resolve to more than one category.
func NewTable(categories []Category) (*Table, error) {
	t := &Table{
		categories: make([]Category, 0, len(categories)),
		byExt:      make(map[string]string),
		byName:     make(map[string]int, len(categories)),
	}

	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, errors.Errorf("%w: empty category name", ErrInvalidCategory)
		}
		if _, ok := t.byName[name]; ok {
			return nil, errors.Errorf("%w: %s", ErrDuplicateCategory, name)
		}

		exts := make([]string, 0, len(c.Extensions))
		seen := make(map[string]bool, len(c.Extensions))
		for _, raw := range c.Extensions {
			ext := NormalizeExtension(raw)
			if ext == "" {
				return nil, errors.Errorf("%w: empty extension in %s", ErrInvalidCategory, name)
			}
			if seen[ext] {
				continue
			}
			if owner, ok := t.byExt[ext]; ok {
				return nil, &ConflictError{Extension: ext, First: owner, Second: name}
			}
			seen[ext] = true
			t.byExt[ext] = name
			exts = append(exts, ext)
		}

		t.byName[name] = len(t.categories)
		t.categories = append(t.categories, Category{Name: name, Extensions: exts})
	}

	if _, ok := t.byName[Others]; !ok {
		t.byName[Others] = len(t.categories)
		t.categories = append(t.categories, Category{Name: Others, Extensions: []string{}})
	}

	return t, nil
}

// 🔤 NormalizeExtension lowercases an extension and ensures a single leading dot
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}

// 🔎 Lookup returns the category owning ext. ext may be given with or without the dot.
func (t *Table) Lookup(ext string) (string, bool) {
	n := NormalizeExtension(ext)
	if n == "" {
		return "", false
	}
	name, ok := t.byExt[n]
	return name, ok
}

// Has reports whether a category with this name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// 📋 Categories returns a copy of the categories in priority order
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, Extensions: append([]string(nil), c.Extensions...)}
	}
	return out
}

// Names returns category names in priority order.
func (t *Table) Names() []string {
	out := make([]string, len(t.categories))
	for i, c := range t.categories {
		out[i] = c.Name
	}
	return out
}

// Extensions returns the extensions of a category, or nil if it does not exist.
func (t *Table) Extensions(name string) []string {
	i, ok := t.byName[name]
	if !ok {
		return nil
	}
	return append([]string(nil), t.categories[i].Extensions...)
}

// ➕ Extend returns a new table with extra extensions merged in.
// Unknown categories are inserted ahead of Folders and Others; known ones
// gain the extra extensions. The receiver is not modified.
func (t *Table) Extend(extra map[string][]string) (*Table, error) {
	if len(extra) == 0 {
		return t, nil
	}

	merged := t.Categories()
	var added []Category

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		exts := extra[name]
		if i, ok := t.byName[name]; ok {
			merged[i].Extensions = append(merged[i].Extensions, exts...)
			continue
		}
		added = append(added, Category{Name: name, Extensions: exts})
	}

	tail := 0
	for tail < len(merged) {
		n := merged[len(merged)-1-tail].Name
		if n != Folders && n != Others {
			break
		}
		tail++
	}

	out := make([]Category, 0, len(merged)+len(added))
	out = append(out, merged[:len(merged)-tail]...)
	out = append(out, added...)
	out = append(out, merged[len(merged)-tail:]...)

	nt, err := NewTable(out)
	if err != nil {
		return nil, errors.Errorf("extending category table: %w", err)
	}
	return nt, nil
}
