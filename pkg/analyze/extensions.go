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

package analyze

import (
	"context"
	"io/fs"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"github.com/walteh/sortdrop/pkg/category"
)

// MaxExamples bounds ExtensionStats.Examples
const MaxExamples = 3

// UnknownMIME is reported when no MIME type is registered for an extension
const UnknownMIME = "unknown"

// 📊 ExtensionStats aggregates the files sharing one extension
type ExtensionStats struct {
	Extension string   // Lowercase with leading dot
	Count     int      // Files seen
	Bytes     int64    // Total size
	Examples  []string // Up to MaxExamples distinct base names
	MIME      string   // Registered MIME type or UnknownMIME
	Category  string   // Category the extension classifies to
	Paths     []string // Every file counted
}

// 🔍 Extensions walks paths and groups every regular file by extension.
// Files without an extension are skipped and each file is counted once even
// when inputs overlap. The result is sorted by extension.
func Extensions(ctx context.Context, classifier *category.Classifier, paths []string, opts Options) ([]ExtensionStats, error) {
	if classifier == nil {
		classifier = category.NewClassifier(nil)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	byExt := map[string]*ExtensionStats{}
	seen := map[string]bool{}

	for _, p := range paths {
		root, err := absPath(p)
		if err != nil {
			return nil, err
		}

		err = walkFiles(ctx, root, opts, func(path string, info fs.FileInfo) {
			if seen[path] {
				return
			}
			seen[path] = true

			ext := strings.ToLower(filepath.Ext(info.Name()))
			if ext == "" || ext == "." {
				return
			}

			st, ok := byExt[ext]
			if !ok {
				st = &ExtensionStats{
					Extension: ext,
					MIME:      mimeFor(ext),
					Category:  categoryFor(classifier, ext),
				}
				byExt[ext] = st
			}

			st.Count++
			st.Bytes += info.Size()
			st.Paths = append(st.Paths, path)
			if len(st.Examples) < MaxExamples && !contains(st.Examples, info.Name()) {
				st.Examples = append(st.Examples, info.Name())
			}
		})
		if err != nil {
			return nil, err
		}
	}

	out := make([]ExtensionStats, 0, len(byExt))
	for _, st := range byExt {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Extension < out[j].Extension })
	return out, nil
}

func mimeFor(ext string) string {
	t := mime.TypeByExtension(ext)
	if t == "" {
		return UnknownMIME
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

func categoryFor(classifier *category.Classifier, ext string) string {
	if cat, ok := classifier.Table().Lookup(ext); ok {
		return cat
	}
	return category.Others
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
