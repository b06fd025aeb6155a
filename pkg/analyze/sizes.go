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
	"os"
	"sort"
)

// 📏 SizeStats is the recursive size of one input path
type SizeStats struct {
	Path  string
	Bytes int64
	Files int
	IsDir bool
}

// 📏 Sizes returns the total bytes under each input path, largest first
func Sizes(ctx context.Context, paths []string, opts Options) ([]SizeStats, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	out := make([]SizeStats, 0, len(paths))
	for _, p := range paths {
		root, err := absPath(p)
		if err != nil {
			return nil, err
		}

		st := SizeStats{Path: root}
		if info, err := os.Lstat(root); err == nil {
			st.IsDir = info.IsDir()
		}

		err = walkFiles(ctx, root, opts, func(path string, info fs.FileInfo) {
			st.Bytes += info.Size()
			st.Files++
		})
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bytes != out[j].Bytes {
			return out[i].Bytes > out[j].Bytes
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}
