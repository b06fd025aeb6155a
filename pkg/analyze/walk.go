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
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration shared by the analyzers
type Options struct {
	// Ignore holds doublestar patterns matched against the base name and the slash path
	Ignore []string
}

// Validate checks that every ignore pattern parses
func (o Options) Validate() error {
	for _, p := range o.Ignore {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid ignore pattern %q", p)
		}
	}
	return nil
}

func (o Options) ignored(path string) bool {
	if len(o.Ignore) == 0 {
		return false
	}
	slash := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, p := range o.Ignore {
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, slash); ok {
			return true
		}
	}
	return false
}

// walkFiles calls fn for every regular file under root (root itself when it is
// a file). Symlinks are not followed and unreadable entries are skipped.
func walkFiles(ctx context.Context, root string, opts Options, fn func(path string, info fs.FileInfo)) error {
	logger := zerolog.Ctx(ctx)
	root = filepath.Clean(root)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == root {
				return errors.Errorf("reading %s: %w", root, err)
			}
			logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path != root && opts.ignored(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return errors.Errorf("stat %s: %w", path, err)
		}
		fn(path, info)
		return nil
	})
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", p, err)
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", errors.Errorf("reading %s: %w", p, err)
	}
	return abs, nil
}
