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

package organize

import (
	"io"
	"os"
	"path/filepath"

	"github.com/walteh/sortdrop/pkg/category"
	"gitlab.com/tozd/go/errors"
)

// move renames the source into place, copying across devices when allowed.
func (o *Organizer) move(desc category.Descriptor, target string) error {
	err := os.Rename(desc.Path, target)
	if err == nil {
		return nil
	}

	if !o.copyFallback || desc.IsDir || !isCrossDevice(err) {
		return newError(KindMoveFailed, desc.Path, err)
	}

	if err := copyAcross(desc.Path, target); err != nil {
		return newError(KindMoveFailed, desc.Path, err)
	}
	return nil
}

// copyAcross copies a regular file next to target, renames it into place and
// removes the source. On failure nothing is left at target.
func copyAcross(src, target string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Errorf("stat source: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".sortdrop-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		tmp.Close()
		return errors.Errorf("copying data: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return errors.Errorf("setting mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	_ = os.Chtimes(tmpName, info.ModTime(), info.ModTime())

	if err = os.Rename(tmpName, target); err != nil {
		return errors.Errorf("renaming into place: %w", err)
	}

	if rmErr := os.Remove(src); rmErr != nil {
		_ = os.Remove(target)
		return errors.Errorf("removing source: %w", rmErr)
	}
	return nil
}
