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
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/sortdrop/pkg/category"
	"gitlab.com/tozd/go/errors"
)

// DefaultMaxCollisions bounds the rename search
const DefaultMaxCollisions = 9999

// 🔧 Settings is what the organizer reads on every call
type Settings interface {
	// RootDirectory is the base output directory
	RootDirectory() string
	// DuplicatePolicy is applied when the destination name is taken
	DuplicatePolicy() Policy
	// Override returns the custom directory for a category, if any
	Override(category string) (string, bool)
}

// 🔧 Options contains configuration for the organizer
type Options struct {
	// Classifier assigns categories; nil means the default table
	Classifier *category.Classifier
	// Settings supplies root, policy and overrides
	Settings Settings
	// MaxCollisions bounds the rename search; 0 means DefaultMaxCollisions
	MaxCollisions int
	// DisableCopyFallback turns cross-device moves into ErrMoveFailed
	DisableCopyFallback bool
}

// 🗃️ Organizer moves files into their category directories
type Organizer struct {
	classifier    *category.Classifier
	settings      Settings
	maxCollisions int
	copyFallback  bool
	locks         *dirLocks
}

// 🏭 New creates a new organizer with the given options
func New(opts Options) (*Organizer, error) {
	if opts.Settings == nil {
		return nil, errors.Errorf("settings are required")
	}
	classifier := opts.Classifier
	if classifier == nil {
		classifier = category.NewClassifier(nil)
	}
	maxCollisions := opts.MaxCollisions
	if maxCollisions <= 0 {
		maxCollisions = DefaultMaxCollisions
	}
	return &Organizer{
		classifier:    classifier,
		settings:      opts.Settings,
		maxCollisions: maxCollisions,
		copyFallback:  !opts.DisableCopyFallback,
		locks:         newDirLocks(),
	}, nil
}

// Classifier returns the classifier in use
func (o *Organizer) Classifier() *category.Classifier {
	return o.classifier
}

// 📁 DestinationDir returns the directory a category resolves to
func (o *Organizer) DestinationDir(cat string) string {
	if dir, ok := o.settings.Override(cat); ok && dir != "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(o.settings.RootDirectory(), cat)
}

// 🚚 Organize classifies src and moves it into its category directory.
// A Skip outcome is returned as a Result with a nil error. Once started the
// call runs to completion; ctx is only checked before any work is done.
func (o *Organizer) Organize(ctx context.Context, src string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("organizing %s: %w", src, err)
	}
	logger := zerolog.Ctx(ctx)

	desc, size, err := describe(src)
	if err != nil {
		return nil, err
	}

	cat := o.classifier.Classify(desc)
	dir := o.DestinationDir(cat)

	unlock := o.locks.lock(dir)
	defer unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, newError(KindDestinationUnwritable, dir, err)
	}

	res := &Result{Source: desc.Path, Category: cat, IsDir: desc.IsDir, Size: size}

	target, outcome, err := o.resolve(desc, cat, dir)
	if err != nil {
		return nil, err
	}
	res.Destination = target
	res.Outcome = outcome

	if outcome == OutcomeSkipped {
		logger.Debug().Str("source", desc.Path).Str("destination", target).Msg("destination exists, skipping")
		return res, nil
	}

	if outcome == OutcomeReplaced {
		if err := os.RemoveAll(target); err != nil {
			return nil, newError(KindDestinationUnwritable, target, err)
		}
		logger.Debug().Str("destination", target).Msg("removed existing destination")
	}

	if err := o.move(desc, target); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("source", desc.Path).
		Str("destination", target).
		Str("category", cat).
		Str("outcome", outcome.String()).
		Msg("organized")

	return res, nil
}

// 🔮 Plan reports what Organize would do without touching the filesystem
func (o *Organizer) Plan(ctx context.Context, src string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("planning %s: %w", src, err)
	}

	desc, size, err := describe(src)
	if err != nil {
		return nil, err
	}

	cat := o.classifier.Classify(desc)
	dir := o.DestinationDir(cat)

	unlock := o.locks.lock(dir)
	defer unlock()

	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return nil, newError(KindDestinationUnwritable, dir, errors.Errorf("not a directory"))
	}

	target, outcome, err := o.resolve(desc, cat, dir)
	if err != nil {
		return nil, err
	}

	return &Result{
		Source:      desc.Path,
		Destination: target,
		Category:    cat,
		Outcome:     outcome,
		IsDir:       desc.IsDir,
		Size:        size,
	}, nil
}

// describe resolves src to an absolute path and checks it can be read.
func describe(src string) (category.Descriptor, int64, error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return category.Descriptor{}, 0, newError(KindInvalidSource, src, err)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return category.Descriptor{}, 0, newError(KindInvalidSource, abs, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return category.Descriptor{}, 0, newError(KindInvalidSource, abs, err)
	}
	_ = f.Close()

	var size int64
	if info.Mode().IsRegular() {
		size = info.Size()
	}

	return category.NewDescriptor(abs, info.IsDir()), size, nil
}

// resolve picks the destination path and outcome according to the policy.
func (o *Organizer) resolve(desc category.Descriptor, cat, dir string) (string, Outcome, error) {
	candidate := filepath.Join(dir, desc.Name)

	if filepath.Clean(desc.Path) == candidate {
		return candidate, OutcomeSkipped, nil
	}

	taken, err := exists(candidate)
	if err != nil {
		return "", 0, newError(KindDestinationUnwritable, candidate, err)
	}
	if !taken {
		return candidate, OutcomeMoved, nil
	}

	policy := o.settings.DuplicatePolicy()
	if !policy.Valid() {
		policy = DefaultPolicy
	}

	switch policy {
	case PolicySkip:
		return candidate, OutcomeSkipped, nil
	case PolicyReplace:
		return candidate, OutcomeReplaced, nil
	}

	whole := desc.IsDir && cat == category.Folders
	for n := 1; n <= o.maxCollisions; n++ {
		next := filepath.Join(dir, NumberedName(desc.Name, n, whole))
		taken, err := exists(next)
		if err != nil {
			return "", 0, newError(KindDestinationUnwritable, next, err)
		}
		if !taken {
			return next, OutcomeRenamed, nil
		}
	}

	return "", 0, newError(KindTooManyCollisions, candidate, errors.Errorf("no free name after %d attempts", o.maxCollisions))
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
