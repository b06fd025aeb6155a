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

package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultSettle is how long a path must stay quiet before it is handled
const DefaultSettle = time.Second

// DefaultIgnore skips browser partial downloads and hidden files
var DefaultIgnore = []string{
	".*",
	"*.crdownload",
	"*.part",
	"*.partial",
	"*.download",
	"*.tmp",
	"*.opdownload",
}

// ErrWatchingDestination is returned when the watched folder lies in an excluded tree
var ErrWatchingDestination = errors.Base("watch root is a destination directory")

// 📣 Handler is called once a path has settled
type Handler func(ctx context.Context, path string)

// 🔧 Options contains configuration for the watcher
type Options struct {
	// Root is the directory to watch
	Root string
	// Recursive watches subdirectories instead of handing them off
	Recursive bool
	// Settle is the quiet period before a path is handled; 0 means DefaultSettle
	Settle time.Duration
	// Ignore holds doublestar patterns matched against base names
	Ignore []string
	// Exclude holds directories whose contents are never handled
	Exclude []string
	// Handler receives settled paths, one at a time
	Handler Handler
}

// 👀 Watcher auto-sorts new entries in a folder
type Watcher struct {
	root      string
	recursive bool
	settle    time.Duration
	ignore    []string
	exclude   []string
	handler   Handler
	id        string

	fsw *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer
	due    chan string
	done   chan struct{}
}

// 🏭 New creates a watcher and registers the watches
func New(opts Options) (*Watcher, error) {
	if opts.Handler == nil {
		return nil, errors.Errorf("handler is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Errorf("resolving watch root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Errorf("reading watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("watch root %s is not a directory", root)
	}
	for _, p := range opts.Ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid ignore pattern %q", p)
		}
	}

	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	exclude := make([]string, 0, len(opts.Exclude))
	for _, e := range opts.Exclude {
		abs, err := filepath.Abs(e)
		if err != nil {
			return nil, errors.Errorf("resolving exclude %s: %w", e, err)
		}
		if abs == root || strings.HasPrefix(root, abs+string(filepath.Separator)) {
			return nil, errors.Errorf("%w: %s is inside %s", ErrWatchingDestination, root, abs)
		}
		exclude = append(exclude, abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		root:      root,
		recursive: opts.Recursive,
		settle:    settle,
		ignore:    opts.Ignore,
		exclude:   exclude,
		handler:   opts.Handler,
		id:        uuid.NewString(),
		fsw:       fsw,
		timers:    make(map[string]*time.Timer),
		due:       make(chan string, 64),
		done:      make(chan struct{}),
	}

	if err := w.addWatches(root, false); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the watched directory
func (w *Watcher) Root() string {
	return w.root
}

// 🏃 Run processes events until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("watch_session", w.id).Str("root", w.root).Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		close(w.done)
		w.stopTimers()
		_ = w.fsw.Close()
	}()

	logger.Info().Bool("recursive", w.recursive).Dur("settle", w.settle).Msg("watching")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("watch stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.onEvent(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")

		case path := <-w.due:
			w.handle(ctx, path)
		}
	}
}

func (w *Watcher) onEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	path := filepath.Clean(event.Name)
	if w.skip(path) {
		return
	}

	if w.recursive && event.Has(fsnotify.Create) {
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			if err := w.addWatches(path, true); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("adding watch")
			}
			return
		}
	}

	w.schedule(path)
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok && t.Stop() {
		t.Reset(w.settle)
		return
	}

	var t *time.Timer
	t = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.mu.Unlock()

		select {
		case w.due <- path:
		case <-w.done:
		}
	})
	w.timers[path] = t
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	info, err := os.Lstat(path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("settled path is gone")
		return
	}
	if info.IsDir() && w.recursive {
		return
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("settled")
	w.handler(ctx, path)
}

func (w *Watcher) skip(path string) bool {
	if path == w.root {
		return true
	}
	for _, ex := range w.exclude {
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return true
		}
	}
	base := filepath.Base(path)
	for _, p := range w.ignore {
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// addWatches registers dir, and its subtree when recursive. With existing set,
// regular files already in the tree are scheduled as if just created.
func (w *Watcher) addWatches(dir string, existing bool) error {
	if !w.recursive {
		if err := w.fsw.Add(dir); err != nil {
			return errors.Errorf("watching %s: %w", dir, err)
		}
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) && path != dir {
				return filepath.SkipDir
			}
			return errors.Errorf("walking %s: %w", path, err)
		}
		if !d.IsDir() {
			if existing && d.Type().IsRegular() && !w.skip(path) {
				w.schedule(path)
			}
			return nil
		}
		if path != w.root && w.skip(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			if errors.Is(err, fs.ErrPermission) && path != dir {
				return filepath.SkipDir
			}
			return errors.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
