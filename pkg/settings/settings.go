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

package settings

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/sortdrop/pkg/organize"
	"gitlab.com/tozd/go/errors"
)

// Persisted record keys
const (
	KeyRootDirectory    = "rootDirectory"
	KeyDuplicatePolicy  = "duplicatePolicy"
	KeyCustomPaths      = "customPaths"
	KeyCustomCategories = "customCategories"

	legacyKeyBaseDir           = "baseDir"
	legacyKeyDuplicateHandling = "duplicateHandling"
)

var (
	// ErrNotDirectory is returned when a configured path exists but is not a directory
	ErrNotDirectory = errors.Base("not a directory")
	// ErrEmptyCategory is returned when an override names no category
	ErrEmptyCategory = errors.Base("category name is empty")
)

var _ organize.Settings = (*Settings)(nil)

// ⚙️ Settings owns the organizer configuration.
// Every setter persists before returning; when persisting fails the
// in-memory value is restored and the error returned.
type Settings struct {
	mu    sync.RWMutex
	store Store

	root       string
	policy     organize.Policy
	overrides  map[string]string
	categories map[string][]string
}

// 📂 DefaultRootDirectory returns ~/Documents/sortdrop
func DefaultRootDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "sortdrop")
	}
	return filepath.Join(home, "Documents", "sortdrop")
}

// 📂 DefaultDir returns the per-user sortdrop config directory
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sortdrop")
}

// DefaultPath returns the default settings file location
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "settings.json")
}

// 🏭 Defaults returns settings with default values and no store
func Defaults() *Settings {
	return &Settings{
		root:       DefaultRootDirectory(),
		policy:     organize.DefaultPolicy,
		overrides:  map[string]string{},
		categories: map[string][]string{},
	}
}

// 📥 Load reads settings from store. A missing or unreadable record yields
// defaults; a bad field falls back to its default alone.
func Load(ctx context.Context, store Store) (*Settings, error) {
	if store == nil {
		return nil, errors.Errorf("settings store is required")
	}
	logger := zerolog.Ctx(ctx)

	s := Defaults()
	s.store = store

	values, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Debug().Msg("no stored settings, using defaults")
		} else {
			logger.Warn().Err(err).Msg("could not load settings, using defaults")
		}
		return s, nil
	}

	s.apply(ctx, values)
	return s, nil
}

func (s *Settings) apply(ctx context.Context, values map[string]string) {
	logger := zerolog.Ctx(ctx)

	root := values[KeyRootDirectory]
	if root == "" {
		root = values[legacyKeyBaseDir]
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			s.root = abs
		} else {
			logger.Warn().Err(err).Str("value", root).Msg("ignoring bad root directory")
		}
	}

	policy := values[KeyDuplicatePolicy]
	if policy == "" {
		policy = values[legacyKeyDuplicateHandling]
	}
	if policy != "" {
		if p, err := organize.ParsePolicy(policy); err == nil {
			s.policy = p
		} else {
			logger.Warn().Err(err).Msg("ignoring bad duplicate policy")
		}
	}

	if raw := values[KeyCustomPaths]; raw != "" {
		var paths map[string]string
		if err := json.Unmarshal([]byte(raw), &paths); err != nil {
			logger.Warn().Err(err).Msg("ignoring bad custom paths")
		} else {
			for cat, dir := range paths {
				if cat == "" || dir == "" {
					continue
				}
				s.overrides[cat] = filepath.Clean(dir)
			}
		}
	}

	if raw := values[KeyCustomCategories]; raw != "" {
		var cats map[string][]string
		if err := json.Unmarshal([]byte(raw), &cats); err != nil {
			logger.Warn().Err(err).Msg("ignoring bad custom categories")
		} else {
			for cat, exts := range cats {
				if cat == "" {
					continue
				}
				s.categories[cat] = append([]string(nil), exts...)
			}
		}
	}
}

// Values returns the record that would be persisted for the current state
func (s *Settings) Values() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values()
}

func (s *Settings) values() (map[string]string, error) {
	paths, err := json.Marshal(s.overrides)
	if err != nil {
		return nil, errors.Errorf("encoding custom paths: %w", err)
	}

	values := map[string]string{
		KeyRootDirectory:   s.root,
		KeyDuplicatePolicy: s.policy.String(),
		KeyCustomPaths:     string(paths),
	}

	if len(s.categories) > 0 {
		cats, err := json.Marshal(s.categories)
		if err != nil {
			return nil, errors.Errorf("encoding custom categories: %w", err)
		}
		values[KeyCustomCategories] = string(cats)
	}

	return values, nil
}

// persist writes the current state; the caller holds the write lock.
func (s *Settings) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	values, err := s.values()
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, values); err != nil {
		return errors.Errorf("saving settings: %w", err)
	}
	return nil
}

// RootDirectory returns the base output directory
func (s *Settings) RootDirectory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// 📁 SetRootDirectory changes the base output directory, creating it if missing
func (s *Settings) SetRootDirectory(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Errorf("resolving root directory: %w", err)
	}

	if err := ensureDir(abs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.root
	s.root = abs
	if err := s.persist(ctx); err != nil {
		s.root = prev
		return err
	}

	zerolog.Ctx(ctx).Info().Str("root", abs).Msg("root directory updated")
	return nil
}

// DuplicatePolicy returns the current duplicate policy
func (s *Settings) DuplicatePolicy() organize.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// 🔁 SetDuplicatePolicy changes the duplicate policy
func (s *Settings) SetDuplicatePolicy(ctx context.Context, policy organize.Policy) error {
	if !policy.Valid() {
		return errors.Errorf("%w: %q", organize.ErrUnknownPolicy, policy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.policy
	s.policy = policy
	if err := s.persist(ctx); err != nil {
		s.policy = prev
		return err
	}

	zerolog.Ctx(ctx).Info().Str("policy", policy.String()).Msg("duplicate policy updated")
	return nil
}

// Override returns the custom directory for category, if any
func (s *Settings) Override(category string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dir, ok := s.overrides[category]
	return dir, ok
}

// Overrides returns a copy of all category overrides
func (s *Settings) Overrides() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMap(s.overrides)
}

// 📌 SetOverride points category at dir instead of root/category
func (s *Settings) SetOverride(ctx context.Context, category, dir string) error {
	if category == "" {
		return ErrEmptyCategory
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Errorf("resolving override directory: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return errors.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.overrides[category]
	s.overrides[category] = abs
	if err := s.persist(ctx); err != nil {
		if had {
			s.overrides[category] = prev
		} else {
			delete(s.overrides, category)
		}
		return err
	}

	zerolog.Ctx(ctx).Info().Str("category", category).Str("dir", abs).Msg("override set")
	return nil
}

// 🧹 ClearOverride removes the override for category; no-op if none is set
func (s *Settings) ClearOverride(ctx context.Context, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.overrides[category]
	if !had {
		return nil
	}
	delete(s.overrides, category)
	if err := s.persist(ctx); err != nil {
		s.overrides[category] = prev
		return err
	}

	zerolog.Ctx(ctx).Info().Str("category", category).Msg("override cleared")
	return nil
}

// CustomCategories returns user categories and extra extensions, keyed by category
func (s *Settings) CustomCategories() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.categories))
	for k, v := range s.categories {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// OverrideCategories returns the overridden category names, sorted
func (s *Settings) OverrideCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.overrides))
	for k := range s.overrides {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return errors.Errorf("%w: %s", ErrNotDirectory, path)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return errors.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}
	return nil
}
