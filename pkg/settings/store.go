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
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned by a Store that holds no record yet
var ErrNotFound = errors.Base("settings not found")

const lockRetryDelay = 25 * time.Millisecond

// 🗄️ Store persists the flat settings record
type Store interface {
	// Load returns the stored record or ErrNotFound
	Load(ctx context.Context) (map[string]string, error)
	// Save replaces the stored record
	Save(ctx context.Context, values map[string]string) error
}

// 📄 FileStore keeps the record in a single file.
// The encoding is picked from the file extension.
type FileStore struct {
	path  string
	codec Codec
	lock  *flock.Flock
}

var _ Store = (*FileStore)(nil)

// 🏭 NewFileStore creates a store backed by path
func NewFileStore(path string) (*FileStore, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving settings path: %w", err)
	}
	return &FileStore{
		path:  abs,
		codec: CodecFor(abs),
		lock:  flock.New(abs + ".lock"),
	}, nil
}

// Path returns the settings file location
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (map[string]string, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errors.Errorf("stat settings file: %w", err)
	}

	locked, err := s.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, errors.Errorf("locking settings file: %w", err)
	}
	if locked {
		defer s.lock.Unlock()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	values, err := s.codec.Decode(ctx, data)
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", s.path, err)
	}
	return values, nil
}

func (s *FileStore) Save(ctx context.Context, values map[string]string) error {
	data, err := s.codec.Encode(ctx, values)
	if err != nil {
		return errors.Errorf("encoding settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating settings directory: %w", err)
	}

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return errors.Errorf("locking settings file: %w", err)
	}
	if locked {
		defer s.lock.Unlock()
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", s.path).Int("keys", len(values)).Msg("settings saved")
	return nil
}

// 🧠 MemoryStore keeps the record in memory
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	// SaveErr, when set, is returned by every Save
	SaveErr error
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store seeded with values; nil means nothing stored
func NewMemoryStore(values map[string]string) *MemoryStore {
	return &MemoryStore{values: copyMap(values)}
}

func (s *MemoryStore) Load(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return nil, ErrNotFound
	}
	return copyMap(s.values), nil
}

func (s *MemoryStore) Save(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.values = copyMap(values)
	if s.values == nil {
		s.values = map[string]string{}
	}
	return nil
}

// Values returns a copy of the stored record
func (s *MemoryStore) Values() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMap(s.values)
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
