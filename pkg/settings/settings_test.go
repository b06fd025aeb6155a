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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sortdrop/pkg/organize"
	"github.com/walteh/sortdrop/pkg/testutils"
	"gitlab.com/tozd/go/errors"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		check  func(t *testing.T, s *Settings)
	}{
		{
			name:   "nothing_stored",
			values: nil,
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, DefaultRootDirectory(), s.RootDirectory())
				assert.Equal(t, organize.PolicyRename, s.DuplicatePolicy())
				assert.Empty(t, s.Overrides())
			},
		},
		{
			name: "current_keys",
			values: map[string]string{
				KeyRootDirectory:    "/data/sorted",
				KeyDuplicatePolicy:  "skip",
				KeyCustomPaths:      `{"Documents":"/custom/docs"}`,
				KeyCustomCategories: `{"Ebooks":[".epub",".mobi"]}`,
			},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, filepath.Clean("/data/sorted"), s.RootDirectory())
				assert.Equal(t, organize.PolicySkip, s.DuplicatePolicy())
				dir, ok := s.Override("Documents")
				assert.True(t, ok)
				assert.Equal(t, filepath.Clean("/custom/docs"), dir)
				assert.Equal(t, map[string][]string{"Ebooks": {".epub", ".mobi"}}, s.CustomCategories())
			},
		},
		{
			name: "legacy_keys",
			values: map[string]string{
				legacyKeyBaseDir:           "/legacy/root",
				legacyKeyDuplicateHandling: "replace",
			},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, filepath.Clean("/legacy/root"), s.RootDirectory())
				assert.Equal(t, organize.PolicyReplace, s.DuplicatePolicy())
			},
		},
		{
			name: "current_keys_win_over_legacy",
			values: map[string]string{
				KeyRootDirectory:           "/new/root",
				legacyKeyBaseDir:           "/legacy/root",
				KeyDuplicatePolicy:         "skip",
				legacyKeyDuplicateHandling: "replace",
			},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, filepath.Clean("/new/root"), s.RootDirectory())
				assert.Equal(t, organize.PolicySkip, s.DuplicatePolicy())
			},
		},
		{
			name: "bad_fields_fall_back_individually",
			values: map[string]string{
				KeyRootDirectory:   "/kept/root",
				KeyDuplicatePolicy: "overwrite",
				KeyCustomPaths:     "{not json",
			},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, filepath.Clean("/kept/root"), s.RootDirectory())
				assert.Equal(t, organize.DefaultPolicy, s.DuplicatePolicy())
				assert.Empty(t, s.Overrides())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(testutils.Context(t), NewMemoryStore(tt.values))
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestLoadUnreadableFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	s, err := Load(testutils.Context(t), store)
	require.NoError(t, err)
	assert.Equal(t, organize.DefaultPolicy, s.DuplicatePolicy())
	assert.Equal(t, DefaultRootDirectory(), s.RootDirectory())
}

func TestSettersPersist(t *testing.T) {
	ctx := testutils.Context(t)
	store := NewMemoryStore(nil)
	s, err := Load(ctx, store)
	require.NoError(t, err)

	root := filepath.Join(t.TempDir(), "sorted")
	require.NoError(t, s.SetRootDirectory(ctx, root))
	assert.DirExists(t, root, "root should be created")
	assert.Equal(t, root, store.Values()[KeyRootDirectory])

	require.NoError(t, s.SetDuplicatePolicy(ctx, organize.PolicyReplace))
	assert.Equal(t, "replace", store.Values()[KeyDuplicatePolicy])

	docs := t.TempDir()
	require.NoError(t, s.SetOverride(ctx, "Documents", docs))
	assert.JSONEq(t, `{"Documents":"`+docs+`"}`, store.Values()[KeyCustomPaths])

	require.NoError(t, s.ClearOverride(ctx, "Documents"))
	assert.JSONEq(t, `{}`, store.Values()[KeyCustomPaths])
	_, ok := s.Override("Documents")
	assert.False(t, ok)

	reloaded, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, root, reloaded.RootDirectory())
	assert.Equal(t, organize.PolicyReplace, reloaded.DuplicatePolicy())
}

func TestSettersRevertOnFailedSave(t *testing.T) {
	ctx := testutils.Context(t)
	store := NewMemoryStore(map[string]string{
		KeyRootDirectory:   "/orig",
		KeyDuplicatePolicy: "skip",
		KeyCustomPaths:     `{"Audio":"/music"}`,
	})
	s, err := Load(ctx, store)
	require.NoError(t, err)

	saveErr := errors.New("disk full")
	store.SaveErr = saveErr

	err = s.SetRootDirectory(ctx, t.TempDir())
	assert.ErrorIs(t, err, saveErr)
	assert.Equal(t, filepath.Clean("/orig"), s.RootDirectory())

	err = s.SetDuplicatePolicy(ctx, organize.PolicyRename)
	assert.ErrorIs(t, err, saveErr)
	assert.Equal(t, organize.PolicySkip, s.DuplicatePolicy())

	err = s.SetOverride(ctx, "Audio", t.TempDir())
	assert.ErrorIs(t, err, saveErr)
	dir, _ := s.Override("Audio")
	assert.Equal(t, filepath.Clean("/music"), dir)

	err = s.SetOverride(ctx, "Video", t.TempDir())
	assert.ErrorIs(t, err, saveErr)
	_, ok := s.Override("Video")
	assert.False(t, ok)

	err = s.ClearOverride(ctx, "Audio")
	assert.ErrorIs(t, err, saveErr)
	_, ok = s.Override("Audio")
	assert.True(t, ok)
}

func TestSetterValidation(t *testing.T) {
	ctx := testutils.Context(t)
	s, err := Load(ctx, NewMemoryStore(nil))
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.ErrorIs(t, s.SetRootDirectory(ctx, file), ErrNotDirectory)
	assert.ErrorIs(t, s.SetOverride(ctx, "Images", file), ErrNotDirectory)
	assert.ErrorIs(t, s.SetOverride(ctx, "", t.TempDir()), ErrEmptyCategory)
	assert.ErrorIs(t, s.SetDuplicatePolicy(ctx, organize.Policy("merge")), organize.ErrUnknownPolicy)
	assert.NoError(t, s.ClearOverride(ctx, "Nothing"))
}

func TestFileStoreByExtension(t *testing.T) {
	values := map[string]string{
		KeyRootDirectory:   "/data/sorted",
		KeyDuplicatePolicy: "rename",
		KeyCustomPaths:     `{"Documents":"/custom/docs"}`,
	}

	tests := []struct {
		file     string
		codec    Codec
		contains string
	}{
		{file: "settings.json", codec: &JSONCodec{}, contains: `"rootDirectory": "/data/sorted"`},
		{file: "settings.yaml", codec: &YAMLCodec{}, contains: "rootDirectory: /data/sorted"},
		{file: "settings.yml", codec: &YAMLCodec{}, contains: "rootDirectory: /data/sorted"},
		{file: "settings.toml", codec: &TOMLCodec{}, contains: "rootDirectory"},
		{file: "settings.hcl", codec: &HCLCodec{}, contains: "rootDirectory"},
		{file: "settings", codec: &JSONCodec{}, contains: `"duplicatePolicy": "rename"`},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			ctx := testutils.Context(t)
			path := filepath.Join(t.TempDir(), "nested", tt.file)

			store, err := NewFileStore(path)
			require.NoError(t, err)
			assert.IsType(t, tt.codec, store.codec)

			_, err = store.Load(ctx)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Save(ctx, values))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(raw), tt.contains)

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, values, got)

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			for _, e := range entries {
				assert.NotContains(t, e.Name(), ".tmp", "temp files should be cleaned up")
			}
		})
	}
}

func TestHCLCodecRejectsNonString(t *testing.T) {
	_, err := (&HCLCodec{}).Decode(context.Background(), []byte("rootDirectory = 42\n"))
	assert.Error(t, err)
}

func TestSettingsWithFileStore(t *testing.T) {
	ctx := testutils.Context(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	s, err := Load(ctx, store)
	require.NoError(t, err)

	root := t.TempDir()
	require.NoError(t, s.SetRootDirectory(ctx, root))
	require.NoError(t, s.SetOverride(ctx, "Images", filepath.Join(root, "pics")))

	again, err := NewFileStore(path)
	require.NoError(t, err)
	reloaded, err := Load(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, root, reloaded.RootDirectory())
	dir, ok := reloaded.Override("Images")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "pics"), dir)
}
