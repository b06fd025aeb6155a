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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sortdrop/pkg/category"
	"github.com/walteh/sortdrop/pkg/testutils"
)

func newTestOrganizer(t *testing.T, settings StaticSettings, maxCollisions int) *Organizer {
	t.Helper()
	org, err := New(Options{Settings: settings, MaxCollisions: maxCollisions})
	require.NoError(t, err)
	return org
}

func TestNew(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err, "settings are required")

	org, err := New(Options{Settings: StaticSettings{Root: t.TempDir()}})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxCollisions, org.maxCollisions)
	assert.NotNil(t, org.Classifier())
	assert.True(t, org.copyFallback)
}

func TestOrganize(t *testing.T) {
	tests := []struct {
		name         string
		policy       Policy
		setup        func(t *testing.T, drop, root string) string
		overrides    func(root string) map[string]string
		wantCategory string
		wantName     string
		wantOutcome  Outcome
		check        func(t *testing.T, res *Result, drop, root string)
	}{
		{
			name: "image_into_fresh_root",
			setup: func(t *testing.T, drop, root string) string {
				return testutils.WriteFile(t, filepath.Join(drop, "photo.JPG"), "jpg")
			},
			wantCategory: category.Images,
			wantName:     "photo.JPG",
			wantOutcome:  OutcomeMoved,
			check: func(t *testing.T, res *Result, drop, root string) {
				assert.Equal(t, filepath.Join(root, "Images", "photo.JPG"), res.Destination)
				assert.NoFileExists(t, filepath.Join(drop, "photo.JPG"))
				assert.Equal(t, int64(3), res.Size)
			},
		},
		{
			name: "screenshot_beats_image",
			setup: func(t *testing.T, drop, root string) string {
				return testutils.WriteFile(t, filepath.Join(drop, "Screenshot 2024-01-01 at 10.00.00.png"), "png")
			},
			wantCategory: category.Screenshots,
			wantName:     "Screenshot 2024-01-01 at 10.00.00.png",
			wantOutcome:  OutcomeMoved,
		},
		{
			name: "override_directory",
			setup: func(t *testing.T, drop, root string) string {
				return testutils.WriteFile(t, filepath.Join(drop, "report.pdf"), "pdf")
			},
			overrides: func(root string) map[string]string {
				return map[string]string{category.Documents: filepath.Join(root, "custom", "docs")}
			},
			wantCategory: category.Documents,
			wantName:     "report.pdf",
			wantOutcome:  OutcomeMoved,
			check: func(t *testing.T, res *Result, drop, root string) {
				assert.Equal(t, filepath.Join(root, "custom", "docs", "report.pdf"), res.Destination)
				assert.NoDirExists(t, filepath.Join(root, "Documents"))
			},
		},
		{
			name:   "rename_on_collision",
			policy: PolicyRename,
			setup: func(t *testing.T, drop, root string) string {
				testutils.WriteFile(t, filepath.Join(root, "Images", "photo.jpg"), "old")
				return testutils.WriteFile(t, filepath.Join(drop, "photo.jpg"), "new")
			},
			wantCategory: category.Images,
			wantName:     "photo_1.jpg",
			wantOutcome:  OutcomeRenamed,
			check: func(t *testing.T, res *Result, drop, root string) {
				old, err := os.ReadFile(filepath.Join(root, "Images", "photo.jpg"))
				require.NoError(t, err)
				assert.Equal(t, "old", string(old))
			},
		},
		{
			name:   "rename_fills_next_free_number",
			policy: PolicyRename,
			setup: func(t *testing.T, drop, root string) string {
				testutils.WriteFile(t, filepath.Join(root, "Images", "photo.jpg"), "0")
				testutils.WriteFile(t, filepath.Join(root, "Images", "photo_1.jpg"), "1")
				return testutils.WriteFile(t, filepath.Join(drop, "photo.jpg"), "2")
			},
			wantCategory: category.Images,
			wantName:     "photo_2.jpg",
			wantOutcome:  OutcomeRenamed,
		},
		{
			name:   "skip_leaves_both",
			policy: PolicySkip,
			setup: func(t *testing.T, drop, root string) string {
				testutils.WriteFile(t, filepath.Join(root, "Documents", "notes.txt"), "old")
				return testutils.WriteFile(t, filepath.Join(drop, "notes.txt"), "new")
			},
			wantCategory: category.Documents,
			wantName:     "notes.txt",
			wantOutcome:  OutcomeSkipped,
			check: func(t *testing.T, res *Result, drop, root string) {
				assert.FileExists(t, filepath.Join(drop, "notes.txt"))
				old, err := os.ReadFile(filepath.Join(root, "Documents", "notes.txt"))
				require.NoError(t, err)
				assert.Equal(t, "old", string(old))
				assert.True(t, res.Skipped())
			},
		},
		{
			name:   "replace_overwrites",
			policy: PolicyReplace,
			setup: func(t *testing.T, drop, root string) string {
				testutils.WriteFile(t, filepath.Join(root, "Documents", "notes.txt"), "old")
				return testutils.WriteFile(t, filepath.Join(drop, "notes.txt"), "new")
			},
			wantCategory: category.Documents,
			wantName:     "notes.txt",
			wantOutcome:  OutcomeReplaced,
			check: func(t *testing.T, res *Result, drop, root string) {
				assert.NoFileExists(t, filepath.Join(drop, "notes.txt"))
				got, err := os.ReadFile(res.Destination)
				require.NoError(t, err)
				assert.Equal(t, "new", string(got))
			},
		},
		{
			name:   "folder_rename_has_no_extension_split",
			policy: PolicyRename,
			setup: func(t *testing.T, drop, root string) string {
				require.NoError(t, os.MkdirAll(filepath.Join(root, "Folders", "v1.2"), 0o755))
				dir := filepath.Join(drop, "v1.2")
				testutils.WriteFile(t, filepath.Join(dir, "inner.txt"), "x")
				return dir
			},
			wantCategory: category.Folders,
			wantName:     "v1.2_1",
			wantOutcome:  OutcomeRenamed,
			check: func(t *testing.T, res *Result, drop, root string) {
				assert.FileExists(t, filepath.Join(res.Destination, "inner.txt"))
				assert.True(t, res.IsDir)
			},
		},
		{
			name: "bundle_directory",
			setup: func(t *testing.T, drop, root string) string {
				dir := filepath.Join(drop, "Tool.app")
				testutils.WriteFile(t, filepath.Join(dir, "Contents", "Info.plist"), "x")
				return dir
			},
			wantCategory: category.Applications,
			wantName:     "Tool.app",
			wantOutcome:  OutcomeMoved,
		},
		{
			name: "unknown_extension_goes_to_others",
			setup: func(t *testing.T, drop, root string) string {
				return testutils.WriteFile(t, filepath.Join(drop, "data.xyz"), "?")
			},
			wantCategory: category.Others,
			wantName:     "data.xyz",
			wantOutcome:  OutcomeMoved,
		},
		{
			name: "already_in_place_is_skipped",
			setup: func(t *testing.T, drop, root string) string {
				return testutils.WriteFile(t, filepath.Join(root, "Images", "here.png"), "x")
			},
			wantCategory: category.Images,
			wantName:     "here.png",
			wantOutcome:  OutcomeSkipped,
			check: func(t *testing.T, res *Result, drop, root string) {
				assert.FileExists(t, filepath.Join(root, "Images", "here.png"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutils.Context(t)
			drop := t.TempDir()
			root := t.TempDir()

			src := tt.setup(t, drop, root)

			settings := StaticSettings{Root: root, Policy: tt.policy}
			if tt.overrides != nil {
				settings.Overrides = tt.overrides(root)
			}
			org := newTestOrganizer(t, settings, 0)

			res, err := org.Organize(ctx, src)
			require.NoError(t, err)
			require.NotNil(t, res)

			assert.Equal(t, tt.wantCategory, res.Category)
			assert.Equal(t, tt.wantName, filepath.Base(res.Destination))
			assert.Equal(t, tt.wantOutcome, res.Outcome)
			if res.Outcome != OutcomeSkipped {
				_, err := os.Lstat(res.Destination)
				assert.NoError(t, err, "destination should exist")
			}
			if tt.check != nil {
				tt.check(t, res, drop, root)
			}
		})
	}
}

func TestOrganizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, drop, root string) (src string, settings StaticSettings, maxCollisions int)
		needPerm bool // relies on permission bits root and windows ignore
		wantErr  error
		wantKind Kind
		check    func(t *testing.T, src, root string)
	}{
		{
			name: "missing_source",
			setup: func(t *testing.T, drop, root string) (string, StaticSettings, int) {
				return filepath.Join(drop, "nope.txt"), StaticSettings{Root: root}, 0
			},
			wantErr:  ErrInvalidSource,
			wantKind: KindInvalidSource,
		},
		{
			name: "root_component_is_a_file",
			setup: func(t *testing.T, drop, root string) (string, StaticSettings, int) {
				blocker := testutils.WriteFile(t, filepath.Join(root, "blocker"), "x")
				src := testutils.WriteFile(t, filepath.Join(drop, "photo.jpg"), "x")
				return src, StaticSettings{Root: blocker}, 0
			},
			wantErr:  ErrDestinationUnwritable,
			wantKind: KindDestinationUnwritable,
		},
		{
			name: "collision_bound_exhausted",
			setup: func(t *testing.T, drop, root string) (string, StaticSettings, int) {
				testutils.WriteFile(t, filepath.Join(root, "Images", "photo.jpg"), "0")
				testutils.WriteFile(t, filepath.Join(root, "Images", "photo_1.jpg"), "1")
				testutils.WriteFile(t, filepath.Join(root, "Images", "photo_2.jpg"), "2")
				src := testutils.WriteFile(t, filepath.Join(drop, "photo.jpg"), "3")
				return src, StaticSettings{Root: root, Policy: PolicyRename}, 2
			},
			wantErr:  ErrTooManyCollisions,
			wantKind: KindTooManyCollisions,
		},
		{
			name: "move_into_own_subtree",
			setup: func(t *testing.T, drop, root string) (string, StaticSettings, int) {
				src := filepath.Join(drop, "stuff")
				testutils.WriteFile(t, filepath.Join(src, "keep.txt"), "x")
				overrides := map[string]string{category.Folders: filepath.Join(src, "inner")}
				return src, StaticSettings{Root: root, Overrides: overrides}, 0
			},
			wantErr:  ErrMoveFailed,
			wantKind: KindMoveFailed,
			check: func(t *testing.T, src, root string) {
				assert.FileExists(t, filepath.Join(src, "keep.txt"))
				assert.NoDirExists(t, filepath.Join(src, "inner", "stuff"))
			},
		},
		{
			name: "replace_in_read_only_directory",
			setup: func(t *testing.T, drop, root string) (string, StaticSettings, int) {
				dir := filepath.Join(root, "Images")
				testutils.WriteFile(t, filepath.Join(dir, "photo.jpg"), "old")
				require.NoError(t, os.Chmod(dir, 0o555))
				t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
				src := testutils.WriteFile(t, filepath.Join(drop, "photo.jpg"), "new")
				return src, StaticSettings{Root: root, Policy: PolicyReplace}, 0
			},
			needPerm: true,
			wantErr:  ErrDestinationUnwritable,
			wantKind: KindDestinationUnwritable,
			check: func(t *testing.T, src, root string) {
				assert.FileExists(t, src)
				got, err := os.ReadFile(filepath.Join(root, "Images", "photo.jpg"))
				require.NoError(t, err)
				assert.Equal(t, "old", string(got))
			},
		},
		{
			name: "unreadable_source",
			setup: func(t *testing.T, drop, root string) (string, StaticSettings, int) {
				src := testutils.WriteFile(t, filepath.Join(drop, "secret.pdf"), "x")
				require.NoError(t, os.Chmod(src, 0o000))
				t.Cleanup(func() { _ = os.Chmod(src, 0o644) })
				return src, StaticSettings{Root: root}, 0
			},
			needPerm: true,
			wantErr:  ErrInvalidSource,
			wantKind: KindInvalidSource,
			check: func(t *testing.T, src, root string) {
				assert.NoDirExists(t, filepath.Join(root, "Documents"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.needPerm && (runtime.GOOS == "windows" || os.Geteuid() == 0) {
				t.Skip("permission bits are not enforced")
			}
			ctx := testutils.Context(t)
			drop := t.TempDir()
			root := t.TempDir()

			src, settings, maxCollisions := tt.setup(t, drop, root)
			org := newTestOrganizer(t, settings, maxCollisions)

			res, err := org.Organize(ctx, src)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, KindOf(err))
			if tt.check != nil {
				tt.check(t, src, root)
			}
		})
	}
}

func TestOrganizeCanceledContext(t *testing.T) {
	drop := t.TempDir()
	src := testutils.WriteFile(t, filepath.Join(drop, "photo.jpg"), "x")
	org := newTestOrganizer(t, StaticSettings{Root: t.TempDir()}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := org.Organize(ctx, src)
	require.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, src, "nothing should move after cancel")
}

func TestOrganizeCreatesDirectoryOnce(t *testing.T) {
	ctx := testutils.Context(t)
	drop := t.TempDir()
	root := t.TempDir()
	org := newTestOrganizer(t, StaticSettings{Root: root}, 0)

	for _, name := range []string{"a.mp3", "b.mp3"} {
		res, err := org.Organize(ctx, testutils.WriteFile(t, filepath.Join(drop, name), name))
		require.NoError(t, err)
		assert.Equal(t, OutcomeMoved, res.Outcome)
	}

	entries, err := os.ReadDir(filepath.Join(root, category.Audio))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestOrganizeConcurrentRenames(t *testing.T) {
	ctx := testutils.Context(t)
	root := t.TempDir()
	org := newTestOrganizer(t, StaticSettings{Root: root, Policy: PolicyRename}, 0)

	const n = 12
	srcs := make([]string, n)
	for i := range srcs {
		srcs[i] = testutils.WriteFile(t, filepath.Join(t.TempDir(), "clip.mp4"), fmt.Sprint(i))
	}

	var wg sync.WaitGroup
	results := make([]*Result, n)
	errs := make([]error, n)
	for i := range srcs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = org.Organize(ctx, srcs[i])
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := range results {
		require.NoError(t, errs[i])
		assert.False(t, seen[results[i].Destination], "duplicate destination %s", results[i].Destination)
		seen[results[i].Destination] = true
	}

	entries, err := os.ReadDir(filepath.Join(root, category.Video))
	require.NoError(t, err)
	assert.Len(t, entries, n)
}

func TestPlanHasNoSideEffects(t *testing.T) {
	ctx := testutils.Context(t)
	drop := t.TempDir()
	root := filepath.Join(t.TempDir(), "not-yet")
	src := testutils.WriteFile(t, filepath.Join(drop, "song.flac"), "x")
	org := newTestOrganizer(t, StaticSettings{Root: root}, 0)

	res, err := org.Plan(ctx, src)
	require.NoError(t, err)

	assert.Equal(t, category.Audio, res.Category)
	assert.Equal(t, filepath.Join(root, category.Audio, "song.flac"), res.Destination)
	assert.Equal(t, OutcomeMoved, res.Outcome)
	assert.FileExists(t, src)
	assert.NoDirExists(t, root)
}

func TestPlanReportsRename(t *testing.T) {
	ctx := testutils.Context(t)
	drop := t.TempDir()
	root := t.TempDir()
	testutils.WriteFile(t, filepath.Join(root, category.Archives, "pack.zip"), "old")
	src := testutils.WriteFile(t, filepath.Join(drop, "pack.zip"), "new")
	org := newTestOrganizer(t, StaticSettings{Root: root}, 0)

	res, err := org.Plan(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRenamed, res.Outcome)
	assert.Equal(t, "pack_1.zip", filepath.Base(res.Destination))
	assert.NoFileExists(t, res.Destination)
}

func TestCopyAcross(t *testing.T) {
	dir := t.TempDir()
	src := testutils.WriteFile(t, filepath.Join(dir, "src", "a.txt"), "payload")
	target := filepath.Join(dir, "dst", "a.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))

	require.NoError(t, copyAcross(src, target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
	assert.NoFileExists(t, src)

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be gone")
}

func TestNumberedName(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		n     int
		whole bool
		want  string
	}{
		{name: "simple", in: "photo.jpg", n: 1, want: "photo_1.jpg"},
		{name: "double_ext", in: "backup.tar.gz", n: 3, want: "backup.tar_3.gz"},
		{name: "no_ext", in: "README", n: 2, want: "README_2"},
		{name: "dotfile", in: ".env", n: 1, want: ".env_1"},
		{name: "whole_directory", in: "v1.2", n: 1, whole: true, want: "v1.2_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberedName(tt.in, tt.n, tt.whole))
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range Policies {
		got, err := ParsePolicy(" " + string(p) + " ")
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParsePolicy("SKIP")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, got)

	_, err = ParsePolicy("overwrite")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestDirLocks(t *testing.T) {
	locks := newDirLocks()

	unlock := locks.lock("a")
	done := make(chan struct{})
	go func() {
		u := locks.lock("b")
		u()
		close(done)
	}()
	<-done

	unlock()
	assert.Empty(t, locks.locks, "released keys should be dropped")
}
