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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sortdrop/cmd/sortdrop/commands"
	"github.com/walteh/sortdrop/pkg/watch"
)

type cli struct {
	t    *testing.T
	dir  string
	root string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	c := &cli{t: t, dir: dir, root: filepath.Join(dir, "sorted")}
	_, err := c.run("", "settings", "set-root", c.root)
	require.NoError(t, err)
	return c
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{
		"--settings", filepath.Join(c.dir, "settings.json"),
		"--history", filepath.Join(c.dir, "history.db"),
		"--no-color",
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) file(name, content string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, "drop", name)
	require.NoError(c.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(c.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOrganizeCommand(t *testing.T) {
	c := newCLI(t)
	src := c.file("photo.jpg", "jpeg")

	out, err := c.run("", "organize", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Moved photo.jpg")
	assert.Contains(t, out, "1 item")

	assert.NoFileExists(t, src)
	assert.FileExists(t, filepath.Join(c.root, "Images", "photo.jpg"))
}

func TestOrganizeCommandDryRun(t *testing.T) {
	c := newCLI(t)
	src := c.file("song.mp3", "id3")

	out, err := c.run("", "organize", "--dry-run", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Would move song.mp3")
	assert.FileExists(t, src)
	assert.NoDirExists(t, filepath.Join(c.root, "Audio"))
}

func TestOrganizeCommandStdin(t *testing.T) {
	c := newCLI(t)
	a := c.file("my notes.txt", "a")
	b := c.file("report.pdf", "b")

	_, err := c.run("{"+a+"} "+b+"\n", "organize", "--stdin")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(c.root, "Documents", "my notes.txt"))
	assert.FileExists(t, filepath.Join(c.root, "Documents", "report.pdf"))
}

func TestOrganizeCommandPolicy(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.MkdirAll(filepath.Join(c.root, "Documents"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(c.root, "Documents", "a.txt"), []byte("old"), 0o644))

	src := c.file("a.txt", "new")
	out, err := c.run("", "organize", "--policy", "skip", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped a.txt")
	assert.FileExists(t, src)

	// the per-run policy is not persisted
	out, err = c.run("", "organize", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed a.txt")
	assert.FileExists(t, filepath.Join(c.root, "Documents", "a_1.txt"))

	_, err = c.run("", "organize", "--policy", "merge", src)
	require.Error(t, err)
}

func TestOrganizeCommandFailures(t *testing.T) {
	c := newCLI(t)
	ok := c.file("ok.png", "png")

	out, err := c.run("", "organize", ok, filepath.Join(c.dir, "missing.png"))
	require.ErrorIs(t, err, commands.ErrItemsFailed)
	assert.Contains(t, out, "missing.png")
	assert.FileExists(t, filepath.Join(c.root, "Images", "ok.png"))

	_, err = c.run("", "organize")
	require.Error(t, err)
}

func TestClassifyCommand(t *testing.T) {
	c := newCLI(t)
	src := c.file("Screenshot 2024-01-01.png", "png")

	out, err := c.run("", "classify", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Screenshots")
	assert.Contains(t, out, filepath.Join(c.root, "Screenshots"))
	assert.FileExists(t, src)
}

func TestSettingsCommands(t *testing.T) {
	c := newCLI(t)
	music := filepath.Join(c.dir, "music")

	_, err := c.run("", "settings", "set-policy", "replace")
	require.NoError(t, err)
	_, err = c.run("", "settings", "map", "audio", music)
	require.NoError(t, err)

	out, err := c.run("", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "replace")
	assert.Contains(t, out, "customPaths.Audio")
	assert.Contains(t, out, music)

	src := c.file("track.flac", "flac")
	_, err = c.run("", "organize", src)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(music, "track.flac"))

	_, err = c.run("", "settings", "unmap", "Audio")
	require.NoError(t, err)
	out, err = c.run("", "settings", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "customPaths.Audio")

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown policy", args: []string{"settings", "set-policy", "merge"}},
		{name: "unknown category", args: []string{"settings", "map", "Nope", music}},
		{name: "root is a file", args: []string{"settings", "set-root", c.file("plain.txt", "x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.run("", tt.args...)
			require.Error(t, err)
		})
	}
}

func TestConflictingCustomCategoriesFallBack(t *testing.T) {
	c := newCLI(t)
	record := `{"customCategories": "{\"Pics\":[\".jpg\"]}", "rootDirectory": "` + filepath.ToSlash(c.root) + `"}`
	require.NoError(t, os.WriteFile(filepath.Join(c.dir, "settings.json"), []byte(record), 0o644))

	out, err := c.run("", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, c.root)

	out, err = c.run("", "categories")
	require.NoError(t, err)
	assert.NotContains(t, out, "Pics")

	src := c.file("photo.jpg", "jpeg")
	_, err = c.run("", "organize", src)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(c.root, "Images", "photo.jpg"))
}

func TestWatchRefusesDestinationTree(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "watch", c.root)
	require.ErrorIs(t, err, watch.ErrWatchingDestination)

	music := filepath.Join(c.dir, "music")
	_, err = c.run("", "settings", "map", "Audio", music)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(music, 0o755))

	_, err = c.run("", "watch", music)
	require.ErrorIs(t, err, watch.ErrWatchingDestination)
}

func TestCategoriesCommand(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Images")
	assert.Contains(t, out, ".jpg")
	assert.Contains(t, out, filepath.Join(c.root, "Others"))
}

func TestAnalyzeCommands(t *testing.T) {
	c := newCLI(t)
	c.file("a.jpg", "12345")
	c.file("b.jpg", "123")
	c.file("c.txt", "1")
	drop := filepath.Join(c.dir, "drop")

	out, err := c.run("", "analyze", "extensions", drop)
	require.NoError(t, err)
	assert.Contains(t, out, ".jpg")
	assert.Contains(t, out, "Images")
	assert.Contains(t, out, ".txt")

	out, err = c.run("", "analyze", "sizes", drop)
	require.NoError(t, err)
	assert.Contains(t, out, drop)
	assert.Contains(t, out, "9 B")
}

func TestHistoryCommands(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "History is empty")

	_, err = c.run("", "organize", c.file("clip.mp4", "mp4"), c.file("doc.pdf", "pdf"))
	require.NoError(t, err)

	out, err = c.run("", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "clip.mp4")
	assert.Contains(t, out, "doc.pdf")

	out, err = c.run("", "history", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Video")
	assert.Contains(t, out, "Documents")
	assert.Contains(t, out, "2 entries")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "sortdrop version info")
}
