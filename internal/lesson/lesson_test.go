package lesson

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLesson(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeLesson(t, dir, "drill.toml", `
title = "Drill"
language = "en"
difficulty = "beginner"
tags = ["a", "b"]
estimated-minutes = 1.5
text = "abc def"
`)
	l, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "drill", l.Name)
	assert.Equal(t, "Drill", l.Title)
	assert.Equal(t, "en", l.Language)
	assert.Equal(t, 90*time.Second, l.EstimatedTime)
	assert.Equal(t, "abc def", l.Text)
}

func TestLoadFileRejectsEmptyText(t *testing.T) {
	dir := t.TempDir()
	path := writeLesson(t, dir, "empty.toml", `title = "Empty"`)
	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFileDefaultsTitleToName(t *testing.T) {
	dir := t.TempDir()
	path := writeLesson(t, dir, "untitled.toml", `text = "xyz"`)
	l, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "untitled", l.Title)
}

func TestLoadAllIncludesBuiltins(t *testing.T) {
	lessons, problems := LoadAll("")
	assert.Empty(t, problems)
	require.NotEmpty(t, lessons)
	names := make(map[string]bool, len(lessons))
	for _, l := range lessons {
		names[l.Name] = true
	}
	assert.True(t, names["home-row"], "built-in home-row lesson missing")
}

func TestLoadAllUserOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "home-row.toml", `
title = "My Home Row"
text = "ff jj"
`)
	lessons, problems := LoadAll(dir)
	assert.Empty(t, problems)
	for _, l := range lessons {
		if l.Name == "home-row" {
			assert.Equal(t, "My Home Row", l.Title)
			return
		}
	}
	t.Fatal("home-row lesson not found")
}

func TestLoadAllCollectsProblems(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "broken.toml", `title = `)
	writeLesson(t, dir, "good.toml", `text = "ok"`)
	lessons, problems := LoadAll(dir)
	assert.Len(t, problems, 1)
	names := make(map[string]bool, len(lessons))
	for _, l := range lessons {
		names[l.Name] = true
	}
	assert.True(t, names["good"])
	assert.False(t, names["broken"])
}

func TestLoadAllMissingDir(t *testing.T) {
	lessons, problems := LoadAll(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, problems)
	assert.NotEmpty(t, lessons)
}

func TestFilter(t *testing.T) {
	lessons := []Lesson{
		{Name: "a", Language: "en"},
		{Name: "b", Language: "de"},
		{Name: "c", Language: ""},
	}
	assert.Len(t, Filter(lessons, "en", ""), 2) // "c" has no language tag
	assert.Len(t, Filter(lessons, "", "b"), 1)
	assert.Empty(t, Filter(lessons, "en", "b"))
}

func TestWatchSignalsChange(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan struct{}, 1)
	w, err := Watch(dir, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, w.Close())
	}()

	writeLesson(t, dir, "new.toml", `text = "abc"`)
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not signal change")
	}
}
