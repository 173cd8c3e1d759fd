// Package lesson loads practice lessons from TOML files.
package lesson

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

// Lesson is one practice text with its metadata.
type Lesson struct {
	Name          string
	Title         string
	Language      string
	Difficulty    string
	Tags          []string
	EstimatedTime time.Duration
	Text          string
}

type lessonFile struct {
	Title            string   `toml:"title"`
	Language         string   `toml:"language"`
	Difficulty       string   `toml:"difficulty"`
	Tags             []string `toml:"tags"`
	EstimatedMinutes float64  `toml:"estimated-minutes"`
	Text             string   `toml:"text"`
}

// LoadFile parses a single lesson file.
func LoadFile(path string) (Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lesson{}, fmt.Errorf("failed to read lesson: %w", err)
	}
	return parse(lessonName(path), data)
}

func parse(name string, data []byte) (Lesson, error) {
	var lf lessonFile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return Lesson{}, fmt.Errorf("failed to decode lesson %s: %w", name, err)
	}
	text := strings.TrimRight(lf.Text, "\n")
	if text == "" {
		return Lesson{}, fmt.Errorf("lesson %s has no text", name)
	}
	title := lf.Title
	if title == "" {
		title = name
	}
	return Lesson{
		Name:          name,
		Title:         title,
		Language:      lf.Language,
		Difficulty:    lf.Difficulty,
		Tags:          lf.Tags,
		EstimatedTime: time.Duration(lf.EstimatedMinutes * float64(time.Minute)),
		Text:          text,
	}, nil
}

func lessonName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// LoadAll returns the built-in lessons overlaid by user lessons from dir.
// A user lesson with the same name replaces the built-in one. Unparseable
// files are collected as problems, not fatal errors; a missing dir is fine.
func LoadAll(dir string) ([]Lesson, []error) {
	byName := map[string]Lesson{}
	var problems []error

	entries, err := fs.Glob(builtinFS, "builtin/*.toml")
	if err == nil {
		for _, entry := range entries {
			data, rerr := builtinFS.ReadFile(entry)
			if rerr != nil {
				continue
			}
			l, perr := parse(lessonName(entry), data)
			if perr != nil {
				problems = append(problems, perr)
				continue
			}
			byName[l.Name] = l
		}
	}

	if dir != "" {
		walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".toml") {
				return nil
			}
			l, perr := LoadFile(path)
			if perr != nil {
				problems = append(problems, perr)
				return nil
			}
			byName[l.Name] = l
			return nil
		})
		if walkErr != nil && !os.IsNotExist(walkErr) {
			problems = append(problems, fmt.Errorf("failed to scan lesson dir: %w", walkErr))
		}
	}

	lessons := make([]Lesson, 0, len(byName))
	for _, l := range byName {
		lessons = append(lessons, l)
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Name < lessons[j].Name })
	return lessons, problems
}

// Filter keeps lessons matching the language and, when name is non-empty,
// the exact lesson name.
func Filter(lessons []Lesson, lang, name string) []Lesson {
	out := make([]Lesson, 0, len(lessons))
	for _, l := range lessons {
		if lang != "" && l.Language != "" && l.Language != lang {
			continue
		}
		if name != "" && l.Name != name {
			continue
		}
		out = append(out, l)
	}
	return out
}
