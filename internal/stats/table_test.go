package stats

import (
	"strings"
	"testing"
)

func TestFormatTableAlignment(t *testing.T) {
	lines := formatTable(
		[]string{"Key", "Count"},
		[][]string{
			{"a", "10"},
			{"longer", "3"},
		},
		map[int]bool{1: true},
	)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "a      ") {
		t.Fatalf("expected left-aligned padded key, got %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "    3") {
		t.Fatalf("expected right-aligned count, got %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable(
		[]string{"Key", "N"},
		[][]string{
			{"漢", "1"},
			{"ab", "2"},
		},
		nil,
	)
	// The wide rune occupies two display cells, so both key cells pad to
	// the same display width.
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "漢  1") {
		t.Fatalf("expected wide rune padded to two cells, got %q", lines[1])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil for empty table, got %v", lines)
	}
}
