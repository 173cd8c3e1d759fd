package generator

import (
	"strings"
	"testing"
)

func TestDrillWordCount(t *testing.T) {
	g := NewSeeded(1)
	drill := g.Drill([]string{"cat", "dog", "bird"}, 12, nil, 0)
	words := strings.Fields(drill)
	if len(words) != 12 {
		t.Fatalf("expected 12 words, got %d", len(words))
	}
	allowed := map[string]bool{"cat": true, "dog": true, "bird": true}
	for _, w := range words {
		if !allowed[w] {
			t.Fatalf("unexpected word %q in drill", w)
		}
	}
}

func TestDrillEmptyInputs(t *testing.T) {
	g := NewSeeded(1)
	if got := g.Drill(nil, 5, nil, 0); got != "" {
		t.Fatalf("expected empty drill for no words, got %q", got)
	}
	if got := g.Drill([]string{"a"}, 0, nil, 0); got != "" {
		t.Fatalf("expected empty drill for zero count, got %q", got)
	}
}

func TestWeightFor(t *testing.T) {
	weak := map[rune]struct{}{'z': {}, 'q': {}}
	tests := []struct {
		word string
		want float64
	}{
		{"cat", 1.0},
		{"zag", 3.0},
		{"quiz", 5.0}, // two weak hits: q and z
	}
	for _, tt := range tests {
		if got := weightFor(tt.word, weak, 2.0); got != tt.want {
			t.Fatalf("weightFor(%q): expected %v, got %v", tt.word, tt.want, got)
		}
	}
}

func TestDrillBiasFavorsWeakWords(t *testing.T) {
	g := NewSeeded(42)
	weak := map[rune]struct{}{'z': {}}
	drill := g.Drill([]string{"aa", "bb", "cc", "dd", "zz"}, 100, weak, 50)
	hits := 0
	for _, w := range strings.Fields(drill) {
		if w == "zz" {
			hits++
		}
	}
	// zz carries weight 101 against 1 each for the rest, so it should
	// dominate the sample.
	if hits < 50 {
		t.Fatalf("expected weak word to dominate drill, got %d of 100", hits)
	}
}
