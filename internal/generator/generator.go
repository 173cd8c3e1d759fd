// Package generator builds remedial drill text.
package generator

import (
	"math/rand"
	"strings"
	"time"
)

// Generator produces randomized drill text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Drill builds a space-joined drill of count words. Words containing weak
// keys are picked proportionally more often, scaled by bias per weak rune.
func (g *Generator) Drill(words []string, count int, weakSet map[rune]struct{}, bias float64) string {
	if len(words) == 0 || count <= 0 {
		return ""
	}
	if len(weakSet) == 0 || bias <= 0 {
		return strings.Join(g.pickUniform(words, count), " ")
	}

	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		w := weightFor(word, weakSet, bias)
		weights[i] = w
		total += w
	}

	picked := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(words) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		picked = append(picked, words[idx])
	}
	return strings.Join(picked, " ")
}

func (g *Generator) pickUniform(words []string, count int) []string {
	picked := make([]string, 0, count)
	for i := 0; i < count; i++ {
		picked = append(picked, words[g.rnd.Intn(len(words))])
	}
	return picked
}

func weightFor(word string, weakSet map[rune]struct{}, bias float64) float64 {
	weakCount := 0
	for _, r := range word {
		if _, ok := weakSet[r]; ok {
			weakCount++
		}
	}
	return 1.0 + float64(weakCount)*bias
}
