// Package textgen builds target texts for the typing trial.
package textgen

import (
	"math/rand"
	"strings"
	"unicode"
)

// Passages are the built-in typing targets.
var Passages = []string{
	"The quick brown fox jumps over the lazy dog. This pangram contains every letter of the alphabet at least once. Typing practice helps improve speed and accuracy over time.",
	"Programming is the art of telling a computer what to do. Every line of code represents a small step toward solving a larger problem. Practice makes perfect in coding.",
	"Gaming requires quick reflexes and precise movements. Professional players train for hours each day to maintain their competitive edge in tournaments around the world.",
	"Technology advances rapidly, changing how we work and live. Staying updated with the latest developments is essential for success in the modern digital economy.",
	"Words flow like water through a river, carrying meaning from mind to mind. The art of communication shapes our understanding of the world around us.",
}

const punctSet = ".,!?;:"

// Options controls word-list text.
type Options struct {
	Words    int
	CapsPct  float64
	PunctPct float64
}

// Generator picks typing targets.
type Generator struct {
	rnd   *rand.Rand
	words []string
	opts  Options
}

// New returns a Generator that picks from Passages.
func New(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// NewFromWords returns a Generator that builds text from words.
func NewFromWords(rnd *rand.Rand, words []string, opts Options) *Generator {
	return &Generator{rnd: rnd, words: words, opts: opts}
}

// Next returns a new target text.
func (g *Generator) Next() string {
	if len(g.words) == 0 || g.opts.Words <= 0 {
		return Passages[g.rnd.Intn(len(Passages))]
	}
	out := make([]string, 0, g.opts.Words)
	for i := 0; i < g.opts.Words; i++ {
		word := g.words[g.rnd.Intn(len(g.words))]
		word = g.capitalize(word)
		word = g.punctuate(word)
		out = append(out, word)
	}
	return strings.Join(out, " ")
}

func (g *Generator) capitalize(word string) string {
	if g.opts.CapsPct <= 0 || g.rnd.Float64() > g.opts.CapsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func (g *Generator) punctuate(word string) string {
	if g.opts.PunctPct <= 0 || g.rnd.Float64() > g.opts.PunctPct {
		return word
	}
	return word + string(punctSet[g.rnd.Intn(len(punctSet))])
}
