package textgen

import (
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextPicksPassage(t *testing.T) {
	g := New(rand.New(rand.NewSource(1)))
	for i := 0; i < 20; i++ {
		require.True(t, slices.Contains(Passages, g.Next()))
	}
}

func TestNextFromWords(t *testing.T) {
	words := []string{"alpha", "beta", "gamma"}
	g := NewFromWords(rand.New(rand.NewSource(3)), words, Options{Words: 12})

	text := g.Next()
	fields := strings.Fields(text)
	require.Len(t, fields, 12)
	for _, f := range fields {
		require.True(t, slices.Contains(words, f), "unexpected word %q", f)
	}
}

func TestNextAlwaysCapsAndPunct(t *testing.T) {
	g := NewFromWords(rand.New(rand.NewSource(5)), []string{"word"}, Options{Words: 5, CapsPct: 1, PunctPct: 1})
	for _, f := range strings.Fields(g.Next()) {
		require.True(t, strings.HasPrefix(f, "Word"))
		require.Len(t, f, 5)
		require.Contains(t, punctSet, f[4:])
	}
}
