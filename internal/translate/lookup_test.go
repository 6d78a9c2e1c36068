package translate

import (
	"slices"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unilang/internal/dataset"
	"unilang/internal/domain"
)

func testTable() *dataset.Table {
	return dataset.NewTable([]dataset.Entry{
		{SourceText: "Break the ice", Target: "Spanish", Translation: "Romper el hielo"},
		{SourceText: "Break the ice", Target: "French", Translation: "Briser la glace"},
		{SourceText: "Piece of cake", Target: "Spanish", Translation: "Pan comido"},
		{SourceText: "piece of CAKE", Target: "Spanish", Translation: "Duplicate row"},
	})
}

func newTestLookup(t *testing.T, cacheSize int64) *Lookup {
	t.Helper()

	l, err := New(testTable(), gofakeit.New(7), Options{FallbackCacheSize: cacheSize})
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

func TestResolve_KnownPairs(t *testing.T) {
	l := newTestLookup(t, 0)

	tests := []struct {
		input  string
		target string
		want   string
	}{
		{"Break the ice", "Spanish", "Romper el hielo"},
		{"BREAK THE ICE", "spanish", "Romper el hielo"},
		{"  break the ice ", "French", "Briser la glace"},
		{"Piece of cake", "Spanish", "Pan comido"},
	}

	for _, tt := range tests {
		t.Run(tt.input+"/"+tt.target, func(t *testing.T) {
			res := l.ResolveResult(tt.input, tt.target)
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, domain.OutcomeResolved, res.Outcome)
		})
	}
}

func TestResolve_FallbackIsPerWordPermutation(t *testing.T) {
	l := newTestLookup(t, 0)

	inputs := []struct {
		input  string
		target string
	}{
		{"xyzzy not in dataset", "Spanish"},
		{"Break the ice", "Korean"}, // target absent from dataset
		{"Piece of cake", "French"}, // row exists, no value for target
		{"élan  vital", "Spanish"},
	}

	for _, in := range inputs {
		t.Run(in.input, func(t *testing.T) {
			res := l.ResolveResult(in.input, in.target)
			assert.Equal(t, domain.OutcomeFallback, res.Outcome)
			assertPermutationPerWord(t, in.input, res.Text)
		})
	}
}

func TestResolve_FallbackKeepsWhitespace(t *testing.T) {
	l := newTestLookup(t, 0)

	got := l.Resolve("ab  cd\tef", "Spanish")
	assert.Equal(t, byte(' '), got[2])
	assert.Equal(t, byte(' '), got[3])
	assert.Equal(t, byte('\t'), got[6])
}

func TestResolve_EmptyInput(t *testing.T) {
	l := newTestLookup(t, 0)
	assert.Equal(t, "", l.Resolve("", "Spanish"))
}

func TestResolve_FallbackMemoized(t *testing.T) {
	l := newTestLookup(t, 100)

	first := l.Resolve("the quick brown fox jumps", "Spanish")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, l.Resolve("the quick brown fox jumps", "spanish"))
	}
}

func TestResolve_SeededFallbackIsReproducible(t *testing.T) {
	a, err := New(testTable(), gofakeit.New(99), Options{})
	require.NoError(t, err)
	b, err := New(testTable(), gofakeit.New(99), Options{})
	require.NoError(t, err)

	assert.Equal(t, a.Resolve("xyzzy not in dataset", "Spanish"), b.Resolve("xyzzy not in dataset", "Spanish"))
}

func TestTargets(t *testing.T) {
	l := newTestLookup(t, 0)
	assert.Equal(t, []string{"Spanish", "French"}, l.Targets())
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"english sentence", "Why don't eggs tell jokes? They'd crack each other up.", "English"},
		{"english idiom", "Break the ice", "English"},
		{"too short to be reliable", "Piece of cake", ""},
		{"unreliable idiom", "It's raining cats and dogs", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text))
		})
	}
}

func assertPermutationPerWord(t *testing.T, input, got string) {
	t.Helper()

	in, out := strings.Fields(input), strings.Fields(got)
	require.Len(t, out, len(in))
	for i := range in {
		a, b := []rune(in[i]), []rune(out[i])
		slices.Sort(a)
		slices.Sort(b)
		assert.Equal(t, string(a), string(b), "word %d", i)
	}
}
